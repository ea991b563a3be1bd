// Package errs defines the sentinel errors returned by denio packages.
//
// Every error produced by the library wraps exactly one of these sentinels so
// callers can classify failures with errors.Is:
//
//	info, err := container.Parse(path, true)
//	if errors.Is(err, errs.ErrInvalidContainer) {
//	    // not a container, or header and file size disagree
//	}
//
// Errors raised by the operating system are wrapped alongside the sentinel,
// so errors.Is(err, fs.ErrNotExist) keeps working on I/O failures.
package errs

import "errors"

// Container and geometry errors.
var (
	// ErrInvalidContainer reports a malformed header or a header that disagrees with the file size.
	ErrInvalidContainer = errors.New("invalid container")
	// ErrInvalidGeometry reports a dimension count outside [1,16] or a non-positive extent.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrElementSizeMismatch reports a requested element type whose byte size differs from the file's.
	ErrElementSizeMismatch = errors.New("element size mismatch")
	// ErrUnsupportedType reports an element type or codec width outside the supported set.
	ErrUnsupportedType = errors.New("unsupported element type")
	// ErrFrameOutOfRange reports a frame index at or past the frame count.
	ErrFrameOutOfRange = errors.New("frame index out of range")
	// ErrFrameSizeMismatch reports a frame whose dimensions differ from the container's frame dimensions.
	ErrFrameSizeMismatch = errors.New("frame size mismatch")
)

// File errors.
var (
	// ErrIO reports open, seek, read or write failures, including short transfers.
	ErrIO = errors.New("i/o error")
	// ErrFileExists reports a destructive overwrite attempted without explicit permission.
	ErrFileExists = errors.New("file exists")
)

// Worker pool errors.
var (
	// ErrInvalidPoolState reports a worker reconfiguration attempted while the pool is running or busy.
	ErrInvalidPoolState = errors.New("invalid pool state")
	// ErrPoolStopped reports a submission after the pool was closed, or a task abandoned by Close.
	ErrPoolStopped = errors.New("pool stopped")
)

// ErrInvalidArgument reports a parameter outside its domain, such as a norm exponent below 1.
var ErrInvalidArgument = errors.New("invalid argument")

// Archive and digest errors.
var (
	ErrInvalidArchive       = errors.New("invalid archive")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)
