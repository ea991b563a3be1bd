package rawio

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/denio/errs"
)

// Handle is a long-lived open file that tracks its own offset.
//
// ReadExact and WriteExact seek only when the requested offset differs from
// the current one, so consecutive frames are transferred without seeking.
// A Handle is not safe for concurrent use.
type Handle struct {
	f     *os.File
	name  string
	pos   int64
	seeks int
}

// OpenHandle opens an existing file for reading, or for reading and writing when writable is true.
func OpenHandle(path string, writable bool) (*Handle, error) {
	flags := os.O_RDONLY
	if writable {
		flags = os.O_RDWR
	}

	f, err := os.OpenFile(path, flags, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", errs.ErrIO, path, err)
	}

	return &Handle{f: f, name: path}, nil
}

// Name returns the path the handle was opened with.
func (h *Handle) Name() string { return h.name }

// Position returns the current file offset, or -1 after a failed transfer.
func (h *Handle) Position() int64 { return h.pos }

// Seeks returns the number of seeks issued so far.
func (h *Handle) Seeks() int { return h.seeks }

func (h *Handle) seek(off int64) error {
	if h.pos == off {
		return nil
	}

	if _, err := h.f.Seek(off, io.SeekStart); err != nil {
		h.pos = -1
		return fmt.Errorf("%w: seek %s to %d: %w", errs.ErrIO, h.name, off, err)
	}
	h.seeks++
	h.pos = off

	return nil
}

// ReadExact fills p from offset off.
func (h *Handle) ReadExact(off int64, p []byte) error {
	if err := h.seek(off); err != nil {
		return err
	}

	n, err := io.ReadFull(h.f, p)
	if err != nil {
		h.pos = -1
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}

		return fmt.Errorf("%w: read %d of %d bytes at offset %d of %s: %w", errs.ErrIO, n, len(p), off, h.name, err)
	}
	h.pos += int64(n)

	return nil
}

// WriteExact writes all of p at offset off.
func (h *Handle) WriteExact(off int64, p []byte) error {
	if err := h.seek(off); err != nil {
		return err
	}

	n, err := h.f.Write(p)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		h.pos = -1
		return fmt.Errorf("%w: write %d of %d bytes at offset %d of %s: %w", errs.ErrIO, n, len(p), off, h.name, err)
	}
	h.pos += int64(n)

	return nil
}

// Sync commits written data to stable storage.
func (h *Handle) Sync() error {
	if err := h.f.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", errs.ErrIO, h.name, err)
	}

	return nil
}

// AdviseSequential hints that the file will be read front to back.
//
// It is a no-op where the platform has no such hint.
func (h *Handle) AdviseSequential() error {
	if err := adviseSequential(h.f); err != nil {
		return fmt.Errorf("%w: advise %s: %w", errs.ErrIO, h.name, err)
	}

	return nil
}

// Close closes the underlying file.
func (h *Handle) Close() error {
	if err := h.f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", errs.ErrIO, h.name, err)
	}

	return nil
}
