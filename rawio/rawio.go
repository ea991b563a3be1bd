// Package rawio performs exact positioned reads and writes on container files.
//
// Every transfer either moves exactly the requested number of bytes or fails
// with an error wrapping errs.ErrIO together with the underlying cause. Short
// reads are reported as io.ErrUnexpectedEOF.
//
// Path based helpers open and close the file on every call. Handle keeps one
// file open and remembers its offset so sequential transfers do not seek.
package rawio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/arloliu/denio/errs"
)

// FileMode is the permission used for files created by this package.
const FileMode fs.FileMode = 0o644

// ReadExact reads n bytes at offset off of the named file.
func ReadExact(path string, off int64, n int) ([]byte, error) {
	p := make([]byte, n)
	if err := ReadExactInto(path, off, p); err != nil {
		return nil, err
	}

	return p, nil
}

// ReadExactInto fills p from offset off of the named file.
func ReadExactInto(path string, off int64, p []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", errs.ErrIO, path, err)
	}
	defer f.Close()

	return ReadAt(f, off, p)
}

// WriteExact writes p at offset off of an existing file.
func WriteExact(path string, off int64, p []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", errs.ErrIO, path, err)
	}

	if err := WriteAt(f, off, p); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", errs.ErrIO, path, err)
	}

	return nil
}

// Append writes p to the end of the named file, creating it when missing.
func Append(path string, p []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, FileMode)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", errs.ErrIO, path, err)
	}

	n, err := f.Write(p)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: append %d bytes to %s: %w", errs.ErrIO, len(p), path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", errs.ErrIO, path, err)
	}

	return nil
}

// CreateSized creates a file of exactly length bytes.
//
// An existing file is truncated and resized when overwrite is true, and
// reported as errs.ErrFileExists otherwise. The new content reads as zeros; on
// most file systems the region is sparse.
func CreateSized(path string, length int64, overwrite bool) error {
	if length < 0 {
		return fmt.Errorf("%w: negative length %d for %s", errs.ErrIO, length, path)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, FileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", errs.ErrFileExists, path)
		}

		return fmt.Errorf("%w: create %s: %w", errs.ErrIO, path, err)
	}

	if err := f.Truncate(length); err != nil {
		f.Close()
		return fmt.Errorf("%w: resize %s to %d bytes: %w", errs.ErrIO, path, length, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", errs.ErrIO, path, err)
	}

	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// Size returns the byte size of the named file.
func Size(path string) (int64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: stat %s: %w", errs.ErrIO, path, err)
	}

	return st.Size(), nil
}

// ReadAt fills p from r at offset off.
//
// It is safe for concurrent use when r is, which holds for *os.File.
func ReadAt(r io.ReaderAt, off int64, p []byte) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}

	return fmt.Errorf("%w: read %d of %d bytes at offset %d: %w", errs.ErrIO, n, len(p), off, err)
}

// WriteAt writes all of p to w at offset off.
func WriteAt(w io.WriterAt, off int64, p []byte) error {
	n, err := w.WriteAt(p, off)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("%w: write %d of %d bytes at offset %d: %w", errs.ErrIO, n, len(p), off, err)
	}

	return nil
}
