// Package archive packs a container into a compressed, checksummed stream and back.
//
// An archive is a prelude followed by one record per frame, in index order:
//
//	offset  size  field
//	0       4     magic "DNAR"
//	4       2     format version (1)
//	6       1     compression id (format.CompressionType)
//	7       1     header kind of the source container (format.HeaderKind)
//	8       8     frame count
//	16      4096  Extended header describing the source geometry
//
//	record: u32 payload length, u64 xxhash64 of the raw frame, payload
//
// All integers are little-endian. A payload whose length equals the raw frame
// size is stored verbatim; every other payload is a compressed block.
package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/denio/endian"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/section"
)

const (
	// Magic opens every archive.
	Magic = "DNAR"
	// Version is the archive format version written by Pack.
	Version uint16 = 1

	preludeSize = 16 + section.ExtendedHeaderSize
	recordHead  = 12
)

var wire = endian.Wire()

type prelude struct {
	compression format.CompressionType
	kind        format.HeaderKind
	frameCount  uint64
	header      section.ExtendedHeader
}

func (p prelude) bytes() []byte {
	b := make([]byte, 0, preludeSize)
	b = append(b, Magic...)
	b = wire.AppendUint16(b, Version)
	b = append(b, byte(p.compression), byte(p.kind))
	b = wire.AppendUint64(b, p.frameCount)

	return append(b, p.header.Bytes()...)
}

func readPrelude(r io.Reader) (prelude, error) {
	buf := make([]byte, preludeSize)
	if err := readFull(r, buf, "prelude"); err != nil {
		return prelude{}, err
	}

	if string(buf[:4]) != Magic {
		return prelude{}, fmt.Errorf("%w: bad magic %q", errs.ErrInvalidArchive, buf[:4])
	}
	if v := wire.Uint16(buf[4:]); v != Version {
		return prelude{}, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidArchive, v)
	}

	p := prelude{
		compression: format.CompressionType(buf[6]),
		kind:        format.HeaderKind(buf[7]),
		frameCount:  wire.Uint64(buf[8:]),
	}
	if p.kind != format.HeaderLegacy && p.kind != format.HeaderExtended {
		return prelude{}, fmt.Errorf("%w: header kind %d", errs.ErrInvalidArchive, buf[7])
	}
	if err := p.header.Parse(buf[16:]); err != nil {
		return prelude{}, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}
	if err := p.header.Validate(); err != nil {
		return prelude{}, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}

	return p, nil
}

// readFull maps a truncated stream to errs.ErrInvalidArchive and other failures to errs.ErrIO.
func readFull(r io.Reader, p []byte, what string) error {
	if _, err := io.ReadFull(r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: truncated %s", errs.ErrInvalidArchive, what)
		}

		return fmt.Errorf("%w: read %s: %w", errs.ErrIO, what, err)
	}

	return nil
}
