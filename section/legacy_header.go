package section

import (
	"fmt"

	"github.com/arloliu/denio/endian"
	"github.com/arloliu/denio/errs"
)

var engine = endian.Wire()

// LegacyHeader is the 6-byte three-dimensional header.
type LegacyHeader struct {
	Rows   uint16 // byte offset 0-1, extent of y
	Cols   uint16 // byte offset 2-3, extent of x
	Slices uint16 // byte offset 4-5, frame count
}

// NewLegacyHeader creates a legacy header for a dimX × dimY × dimZ volume.
func NewLegacyHeader(dimX, dimY, dimZ uint16) LegacyHeader {
	return LegacyHeader{Rows: dimY, Cols: dimX, Slices: dimZ}
}

// Parse decodes the header from the first 6 bytes of data.
func (h *LegacyHeader) Parse(data []byte) error {
	if len(data) < LegacyHeaderSize {
		return fmt.Errorf("%w: legacy header needs %d bytes, got %d", errs.ErrInvalidContainer, LegacyHeaderSize, len(data))
	}

	h.Rows = engine.Uint16(data[RowsOffset:])
	h.Cols = engine.Uint16(data[ColsOffset:])
	h.Slices = engine.Uint16(data[SlicesOffset:])

	return nil
}

// Bytes serializes the header.
func (h LegacyHeader) Bytes() []byte {
	b := make([]byte, LegacyHeaderSize)
	engine.PutUint16(b[RowsOffset:], h.Rows)
	engine.PutUint16(b[ColsOffset:], h.Cols)
	engine.PutUint16(b[SlicesOffset:], h.Slices)

	return b
}

// Dims returns the extents in container order: x, y, z.
func (h LegacyHeader) Dims() []uint32 {
	return []uint32{uint32(h.Cols), uint32(h.Rows), uint32(h.Slices)}
}

// ElementCount returns rows*cols*slices.
func (h LegacyHeader) ElementCount() uint64 {
	return uint64(h.Rows) * uint64(h.Cols) * uint64(h.Slices)
}
