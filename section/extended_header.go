package section

import (
	"fmt"

	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
)

// ExtendedHeader is the 4096-byte self-describing header.
type ExtendedHeader struct {
	// DimCount is the number of dimensions, 1..16.
	DimCount uint16 // byte offset 2-3
	// ElementSize is the byte size of one element.
	ElementSize uint16 // byte offset 4-5
	// Order is the raw storage order flag, 0 for X-major and 1 for Y-major.
	Order uint16 // byte offset 6-7
	// TypeID is the raw element type id, see format.ElementType.
	TypeID uint16 // byte offset 8-9
	// Dims holds DimCount extents.
	Dims []uint32 // byte offset 10..
}

// NewExtendedHeader builds a header for the given geometry.
//
// It fails with errs.ErrInvalidGeometry when the dimension count is outside
// [1,16] or an extent is zero, and with errs.ErrUnsupportedType for unknown
// element types.
func NewExtendedHeader(et format.ElementType, dims []uint32, order format.StorageOrder) (ExtendedHeader, error) {
	if len(dims) < 1 || len(dims) > MaxDims {
		return ExtendedHeader{}, fmt.Errorf("%w: dimension count %d outside [1,%d]", errs.ErrInvalidGeometry, len(dims), MaxDims)
	}
	for i, d := range dims {
		if d == 0 {
			return ExtendedHeader{}, fmt.Errorf("%w: extent %d is zero", errs.ErrInvalidGeometry, i)
		}
	}
	if !et.Valid() {
		return ExtendedHeader{}, fmt.Errorf("%w: type id %d", errs.ErrUnsupportedType, uint16(et))
	}
	if !order.Valid() {
		return ExtendedHeader{}, fmt.Errorf("%w: storage order %d", errs.ErrInvalidGeometry, uint16(order))
	}

	return ExtendedHeader{
		DimCount:    uint16(len(dims)),
		ElementSize: uint16(et.ByteSize()),
		Order:       uint16(order),
		TypeID:      uint16(et),
		Dims:        append([]uint32(nil), dims...),
	}, nil
}

// Parse decodes the header from the first 4096 bytes of data.
//
// Only undecodable layouts are rejected here: a short buffer or a non-zero
// magic (errs.ErrInvalidContainer) and a dimension count above 16
// (errs.ErrInvalidGeometry). Use Validate for the remaining consistency rules.
func (h *ExtendedHeader) Parse(data []byte) error {
	if len(data) < ExtendedHeaderSize {
		return fmt.Errorf("%w: extended header needs %d bytes, got %d", errs.ErrInvalidContainer, ExtendedHeaderSize, len(data))
	}
	if magic := engine.Uint16(data[MagicOffset:]); magic != ExtendedMagic {
		return fmt.Errorf("%w: extended header magic %d", errs.ErrInvalidContainer, magic)
	}

	h.DimCount = engine.Uint16(data[DimCountOffset:])
	h.ElementSize = engine.Uint16(data[ElementSizeOffset:])
	h.Order = engine.Uint16(data[OrderOffset:])
	h.TypeID = engine.Uint16(data[TypeIDOffset:])

	if h.DimCount > MaxDims {
		h.Dims = nil
		return fmt.Errorf("%w: dimension count %d exceeds %d", errs.ErrInvalidGeometry, h.DimCount, MaxDims)
	}

	h.Dims = make([]uint32, h.DimCount)
	for i := range h.Dims {
		h.Dims[i] = engine.Uint32(data[DimsOffset+i*DimSize:])
	}

	return nil
}

// Validate checks the header fields against each other.
func (h ExtendedHeader) Validate() error {
	if h.DimCount < 1 || h.DimCount > MaxDims {
		return fmt.Errorf("%w: dimension count %d outside [1,%d]", errs.ErrInvalidGeometry, h.DimCount, MaxDims)
	}
	if int(h.DimCount) != len(h.Dims) {
		return fmt.Errorf("%w: dimension count %d with %d extents", errs.ErrInvalidContainer, h.DimCount, len(h.Dims))
	}

	et := h.ElementType()
	if !et.Valid() {
		return fmt.Errorf("%w: unknown element type id %d", errs.ErrInvalidContainer, h.TypeID)
	}
	if int(h.ElementSize) != et.ByteSize() {
		return fmt.Errorf("%w: element size %d does not match %s", errs.ErrInvalidContainer, h.ElementSize, et)
	}
	if !format.StorageOrder(h.Order).Valid() {
		return fmt.Errorf("%w: storage order flag %d", errs.ErrInvalidContainer, h.Order)
	}

	return nil
}

// ElementType returns the element type named by TypeID, or format.TypeUnknown.
func (h ExtendedHeader) ElementType() format.ElementType {
	et := format.ElementType(h.TypeID)
	if !et.Valid() {
		return format.TypeUnknown
	}

	return et
}

// StorageOrder returns the storage order named by Order.
func (h ExtendedHeader) StorageOrder() format.StorageOrder {
	return format.StorageOrder(h.Order)
}

// Bytes serializes the header, zero padded to 4096 bytes.
func (h ExtendedHeader) Bytes() []byte {
	b := make([]byte, ExtendedHeaderSize)
	engine.PutUint16(b[MagicOffset:], ExtendedMagic)
	engine.PutUint16(b[DimCountOffset:], h.DimCount)
	engine.PutUint16(b[ElementSizeOffset:], h.ElementSize)
	engine.PutUint16(b[OrderOffset:], h.Order)
	engine.PutUint16(b[TypeIDOffset:], h.TypeID)

	for i, d := range h.Dims {
		if i >= MaxDims {
			break
		}
		engine.PutUint32(b[DimsOffset+i*DimSize:], d)
	}

	return b
}
