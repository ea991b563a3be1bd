package container

import (
	"fmt"
	"math"
	"math/bits"
	"slices"

	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/section"
)

// Geometry is the shape requested for a new or reused container.
type Geometry struct {
	ElementType format.ElementType
	Dims        []uint32
	Order       format.StorageOrder
}

// Volume returns the geometry of a dimX × dimY × dimZ container.
func Volume(et format.ElementType, dimX, dimY, dimZ uint32, order format.StorageOrder) Geometry {
	return Geometry{ElementType: et, Dims: []uint32{dimX, dimY, dimZ}, Order: order}
}

// Validate reports errs.ErrInvalidGeometry for a dimension count outside
// [1,16], a zero extent, an unknown storage order or more elements than a
// file can address, and errs.ErrUnsupportedType for an unknown element type.
func (g Geometry) Validate() error {
	if _, err := section.NewExtendedHeader(g.ElementType, g.Dims, g.Order); err != nil {
		return err
	}
	if !fits(g.ElementCount(), g.ElementType.ByteSize()) {
		return fmt.Errorf("%w: %v holds too many %s elements", errs.ErrInvalidGeometry, g.Dims, g.ElementType)
	}

	return nil
}

// FrameSize returns the number of elements in one frame.
func (g Geometry) FrameSize() uint64 {
	frame, _, _ := counts(g.Dims)
	return frame
}

// FrameCount returns the number of frames, or 0 when it overflows.
func (g Geometry) FrameCount() uint64 {
	_, frames, _ := counts(g.Dims)
	return frames
}

// ElementCount returns the total number of elements, or math.MaxUint64 when it overflows.
func (g Geometry) ElementCount() uint64 {
	frame, frames, ok := counts(g.Dims)
	if !ok {
		return math.MaxUint64
	}

	return frame * frames
}

// Equal reports whether g and o describe the same container layout.
func (g Geometry) Equal(o Geometry) bool {
	return g.ElementType == o.ElementType && g.Order == o.Order && slices.Equal(g.Dims, o.Dims)
}

func (g Geometry) String() string {
	return fmt.Sprintf("%s %v %s", g.ElementType, g.Dims, g.Order)
}

// maxDataBytes bounds the data region so that every byte offset fits an int64.
const maxDataBytes = uint64(1) << 62

// counts returns the elements per frame and the frame count of dims.
// ok is false when the total element count does not fit in 64 bits.
func counts(dims []uint32) (frame, frames uint64, ok bool) {
	switch len(dims) {
	case 0:
		return 0, 0, true
	case 1:
		frame = uint64(dims[0])
	default:
		frame = uint64(dims[0]) * uint64(dims[1])
	}

	frames = 1
	for _, d := range dims[min(2, len(dims)):] {
		hi, lo := bits.Mul64(frames, uint64(d))
		if hi != 0 {
			return frame, 0, false
		}
		frames = lo
	}

	hi, _ := bits.Mul64(frame, frames)

	return frame, frames, hi == 0
}

// fits reports whether elements of elemSize bytes stay within maxDataBytes.
func fits(elements uint64, elemSize int) bool {
	return elements <= maxDataBytes/uint64(max(elemSize, 1))
}
