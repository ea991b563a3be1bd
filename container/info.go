// Package container parses, validates and creates denio container files.
//
// A container starts with either a 6-byte Legacy header or a 4096-byte
// Extended header (see package section) and is followed by FrameCount frames
// of FrameSize elements each.
//
// Parse reads a header into an Info. In strict mode every inconsistency is an
// error; otherwise Parse returns a best-effort Info whose Valid field is false.
// Create and CreateLegacy write fresh containers, and OpenOrCreate applies the
// reuse rule shared by writers: a valid file with identical geometry is kept,
// anything else is recreated.
package container

import (
	"fmt"

	"github.com/arloliu/denio/format"
)

// Info describes one container file. It is immutable once returned.
type Info struct {
	Path         string
	Kind         format.HeaderKind
	HeaderSize   int64
	ElementType  format.ElementType
	ElementSize  int
	DimCount     int
	Dims         []uint32
	Order        format.StorageOrder
	FrameSize    uint64 // elements per frame
	FrameCount   uint64
	ElementCount uint64
	FileSize     int64
	// Valid holds iff FileSize-HeaderSize == ElementCount*ElementSize and the header is consistent.
	Valid bool
}

// Dim returns extent n, or 0 when the container has fewer dimensions.
func (i *Info) Dim(n int) uint32 {
	if n < 0 || n >= len(i.Dims) {
		return 0
	}

	return i.Dims[n]
}

// DimX returns the frame width.
func (i *Info) DimX() int {
	return int(i.Dim(0))
}

// DimY returns the frame height; one-dimensional containers have a height of 1.
func (i *Info) DimY() int {
	if i.DimCount == 1 {
		return 1
	}

	return int(i.Dim(1))
}

// FrameByteSize returns the byte size of one frame.
func (i *Info) FrameByteSize() int64 {
	return int64(i.FrameSize) * int64(i.ElementSize)
}

// FrameOffset returns the file offset of frame index.
func (i *Info) FrameOffset(index int) int64 {
	return i.HeaderSize + int64(index)*i.FrameByteSize()
}

// DataSize returns the expected byte size of the data region.
func (i *Info) DataSize() int64 {
	return int64(i.ElementCount) * int64(i.ElementSize)
}

// Geometry returns the layout described by the header.
func (i *Info) Geometry() Geometry {
	return Geometry{
		ElementType: i.ElementType,
		Dims:        append([]uint32(nil), i.Dims...),
		Order:       i.Order,
	}
}

func (i *Info) String() string {
	return fmt.Sprintf("%s: %s header, %s %v %s, %d frames of %d elements, valid=%t",
		i.Path, i.Kind, i.ElementType, i.Dims, i.Order, i.FrameCount, i.FrameSize, i.Valid)
}

// derive fills the counts from Dims. It reports false, leaving the counts
// zero, when the element count overflows or the data region of ElementSize
// elements would not be addressable.
func (i *Info) derive() bool {
	i.DimCount = len(i.Dims)
	frame, frames, ok := counts(i.Dims)
	if !ok || !fits(frame*frames, i.ElementSize) {
		i.FrameSize, i.FrameCount, i.ElementCount = 0, 0, 0
		return false
	}
	i.FrameSize = frame
	i.FrameCount = frames
	i.ElementCount = frame * frames

	return true
}
