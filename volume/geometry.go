package volume

import (
	"fmt"

	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/frame"
)

// Geometry describes the frame layout of an open container.
type Geometry interface {
	DimX() int
	DimY() int
	FrameCount() int
	ElementType() format.ElementType
	Order() format.StorageOrder
	FileName() string
}

// FrameSource is anything frames can be read from.
type FrameSource[T codec.Element] interface {
	Geometry
	ReadFrame(index int) (*frame.Buffered[T], error)
}

// FrameSink is anything frames can be written to.
type FrameSink[T codec.Element] interface {
	Geometry
	WriteFrame(f frame.Frame[T], index int) error
}

// layout caches the frame geometry derived from a container header.
type layout struct {
	info       *container.Info
	dimX, dimY int
	frameCount int
	frameSize  int
	frameBytes int
}

func newLayout(info *container.Info) layout {
	return layout{
		info:       info,
		dimX:       info.DimX(),
		dimY:       info.DimY(),
		frameCount: int(info.FrameCount),
		frameSize:  int(info.FrameSize),
		frameBytes: int(info.FrameByteSize()),
	}
}

func (l *layout) DimX() int                       { return l.dimX }
func (l *layout) DimY() int                       { return l.dimY }
func (l *layout) FrameCount() int                 { return l.frameCount }
func (l *layout) ElementType() format.ElementType { return l.info.ElementType }
func (l *layout) Order() format.StorageOrder      { return l.info.Order }
func (l *layout) FileName() string                { return l.info.Path }

// Info returns the parsed container header.
func (l *layout) Info() *container.Info { return l.info }

func (l *layout) offset(index int) int64 {
	return l.info.FrameOffset(index)
}

func (l *layout) checkIndex(index int) error {
	if index < 0 || index >= l.frameCount {
		return fmt.Errorf("%w: frame %d of %d in %s", errs.ErrFrameOutOfRange, index, l.frameCount, l.info.Path)
	}

	return nil
}

func (l *layout) checkFrame(dimX, dimY int) error {
	if dimX != l.dimX || dimY != l.dimY {
		return fmt.Errorf("%w: %dx%d frame for %dx%d container %s", errs.ErrFrameSizeMismatch, dimX, dimY, l.dimX, l.dimY, l.info.Path)
	}

	return nil
}
