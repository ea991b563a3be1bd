package volume

import (
	"fmt"

	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/logging"
	"github.com/arloliu/denio/rawio"
	"golang.org/x/sync/errgroup"
)

// File is a whole container held in memory as one contiguous slice.
//
// Elements keep the storage order of the container: frame i occupies
// Data()[i*frameSize:(i+1)*frameSize] laid out X-major or Y-major as Order
// reports. GetFrame always returns the row-major frame.
type File[T codec.Element] struct {
	layout
	data   []T
	cfg    Config
	logger *logging.Logger
}

// LoadFile reads the container at path into memory.
//
// Frames are split into WithThreads contiguous chunks that are read and
// decoded concurrently; LoadFile returns once every chunk is done.
func LoadFile[T codec.Element](path string, opts ...Option) (*File[T], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	info, err := container.Parse(path, true)
	if err != nil {
		return nil, err
	}
	if !info.ElementType.Valid() {
		return nil, fmt.Errorf("%w: %s stores %s", errs.ErrUnsupportedType, path, info.ElementType)
	}

	f := &File[T]{
		layout: newLayout(info),
		data:   make([]T, info.ElementCount),
		cfg:    cfg,
		logger: cfg.Logger.WithFile(path),
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	f.logger.Debug("container loaded", "frames", f.frameCount, "chunks", len(f.chunks()))

	return f, nil
}

// NewFile creates an empty in-memory volume of element type T.
//
// dims follow the container convention: x, y, then the frame dimensions.
// The storage order defaults to X-major and is set with WithStorageOrder.
func NewFile[T codec.Element](dims []uint32, opts ...Option) (*File[T], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	g := container.Geometry{ElementType: codec.TypeOf[T](), Dims: dims, Order: cfg.Order}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	info := container.Describe("", g)

	return &File[T]{
		layout: newLayout(info),
		data:   make([]T, info.ElementCount),
		cfg:    cfg,
		logger: cfg.Logger,
	}, nil
}

type chunk struct{ from, to int }

func (f *File[T]) chunks() []chunk {
	if f.frameCount == 0 {
		return nil
	}

	threads := max(f.cfg.Threads, 1)
	size := (f.frameCount + threads - 1) / threads

	out := make([]chunk, 0, threads)
	for from := 0; from < f.frameCount; from += size {
		out = append(out, chunk{from: from, to: min(from+size, f.frameCount)})
	}

	return out
}

func (f *File[T]) load() error {
	limit := newThrottle(f.cfg.RateLimit, f.frameBytes)

	var g errgroup.Group
	for _, c := range f.chunks() {
		g.Go(func() error {
			h, err := rawio.OpenHandle(f.info.Path, false)
			if err != nil {
				return err
			}
			defer h.Close()

			if err := h.AdviseSequential(); err != nil {
				f.logger.Debug("sequential advice failed", "error", err)
			}

			buf := make([]byte, f.frameBytes)
			for i := c.from; i < c.to; i++ {
				if err := limit.wait(len(buf)); err != nil {
					return err
				}
				if err := h.ReadExact(f.offset(i), buf); err != nil {
					return err
				}
				if err := codec.Decode(f.FrameData(i), buf, f.info.ElementType); err != nil {
					return err
				}
			}

			return nil
		})
	}

	return g.Wait()
}

// GetFrame returns a copy of frame index as a row-major frame.
func (f *File[T]) GetFrame(index int) (*frame.Buffered[T], error) {
	if err := f.checkIndex(index); err != nil {
		return nil, err
	}

	src := f.FrameData(index)
	if f.info.Order == format.XMajor {
		return frame.FromSlice(src, f.dimX, f.dimY)
	}

	out := frame.NewBuffered[T](f.dimX, f.dimY)
	for x := range f.dimX {
		for y := range f.dimY {
			out.Set(x, y, src[codec.Index(format.YMajor, x, y, f.dimX, f.dimY)])
		}
	}

	return out, nil
}

// SetFrame copies fr into frame index, converting to the storage order of f.
func (f *File[T]) SetFrame(fr frame.Frame[T], index int) error {
	if err := f.checkIndex(index); err != nil {
		return err
	}
	if err := f.checkFrame(fr.DimX(), fr.DimY()); err != nil {
		return err
	}

	dst := f.FrameData(index)
	for y := range f.dimY {
		for x := range f.dimX {
			dst[codec.Index(f.info.Order, x, y, f.dimX, f.dimY)] = fr.Get(x, y)
		}
	}

	return nil
}

// Data returns all elements in storage order. The slice aliases f.
func (f *File[T]) Data() []T {
	return f.data
}

// FrameData returns the elements of frame index in storage order. The slice aliases f.
func (f *File[T]) FrameData(index int) []T {
	return f.data[index*f.frameSize : (index+1)*f.frameSize]
}

// Dims returns the extents of the volume.
func (f *File[T]) Dims() []uint32 {
	return append([]uint32(nil), f.info.Dims...)
}

// Save writes the volume to path.
//
// An existing container with the same geometry, element type and storage
// order is overwritten in place. Any other existing file is replaced when
// overwrite is true and reported as errs.ErrFileExists otherwise. Frames are
// written as WithThreads concurrent chunks.
//
// The saved container keeps the storage order of f unless WithStorageOrder
// was given, in which case frames are transposed as they are encoded.
func (f *File[T]) Save(path string, overwrite bool) error {
	order := f.info.Order
	if f.cfg.orderSet {
		order = f.cfg.Order
	}
	g := container.Geometry{ElementType: codec.TypeOf[T](), Dims: f.info.Dims, Order: order}

	info, reused, err := container.Prepare(path, g, overwrite, f.logger)
	if err != nil {
		return err
	}
	f.logger.Debug("saving container", "file", path, "reused", reused, "order", order.String())

	out := newLayout(info)
	limit := newThrottle(f.cfg.RateLimit, out.frameBytes)

	var eg errgroup.Group
	for _, c := range f.chunks() {
		eg.Go(func() error {
			h, err := rawio.OpenHandle(path, true)
			if err != nil {
				return err
			}

			buf := make([]byte, out.frameBytes)
			for i := c.from; i < c.to; i++ {
				if err := f.encode(buf, i, info.ElementType, order); err != nil {
					h.Close()
					return err
				}
				if err := limit.wait(len(buf)); err != nil {
					h.Close()
					return err
				}
				if err := h.WriteExact(out.offset(i), buf); err != nil {
					h.Close()
					return err
				}
			}

			return h.Close()
		})
	}

	return eg.Wait()
}

func (f *File[T]) encode(dst []byte, index int, et format.ElementType, order format.StorageOrder) error {
	if order == f.info.Order {
		return codec.Encode(dst, f.FrameData(index), et)
	}

	return codec.EncodeFrame(dst, f.FrameData(index), et, f.dimX, f.dimY, f.info.Order, order)
}
