package volume

import (
	"fmt"
	"os"

	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/internal/pool"
	"github.com/arloliu/denio/logging"
	"github.com/arloliu/denio/rawio"
)

// Reader reads single frames of a container, converting elements into T.
//
// A Reader is safe for concurrent use. Reads of different frames proceed in
// parallel up to the number of scratch buffers; further calls wait for one
// to be released.
type Reader[T codec.Element] struct {
	layout
	file   *os.File
	slots  *pool.Slots[[]byte]
	logger *logging.Logger
}

var _ FrameSource[float32] = (*Reader[float32])(nil)

// OpenReader opens the container at path.
//
// The header is parsed strictly, so a malformed container fails here with
// errs.ErrInvalidContainer before any frame is read.
func OpenReader[T codec.Element](path string, opts ...Option) (*Reader[T], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	info, err := container.Parse(path, true)
	if err != nil {
		return nil, err
	}

	return newReader[T](info, cfg)
}

func newReader[T codec.Element](info *container.Info, cfg Config) (*Reader[T], error) {
	if !info.ElementType.Valid() {
		return nil, fmt.Errorf("%w: %s stores %s", errs.ErrUnsupportedType, info.Path, info.ElementType)
	}

	f, err := os.Open(info.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", errs.ErrIO, info.Path, err)
	}

	l := newLayout(info)
	r := &Reader[T]{
		layout: l,
		file:   f,
		slots:  pool.NewSlots(1+cfg.ExtraBuffers, func() []byte { return make([]byte, l.frameBytes) }),
		logger: cfg.Logger.WithFile(info.Path),
	}
	r.logger.Debug("reader opened", "frames", l.frameCount, "type", info.ElementType.String(), "buffers", r.slots.Cap())

	return r, nil
}

// ReadFrame returns frame index as a new row-major frame owned by the caller.
func (r *Reader[T]) ReadFrame(index int) (*frame.Buffered[T], error) {
	if err := r.checkIndex(index); err != nil {
		return nil, err
	}

	f := frame.NewBuffered[T](r.dimX, r.dimY)
	if err := r.ReadFrameInto(index, f.Data(), format.XMajor); err != nil {
		return nil, err
	}

	return f, nil
}

// ReadFrameInto decodes frame index into dst, laid out in order.
//
// format.XMajor yields the row-major layout of package frame; format.YMajor
// yields its transpose. dst must hold at least DimX*DimY elements.
func (r *Reader[T]) ReadFrameInto(index int, dst []T, order format.StorageOrder) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}
	if len(dst) < r.frameSize {
		return fmt.Errorf("%w: buffer of %d elements for %d-element frame", errs.ErrFrameSizeMismatch, len(dst), r.frameSize)
	}

	buf := r.slots.Acquire()
	defer r.slots.Release(buf)

	if err := rawio.ReadAt(r.file, r.offset(index), buf); err != nil {
		return fmt.Errorf("frame %d of %s: %w", index, r.info.Path, err)
	}

	return codec.DecodeFrame(dst, buf, r.info.ElementType, r.dimX, r.dimY, r.info.Order, order)
}

// Buffers returns the number of scratch buffers.
func (r *Reader[T]) Buffers() int {
	return r.slots.Cap()
}

// Close closes the underlying file.
func (r *Reader[T]) Close() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", errs.ErrIO, r.info.Path, err)
	}

	return nil
}
