package volume

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/logging"
	"github.com/arloliu/denio/rawio"
)

// BufferedWriter is a Writer over a pre-sized container that keeps its file
// handle positioned between frames.
//
// Frames backed by a row-major slice whose element type equals the stored
// type are written straight from that slice when the container is X-major
// and the host is little-endian. Written frames are tracked so callers can
// check that a container has been filled completely.
type BufferedWriter[T codec.Element] struct {
	layout
	handle  *rawio.Handle
	logger  *logging.Logger
	mu      sync.Mutex
	scratch []byte
	written *roaring.Bitmap
}

var _ FrameSink[int32] = (*BufferedWriter[int32])(nil)

// CreateBufferedWriter is CreateWriter returning a BufferedWriter.
func CreateBufferedWriter[T codec.Element](path string, dims []uint32, opts ...Option) (*BufferedWriter[T], error) {
	info, cfg, err := createTarget[T](path, dims, opts)
	if err != nil {
		return nil, err
	}

	return newBufferedWriter[T](info, cfg)
}

// CreateBufferedWriter3D is CreateWriter3D returning a BufferedWriter.
func CreateBufferedWriter3D[T codec.Element](path string, dimX, dimY, dimZ uint32, opts ...Option) (*BufferedWriter[T], error) {
	return CreateBufferedWriter[T](path, []uint32{dimX, dimY, dimZ}, opts...)
}

// OpenBufferedWriter is OpenWriter returning a BufferedWriter.
func OpenBufferedWriter[T codec.Element](path string, opts ...Option) (*BufferedWriter[T], error) {
	info, cfg, err := openTarget[T](path, opts)
	if err != nil {
		return nil, err
	}

	return newBufferedWriter[T](info, cfg)
}

func newBufferedWriter[T codec.Element](info *container.Info, cfg Config) (*BufferedWriter[T], error) {
	h, err := rawio.OpenHandle(info.Path, true)
	if err != nil {
		return nil, err
	}

	l := newLayout(info)

	return &BufferedWriter[T]{
		layout:  l,
		handle:  h,
		logger:  cfg.Logger.WithFile(info.Path),
		scratch: make([]byte, l.frameBytes),
		written: roaring.New(),
	}, nil
}

// WriteFrame writes f as frame index.
func (w *BufferedWriter[T]) WriteFrame(f frame.Frame[T], index int) error {
	if err := w.checkIndex(index); err != nil {
		return err
	}
	if err := w.checkFrame(f.DimX(), f.DimY()); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	raw, err := w.encode(f)
	if err != nil {
		return err
	}

	if err := w.handle.WriteExact(w.offset(index), raw); err != nil {
		return fmt.Errorf("frame %d of %s: %w", index, w.info.Path, err)
	}
	w.written.Add(uint32(index))

	return nil
}

func (w *BufferedWriter[T]) encode(f frame.Frame[T]) ([]byte, error) {
	et, order := w.info.ElementType, w.info.Order

	data, ok := frame.Data(f)
	if !ok {
		return w.scratch, codec.EncodeFunc(w.scratch, f.Get, et, w.dimX, w.dimY, order)
	}
	if order == format.XMajor && codec.CanCopy[T](et) {
		return codec.AsBytes(data), nil
	}

	return w.scratch, codec.EncodeFrame(w.scratch, data, et, w.dimX, w.dimY, format.XMajor, order)
}

// Written returns the indices of the frames written through w.
func (w *BufferedWriter[T]) Written() *roaring.Bitmap {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.written.Clone()
}

// Missing returns the indices of the frames not yet written through w.
func (w *BufferedWriter[T]) Missing() *roaring.Bitmap {
	w.mu.Lock()
	defer w.mu.Unlock()

	return roaring.Flip(w.written, 0, uint64(w.frameCount))
}

// Complete reports whether every frame has been written.
func (w *BufferedWriter[T]) Complete() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.written.GetCardinality() == uint64(w.frameCount)
}

// Seeks returns the number of seeks issued by the underlying handle.
func (w *BufferedWriter[T]) Seeks() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.handle.Seeks()
}

// Sync commits written frames to stable storage.
func (w *BufferedWriter[T]) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.handle.Sync()
}

// Close closes the underlying file.
func (w *BufferedWriter[T]) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if missing := uint64(w.frameCount) - w.written.GetCardinality(); missing > 0 {
		w.logger.Debug("closing with unwritten frames", "missing", missing)
	}

	return w.handle.Close()
}
