package volume

import (
	"fmt"
	"os"
	"sync"

	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/logging"
	"github.com/arloliu/denio/rawio"
)

// Writer writes single frames into a container, converting T into the stored element type.
//
// Calls are serialized by one lock per Writer. Separate writers on the same
// file are not coordinated with each other.
type Writer[T codec.Element] struct {
	layout
	file    *os.File
	logger  *logging.Logger
	mu      sync.Mutex
	scratch []byte
}

var _ FrameSink[float64] = (*Writer[float64])(nil)

// CreateWriter opens a writer for a container of element type T with the given dims.
//
// A valid container already at path with exactly this geometry and storage
// order is reused and its frames are kept; anything else is recreated.
func CreateWriter[T codec.Element](path string, dims []uint32, opts ...Option) (*Writer[T], error) {
	info, cfg, err := createTarget[T](path, dims, opts)
	if err != nil {
		return nil, err
	}

	return newWriter[T](info, cfg)
}

// CreateWriter3D is CreateWriter for a dimX × dimY × dimZ container.
func CreateWriter3D[T codec.Element](path string, dimX, dimY, dimZ uint32, opts ...Option) (*Writer[T], error) {
	return CreateWriter[T](path, []uint32{dimX, dimY, dimZ}, opts...)
}

// OpenWriter opens an existing valid container and takes its geometry from the header.
//
// The byte size of T must equal the stored element size
// (errs.ErrElementSizeMismatch). A missing file is errs.ErrIO and a malformed
// one errs.ErrInvalidContainer.
func OpenWriter[T codec.Element](path string, opts ...Option) (*Writer[T], error) {
	info, cfg, err := openTarget[T](path, opts)
	if err != nil {
		return nil, err
	}

	return newWriter[T](info, cfg)
}

func createTarget[T codec.Element](path string, dims []uint32, opts []Option) (*container.Info, Config, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, Config{}, err
	}

	g := container.Geometry{ElementType: codec.TypeOf[T](), Dims: dims, Order: cfg.Order}
	info, _, err := container.OpenOrCreate(path, g, cfg.Logger)
	if err != nil {
		return nil, Config{}, err
	}

	return info, cfg, nil
}

func openTarget[T codec.Element](path string, opts []Option) (*container.Info, Config, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, Config{}, err
	}

	info, err := container.Parse(path, true)
	if err != nil {
		return nil, Config{}, err
	}
	if info.ElementSize != codec.SizeOf[T]() {
		return nil, Config{}, fmt.Errorf("%w: %s stores %d-byte %s, writer uses %d-byte %s",
			errs.ErrElementSizeMismatch, path, info.ElementSize, info.ElementType, codec.SizeOf[T](), codec.TypeOf[T]())
	}

	return info, cfg, nil
}

func newWriter[T codec.Element](info *container.Info, cfg Config) (*Writer[T], error) {
	f, err := os.OpenFile(info.Path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", errs.ErrIO, info.Path, err)
	}

	l := newLayout(info)

	return &Writer[T]{
		layout:  l,
		file:    f,
		logger:  cfg.Logger.WithFile(info.Path),
		scratch: make([]byte, l.frameBytes),
	}, nil
}

// WriteFrame encodes f and writes it as frame index.
func (w *Writer[T]) WriteFrame(f frame.Frame[T], index int) error {
	if err := w.checkIndex(index); err != nil {
		return err
	}
	if err := w.checkFrame(f.DimX(), f.DimY()); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := codec.EncodeFunc(w.scratch, f.Get, w.info.ElementType, w.dimX, w.dimY, w.info.Order); err != nil {
		return err
	}

	if err := rawio.WriteAt(w.file, w.offset(index), w.scratch); err != nil {
		return fmt.Errorf("frame %d of %s: %w", index, w.info.Path, err)
	}

	return nil
}

// Close closes the underlying file.
func (w *Writer[T]) Close() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", errs.ErrIO, w.info.Path, err)
	}

	return nil
}
