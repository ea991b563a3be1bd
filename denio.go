// Package denio reads and writes DEN containers: multi-dimensional numeric
// arrays stored as a sequence of 2-D frames behind a small binary header.
//
// Two header variants exist. The Legacy header is 6 bytes and describes a
// three-dimensional volume of uint16, float32 or float64 elements, the type
// being inferred from the file size. The Extended header is 4096 bytes and
// carries up to 16 dimensions, an explicit element type and a storage order.
//
// # Basic Usage
//
// Writing a volume frame by frame:
//
//	w, _ := denio.Create[float32]("vol.den", 512, 512, 100)
//	for k := range 100 {
//	    f := frame.NewBuffered[float32](512, 512)
//	    // fill f
//	    w.WriteFrame(f, k)
//	}
//	w.Close()
//
// Reading it back, with element conversion to float64:
//
//	r, _ := denio.Open[float64]("vol.den")
//	defer r.Close()
//	f, _ := r.ReadFrame(42)
//	v := f.Get(10, 20)
//
// # Package Structure
//
// This package wraps the most common entry points. Header handling lives in
// package container, frame I/O in package volume, and the tooling built on
// top of them in packages stats, digest and archive.
package denio

import (
	"io"

	"github.com/arloliu/denio/archive"
	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/compress"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/volume"
)

// Element is the set of Go types a container can store.
type Element = codec.Element

// Inspect parses the header of the container at path without failing on
// inconsistencies; check Info.Valid.
func Inspect(path string) (*container.Info, error) {
	return container.Parse(path, false)
}

// Validate parses the container at path and reports any header or size
// inconsistency as errs.ErrInvalidContainer.
func Validate(path string) (*container.Info, error) {
	return container.Parse(path, true)
}

// Open opens the container at path for random frame reads converted to T.
func Open[T Element](path string, opts ...volume.Option) (*volume.Reader[T], error) {
	return volume.OpenReader[T](path, opts...)
}

// OpenCached opens the container at path behind a bounded frame cache.
//
// The cache size is set with volume.WithCacheSize.
func OpenCached[T Element](path string, opts ...volume.Option) (*volume.CachedReader[T], error) {
	return volume.OpenCachedReader[T](path, opts...)
}

// Create creates a three-dimensional Extended container storing T and returns a writer for it.
//
// An existing file with the same geometry is reused, anything else is replaced.
func Create[T Element](path string, dimX, dimY, dimZ uint32, opts ...volume.Option) (*volume.Writer[T], error) {
	return volume.CreateWriter3D[T](path, dimX, dimY, dimZ, opts...)
}

// CreateBuffered is Create returning a BufferedWriter, which skips the seek
// between consecutive frames and writes matching X-major frames straight from
// their backing slice.
func CreateBuffered[T Element](path string, dims []uint32, opts ...volume.Option) (*volume.BufferedWriter[T], error) {
	return volume.CreateBufferedWriter[T](path, dims, opts...)
}

// Load reads the whole container at path into memory.
func Load[T Element](path string, opts ...volume.Option) (*volume.File[T], error) {
	return volume.LoadFile[T](path, opts...)
}

// Pack writes a compressed, checksummed archive of the container at src to w.
func Pack(src string, w io.Writer, opts ...archive.Option) (compress.Stats, error) {
	return archive.Pack(src, w, opts...)
}

// Unpack restores the archive read from r into the container at dst.
func Unpack(r io.Reader, dst string, overwrite bool, opts ...archive.Option) (*container.Info, error) {
	return archive.Unpack(r, dst, overwrite, opts...)
}
