// Package frame provides the two-dimensional element views exchanged with containers.
//
// A frame is addressed as (x, y) with 0 <= x < DimX and 0 <= y < DimY and is
// laid out row-major in memory: element (x, y) lives at x + DimX*y, whatever
// the storage order of the container it came from.
//
// Buffered owns its elements. View borrows caller memory and never copies;
// the caller keeps the memory alive for as long as the view is used.
package frame

import (
	"fmt"

	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/errs"
)

// Frame is the two-dimensional accessor shared by readers, writers and their consumers.
type Frame[T codec.Element] interface {
	Get(x, y int) T
	Set(x, y int, v T)
	DimX() int
	DimY() int
}

// Backed is implemented by frames whose elements are one contiguous row-major slice.
type Backed[T codec.Element] interface {
	Frame[T]
	Data() []T
}

// Data returns the row-major backing slice of f when it has one.
func Data[T codec.Element](f Frame[T]) ([]T, bool) {
	b, ok := f.(Backed[T])
	if !ok {
		return nil, false
	}

	data := b.Data()
	if len(data) != f.DimX()*f.DimY() {
		return nil, false
	}

	return data, true
}

// Copy copies every element of src into dst.
func Copy[T codec.Element](dst, src Frame[T]) error {
	if dst.DimX() != src.DimX() || dst.DimY() != src.DimY() {
		return fmt.Errorf("%w: %dx%d into %dx%d", errs.ErrFrameSizeMismatch, src.DimX(), src.DimY(), dst.DimX(), dst.DimY())
	}

	if d, ok := Data(dst); ok {
		if s, ok := Data(src); ok {
			copy(d, s)
			return nil
		}
	}

	for y := range src.DimY() {
		for x := range src.DimX() {
			dst.Set(x, y, src.Get(x, y))
		}
	}

	return nil
}

// Equal reports whether a and b have the same shape and elements.
//
// Floating point elements compare with ==, so frames holding NaN are never equal.
func Equal[T codec.Element](a, b Frame[T]) bool {
	if a.DimX() != b.DimX() || a.DimY() != b.DimY() {
		return false
	}

	for y := range a.DimY() {
		for x := range a.DimX() {
			if a.Get(x, y) != b.Get(x, y) {
				return false
			}
		}
	}

	return true
}

type grid struct {
	dimX, dimY int
}

func (g grid) DimX() int { return g.dimX }
func (g grid) DimY() int { return g.dimY }

func (g grid) index(x, y int) int {
	if x < 0 || x >= g.dimX || y < 0 || y >= g.dimY {
		panic(fmt.Sprintf("frame: (%d, %d) outside %dx%d frame", x, y, g.dimX, g.dimY))
	}

	return x + g.dimX*y
}

func checkShape(n, dimX, dimY int) error {
	if dimX < 0 || dimY < 0 || n != dimX*dimY {
		return fmt.Errorf("%w: %d elements for a %dx%d frame", errs.ErrFrameSizeMismatch, n, dimX, dimY)
	}

	return nil
}
