package frame

import (
	"github.com/arloliu/denio/codec"
)

// Buffered is a frame that owns its elements.
type Buffered[T codec.Element] struct {
	grid
	data []T
}

// NewBuffered allocates a zeroed dimX × dimY frame. It panics on negative extents.
func NewBuffered[T codec.Element](dimX, dimY int) *Buffered[T] {
	return &Buffered[T]{grid: grid{dimX: dimX, dimY: dimY}, data: make([]T, dimX*dimY)}
}

// Filled allocates a dimX × dimY frame with every element set to v.
func Filled[T codec.Element](dimX, dimY int, v T) *Buffered[T] {
	f := NewBuffered[T](dimX, dimY)
	for i := range f.data {
		f.data[i] = v
	}

	return f
}

// FromSlice copies data, laid out row-major, into a new frame.
func FromSlice[T codec.Element](data []T, dimX, dimY int) (*Buffered[T], error) {
	if err := checkShape(len(data), dimX, dimY); err != nil {
		return nil, err
	}

	return &Buffered[T]{grid: grid{dimX: dimX, dimY: dimY}, data: append([]T(nil), data...)}, nil
}

// Get returns element (x, y).
func (f *Buffered[T]) Get(x, y int) T { return f.data[f.index(x, y)] }

// Set stores v at (x, y).
func (f *Buffered[T]) Set(x, y int, v T) { f.data[f.index(x, y)] = v }

// Data returns the row-major elements. The slice aliases the frame.
func (f *Buffered[T]) Data() []T { return f.data }

// Len returns the number of elements.
func (f *Buffered[T]) Len() int { return len(f.data) }

// Clone returns a deep copy.
func (f *Buffered[T]) Clone() *Buffered[T] {
	return &Buffered[T]{grid: f.grid, data: append([]T(nil), f.data...)}
}

// Transposed returns a new DimY × DimX frame t with t(y, x) == f(x, y).
func (f *Buffered[T]) Transposed() *Buffered[T] {
	t := NewBuffered[T](f.dimY, f.dimX)
	for y := range f.dimY {
		for x := range f.dimX {
			t.data[y+f.dimY*x] = f.data[x+f.dimX*y]
		}
	}

	return t
}
