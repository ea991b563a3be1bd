package frame

import "github.com/arloliu/denio/codec"

// View is a frame over caller-owned memory.
type View[T codec.Element] struct {
	grid
	data []T
}

// NewView wraps data, laid out row-major, without copying.
func NewView[T codec.Element](data []T, dimX, dimY int) (*View[T], error) {
	if err := checkShape(len(data), dimX, dimY); err != nil {
		return nil, err
	}

	return &View[T]{grid: grid{dimX: dimX, dimY: dimY}, data: data}, nil
}

func (v *View[T]) Get(x, y int) T { return v.data[v.index(x, y)] }

func (v *View[T]) Set(x, y int, val T) { v.data[v.index(x, y)] = val }

// Data returns the borrowed slice.
func (v *View[T]) Data() []T { return v.data }

// Clone copies the viewed elements into an owned frame.
func (v *View[T]) Clone() *Buffered[T] {
	return &Buffered[T]{grid: v.grid, data: append([]T(nil), v.data...)}
}
