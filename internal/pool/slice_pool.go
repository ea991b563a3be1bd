package pool

import "sync"

// SlicePool recycles slices of T.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates an empty SlicePool.
func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{pool: sync.Pool{New: func() any { return &[]T{} }}}
}

// Get returns a slice of exactly size elements and a cleanup function that
// hands it back to the pool. The contents are unspecified.
//
//	values, cleanup := p.Get(n)
//	defer cleanup()
func (p *SlicePool[T]) Get(size int) ([]T, func()) {
	ptr, _ := p.pool.Get().(*[]T)

	slice := *ptr
	if cap(slice) < size {
		slice = make([]T, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { p.pool.Put(ptr) }
}

var float64Slices = NewSlicePool[float64]()

// GetFloat64Slice returns a pooled float64 slice of the given size and its cleanup function.
func GetFloat64Slice(size int) ([]float64, func()) {
	return float64Slices.Get(size)
}
