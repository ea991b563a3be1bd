package frame

import (
	"testing"

	"github.com/arloliu/denio/errs"
	"github.com/stretchr/testify/require"
)

func TestBuffered(t *testing.T) {
	f := NewBuffered[float32](3, 2)
	require.Equal(t, 3, f.DimX())
	require.Equal(t, 2, f.DimY())
	require.Equal(t, 6, f.Len())

	f.Set(2, 1, 7.5)
	require.Equal(t, float32(7.5), f.Get(2, 1))
	require.Equal(t, float32(7.5), f.Data()[5])

	require.Panics(t, func() { f.Get(3, 0) })
	require.Panics(t, func() { f.Set(0, -1, 1) })
}

func TestFromSliceCopies(t *testing.T) {
	src := []int32{1, 2, 3, 4, 5, 6}
	f, err := FromSlice(src, 3, 2)
	require.NoError(t, err)

	src[0] = 100
	require.Equal(t, int32(1), f.Get(0, 0))
	require.Equal(t, int32(4), f.Get(0, 1))

	_, err = FromSlice(src, 4, 2)
	require.ErrorIs(t, err, errs.ErrFrameSizeMismatch)
}

func TestCloneIsIndependent(t *testing.T) {
	f := Filled[uint16](2, 2, 9)
	c := f.Clone()
	c.Set(0, 0, 1)

	require.Equal(t, uint16(9), f.Get(0, 0))
	require.Equal(t, uint16(1), c.Get(0, 0))
}

func TestTransposed(t *testing.T) {
	// [[1,2,3],[4,5,6]] as a 3 × 2 frame.
	f, err := FromSlice([]int16{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)

	tr := f.Transposed()
	require.Equal(t, 2, tr.DimX())
	require.Equal(t, 3, tr.DimY())
	require.Equal(t, []int16{1, 4, 2, 5, 3, 6}, tr.Data())

	for y := range f.DimY() {
		for x := range f.DimX() {
			require.Equal(t, f.Get(x, y), tr.Get(y, x))
		}
	}
}

func TestView(t *testing.T) {
	mem := make([]float64, 4)
	v, err := NewView(mem, 2, 2)
	require.NoError(t, err)

	v.Set(1, 1, 3)
	require.Equal(t, 3.0, mem[3], "view writes through to caller memory")

	c := v.Clone()
	mem[3] = 4
	require.Equal(t, 3.0, c.Get(1, 1))

	_, err = NewView(mem, 3, 2)
	require.ErrorIs(t, err, errs.ErrFrameSizeMismatch)
}

type funcFrame struct {
	dimX, dimY int
	at         func(x, y int) uint8
}

func (f funcFrame) Get(x, y int) uint8  { return f.at(x, y) }
func (f funcFrame) Set(int, int, uint8) {}
func (f funcFrame) DimX() int           { return f.dimX }
func (f funcFrame) DimY() int           { return f.dimY }

func TestCopyAndEqual(t *testing.T) {
	src := funcFrame{dimX: 3, dimY: 2, at: func(x, y int) uint8 { return uint8(10*y + x) }}
	dst := NewBuffered[uint8](3, 2)

	require.NoError(t, Copy[uint8](dst, src))
	require.Equal(t, []uint8{0, 1, 2, 10, 11, 12}, dst.Data())
	require.True(t, Equal[uint8](dst, src))

	_, ok := Data[uint8](src)
	require.False(t, ok)

	data, ok := Data[uint8](dst)
	require.True(t, ok)
	require.Len(t, data, 6)

	other := NewBuffered[uint8](2, 3)
	require.ErrorIs(t, Copy[uint8](other, dst), errs.ErrFrameSizeMismatch)
	require.False(t, Equal[uint8](other, dst))

	fast := NewBuffered[uint8](3, 2)
	require.NoError(t, Copy[uint8](fast, dst))
	require.True(t, Equal[uint8](fast, dst))
}
