package stats

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/volume"
	"github.com/stretchr/testify/require"
)

func mustFrame[T float32 | float64 | uint16](t *testing.T, dimX, dimY int, data ...T) *frame.Buffered[T] {
	t.Helper()

	f, err := frame.FromSlice(data, dimX, dimY)
	require.NoError(t, err)

	return f
}

func TestFrame(t *testing.T) {
	f := mustFrame[uint16](t, 2, 2, 1, 2, 3, 4)
	s := Frame[uint16](f)

	require.Equal(t, 4, s.Count)
	require.Equal(t, 4, s.Finite)
	require.Equal(t, 0, s.NonFinite)
	require.Equal(t, 1.0, s.Min)
	require.Equal(t, 4.0, s.Max)
	require.Equal(t, 10.0, s.Sum)
	require.Equal(t, 2.5, s.Mean)
	require.InDelta(t, 1.25, s.Variance, 1e-12)
	require.Equal(t, 30.0, s.SumSquares)
	require.InDelta(t, math.Sqrt(1.25), s.StdDev(), 1e-12)
}

func TestFrame_NonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	f := mustFrame(t, 3, 2, nan, -1, 5, inf, 2, nan)

	s := Frame[float32](f)
	require.Equal(t, 6, s.Count)
	require.Equal(t, 3, s.Finite)
	require.Equal(t, 3, s.NonFinite)
	require.Equal(t, -1.0, s.Min)
	require.Equal(t, 5.0, s.Max)
	require.Equal(t, 2.0, s.Mean)

	all := mustFrame(t, 1, 2, nan, nan)
	s = Frame[float32](all)
	require.Equal(t, 0, s.Finite)
	require.True(t, math.IsNaN(s.Min))
	require.True(t, math.IsNaN(s.Mean))
	require.True(t, math.IsNaN(Median[float32](all)))
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want float64
	}{
		{"odd", []float64{5, 1, 3}, 3},
		{"even takes upper", []float64{4, 1, 3, 2}, 3},
		{"nan ignored", []float64{math.NaN(), 7, 1}, 7},
		{"single", []float64{-2}, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustFrame(t, len(tt.data), 1, tt.data...)
			require.Equal(t, tt.want, Median[float64](f))
		})
	}
}

func TestNorm(t *testing.T) {
	f := mustFrame(t, 2, 1, 3.0, -4.0)

	l1, err := Norm[float64](f, 1)
	require.NoError(t, err)
	require.InDelta(t, 7, l1, 1e-12)

	l2, err := Norm[float64](f, 2)
	require.NoError(t, err)
	require.InDelta(t, 5, l2, 1e-12)

	_, err = Norm[float64](f, 0)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	bad := mustFrame(t, 2, 1, 1.0, math.Inf(-1))
	n, err := Norm[float64](bad, 2)
	require.NoError(t, err)
	require.True(t, math.IsNaN(n))
}

func TestMerge(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 20, math.NaN()}

	whole := Frame[float64](mustFrame(t, 8, 1, append(append([]float64{}, a...), b...)...))
	merged := Merge(
		Frame[float64](mustFrame(t, 5, 1, a...)),
		Frame[float64](mustFrame(t, 3, 1, b...)),
	)

	require.Equal(t, whole.Count, merged.Count)
	require.Equal(t, whole.Finite, merged.Finite)
	require.Equal(t, whole.NonFinite, merged.NonFinite)
	require.Equal(t, whole.Min, merged.Min)
	require.Equal(t, whole.Max, merged.Max)
	require.InDelta(t, whole.Sum, merged.Sum, 1e-9)
	require.InDelta(t, whole.Mean, merged.Mean, 1e-9)
	require.InDelta(t, whole.Variance, merged.Variance, 1e-9)
	require.InDelta(t, whole.SumSquares, merged.SumSquares, 1e-9)

	require.Equal(t, merged, Merge(Empty(), merged))
}

func TestContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vol.den")

	w, err := volume.CreateWriter3D[float32](path, 3, 2, 5)
	require.NoError(t, err)

	var all []float64
	for k := range 5 {
		f := frame.NewBuffered[float32](3, 2)
		for i := range f.Data() {
			f.Data()[i] = float32(k*6 + i)
			all = append(all, float64(k*6+i))
		}
		require.NoError(t, w.WriteFrame(f, k))
	}
	require.NoError(t, w.Close())

	want := Frame[float64](mustFrame(t, len(all), 1, all...))

	for _, threads := range []int{1, 2, 8} {
		res, err := Container(path, threads)
		require.NoError(t, err)
		require.Len(t, res.Frames, 5)

		require.Equal(t, 6, res.Frames[2].Count)
		require.Equal(t, 12.0, res.Frames[2].Min)
		require.Equal(t, 17.0, res.Frames[2].Max)

		require.Equal(t, want.Count, res.Total.Count)
		require.Equal(t, 0.0, res.Total.Min)
		require.Equal(t, 29.0, res.Total.Max)
		require.InDelta(t, want.Mean, res.Total.Mean, 1e-9)
		require.InDelta(t, want.Variance, res.Total.Variance, 1e-9)
		require.InDelta(t, want.SumSquares, res.Total.SumSquares, 1e-6)
	}

	_, err = Container(filepath.Join(t.TempDir(), "missing.den"), 2)
	require.Error(t, err)
}
