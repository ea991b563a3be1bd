// Package stats computes descriptive statistics of frames and whole containers.
//
// Non-finite values (NaN and ±Inf) are counted but otherwise ignored, so a
// single bad pixel does not poison the minimum, maximum or mean of a frame.
// Variance is the population variance.
package stats

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/internal/pool"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the statistics of a set of elements.
//
// Min, Max, Mean and Variance are NaN when Finite is zero.
type Summary struct {
	Count      int     // all elements
	Finite     int     // elements that are neither NaN nor infinite
	NonFinite  int     // Count - Finite
	Min        float64 // smallest finite value
	Max        float64 // largest finite value
	Sum        float64 // sum of finite values
	Mean       float64 // mean of finite values
	Variance   float64 // population variance of finite values
	SumSquares float64 // squared L2 norm of finite values
}

// Empty returns the Summary of zero elements.
func Empty() Summary {
	nan := math.NaN()
	return Summary{Min: nan, Max: nan, Mean: nan, Variance: nan}
}

// StdDev returns the population standard deviation.
func (s Summary) StdDev() float64 {
	return math.Sqrt(s.Variance)
}

func (s Summary) String() string {
	return fmt.Sprintf("count=%d finite=%d min=%g max=%g mean=%g var=%g sum=%g l2sq=%g",
		s.Count, s.Finite, s.Min, s.Max, s.Mean, s.Variance, s.Sum, s.SumSquares)
}

// Merge combines two summaries of disjoint element sets.
func Merge(a, b Summary) Summary {
	switch {
	case b.Finite == 0:
		a.Count += b.Count
		a.NonFinite += b.NonFinite

		return a
	case a.Finite == 0:
		b.Count += a.Count
		b.NonFinite += a.NonFinite

		return b
	}

	na, nb := float64(a.Finite), float64(b.Finite)
	n := na + nb
	delta := b.Mean - a.Mean
	m2 := a.Variance*na + b.Variance*nb + delta*delta*na*nb/n

	return Summary{
		Count:      a.Count + b.Count,
		Finite:     a.Finite + b.Finite,
		NonFinite:  a.NonFinite + b.NonFinite,
		Min:        math.Min(a.Min, b.Min),
		Max:        math.Max(a.Max, b.Max),
		Sum:        a.Sum + b.Sum,
		Mean:       a.Mean + delta*nb/n,
		Variance:   m2 / n,
		SumSquares: a.SumSquares + b.SumSquares,
	}
}

// finite collects the finite values of f into a pooled slice.
func finite[T codec.Element](f frame.Frame[T]) ([]float64, int, func()) {
	dimX, dimY := f.DimX(), f.DimY()
	values, cleanup := pool.GetFloat64Slice(dimX * dimY)
	values = values[:0]

	if data, ok := frame.Data(f); ok {
		for _, v := range data {
			if x := float64(v); !math.IsNaN(x) && !math.IsInf(x, 0) {
				values = append(values, x)
			}
		}
	} else {
		for y := range dimY {
			for x := range dimX {
				if v := float64(f.Get(x, y)); !math.IsNaN(v) && !math.IsInf(v, 0) {
					values = append(values, v)
				}
			}
		}
	}

	return values, dimX*dimY - len(values), cleanup
}

// Frame summarizes the elements of f.
func Frame[T codec.Element](f frame.Frame[T]) Summary {
	values, bad, cleanup := finite(f)
	defer cleanup()

	return summarize(values, bad)
}

func summarize(values []float64, bad int) Summary {
	s := Empty()
	s.Count = len(values) + bad
	s.Finite = len(values)
	s.NonFinite = bad
	if len(values) == 0 {
		return s
	}

	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Sum = floats.Sum(values)
	s.Mean, s.Variance = stat.PopMeanVariance(values, nil)
	s.SumSquares = floats.Dot(values, values)

	return s
}

// Median returns the upper median of the finite values of f, or NaN if there are none.
func Median[T codec.Element](f frame.Frame[T]) float64 {
	values, _, cleanup := finite(f)
	defer cleanup()

	if len(values) == 0 {
		return math.NaN()
	}
	slices.Sort(values)

	return values[len(values)/2]
}

// Norm returns the Lp norm of f for p >= 1.
//
// The result is NaN if f holds any non-finite value.
func Norm[T codec.Element](f frame.Frame[T], p int) (float64, error) {
	if p < 1 {
		return 0, fmt.Errorf("%w: norm exponent %d", errs.ErrInvalidArgument, p)
	}

	values, bad, cleanup := finite(f)
	defer cleanup()

	if bad > 0 {
		return math.NaN(), nil
	}

	return floats.Norm(values, float64(p)), nil
}
