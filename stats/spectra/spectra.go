// Package spectra provides preprocessing and comparison statistics for
// processed spectra: min-max normalization, Pearson correlation matrices and
// common-grid resampling for spectra acquired on different wavenumber axes.
package spectra

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-ftir/dsp/resample"
)

// Normalize min-max scales values into [0, 1] and returns a new slice.
// Flat input (max == min) is returned as an unmodified copy rather than
// dividing by zero.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if len(values) == 0 {
		return out
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return out
	}

	span := hi - lo
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}

// CorrelationMatrix computes the pairwise Pearson correlation of every
// ordered pair of series, self-pairs included. The result is symmetric with
// an exact unit diagonal. All series must share one non-trivial length; use
// [CommonGrid] first when spectra live on different axes.
func CorrelationMatrix(series [][]float64) ([][]float64, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("spectra: correlation needs at least 2 series, got %d", len(series))
	}
	n := len(series[0])
	if n < 2 {
		return nil, fmt.Errorf("spectra: series too short for correlation: %d points", n)
	}
	for i, s := range series {
		if len(s) != n {
			return nil, fmt.Errorf("spectra: series %d has %d points, want %d", i, len(s), n)
		}
	}

	m := make([][]float64, len(series))
	for i := range m {
		m[i] = make([]float64, len(series))
		m[i][i] = 1
	}
	for i := range series {
		for j := i + 1; j < len(series); j++ {
			c := stat.Correlation(series[i], series[j], nil)
			m[i][j] = c
			m[j][i] = c
		}
	}
	return m, nil
}

// CommonGrid resamples the given spectra onto a shared wavenumber grid
// spanning the overlap of all inputs at the finest input resolution. It
// returns the grid and the resampled y series in input order.
func CommonGrid(xs, ys [][]float64) ([]float64, [][]float64, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, nil, fmt.Errorf("spectra: need matching x and y sets, got %d and %d", len(xs), len(ys))
	}

	lo := math.Inf(-1)
	hi := math.Inf(1)
	step := math.Inf(1)
	for i, x := range xs {
		if len(x) < 2 {
			return nil, nil, fmt.Errorf("spectra: spectrum %d too short for a grid", i)
		}
		if len(x) != len(ys[i]) {
			return nil, nil, fmt.Errorf("spectra: spectrum %d length mismatch", i)
		}
		if x[0] > lo {
			lo = x[0]
		}
		if last := x[len(x)-1]; last < hi {
			hi = last
		}
		if r := (x[len(x)-1] - x[0]) / float64(len(x)-1); r < step {
			step = r
		}
	}
	if hi <= lo {
		return nil, nil, fmt.Errorf("spectra: spectra do not overlap (common range [%g, %g])", lo, hi)
	}

	points := int(math.Floor((hi-lo)/step)) + 1
	grid := make([]float64, points)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}

	out := make([][]float64, len(xs))
	for i := range xs {
		r, err := resample.Linear(xs[i], ys[i], grid)
		if err != nil {
			return nil, nil, fmt.Errorf("spectra: resample spectrum %d: %w", i, err)
		}
		out[i] = r
	}
	return grid, out, nil
}

// Info summarizes one spectrum.
type Info struct {
	Points     int
	XMin, XMax float64
	YMin, YMax float64
	Resolution float64 // mean x spacing
}

// Describe computes basic descriptors of a spectrum.
func Describe(x, y []float64) (Info, error) {
	if len(x) == 0 || len(x) != len(y) {
		return Info{}, fmt.Errorf("spectra: need matching non-empty arrays, got %d and %d", len(x), len(y))
	}

	info := Info{Points: len(x), XMin: x[0], XMax: x[0], YMin: y[0], YMax: y[0]}
	for i := range x {
		if x[i] < info.XMin {
			info.XMin = x[i]
		}
		if x[i] > info.XMax {
			info.XMax = x[i]
		}
		if y[i] < info.YMin {
			info.YMin = y[i]
		}
		if y[i] > info.YMax {
			info.YMax = y[i]
		}
	}
	if len(x) > 1 {
		info.Resolution = (info.XMax - info.XMin) / float64(len(x)-1)
	}
	return info, nil
}
