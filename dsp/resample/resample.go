// Package resample maps sampled curves between wavenumber grids.
//
// Spectra from different acquisitions rarely share an x-grid; persisted
// baselines on the other hand must live on the raw-data grid of their record.
// [Linear] provides the piecewise-linear resampling both cases need.
package resample

import (
	"fmt"
	"sort"
)

// Linear resamples the curve (srcX, srcY) onto dstX using piecewise-linear
// interpolation. srcX must be strictly increasing. Destination points outside
// the source span are clamped to the nearest endpoint value.
func Linear(srcX, srcY, dstX []float64) ([]float64, error) {
	if len(srcX) != len(srcY) {
		return nil, fmt.Errorf("resample: length mismatch: %d x values, %d y values", len(srcX), len(srcY))
	}
	if len(srcX) == 0 {
		return nil, fmt.Errorf("resample: empty source curve")
	}
	for i := 1; i < len(srcX); i++ {
		if srcX[i] <= srcX[i-1] {
			return nil, fmt.Errorf("resample: source x not strictly increasing at index %d", i)
		}
	}

	out := make([]float64, len(dstX))
	for i, x := range dstX {
		out[i] = at(srcX, srcY, x)
	}
	return out, nil
}

// at evaluates the piecewise-linear curve at x.
func at(srcX, srcY []float64, x float64) float64 {
	n := len(srcX)
	if x <= srcX[0] {
		return srcY[0]
	}
	if x >= srcX[n-1] {
		return srcY[n-1]
	}

	// First index with srcX[j] >= x; the surrounding segment is [j-1, j].
	j := sort.SearchFloat64s(srcX, x)
	if j < n && srcX[j] == x {
		return srcY[j]
	}
	frac := (x - srcX[j-1]) / (srcX[j] - srcX[j-1])
	return srcY[j-1] + frac*(srcY[j]-srcY[j-1])
}

// SameGrid reports whether two grids are element-wise identical.
func SameGrid(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
