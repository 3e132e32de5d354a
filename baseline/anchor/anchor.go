// Package anchor applies user-placed control points to a computed baseline.
//
// An anchor pins the baseline to pass through a chosen (wavenumber,
// absorbance) point. Each anchor contributes a Gaussian-weighted bump
// centered on its nearest sample, so the correction blends smoothly into the
// surrounding curve instead of introducing a kink.
package anchor

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Anchor is a control point in data-coordinate space.
type Anchor struct {
	X float64
	Y float64
}

// sigmaDivisor fixes the influence radius at 1/50 of the x span: anchors
// placed on a narrow spectral window correct more tightly than on a wide one.
const sigmaDivisor = 50.0

// Sigma returns the Gaussian influence radius for the grid x.
func Sigma(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return (hi - lo) / sigmaDivisor
}

// NearestIndex returns the index of the sample whose x is closest to ax.
// Ties resolve to the first match.
func NearestIndex(x []float64, ax float64) int {
	best := 0
	bestDist := math.Abs(x[0] - ax)
	for i := 1; i < len(x); i++ {
		if d := math.Abs(x[i] - ax); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Adjust returns a copy of baseline with every anchor's correction applied.
//
// Each anchor's vertical offset is measured against the pristine input
// baseline, not the accumulating result, and the Gaussian bumps superpose
// additively. That makes the final curve independent of anchor order, so
// the user can place and re-place anchors freely.
func Adjust(x, baseline []float64, anchors []Anchor) ([]float64, error) {
	if len(x) != len(baseline) {
		return nil, fmt.Errorf("anchor: length mismatch: %d x values, %d baseline values", len(x), len(baseline))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("anchor: empty baseline")
	}

	adjusted := make([]float64, len(baseline))
	copy(adjusted, baseline)
	if len(anchors) == 0 {
		return adjusted, nil
	}

	sigma := Sigma(x)

	weights := make([]float64, len(x))
	bump := make([]float64, len(x))
	for _, a := range anchors {
		ci := NearestIndex(x, a.X)
		offset := a.Y - baseline[ci]

		if sigma == 0 {
			// Degenerate single-x grid: pin the nearest sample only.
			adjusted[ci] += offset
			continue
		}

		cx := x[ci]
		for i, xi := range x {
			d := (xi - cx) / sigma
			weights[i] = math.Exp(-0.5 * d * d)
		}
		vecmath.ScaleBlock(bump, weights, offset)
		vecmath.AddBlockInPlace(adjusted, bump)
	}
	return adjusted, nil
}
