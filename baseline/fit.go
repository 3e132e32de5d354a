package baseline

import (
	"fmt"

	"github.com/cwbudde/algo-ftir/dsp/savgol"
	"github.com/cwbudde/algo-vecmath"
)

// Params bundles the baseline estimation parameters persisted with a record.
type Params struct {
	Lambda     float64
	P          float64
	Smooth     bool
	Iterations int
}

// DefaultParams returns the workflow defaults: lambda 1e5, p 0.01, no
// pre-smoothing, 50 iterations.
func DefaultParams() Params {
	return Params{
		Lambda:     DefaultLambda,
		P:          DefaultP,
		Iterations: DefaultIterations,
	}
}

// Result holds the outcome of a baseline fit.
type Result struct {
	// Input is the signal the solver actually saw: the raw samples, or the
	// Savitzky-Golay smoothed copy when Params.Smooth is set.
	Input []float64

	// Baseline is the estimated baseline on the same grid as Input.
	Baseline []float64

	// Corrected is Input minus Baseline.
	Corrected []float64
}

// Fit estimates a baseline for y with the given parameters.
//
// When p.Smooth is set, a Savitzky-Golay pre-pass (window per
// [savgol.WindowFor], order 3) is applied to a copy of y before the ALS
// solve; y itself is never modified, so repeated calls with different
// parameters always start from the same raw samples.
func Fit(y []float64, p Params) (Result, error) {
	if p.Iterations == 0 {
		p.Iterations = DefaultIterations
	}

	input := make([]float64, len(y))
	copy(input, y)

	if p.Smooth {
		smoothed, err := savgol.SmoothDefault(input)
		if err != nil {
			return Result{}, fmt.Errorf("baseline: pre-smoothing: %w", err)
		}
		input = smoothed
	}

	base, err := Solve(input, p.Lambda, p.P, p.Iterations)
	if err != nil {
		return Result{}, err
	}

	corrected := make([]float64, len(input))
	copy(corrected, input)
	neg := make([]float64, len(base))
	vecmath.ScaleBlock(neg, base, -1)
	vecmath.AddBlockInPlace(corrected, neg)

	return Result{Input: input, Baseline: base, Corrected: corrected}, nil
}
