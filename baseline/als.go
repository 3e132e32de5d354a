package baseline

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Default ALS parameters, matching the values the instrument workflow falls
// back to when user input cannot be parsed.
const (
	DefaultLambda     = 1e5
	DefaultP          = 0.01
	DefaultIterations = 50
)

var (
	// ErrInvalidInput reports a violated solver precondition.
	ErrInvalidInput = errors.New("baseline: invalid input")

	// ErrSingular reports a numeric failure inside the penalized
	// least-squares solve.
	ErrSingular = errors.New("baseline: singular system")
)

// Solve runs the ALS baseline estimation on y and returns the baseline curve,
// same length as y.
//
// Each iteration solves the banded symmetric system
//
//	(diag(w) + lambda * D'D) z = w .* y
//
// where D is the second-order difference operator, then re-derives the
// weights asymmetrically: w[i] = p where y[i] > z[i] (likely a peak,
// downweight it), w[i] = 1-p where y[i] < z[i]. There is no convergence test
// beyond the fixed iteration count, which keeps the result deterministic for
// a given input.
func Solve(y []float64, lambda, p float64, iterations int) ([]float64, error) {
	n := len(y)
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 points, got %d", ErrInvalidInput, n)
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value at index %d", ErrInvalidInput, i)
		}
	}
	if lambda <= 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return nil, fmt.Errorf("%w: lambda must be positive and finite: %g", ErrInvalidInput, lambda)
	}
	if !(p > 0 && p < 1) {
		return nil, fmt.Errorf("%w: asymmetry p must be in (0, 1): %g", ErrInvalidInput, p)
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be >= 1: %d", ErrInvalidInput, iterations)
	}

	d0, d1, d2 := penaltyBands(n)

	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}

	// Row-major symmetric band storage: row i holds A[i,i], A[i,i+1], A[i,i+2].
	band := make([]float64, n*3)
	rhs := mat.NewVecDense(n, nil)
	var z mat.VecDense
	var chol mat.BandCholesky

	for iter := 0; iter < iterations; iter++ {
		for i := 0; i < n; i++ {
			band[i*3] = w[i] + lambda*d0[i]
			band[i*3+1] = lambda * d1[i]
			band[i*3+2] = lambda * d2[i]
		}
		ab := mat.NewSymBandDense(n, 2, band)

		for i := 0; i < n; i++ {
			rhs.SetVec(i, w[i]*y[i])
		}

		if ok := chol.Factorize(ab); !ok {
			return nil, fmt.Errorf("%w: band Cholesky factorization failed at iteration %d", ErrSingular, iter)
		}
		if err := chol.SolveVecTo(&z, rhs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}

		for i := 0; i < n; i++ {
			switch zi := z.AtVec(i); {
			case y[i] > zi:
				w[i] = p
			case y[i] < zi:
				w[i] = 1 - p
			default:
				// Exact equality: neither side of the asymmetric split.
				w[i] = 0
			}
		}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = z.AtVec(i)
	}
	return out, nil
}

// penaltyBands computes the three bands of D'D for the (n-2) x n second-order
// difference operator D with stencil (1, -2, 1). Entries are accumulated from
// the stencil directly so short inputs (n = 3, 4) come out right too.
func penaltyBands(n int) (d0, d1, d2 []float64) {
	d0 = make([]float64, n)
	d1 = make([]float64, n)
	d2 = make([]float64, n)
	stencil := [3]float64{1, -2, 1}

	for j := 0; j <= n-3; j++ {
		// Row j of D touches columns j, j+1, j+2.
		for a := 0; a < 3; a++ {
			d0[j+a] += stencil[a] * stencil[a]
			if a < 2 {
				d1[j+a] += stencil[a] * stencil[a+1]
			}
		}
		d2[j] += stencil[0] * stencil[2]
	}
	return d0, d1, d2
}
