// Package frequency computes frequency-domain quality metrics for spectra
// and fitted baselines.
//
// The workflow uses these as roughness measures: a well-regularized baseline
// concentrates its energy in the lowest spatial frequencies, so the fraction
// of energy above a cutoff is a direct smoothness score.
package frequency

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Magnitude returns the one-sided magnitude spectrum of y.
//
// The mean is removed and the signal zero-padded to the next power of two
// before the transform, so bin 0 carries no offset energy and the FFT size
// is always supported. The result has padded/2 + 1 bins.
func Magnitude(y []float64) ([]float64, error) {
	n := len(y)
	if n < 2 {
		return nil, fmt.Errorf("frequency: need at least 2 samples, got %d", n)
	}

	mean := 0.0
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("frequency: non-finite input")
		}
		mean += v
	}
	mean /= float64(n)

	size := nextPow2(n)
	in := make([]complex128, size)
	for i, v := range y {
		in[i] = complex(v-mean, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("frequency: fft plan: %w", err)
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("frequency: fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)
	return mag, nil
}

// HighFrequencyFraction returns the share of spectral energy above
// cutoff * Nyquist, with cutoff in (0, 1). A flat or DC-only signal scores 0.
func HighFrequencyFraction(y []float64, cutoff float64) (float64, error) {
	if !(cutoff > 0 && cutoff < 1) {
		return 0, fmt.Errorf("frequency: cutoff must be in (0, 1): %g", cutoff)
	}

	mag, err := Magnitude(y)
	if err != nil {
		return 0, err
	}

	split := int(math.Ceil(cutoff * float64(len(mag)-1)))
	if split < 1 {
		split = 1
	}

	var total, high float64
	for i := 1; i < len(mag); i++ {
		e := mag[i] * mag[i]
		total += e
		if i >= split {
			high += e
		}
	}
	if total == 0 {
		return 0, nil
	}
	return high / total, nil
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
