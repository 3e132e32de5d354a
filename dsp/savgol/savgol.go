// Package savgol implements Savitzky-Golay polynomial smoothing.
//
// A Savitzky-Golay filter fits a low-order polynomial to a sliding window by
// least squares and replaces the center sample with the fitted value. It
// preserves peak shape and width far better than a moving average, which is
// why it is the standard pre-smoother for absorbance spectra.
package savgol

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultOrder is the polynomial order used by [SmoothDefault].
const DefaultOrder = 3

// WindowFor returns the window length used for a signal of n samples:
// min(51, n/10) for long signals, 5 otherwise, forced odd. The returned
// window can exceed n for very short signals; callers should skip smoothing
// in that case (see [SmoothDefault]).
func WindowFor(n int) int {
	w := 5
	if n > 50 {
		w = n / 10
		if w > 51 {
			w = 51
		}
	}
	if w%2 == 0 {
		w++
	}
	return w
}

// design computes the pseudo-inverse G = (A'A)^-1 A' of the window
// Vandermonde matrix, where A[r][k] = (r-h)^k. Row k of G holds the least
// squares coefficients of the k-th polynomial term.
func design(window, order int) (*mat.Dense, error) {
	if window < 3 || window%2 == 0 {
		return nil, fmt.Errorf("savgol: window must be odd and >= 3: %d", window)
	}
	if order < 1 || order >= window {
		return nil, fmt.Errorf("savgol: order must be in [1, window): %d", order)
	}

	h := window / 2
	m := order + 1
	a := mat.NewDense(window, m, nil)
	for r := 0; r < window; r++ {
		t := float64(r - h)
		pow := 1.0
		for k := 0; k < m; k++ {
			a.Set(r, k, pow)
			pow *= t
		}
	}

	ones := make([]float64, window)
	for i := range ones {
		ones[i] = 1
	}
	eye := mat.NewDiagDense(window, ones)

	var qr mat.QR
	qr.Factorize(a)
	g := mat.NewDense(m, window, nil)
	if err := qr.SolveTo(g, false, eye); err != nil {
		return nil, fmt.Errorf("savgol: design solve: %w", err)
	}
	return g, nil
}

// weightsAt returns the convolution weights that evaluate the window fit at
// fractional offset t from the window center (t = 0 is the center sample).
func weightsAt(g *mat.Dense, window int, t float64) []float64 {
	m, _ := g.Dims()
	w := make([]float64, window)
	for r := 0; r < window; r++ {
		pow := 1.0
		sum := 0.0
		for k := 0; k < m; k++ {
			sum += pow * g.At(k, r)
			pow *= t
		}
		w[r] = sum
	}
	return w
}

// Coefficients returns the center-sample smoothing weights for the given
// window length and polynomial order.
func Coefficients(window, order int) ([]float64, error) {
	g, err := design(window, order)
	if err != nil {
		return nil, err
	}
	return weightsAt(g, window, 0), nil
}

// Smooth applies a Savitzky-Golay filter and returns the smoothed copy.
// Samples closer than half a window to either end are produced by fitting
// the edge window and evaluating the polynomial at the sample's offset, so
// the output has no startup transient.
func Smooth(y []float64, window, order int) ([]float64, error) {
	if window > len(y) {
		return nil, fmt.Errorf("savgol: window %d larger than input length %d", window, len(y))
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("savgol: non-finite input at index %d", i)
		}
	}

	g, err := design(window, order)
	if err != nil {
		return nil, err
	}

	n := len(y)
	h := window / 2
	center := weightsAt(g, window, 0)

	out := make([]float64, n)
	for i := h; i < n-h; i++ {
		out[i] = dot(center, y[i-h:i+h+1])
	}
	for i := 0; i < h; i++ {
		out[i] = dot(weightsAt(g, window, float64(i-h)), y[:window])
	}
	for i := n - h; i < n; i++ {
		out[i] = dot(weightsAt(g, window, float64(i-(n-1-h))), y[n-window:])
	}
	return out, nil
}

// SmoothDefault smooths with [WindowFor] and [DefaultOrder]. Signals too
// short for the derived window are returned as an unmodified copy.
func SmoothDefault(y []float64) ([]float64, error) {
	window := WindowFor(len(y))
	if window < 5 || window > len(y) {
		out := make([]float64, len(y))
		copy(out, y)
		return out, nil
	}
	return Smooth(y, window, DefaultOrder)
}

func dot(w, y []float64) float64 {
	var sum float64
	for i, c := range w {
		sum += c * y[i]
	}
	return sum
}
