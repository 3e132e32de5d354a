package baseline

import (
	"math"
	"testing"
)

func TestFitDoesNotModifyInput(t *testing.T) {
	y := noisySlope(200)
	orig := make([]float64, len(y))
	copy(orig, y)

	if _, err := Fit(y, Params{Lambda: 1e5, P: 0.01, Smooth: true, Iterations: 10}); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	for i := range y {
		if y[i] != orig[i] {
			t.Fatalf("input modified at %d", i)
		}
	}
}

func TestFitSmoothToggleIsIdempotent(t *testing.T) {
	// Toggling Smooth back off must reproduce the unsmoothed fit exactly:
	// the raw samples are always the starting point.
	y := noisySlope(200)

	plain1, err := Fit(y, Params{Lambda: 1e5, P: 0.01, Iterations: 10})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if _, err := Fit(y, Params{Lambda: 1e5, P: 0.01, Smooth: true, Iterations: 10}); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	plain2, err := Fit(y, Params{Lambda: 1e5, P: 0.01, Iterations: 10})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	for i := range plain1.Baseline {
		if plain1.Baseline[i] != plain2.Baseline[i] {
			t.Fatalf("baseline differs after smooth toggle at %d", i)
		}
	}
}

func TestFitCorrectedIsInputMinusBaseline(t *testing.T) {
	y := noisySlope(150)

	res, err := Fit(y, Params{Lambda: 1e5, P: 0.01, Iterations: 10})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	for i := range y {
		want := res.Input[i] - res.Baseline[i]
		if math.Abs(res.Corrected[i]-want) > 1e-12 {
			t.Fatalf("corrected[%d] = %v, want %v", i, res.Corrected[i], want)
		}
	}
}

func TestFitDefaultIterations(t *testing.T) {
	y := noisySlope(64)

	// Iterations 0 means "use the default", not an error.
	if _, err := Fit(y, Params{Lambda: 1e5, P: 0.01}); err != nil {
		t.Fatalf("fit with default iterations failed: %v", err)
	}
}

func TestFitSmoothedInputDiffersFromRaw(t *testing.T) {
	y := noisySlope(400)

	res, err := Fit(y, Params{Lambda: 1e5, P: 0.01, Smooth: true, Iterations: 10})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	same := true
	for i := range y {
		if res.Input[i] != y[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("smoothed input identical to raw samples")
	}
}
