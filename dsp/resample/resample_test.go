package resample

import (
	"math"
	"testing"
)

func TestLinearIdentityOnSameGrid(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{5, 3, 8, 1, 2}

	out, err := Linear(x, y, x)
	if err != nil {
		t.Fatalf("resample failed: %v", err)
	}
	for i := range y {
		if out[i] != y[i] {
			t.Fatalf("out[%d] = %v, want %v (exact)", i, out[i], y[i])
		}
	}
}

func TestLinearExactOnLinearFunction(t *testing.T) {
	// y = 2x + 1 sampled coarsely must resample exactly onto a finer grid.
	srcX := []float64{0, 2, 4, 6}
	srcY := []float64{1, 5, 9, 13}
	dstX := []float64{0, 0.5, 1, 1.5, 3, 5.5, 6}

	out, err := Linear(srcX, srcY, dstX)
	if err != nil {
		t.Fatalf("resample failed: %v", err)
	}
	for i, x := range dstX {
		want := 2*x + 1
		if math.Abs(out[i]-want) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestLinearClampsOutsideSpan(t *testing.T) {
	srcX := []float64{10, 20}
	srcY := []float64{1, 3}

	out, err := Linear(srcX, srcY, []float64{0, 10, 25})
	if err != nil {
		t.Fatalf("resample failed: %v", err)
	}
	if out[0] != 1 || out[1] != 1 || out[2] != 3 {
		t.Fatalf("clamping mismatch: got %v", out)
	}
}

func TestLinearRejectsBadInput(t *testing.T) {
	if _, err := Linear([]float64{0, 1}, []float64{1}, []float64{0}); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if _, err := Linear(nil, nil, []float64{0}); err == nil {
		t.Fatal("expected empty source error")
	}
	if _, err := Linear([]float64{0, 0}, []float64{1, 2}, []float64{0}); err == nil {
		t.Fatal("expected non-increasing error")
	}
}

func TestSameGrid(t *testing.T) {
	if !SameGrid([]float64{1, 2}, []float64{1, 2}) {
		t.Fatal("identical grids reported different")
	}
	if SameGrid([]float64{1, 2}, []float64{1, 2, 3}) {
		t.Fatal("different lengths reported same")
	}
	if SameGrid([]float64{1, 2}, []float64{1, 2.5}) {
		t.Fatal("different values reported same")
	}
}
