package signal

import (
	"math"
	"testing"
)

func TestSpectrumDeterministicPerSeed(t *testing.T) {
	x := Grid(1000, 2, 400)
	peaks := []Peak{{Center: 1400, Height: 1, Width: 20}}

	a, err := NewGenerator(WithSeed(42)).Spectrum(x, peaks, []float64{0.1, 0.2}, 0.05)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	b, err := NewGenerator(WithSeed(42)).Spectrum(x, peaks, []float64{0.1, 0.2}, 0.05)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d", i)
		}
	}

	c, err := NewGenerator(WithSeed(43)).Spectrum(x, peaks, []float64{0.1, 0.2}, 0.05)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestSpectrumPeakAndDrift(t *testing.T) {
	x := Grid(0, 1, 101)
	y, err := NewGenerator().Spectrum(x, []Peak{{Center: 50, Height: 2, Width: 5}}, []float64{1}, 0)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if math.Abs(y[50]-3) > 1e-12 {
		t.Fatalf("peak maximum = %v, want 3 (drift 1 + height 2)", y[50])
	}
	if math.Abs(y[0]-1) > 1e-6 {
		t.Fatalf("edge value = %v, want drift-only 1", y[0])
	}
}

func TestGrid(t *testing.T) {
	x := Grid(1000, 2, 5)
	want := []float64{1000, 1002, 1004, 1006, 1008}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("x[%d] = %v, want %v", i, x[i], want[i])
		}
	}
}

func TestSpectrumRejectsBadInput(t *testing.T) {
	if _, err := NewGenerator().Spectrum(nil, nil, nil, 0); err == nil {
		t.Fatal("expected empty-grid error")
	}
	if _, err := NewGenerator().Spectrum(Grid(0, 1, 3), nil, nil, -1); err == nil {
		t.Fatal("expected negative-noise error")
	}
}
