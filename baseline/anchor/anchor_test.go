package anchor

import (
	"math"
	"math/rand"
	"testing"
)

func grid(n int, first, step float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = first + float64(i)*step
	}
	return x
}

func TestAdjustEmptyAnchorsIsIdentity(t *testing.T) {
	x := grid(100, 1000, 2)
	base := make([]float64, len(x))
	for i := range base {
		base[i] = 0.5 + 0.001*float64(i)
	}

	out, err := Adjust(x, base, nil)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	for i := range base {
		if out[i] != base[i] {
			t.Fatalf("identity violated at %d: %v != %v", i, out[i], base[i])
		}
	}

	out[0] = 99
	if base[0] == 99 {
		t.Fatal("output aliases input baseline")
	}
}

func TestAdjustSingleAnchorExactAtNearestSample(t *testing.T) {
	// Well separated from the edges, the Gaussian bump is 1 at its center,
	// so the adjusted baseline passes exactly through the anchor.
	x := grid(1001, 1000, 2) // span 2000, sigma 40
	base := make([]float64, len(x))

	a := Anchor{X: 2000.3, Y: 0.75}
	out, err := Adjust(x, base, []Anchor{a})
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}

	ci := NearestIndex(x, a.X)
	if x[ci] != 2000 {
		t.Fatalf("nearest sample = %v, want 2000", x[ci])
	}
	if math.Abs(out[ci]-a.Y) > 1e-12 {
		t.Fatalf("baseline does not pass through anchor: %v, want %v", out[ci], a.Y)
	}

	// A few sigma away the bump has decayed to nothing.
	far := NearestIndex(x, 2400)
	if math.Abs(out[far]-base[far]) > 1e-9 {
		t.Fatalf("bump did not decay: %v at 10 sigma", out[far]-base[far])
	}
}

func TestAdjustOrderInvariance(t *testing.T) {
	x := grid(500, 400, 4)
	base := make([]float64, len(x))
	for i := range base {
		base[i] = math.Sin(float64(i) / 60)
	}

	anchors := []Anchor{
		{X: 600, Y: 0.4},
		{X: 900, Y: -0.2},
		{X: 950, Y: 0.1}, // overlaps the previous anchor's bump
		{X: 1800, Y: 1.3},
	}

	want, err := Adjust(x, base, anchors)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}

	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 10; trial++ {
		perm := make([]Anchor, len(anchors))
		for i, j := range rng.Perm(len(anchors)) {
			perm[i] = anchors[j]
		}

		got, err := Adjust(x, base, perm)
		if err != nil {
			t.Fatalf("adjust failed: %v", err)
		}
		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-12 {
				t.Fatalf("trial %d: order dependence at %d: %v != %v", trial, i, got[i], want[i])
			}
		}
	}
}

func TestAdjustOffsetsMeasuredAgainstPristineBaseline(t *testing.T) {
	// Two anchors on the same sample: bumps superpose, each measured
	// against the original baseline. Combined, the center moves by the sum
	// of both offsets.
	x := grid(201, 0, 1)
	base := make([]float64, len(x))

	anchors := []Anchor{
		{X: 100, Y: 1},
		{X: 100, Y: 2},
	}
	out, err := Adjust(x, base, anchors)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if math.Abs(out[100]-3) > 1e-12 {
		t.Fatalf("superposition mismatch: out[100] = %v, want 3", out[100])
	}
}

func TestNearestIndexTieBreaksFirst(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	if got := NearestIndex(x, 1.5); got != 1 {
		t.Fatalf("tie broken to %d, want 1 (first match)", got)
	}
}

func TestSigmaIsSpanFraction(t *testing.T) {
	x := grid(11, 1000, 100) // span 1000
	if got := Sigma(x); got != 20 {
		t.Fatalf("sigma = %v, want 20", got)
	}
}

func TestAdjustDegenerateGrid(t *testing.T) {
	x := []float64{5, 5, 5}
	base := []float64{1, 1, 1}

	out, err := Adjust(x, base, []Anchor{{X: 5, Y: 2}})
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if out[0] != 2 || out[1] != 1 || out[2] != 1 {
		t.Fatalf("degenerate adjustment mismatch: %v", out)
	}
}

func TestAdjustRejectsBadInput(t *testing.T) {
	if _, err := Adjust([]float64{1, 2}, []float64{1}, nil); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if _, err := Adjust(nil, nil, nil); err == nil {
		t.Fatal("expected empty baseline error")
	}
}
