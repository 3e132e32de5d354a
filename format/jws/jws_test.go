package jws

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// buildHeader assembles a DataInfo stream image for tests.
func buildHeader(channels, points int, xFirst, xLast, xInc float64, typeCodes []uint32) []byte {
	raw := make([]byte, 0, fixedHeaderLen+4*(channels+1)+channels*channelBlockLen)

	u32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		raw = append(raw, b[:]...)
	}
	f64 := func(v float64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		raw = append(raw, b[:]...)
	}

	u32(0)
	u32(0)
	u32(0)
	u32(uint32(channels))
	u32(0)
	u32(uint32(points))
	f64(xFirst)
	f64(xLast)
	f64(xInc)

	for i := 0; i < channels+1; i++ {
		if i < len(typeCodes) {
			u32(typeCodes[i])
		} else {
			u32(0)
		}
	}
	for c := 0; c < channels; c++ {
		u32(uint32(c))
		u32(0)
		f64(0)
		f64(0)
		f64(0)
		f64(0)
	}
	return raw
}

func buildYData(chunks ...[]float32) []byte {
	var raw []byte
	for _, chunk := range chunks {
		for _, v := range chunk {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
			raw = append(raw, b[:]...)
		}
	}
	return raw
}

func TestDecodeStreamsMinimalContainer(t *testing.T) {
	hdr := buildHeader(1, 5, 1000, 1008, 2, []uint32{268435715, 3})
	y := buildYData([]float32{0.1, 0.2, 0.3, 0.4, 0.5})

	d, err := decodeStreams(hdr, y)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if d.ChannelCount != 1 || d.PointCount != 5 {
		t.Fatalf("counts mismatch: channels=%d points=%d", d.ChannelCount, d.PointCount)
	}

	wantX := []float64{1000, 1002, 1004, 1006, 1008}
	gotX := d.XValues()
	if len(gotX) != len(wantX) {
		t.Fatalf("x length mismatch: got %d want %d", len(gotX), len(wantX))
	}
	for i := range wantX {
		if gotX[i] != wantX[i] {
			t.Fatalf("x[%d] = %v, want %v (exact)", i, gotX[i], wantX[i])
		}
	}

	for i, want := range []float64{0.1, 0.2, 0.3, 0.4, 0.5} {
		if math.Abs(d.Y[i]-want) > 1e-7 {
			t.Fatalf("y[%d] = %v, want ~%v", i, d.Y[i], want)
		}
	}
}

func TestDecodeStreamsChannelLabels(t *testing.T) {
	hdr := buildHeader(2, 3, 0, 2, 1, []uint32{268435715, 3, 99999})
	y := buildYData([]float32{1, 2, 3}, []float32{9, 9, 9})

	d, err := decodeStreams(hdr, y)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	want := []string{"WAVELENGTH", "ABSORBANCE", "undefined"}
	if len(d.ChannelLabels) != len(want) {
		t.Fatalf("label count mismatch: got %d want %d", len(d.ChannelLabels), len(want))
	}
	for i := range want {
		if d.ChannelLabels[i] != want[i] {
			t.Fatalf("label[%d] = %q, want %q", i, d.ChannelLabels[i], want[i])
		}
	}
}

func TestDecodeStreamsChannelMajorSelection(t *testing.T) {
	// Two channels: the absorbance signal must come from chunk 0 only.
	hdr := buildHeader(2, 4, 100, 103, 1, []uint32{268435715, 3, 3})
	y := buildYData([]float32{1, 2, 3, 4}, []float32{-1, -2, -3, -4})

	d, err := decodeStreams(hdr, y)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i, want := range []float64{1, 2, 3, 4} {
		if d.Y[i] != want {
			t.Fatalf("y[%d] = %v, want %v (channel 0)", i, d.Y[i], want)
		}
	}
	if len(d.Channels) != 2 {
		t.Fatalf("descriptor count mismatch: got %d want 2", len(d.Channels))
	}
}

func TestDecodeStreamsTruncatedHeader(t *testing.T) {
	hdr := buildHeader(1, 5, 1000, 1008, 2, []uint32{268435715, 3})

	for _, cut := range []int{0, 10, fixedHeaderLen - 1, fixedHeaderLen + 3, len(hdr) - 1} {
		_, err := decodeStreams(hdr[:cut], nil)
		if err == nil {
			t.Fatalf("cut=%d: expected decode error", cut)
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("cut=%d: error is %T, want *DecodeError", cut, err)
		}
		if de.Stream != streamDataInfo {
			t.Fatalf("cut=%d: stream = %q, want %q", cut, de.Stream, streamDataInfo)
		}
	}
}

func TestDecodeStreamsShortYData(t *testing.T) {
	hdr := buildHeader(1, 5, 1000, 1008, 2, []uint32{268435715, 3})
	y := buildYData([]float32{0.1, 0.2, 0.3}) // 3 of 5 points

	_, err := decodeStreams(hdr, y)
	if err == nil {
		t.Fatal("expected decode error for short Y-Data")
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Stream != streamYData {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeStreamsImplausibleCounts(t *testing.T) {
	hdr := buildHeader(1, 5, 1000, 1008, 2, []uint32{268435715, 3})

	// Overwrite the channel count field with garbage.
	binary.LittleEndian.PutUint32(hdr[12:16], 1<<20)
	if _, err := decodeStreams(hdr, nil); err == nil {
		t.Fatal("expected error for implausible channel count")
	}

	binary.LittleEndian.PutUint32(hdr[12:16], 0)
	if _, err := decodeStreams(hdr, nil); err == nil {
		t.Fatal("expected error for zero channel count")
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile("testdata/does-not-exist.jws")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error is %T, want *DecodeError", err)
	}
}
