// Package ylk defines the persisted spectrum record and its JSON format.
//
// A YLK file is the unit of work of the analysis workflow: the raw decoded
// samples of one spectrum, the derived baseline once one has been saved, and
// the metadata needed to reproduce that baseline. Raw x values are stored at
// 6 decimals and y values at 8, matching the source instrument resolution
// while keeping float noise out of the JSON.
package ylk

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/algo-ftir/dsp/resample"
	"github.com/cwbudde/algo-ftir/format/jws"
)

// MinSavePoints is the smallest spectrum a baseline may be saved for. The
// solver itself runs from 3 points; this higher floor is a workflow safety
// threshold.
const MinSavePoints = 10

// Baseline estimation method tags persisted in BaselineParams.
const (
	MethodALS            = "als"
	MethodALSWithAnchors = "als_with_anchors"
)

// Series is a pair of equal-length sample arrays.
type Series struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// BaselineParams records how a saved baseline was produced.
type BaselineParams struct {
	Method  string       `json:"method"`
	Lambda  float64      `json:"lambda"`
	P       float64      `json:"p"`
	Smooth  bool         `json:"smooth"`
	Anchors [][2]float64 `json:"anchors,omitempty"`
}

// Metadata carries record provenance. Timestamps are ISO-8601.
type Metadata struct {
	Created        string          `json:"created"`
	Modified       string          `json:"modified,omitempty"`
	SourceFile     string          `json:"source_file"`
	Channels       int             `json:"channels"`
	Points         int             `json:"points"`
	BaselineParams *BaselineParams `json:"baseline_params,omitempty"`
}

// Record is one persisted spectrum.
type Record struct {
	Name     string     `json:"name"`
	Range    [2]float64 `json:"range"`
	RawData  Series     `json:"raw_data"`
	Baseline Series     `json:"baseline"`
	Metadata Metadata   `json:"metadata"`
}

// Round6 rounds to 6 decimals (wavenumber precision).
func Round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// Round8 rounds to 8 decimals (absorbance precision).
func Round8(v float64) float64 { return math.Round(v*1e8) / 1e8 }

// FromDecoded builds a fresh record from a decoded JWS file. The x axis is
// reconstructed from the header, both axes are rounded to storage precision,
// and the display range is derived by rounding the x extremes to the nearest
// multiple of 10.
func FromDecoded(d *jws.Data, sourceFile string) *Record {
	x := d.XValues()
	y := make([]float64, len(d.Y))
	for i := range x {
		x[i] = Round6(x[i])
	}
	for i := range y {
		y[i] = Round8(d.Y[i])
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

	base := filepath.Base(sourceFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	return &Record{
		Name:     name,
		Range:    [2]float64{math.Round(lo/10) * 10, math.Round(hi/10) * 10},
		RawData:  Series{X: x, Y: y},
		Baseline: Series{X: []float64{}, Y: []float64{}},
		Metadata: Metadata{
			Created:    time.Now().Format(time.RFC3339),
			SourceFile: base,
			Channels:   d.ChannelCount,
			Points:     d.PointCount,
		},
	}
}

// Validate checks the record invariants: equal-length finite raw arrays with
// strictly increasing x, and a baseline that is either empty or stored on the
// raw grid.
func (r *Record) Validate() error {
	if len(r.RawData.X) != len(r.RawData.Y) {
		return fmt.Errorf("ylk: raw data length mismatch: %d x values, %d y values",
			len(r.RawData.X), len(r.RawData.Y))
	}
	if len(r.RawData.X) == 0 {
		return fmt.Errorf("ylk: record %q has no raw data", r.Name)
	}
	for i := range r.RawData.X {
		if !isFinite(r.RawData.X[i]) || !isFinite(r.RawData.Y[i]) {
			return fmt.Errorf("ylk: non-finite raw sample at index %d", i)
		}
		if i > 0 && r.RawData.X[i] <= r.RawData.X[i-1] {
			return fmt.Errorf("ylk: raw x not strictly increasing at index %d", i)
		}
	}

	if len(r.Baseline.X) != len(r.Baseline.Y) {
		return fmt.Errorf("ylk: baseline length mismatch: %d x values, %d y values",
			len(r.Baseline.X), len(r.Baseline.Y))
	}
	if len(r.Baseline.X) > 0 && !resample.SameGrid(r.Baseline.X, r.RawData.X) {
		return fmt.Errorf("ylk: baseline stored on a different grid than raw data")
	}
	return nil
}

// SetBaseline stores a baseline on the record, resampling onto the raw x
// grid first when the given grid differs. This keeps the persisted-format
// invariant that baseline and raw data always share a grid.
func (r *Record) SetBaseline(x, y []float64, params BaselineParams) error {
	if len(r.RawData.X) < MinSavePoints {
		return fmt.Errorf("ylk: at least %d data points required to save a baseline, got %d",
			MinSavePoints, len(r.RawData.X))
	}
	if len(x) != len(y) || len(x) == 0 {
		return fmt.Errorf("ylk: invalid baseline: %d x values, %d y values", len(x), len(y))
	}
	if params.Lambda <= 0 {
		return fmt.Errorf("ylk: baseline lambda must be positive: %g", params.Lambda)
	}
	if !(params.P > 0 && params.P < 1) {
		return fmt.Errorf("ylk: baseline p must be in (0, 1): %g", params.P)
	}

	vals := y
	if !resample.SameGrid(x, r.RawData.X) {
		resampled, err := resample.Linear(x, y, r.RawData.X)
		if err != nil {
			return fmt.Errorf("ylk: resample baseline onto raw grid: %w", err)
		}
		vals = resampled
	}

	gx := make([]float64, len(r.RawData.X))
	copy(gx, r.RawData.X)
	gy := make([]float64, len(vals))
	for i, v := range vals {
		gy[i] = Round8(v)
	}

	r.Baseline = Series{X: gx, Y: gy}
	p := params
	r.Metadata.BaselineParams = &p
	return nil
}

// Save writes the record as indented JSON, updating the modified timestamp.
func (r *Record) Save(path string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.Metadata.Modified = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("ylk: marshal record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ylk: write %s: %w", path, err)
	}
	return nil
}

// Load reads and validates a record from disk.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ylk: read %s: %w", path, err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("ylk: parse %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("ylk: %s: %w", path, err)
	}
	return &r, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
