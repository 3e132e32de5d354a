package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ftir/baseline"
	"github.com/cwbudde/algo-ftir/baseline/anchor"
	"github.com/cwbudde/algo-ftir/format/ylk"
)

// State enumerates the interaction states of a session.
type State int

const (
	// Idle: no interaction in progress. An anchor may still be selected
	// (releasing a drag keeps the selection so a delete can follow).
	Idle State = iota

	// AnchorSelected: the pointer went down on an anchor but has not
	// moved yet.
	AnchorSelected

	// Dragging: the selected anchor follows the pointer.
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AnchorSelected:
		return "anchor-selected"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// HitRadiusPx is the screen-space anchor selection threshold. Hit testing is
// deliberately done in pixels, not data units, so selection feels the same at
// every zoom level.
const HitRadiusPx = 10.0

// Transform maps data coordinates to screen coordinates for hit testing.
type Transform interface {
	ToScreen(x, y float64) (sx, sy float64)
}

// TransformFunc adapts a function to the [Transform] interface.
type TransformFunc func(x, y float64) (sx, sy float64)

// ToScreen implements [Transform].
func (f TransformFunc) ToScreen(x, y float64) (float64, float64) { return f(x, y) }

// Bounds are the fixed axis limits captured at first render. Dragging clamps
// anchor coordinates to them so the view cannot auto-rescale mid-drag.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (b Bounds) clamp(x, y float64) (float64, float64) {
	if x < b.XMin {
		x = b.XMin
	}
	if x > b.XMax {
		x = b.XMax
	}
	if y < b.YMin {
		y = b.YMin
	}
	if y > b.YMax {
		y = b.YMax
	}
	return x, y
}

// Display is the derived plot data after the latest successful recompute.
type Display struct {
	X   []float64
	Raw []float64

	// Input is the signal the solver saw (smoothed copy when smoothing is
	// enabled, otherwise the raw samples).
	Input []float64

	// Baseline is the anchor-adjusted baseline; Corrected is Raw minus
	// Baseline. Both are nil until a solve has succeeded.
	Baseline  []float64
	Corrected []float64

	Anchors  []anchor.Anchor
	Selected int // index into Anchors, -1 when nothing is selected
}

// ErrSuperseded reports that an async recompute was replaced by a newer
// request before its result arrived.
var ErrSuperseded = errors.New("session: recompute superseded")

// Controller sequences baseline solves and anchor adjustments for one
// record. All methods are safe for use from a single UI goroutine plus the
// async recompute goroutines the controller itself starts.
type Controller struct {
	mu  sync.Mutex
	rec *ylk.Record

	params   baseline.Params
	anchors  []anchor.Anchor
	selected int
	state    State

	bounds    Bounds
	boundsSet bool

	// Last-known-good derived data. pristine is the ALS baseline before
	// anchor adjustment; anchor offsets are always measured against it.
	input     []float64
	pristine  []float64
	adjusted  []float64
	corrected []float64

	// gen invalidates in-flight async recomputes: every mutation bumps it.
	gen uint64
}

// New builds a controller for rec, restoring any saved baseline parameters
// and anchors, and runs the initial recompute. The controller is usable even
// when that first solve fails (the error is returned and the display shows
// raw data only).
func New(rec *ylk.Record) (*Controller, error) {
	if rec == nil {
		return nil, fmt.Errorf("session: nil record")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		rec:      rec,
		params:   restoreParams(rec),
		anchors:  restoreAnchors(rec),
		selected: -1,
	}
	if err := c.recomputeLocked(); err != nil {
		return c, err
	}
	return c, nil
}

// restoreParams loads saved baseline parameters, falling back to the
// workflow defaults wherever a stored value is out of range.
func restoreParams(rec *ylk.Record) baseline.Params {
	p := baseline.DefaultParams()
	saved := rec.Metadata.BaselineParams
	if saved == nil {
		return p
	}
	if saved.Lambda > 0 {
		p.Lambda = saved.Lambda
	}
	if saved.P > 0 && saved.P < 1 {
		p.P = saved.P
	}
	p.Smooth = saved.Smooth
	return p
}

func restoreAnchors(rec *ylk.Record) []anchor.Anchor {
	saved := rec.Metadata.BaselineParams
	if saved == nil || len(saved.Anchors) == 0 {
		return nil
	}
	anchors := make([]anchor.Anchor, len(saved.Anchors))
	for i, a := range saved.Anchors {
		anchors[i] = anchor.Anchor{X: a[0], Y: a[1]}
	}
	return anchors
}

// State returns the current interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectedIndex returns the selected anchor index, -1 when none.
func (c *Controller) SelectedIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Params returns the active baseline parameters.
func (c *Controller) Params() baseline.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Anchors returns a copy of the anchor list in insertion order.
func (c *Controller) Anchors() []anchor.Anchor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]anchor.Anchor(nil), c.anchors...)
}

// SetBounds captures the fixed axis limits. Only the first call takes
// effect; the limits of the first render stay authoritative for the session.
func (c *Controller) SetBounds(b Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.boundsSet {
		return
	}
	c.bounds = b
	c.boundsSet = true
}

// Display returns a copy of the current derived plot data.
func (c *Controller) Display() Display {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Display{
		X:         append([]float64(nil), c.rec.RawData.X...),
		Raw:       append([]float64(nil), c.rec.RawData.Y...),
		Input:     append([]float64(nil), c.input...),
		Baseline:  append([]float64(nil), c.adjusted...),
		Corrected: append([]float64(nil), c.corrected...),
		Anchors:   append([]anchor.Anchor(nil), c.anchors...),
		Selected:  c.selected,
	}
}

// MousePress performs pixel-space hit testing against the anchor list and
// reports whether an anchor was selected. The nearest anchor within
// [HitRadiusPx] wins; on an exact distance tie the later anchor (drawn on
// top) wins.
func (c *Controller) MousePress(sx, sy float64, tf Transform) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tf == nil || len(c.anchors) == 0 {
		return false
	}

	best := -1
	bestSq := HitRadiusPx * HitRadiusPx
	for i, a := range c.anchors {
		ax, ay := tf.ToScreen(a.X, a.Y)
		dx, dy := sx-ax, sy-ay
		if d := dx*dx + dy*dy; d <= bestSq {
			// <= keeps the last (topmost) anchor on ties.
			best = i
			bestSq = d
		}
	}
	if best < 0 {
		return false
	}
	c.selected = best
	c.state = AnchorSelected
	return true
}

// MouseMove drags the selected anchor to (x, y), clamped to the captured
// bounds, and recomputes the display. It reports whether a drag happened.
func (c *Controller) MouseMove(x, y float64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 || c.state == Idle {
		return false, nil
	}

	c.state = Dragging
	if c.boundsSet {
		x, y = c.bounds.clamp(x, y)
	}
	c.anchors[c.selected] = anchor.Anchor{X: x, Y: y}
	if err := c.recomputeLocked(); err != nil {
		return true, err
	}
	return true, nil
}

// MouseRelease ends a drag. The anchor stays selected so a delete keystroke
// can follow; only escape or an explicit deselect clears the selection.
func (c *Controller) MouseRelease() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Dragging || c.state == AnchorSelected {
		c.state = Idle
	}
}

// KeyDelete removes the selected anchor, if any.
func (c *Controller) KeyDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 {
		return nil
	}
	return c.removeAnchorLocked(c.selected)
}

// KeyEscape clears the selection without mutating anchors.
func (c *Controller) KeyEscape() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = -1
	c.state = Idle
}

// AddAnchor appends a control point and recomputes.
func (c *Controller) AddAnchor(x, y float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchors = append(c.anchors, anchor.Anchor{X: x, Y: y})
	return c.recomputeLocked()
}

// SnapY returns the y value of the pristine (pre-anchor) ALS baseline at the
// sample nearest to x. UIs use this to snap the first anchor onto the
// computed baseline.
func (c *Controller) SnapY(x float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pristine) == 0 {
		return 0, fmt.Errorf("session: no baseline computed yet")
	}
	return c.pristine[anchor.NearestIndex(c.rec.RawData.X, x)], nil
}

// RemoveAnchor deletes the anchor at index i and fixes up the selection:
// the selection is cleared when the removed anchor was selected, and shifted
// down by one when the removed index precedes it.
func (c *Controller) RemoveAnchor(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeAnchorLocked(i)
}

func (c *Controller) removeAnchorLocked(i int) error {
	if i < 0 || i >= len(c.anchors) {
		return fmt.Errorf("session: anchor index %d out of range [0, %d)", i, len(c.anchors))
	}
	c.anchors = append(c.anchors[:i], c.anchors[i+1:]...)
	switch {
	case c.selected == i:
		c.selected = -1
		c.state = Idle
	case c.selected > i:
		c.selected--
	}
	return c.recomputeLocked()
}

// ClearAnchors removes every anchor and recomputes.
func (c *Controller) ClearAnchors() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchors = nil
	c.selected = -1
	c.state = Idle
	return c.recomputeLocked()
}

// SetParams applies new baseline parameters and recomputes synchronously.
// Neither the anchor selection nor the captured bounds are touched, so a
// parameter edit never resets the interaction. On failure the previous
// parameters and the last-known-good display are kept.
func (c *Controller) SetParams(p baseline.Params) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.params
	c.params = p
	if err := c.recomputeLocked(); err != nil {
		c.params = prev
		return err
	}
	return nil
}

// recomputeLocked re-derives the display data from the pristine raw samples.
// On error every last-known-good field is left untouched.
func (c *Controller) recomputeLocked() error {
	c.gen++

	res, err := baseline.Fit(c.rec.RawData.Y, c.params)
	if err != nil {
		return err
	}
	adjusted, err := anchor.Adjust(c.rec.RawData.X, res.Baseline, c.anchors)
	if err != nil {
		return err
	}

	c.applyLocked(res, adjusted)
	return nil
}

func (c *Controller) applyLocked(res baseline.Result, adjusted []float64) {
	corrected := append([]float64(nil), c.rec.RawData.Y...)
	neg := make([]float64, len(adjusted))
	vecmath.ScaleBlock(neg, adjusted, -1)
	vecmath.AddBlockInPlace(corrected, neg)

	c.input = res.Input
	c.pristine = res.Baseline
	c.adjusted = adjusted
	c.corrected = corrected
}

// RecomputeAsync runs a solve with the given parameters on its own
// goroutine and applies the result through done. Results are applied with
// last-request-wins semantics: if any newer mutation or request lands before
// this solve finishes, its result is discarded and done receives
// [ErrSuperseded]. On success the parameters become the controller's active
// parameters.
func (c *Controller) RecomputeAsync(p baseline.Params, done func(error)) {
	c.mu.Lock()
	c.gen++
	g := c.gen
	y := append([]float64(nil), c.rec.RawData.Y...)
	x := append([]float64(nil), c.rec.RawData.X...)
	anchors := append([]anchor.Anchor(nil), c.anchors...)
	c.mu.Unlock()

	go func() {
		// Pure function of the copied inputs; no shared state touched.
		res, err := baseline.Fit(y, p)
		var adjusted []float64
		if err == nil {
			adjusted, err = anchor.Adjust(x, res.Baseline, anchors)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if g != c.gen {
			if done != nil {
				done(ErrSuperseded)
			}
			return
		}
		if err != nil {
			if done != nil {
				done(err)
			}
			return
		}
		c.params = p
		c.applyLocked(res, adjusted)
		if done != nil {
			done(nil)
		}
	}()
}

// Save recomputes from the pristine raw samples and persists the record with
// its adjusted baseline, resampled onto the raw grid, to path.
func (c *Controller) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.rec.RawData.X) < ylk.MinSavePoints {
		return fmt.Errorf("session: at least %d data points required to save a baseline, got %d",
			ylk.MinSavePoints, len(c.rec.RawData.X))
	}
	if err := c.recomputeLocked(); err != nil {
		return err
	}

	bp := ylk.BaselineParams{
		Method: ylk.MethodALS,
		Lambda: c.params.Lambda,
		P:      c.params.P,
		Smooth: c.params.Smooth,
	}
	if len(c.anchors) > 0 {
		bp.Method = ylk.MethodALSWithAnchors
		bp.Anchors = make([][2]float64, len(c.anchors))
		for i, a := range c.anchors {
			bp.Anchors[i] = [2]float64{a.X, a.Y}
		}
	}

	if err := c.rec.SetBaseline(c.rec.RawData.X, c.adjusted, bp); err != nil {
		return err
	}
	return c.rec.Save(path)
}
