// Package session drives an interactive baseline-correction session for one
// spectrum record.
//
// The [Controller] is a small state machine (Idle, AnchorSelected, Dragging)
// fed by UI events: mouse presses with a caller-supplied data-to-screen
// transform for pixel-space hit testing, drag moves clamped to the axis
// bounds captured at first render, delete/escape keys, and parameter edits.
// It owns no global state; everything flows through the controller instance.
//
// Every mutation re-derives the display data (ALS baseline, anchor-adjusted
// baseline, corrected signal) synchronously. A numeric failure during a
// recompute never blanks the view: the last-known-good display is kept and
// the error is returned to the caller as a recoverable condition.
//
// For UIs that want to keep their event loop responsive, [Controller.RecomputeAsync]
// runs the solve off-thread with last-request-wins semantics: a newer request
// supersedes an in-flight one, whose result is discarded on arrival.
package session
