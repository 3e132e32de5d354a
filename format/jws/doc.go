// Package jws decodes JASCO JWS spectrometer files.
//
// A JWS file is an OLE2 structured-storage container holding two named
// streams. "DataInfo" is a fixed-layout header describing channel and point
// counts plus the wavenumber axis; "Y-Data" is a flat little-endian float32
// array of point-count x channel-count samples in channel-major order.
//
// The wavenumber axis is never stored as samples. It is reconstructed
// arithmetically from the header:
//
//	x[i] = XFirst + i*XIncrement
//
// Only channel 0 is extracted as the absorbance signal. Instruments in the
// field write single-channel files; multi-channel extraction is intentionally
// not supported here, although every channel label and descriptor block is
// still surfaced on [Header] so callers can see what was skipped.
//
// All decode failures are reported as a [*DecodeError] so that batch
// conversion can skip a bad file and continue.
package jws
