package jws

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/richardlehane/mscfb"
)

const (
	streamDataInfo = "DataInfo"
	streamYData    = "Y-Data"

	fixedHeaderLen  = 48
	channelBlockLen = 40

	// maxChannels bounds the channel count read from the header so a
	// corrupt file cannot ask for an absurd allocation.
	maxChannels = 64
)

// channelTypeName maps the vendor channel-type codes found in the DataInfo
// stream to symbolic names. Unknown codes map to "undefined" rather than
// failing the decode.
func channelTypeName(code uint32) string {
	switch code {
	case 268435715:
		return "WAVELENGTH"
	case 4097:
		return "CD"
	case 8193:
		return "HT VOLTAGE"
	case 3:
		return "ABSORBANCE"
	case 14:
		return "FLUORESCENCE"
	default:
		return "undefined"
	}
}

// DecodeError reports a failed JWS decode. Stream names the container stream
// being read when the failure occurred, if any.
type DecodeError struct {
	Stream string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Stream != "" {
		return fmt.Sprintf("jws: decode %s stream: %v", e.Stream, e.Err)
	}
	return fmt.Sprintf("jws: decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ChannelBlock is the raw 40-byte per-channel descriptor from the header.
// The instrument software reads these but derives nothing from them beyond
// channel 0; they are kept for inspection only.
type ChannelBlock struct {
	Tag    uint32
	Flags  uint32
	Values [4]float64
}

// Header holds the decoded DataInfo stream.
type Header struct {
	ChannelCount int
	PointCount   int
	XFirst       float64
	XLast        float64
	XIncrement   float64

	// ChannelLabels contains ChannelCount+1 symbolic names mapped through
	// the vendor type table (the stream stores one leading axis code
	// followed by one code per channel).
	ChannelLabels []string

	Channels []ChannelBlock
}

// Data is a fully decoded JWS file: the header plus the channel 0 samples.
type Data struct {
	Header

	// Y holds the channel 0 absorbance samples, length PointCount.
	Y []float64
}

// XValues reconstructs the wavenumber axis from the header.
func (d *Data) XValues() []float64 {
	x := make([]float64, d.PointCount)
	for i := range x {
		x[i] = d.XFirst + float64(i)*d.XIncrement
	}
	return x
}

// DecodeFile opens and decodes a JWS file from disk.
func DecodeFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a JWS structured-storage container.
func Decode(ra io.ReaderAt) (*Data, error) {
	doc, err := mscfb.New(ra)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("open container: %w", err)}
	}

	var headerRaw, yRaw []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case streamDataInfo:
			headerRaw, err = io.ReadAll(entry)
			if err != nil {
				return nil, &DecodeError{Stream: streamDataInfo, Err: err}
			}
		case streamYData:
			yRaw, err = io.ReadAll(entry)
			if err != nil {
				return nil, &DecodeError{Stream: streamYData, Err: err}
			}
		}
	}
	if headerRaw == nil {
		return nil, &DecodeError{Stream: streamDataInfo, Err: fmt.Errorf("stream not found")}
	}
	if yRaw == nil {
		return nil, &DecodeError{Stream: streamYData, Err: fmt.Errorf("stream not found")}
	}

	return decodeStreams(headerRaw, yRaw)
}

// decodeStreams assembles a Data value from the raw stream contents.
func decodeStreams(headerRaw, yRaw []byte) (*Data, error) {
	hdr, err := parseHeader(headerRaw)
	if err != nil {
		return nil, &DecodeError{Stream: streamDataInfo, Err: err}
	}

	y, err := parseYData(yRaw, hdr.PointCount, hdr.ChannelCount)
	if err != nil {
		return nil, &DecodeError{Stream: streamYData, Err: err}
	}

	return &Data{Header: *hdr, Y: y}, nil
}

// parseHeader decodes the fixed-layout DataInfo stream: six uint32 fields,
// three float64 axis fields, the channel-type code list, and one 40-byte
// descriptor block per channel. All values are little-endian.
func parseHeader(raw []byte) (*Header, error) {
	if len(raw) < fixedHeaderLen {
		return nil, fmt.Errorf("header truncated: %d bytes, need %d", len(raw), fixedHeaderLen)
	}

	channels := int(binary.LittleEndian.Uint32(raw[12:16]))
	points := int(binary.LittleEndian.Uint32(raw[20:24]))
	xFirst := math.Float64frombits(binary.LittleEndian.Uint64(raw[24:32]))
	xLast := math.Float64frombits(binary.LittleEndian.Uint64(raw[32:40]))
	xInc := math.Float64frombits(binary.LittleEndian.Uint64(raw[40:48]))

	if channels < 1 || channels > maxChannels {
		return nil, fmt.Errorf("implausible channel count %d", channels)
	}
	if points < 1 {
		return nil, fmt.Errorf("implausible point count %d", points)
	}

	labelsEnd := fixedHeaderLen + 4*(channels+1)
	if len(raw) < labelsEnd {
		return nil, fmt.Errorf("header truncated in channel-type list: %d bytes, need %d", len(raw), labelsEnd)
	}
	labels := make([]string, channels+1)
	for i := range labels {
		off := fixedHeaderLen + 4*i
		labels[i] = channelTypeName(binary.LittleEndian.Uint32(raw[off : off+4]))
	}

	blocksEnd := labelsEnd + channels*channelBlockLen
	if len(raw) < blocksEnd {
		return nil, fmt.Errorf("header truncated in channel descriptors: %d bytes, need %d", len(raw), blocksEnd)
	}
	blocks := make([]ChannelBlock, channels)
	for c := range blocks {
		off := labelsEnd + c*channelBlockLen
		blocks[c].Tag = binary.LittleEndian.Uint32(raw[off : off+4])
		blocks[c].Flags = binary.LittleEndian.Uint32(raw[off+4 : off+8])
		for v := 0; v < 4; v++ {
			bo := off + 8 + 8*v
			blocks[c].Values[v] = math.Float64frombits(binary.LittleEndian.Uint64(raw[bo : bo+8]))
		}
	}

	return &Header{
		ChannelCount:  channels,
		PointCount:    points,
		XFirst:        xFirst,
		XLast:         xLast,
		XIncrement:    xInc,
		ChannelLabels: labels,
		Channels:      blocks,
	}, nil
}

// parseYData splits the flat float32 block into channel-major chunks and
// returns channel 0 widened to float64.
func parseYData(raw []byte, points, channels int) ([]float64, error) {
	need := 4 * points * channels
	if len(raw) < need {
		return nil, fmt.Errorf("short data block: %d bytes, need %d", len(raw), need)
	}

	// Channel-major layout: chunk c occupies samples [c*points, (c+1)*points).
	// Only chunk 0 feeds the result.
	y := make([]float64, points)
	for i := range y {
		bits := binary.LittleEndian.Uint32(raw[4*i : 4*i+4])
		y[i] = float64(math.Float32frombits(bits))
	}
	return y, nil
}
