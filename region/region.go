// Package region implements the Region value object of spec.md §4.F: an
// immutable value carrying raw audio bytes, PCM parameters and timing
// metadata, with self-save to raw, WAVE or an encoder-bridge format.
//
// Grounded on AudioRegion in original_source/auditok/core.py and the
// (data, start, end) tuples StreamTokenizer emits; Save's non-WAV/raw
// fallback is grounded on AudioDataSaverWorker._encode_export_audio in
// original_source/auditok/workers.py.
package region

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amsehili/auditok-go/encoder"
	"github.com/amsehili/auditok-go/wav"
)

// Region is an immutable audio segment plus its PCM parameters and timing.
type Region struct {
	Data         []byte
	Start        float64 // seconds
	End          float64 // seconds
	SamplingRate int
	SampleWidth  int
	Channels     int
	Timestamp    time.Time // zero value means "not set"
}

// Duration returns End - Start, matching spec.md §3's
// duration = len(data) / (sampling_rate * sample_width * channels)
// invariant (the two are kept equal by New).
func (r Region) Duration() float64 { return r.End - r.Start }

// New constructs a Region, computing End from Start and the byte length of
// data so the duration invariant in spec.md §3 always holds.
func New(data []byte, start float64, samplingRate, sampleWidth, channels int) Region {
	frameSize := sampleWidth * channels
	frames := 0
	if frameSize > 0 {
		frames = len(data) / frameSize
	}
	duration := float64(frames) / float64(samplingRate)
	return Region{
		Data:         data,
		Start:        start,
		End:          start + duration,
		SamplingRate: samplingRate,
		SampleWidth:  sampleWidth,
		Channels:     channels,
	}
}

// Equal is structural equality over bytes and PCM parameters, per
// spec.md §4.F ("Equality is structural over bytes and PCM parameters").
// Timing metadata is deliberately excluded.
func (r Region) Equal(other Region) bool {
	return bytes.Equal(r.Data, other.Data) &&
		r.SamplingRate == other.SamplingRate &&
		r.SampleWidth == other.SampleWidth &&
		r.Channels == other.Channels
}

// SaveRaw writes r's raw PCM bytes, with no container, to path.
func (r Region) SaveRaw(path string) error {
	return os.WriteFile(path, r.Data, 0o644)
}

// SaveWAV writes r as a canonical RIFF/WAVE file to path.
func (r Region) SaveWAV(path string) error {
	data := wav.Encode(r.Data, r.SamplingRate, r.SampleWidth, r.Channels)
	return os.WriteFile(path, data, 0o644)
}

// Save writes r to path in the given format ("raw", "wav"/"wave", or
// anything else, which is delegated to the encoder bridge via a WAVE
// scratch file). An empty format is inferred from path's extension,
// falling back to "wav".
func (r Region) Save(path, format string) (string, error) {
	format = resolveFormat(path, format)
	switch format {
	case "raw":
		return path, r.SaveRaw(path)
	case "wav", "wave":
		return path, r.SaveWAV(path)
	default:
		return r.saveEncoded(path, format)
	}
}

func resolveFormat(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "wav"
	}
	return ext
}

// saveEncoded writes a WAVE scratch file and hands it to encoder.Bridge,
// the same two-step path AudioDataSaverWorker._encode_export_audio takes.
func (r Region) saveEncoded(path, format string) (string, error) {
	scratch, err := os.CreateTemp("", "auditok-scratch-*.wav")
	if err != nil {
		return "", fmt.Errorf("region: creating scratch wave file: %w", err)
	}
	scratchPath := scratch.Name()
	scratch.Close()
	if err := r.SaveWAV(scratchPath); err != nil {
		os.Remove(scratchPath)
		return "", fmt.Errorf("region: writing scratch wave file: %w", err)
	}
	bridge := encoder.NewBridge()
	if err := bridge.Encode(scratchPath, format, path); err != nil {
		return path, err
	}
	return path, nil
}
