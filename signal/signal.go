// Package signal converts interleaved PCM byte buffers into per-channel
// numeric data and computes the log-energy used by the validator.
//
// It is the Go counterpart of auditok's signal.py: a small, dependency-free
// kernel that every other package in this module builds on.
package signal

import (
	"encoding/binary"
	"fmt"
	"math"
)

// energyFloor keeps a digitally-silent window from producing -Inf energy.
const energyFloor = 1e-10

// FrameSize returns the number of bytes that make up one frame (one sample
// per channel) for the given sample width and channel count.
func FrameSize(sampleWidth, channels int) int {
	return sampleWidth * channels
}

// CheckAudioData verifies that data's length is an integer multiple of the
// frame size, returning an error describing the mismatch otherwise.
func CheckAudioData(data []byte, sampleWidth, channels int) error {
	frame := FrameSize(sampleWidth, channels)
	if frame <= 0 {
		return fmt.Errorf("signal: invalid sample width/channels (%d, %d)", sampleWidth, channels)
	}
	if len(data)%frame != 0 {
		return fmt.Errorf("signal: data length (%d bytes) is not a multiple of frame size (%d bytes)", len(data), frame)
	}
	return nil
}

// NumFrames returns how many frames data contains.
func NumFrames(data []byte, sampleWidth, channels int) (int, error) {
	if err := CheckAudioData(data, sampleWidth, channels); err != nil {
		return 0, err
	}
	return len(data) / FrameSize(sampleWidth, channels), nil
}

func decodeSample(b []byte, sampleWidth int) (int32, error) {
	switch sampleWidth {
	case 1:
		return int32(int8(b[0])), nil
	case 2:
		return int32(int16(binary.LittleEndian.Uint16(b))), nil
	case 4:
		return int32(binary.LittleEndian.Uint32(b)), nil
	default:
		return 0, fmt.Errorf("signal: sample width must be 1, 2 or 4 bytes, got %d", sampleWidth)
	}
}

func encodeSample(v int32, sampleWidth int, out []byte) error {
	switch sampleWidth {
	case 1:
		out[0] = byte(int8(v))
	case 2:
		binary.LittleEndian.PutUint16(out, uint16(int16(v)))
	case 4:
		binary.LittleEndian.PutUint32(out, uint32(v))
	default:
		return fmt.Errorf("signal: sample width must be 1, 2 or 4 bytes, got %d", sampleWidth)
	}
	return nil
}

// ExtractChannel returns the bytes of a single channel from an interleaved,
// multi-channel buffer. The result has the same sample width as the input
// and is itself mono (one channel).
func ExtractChannel(data []byte, sampleWidth, channels, channel int) ([]byte, error) {
	if channel < 0 || channel >= channels {
		return nil, fmt.Errorf("signal: channel %d out of range [0, %d)", channel, channels)
	}
	n, err := NumFrames(data, sampleWidth, channels)
	if err != nil {
		return nil, err
	}
	if channels == 1 {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	out := make([]byte, n*sampleWidth)
	frame := FrameSize(sampleWidth, channels)
	for i := 0; i < n; i++ {
		src := data[i*frame+channel*sampleWidth : i*frame+(channel+1)*sampleWidth]
		copy(out[i*sampleWidth:(i+1)*sampleWidth], src)
	}
	return out, nil
}

// MixChannels averages all channels of an interleaved buffer into a single
// mono channel; the integer mean truncates toward zero. The result has the
// same sample width as the input and 1/channels the length.
func MixChannels(data []byte, sampleWidth, channels int) ([]byte, error) {
	n, err := NumFrames(data, sampleWidth, channels)
	if err != nil {
		return nil, err
	}
	if channels == 1 {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	frame := FrameSize(sampleWidth, channels)
	out := make([]byte, n*sampleWidth)
	for i := 0; i < n; i++ {
		var sum int64
		for c := 0; c < channels; c++ {
			off := i*frame + c*sampleWidth
			s, err := decodeSample(data[off:off+sampleWidth], sampleWidth)
			if err != nil {
				return nil, err
			}
			sum += int64(s)
		}
		avg := int32(sum / int64(channels))
		if err := encodeSample(avg, sampleWidth, out[i*sampleWidth:(i+1)*sampleWidth]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LogEnergy computes the log-energy of a single-channel byte buffer:
//
//	E = 10 * log10(max(mean(x_i^2), floor))
//
// The floor keeps digital silence from producing an infinite (or NaN)
// result. data must already be single-channel (see ExtractChannel/MixChannels).
func LogEnergy(data []byte, sampleWidth int) (float64, error) {
	if sampleWidth != 1 && sampleWidth != 2 && sampleWidth != 4 {
		return 0, fmt.Errorf("signal: sample width must be 1, 2 or 4 bytes, got %d", sampleWidth)
	}
	if len(data)%sampleWidth != 0 {
		return 0, fmt.Errorf("signal: data length (%d bytes) is not a multiple of sample width (%d)", len(data), sampleWidth)
	}
	n := len(data) / sampleWidth
	if n == 0 {
		return 10 * math.Log10(energyFloor), nil
	}
	var sumSquares float64
	for i := 0; i < n; i++ {
		s, err := decodeSample(data[i*sampleWidth:(i+1)*sampleWidth], sampleWidth)
		if err != nil {
			return 0, err
		}
		v := float64(s)
		sumSquares += v * v
	}
	mean := sumSquares / float64(n)
	if mean < energyFloor {
		mean = energyFloor
	}
	return 10 * math.Log10(mean), nil
}
