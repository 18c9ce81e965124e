// Package wav encodes and decodes the canonical RIFF/WAVE PCM container
// (spec.md §6 "WAVE": canonical RIFF/WAVE with PCM sample encoding).
//
// The header layout is grounded on the byte-for-byte RIFF/WAVE writer in
// other_examples/f7489470_entooone-simple-midi-synth__wav.go.go.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	headerSize        = 44
	fmtChunkSize      = 16
	pcmAudioFormat    = 1
	riffID            = "RIFF"
	waveID            = "WAVE"
	fmtID             = "fmt "
	dataID            = "data"
)

// Header describes a parsed WAVE file: its PCM parameters and the byte
// offset/length of the "data" chunk.
type Header struct {
	SamplingRate int
	SampleWidth  int
	Channels     int
	DataOffset   int64
	DataSize     int64
}

// ErrNotWave is returned when the input is not a RIFF/WAVE container.
var ErrNotWave = errors.New("wav: not a RIFF/WAVE file")

// ParseHeader reads and validates a WAVE header from r, leaving r positioned
// at the start of the "data" chunk's payload. Only PCM (uncompressed)
// encoding is supported, matching spec.md §1's scope (container muxing is
// limited to uncompressed PCM/WAVE).
func ParseHeader(r io.Reader) (Header, error) {
	var h Header
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return h, fmt.Errorf("wav: reading RIFF header: %w", err)
	}
	if string(riff[0:4]) != riffID || string(riff[8:12]) != waveID {
		return h, ErrNotWave
	}

	var sampleWidthBits uint16
	var channels uint16
	var samplingRate uint32
	sawFmt := false
	offset := int64(len(riff))

	for {
		var chunkHdr [8]byte
		if _, err := io.ReadFull(r, chunkHdr[:]); err != nil {
			return h, fmt.Errorf("wav: reading chunk header: %w", err)
		}
		offset += int64(len(chunkHdr))
		id := string(chunkHdr[0:4])
		size := binary.LittleEndian.Uint32(chunkHdr[4:8])

		switch id {
		case fmtID:
			fmtBuf := make([]byte, size)
			if _, err := io.ReadFull(r, fmtBuf); err != nil {
				return h, fmt.Errorf("wav: reading fmt chunk: %w", err)
			}
			audioFormat := binary.LittleEndian.Uint16(fmtBuf[0:2])
			if audioFormat != pcmAudioFormat {
				return h, fmt.Errorf("wav: unsupported audio format %d, only PCM is supported", audioFormat)
			}
			channels = binary.LittleEndian.Uint16(fmtBuf[2:4])
			samplingRate = binary.LittleEndian.Uint32(fmtBuf[4:8])
			sampleWidthBits = binary.LittleEndian.Uint16(fmtBuf[14:16])
			sawFmt = true
			offset += int64(size)
			if size%2 == 1 {
				var pad [1]byte
				io.ReadFull(r, pad[:])
				offset++
			}
		case dataID:
			if !sawFmt {
				return h, errors.New("wav: data chunk before fmt chunk")
			}
			h.SamplingRate = int(samplingRate)
			h.SampleWidth = int(sampleWidthBits / 8)
			h.Channels = int(channels)
			h.DataOffset = offset
			h.DataSize = int64(size)
			return h, nil
		default:
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return h, fmt.Errorf("wav: skipping chunk %q: %w", id, err)
			}
			offset += skip
		}
	}
}

// BuildHeader renders a 44-byte canonical WAVE header for dataSize bytes of
// PCM audio at the given parameters.
func BuildHeader(dataSize, samplingRate, sampleWidth, channels int) []byte {
	byteRate := samplingRate * sampleWidth * channels
	blockAlign := sampleWidth * channels
	buf := make([]byte, headerSize)

	copy(buf[0:4], riffID)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], waveID)
	copy(buf[12:16], fmtID)
	binary.LittleEndian.PutUint32(buf[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(buf[20:22], pcmAudioFormat)
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(samplingRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], uint16(sampleWidth*8))
	copy(buf[36:40], dataID)
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	return buf
}

// Encode renders data as a complete WAVE file.
func Encode(data []byte, samplingRate, sampleWidth, channels int) []byte {
	header := BuildHeader(len(data), samplingRate, sampleWidth, channels)
	out := make([]byte, 0, len(header)+len(data))
	out = append(out, header...)
	out = append(out, data...)
	return out
}

// Decode parses a complete in-memory WAVE file and returns its PCM payload
// and parameters.
func Decode(fileData []byte) ([]byte, Header, error) {
	r := bytes.NewReader(fileData)
	h, err := ParseHeader(r)
	if err != nil {
		return nil, h, err
	}
	payload := make([]byte, h.DataSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, h, fmt.Errorf("wav: reading data chunk: %w", err)
	}
	return payload, h, nil
}
