// Package source implements the audio source endpoints described in
// spec.md §4.B: buffer, raw file, WAVE file, standard input and capture
// device, all behind one Source interface.
//
// Source is the pull-based generalization of the push-based
// audio.AudioDevice interface in richinsley-goshadertoy/audio/device.go:
// the tokenizer (via the window reader) must drive reads synchronously, so
// Read takes an explicit frame count rather than delivering data on a
// channel.
package source

import (
	"errors"
	"fmt"
	"io"
)

// InvalidParameterError reports a construction-time parameter problem
// (spec.md §7 "Invalid parameter").
type InvalidParameterError struct {
	Msg string
}

func (e *InvalidParameterError) Error() string { return "source: " + e.Msg }

// ErrNotRewindable is returned by Rewind on a source that does not
// support it.
var ErrNotRewindable = errors.New("source: not rewindable")

var (
	errNotOpen = errors.New("source: stream is not open")
	errEOF     = io.EOF
)

// Source is the capability set every audio endpoint exposes.
type Source interface {
	// Open acquires the backing resource. Open is not required to be
	// idempotent; Close always is.
	Open() error
	// Close releases the backing resource. Close must be safe to call
	// multiple times and on a source that was never opened.
	Close() error
	// IsOpen reports whether the source is currently open.
	IsOpen() bool
	// Read returns up to n frames (n*FrameSize bytes). A size <= 0 reads to
	// end of stream. A short read at end of stream returns the trailing
	// data with a nil error (a size <= 0 read from a file or stdin source
	// returns it together with io.EOF); once nothing is left, Read returns
	// (nil, io.EOF).
	Read(n int) ([]byte, error)
	SamplingRate() int
	SampleWidth() int
	Channels() int
}

// Rewindable is implemented by sources that can restart from the
// beginning of their stream.
type Rewindable interface {
	Source
	Rewind() error
}

// FrameSize returns the byte size of one frame for s.
func FrameSize(s Source) int {
	return s.SampleWidth() * s.Channels()
}

// checkParams validates the PCM parameter triple shared by every
// concrete source.
func checkParams(samplingRate, sampleWidth, channels int) error {
	if samplingRate <= 0 {
		return &InvalidParameterError{Msg: fmt.Sprintf("sampling rate must be > 0, got %d", samplingRate)}
	}
	if sampleWidth != 1 && sampleWidth != 2 && sampleWidth != 4 {
		return &InvalidParameterError{Msg: fmt.Sprintf("sample width must be 1, 2 or 4 bytes, got %d", sampleWidth)}
	}
	if channels <= 0 {
		return &InvalidParameterError{Msg: fmt.Sprintf("channels must be > 0, got %d", channels)}
	}
	return nil
}

// readExact reads up to n frames worth of bytes from r, the way
// _FileAudioSource.read does in original_source/auditok/io.py: a short
// final read simply returns the tail (no error); the stream only reports
// io.EOF once there is truly nothing left.
func readExact(r io.Reader, frameSize, n int) ([]byte, error) {
	if n <= 0 {
		return readAll(r)
	}
	buf := make([]byte, n*frameSize)
	read, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	whole := (read / frameSize) * frameSize
	if whole == 0 {
		return nil, io.EOF
	}
	return buf[:whole], nil
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, io.EOF
	}
	return data, io.EOF
}
