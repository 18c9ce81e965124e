package reader

import (
	"io"

	"github.com/amsehili/auditok-go/source"
)

// limiterSource caps the aggregate number of frames drawn from an inner
// source, the way ADSFactory.LimiterADS does in
// original_source/auditok/util.py. max_read caps *source* bytes, not
// reader-emitted window bytes (spec.md §9, resolving the corresponding
// Open Question).
type limiterSource struct {
	source.Source
	maxFrames  int
	readFrames int
}

func newLimiterSource(s source.Source, maxReadSeconds float64) *limiterSource {
	maxFrames := int(maxReadSeconds * float64(s.SamplingRate()))
	return &limiterSource{Source: s, maxFrames: maxFrames}
}

func (l *limiterSource) Open() error {
	l.readFrames = 0
	return l.Source.Open()
}

func (l *limiterSource) Read(n int) ([]byte, error) {
	if l.readFrames >= l.maxFrames {
		return nil, io.EOF
	}
	remaining := l.maxFrames - l.readFrames
	if n <= 0 || n > remaining {
		n = remaining
	}
	data, err := l.Source.Read(n)
	if err != nil && err != io.EOF {
		return nil, err
	}
	frames := len(data) / source.FrameSize(l.Source)
	l.readFrames += frames
	if len(data) == 0 {
		return nil, io.EOF
	}
	return data, nil
}

// Rewind resets the frame counter in addition to rewinding the inner
// source, if it supports rewinding.
func (l *limiterSource) Rewind() error {
	l.readFrames = 0
	if rw, ok := l.Source.(source.Rewindable); ok {
		return rw.Rewind()
	}
	return source.ErrNotRewindable
}
