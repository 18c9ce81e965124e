package source

import (
	sig "github.com/amsehili/auditok-go/signal"
)

// BufferSource is a Source backed entirely by an in-memory byte buffer. It
// is the only source type that is always rewindable and always supports
// arbitrary seeking, grounded on BufferAudioSource in
// original_source/auditok/io.py.
type BufferSource struct {
	data         []byte
	samplingRate int
	sampleWidth  int
	channels     int
	pos          int
	open         bool
}

// NewBufferSource constructs a BufferSource over data. data's length must
// be a multiple of sampleWidth*channels.
func NewBufferSource(data []byte, samplingRate, sampleWidth, channels int) (*BufferSource, error) {
	if err := checkParams(samplingRate, sampleWidth, channels); err != nil {
		return nil, err
	}
	if err := sig.CheckAudioData(data, sampleWidth, channels); err != nil {
		return nil, &InvalidParameterError{Msg: err.Error()}
	}
	return &BufferSource{data: data, samplingRate: samplingRate, sampleWidth: sampleWidth, channels: channels}, nil
}

func (b *BufferSource) Open() error {
	b.open = true
	return nil
}

func (b *BufferSource) Close() error {
	b.open = false
	b.pos = 0
	return nil
}

func (b *BufferSource) IsOpen() bool { return b.open }

func (b *BufferSource) Read(n int) ([]byte, error) {
	frame := FrameSize(b)
	if !b.open {
		return nil, errNotOpen
	}
	if n <= 0 {
		n = (len(b.data) - b.pos) / frame
	}
	want := n * frame
	avail := len(b.data) - b.pos
	if avail <= 0 {
		return nil, errEOF
	}
	if want > avail {
		want = (avail / frame) * frame
	}
	out := make([]byte, want)
	copy(out, b.data[b.pos:b.pos+want])
	b.pos += want
	return out, nil
}

func (b *BufferSource) SamplingRate() int { return b.samplingRate }
func (b *BufferSource) SampleWidth() int  { return b.sampleWidth }
func (b *BufferSource) Channels() int     { return b.channels }

// Rewind resets the read position to the start of the buffer.
func (b *BufferSource) Rewind() error {
	b.pos = 0
	return nil
}

// Position returns the current read position in frames.
func (b *BufferSource) Position() int {
	return b.pos / FrameSize(b)
}

// SeekFrame moves the read position to an absolute frame index.
func (b *BufferSource) SeekFrame(frameIdx int) error {
	frame := FrameSize(b)
	pos := frameIdx * frame
	if pos < 0 || pos > len(b.data) {
		return &InvalidParameterError{Msg: "seek position out of range"}
	}
	b.pos = pos
	return nil
}

// SeekSeconds moves the read position to an absolute time offset.
func (b *BufferSource) SeekSeconds(seconds float64) error {
	return b.SeekFrame(int(seconds * float64(b.samplingRate)))
}

// SeekMillis moves the read position to an absolute millisecond offset.
func (b *BufferSource) SeekMillis(ms int) error {
	return b.SeekFrame(int(float64(ms) * float64(b.samplingRate) / 1000.0))
}

// Data returns the entire underlying buffer.
func (b *BufferSource) Data() []byte { return b.data }
