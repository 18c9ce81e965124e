package source

import (
	"os"
)

// RawFileSource streams a headerless PCM file, reading lazily from disk on
// each call to Read. Its PCM parameters must be supplied by the caller
// since the raw format carries no header (spec.md §4.B "Raw file").
//
// Grounded on RawAudioSource in original_source/auditok/io.py.
type RawFileSource struct {
	path         string
	samplingRate int
	sampleWidth  int
	channels     int
	file         *os.File
}

// NewRawFileSource constructs a RawFileSource for path, which is opened
// lazily by Open.
func NewRawFileSource(path string, samplingRate, sampleWidth, channels int) (*RawFileSource, error) {
	if err := checkParams(samplingRate, sampleWidth, channels); err != nil {
		return nil, err
	}
	return &RawFileSource{path: path, samplingRate: samplingRate, sampleWidth: sampleWidth, channels: channels}, nil
}

func (r *RawFileSource) Open() error {
	if r.file != nil {
		return nil
	}
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	r.file = f
	return nil
}

func (r *RawFileSource) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *RawFileSource) IsOpen() bool { return r.file != nil }

func (r *RawFileSource) Read(n int) ([]byte, error) {
	if r.file == nil {
		return nil, errNotOpen
	}
	return readExact(r.file, FrameSize(r), n)
}

func (r *RawFileSource) SamplingRate() int { return r.samplingRate }
func (r *RawFileSource) SampleWidth() int  { return r.sampleWidth }
func (r *RawFileSource) Channels() int     { return r.channels }

// Rewind reopens the underlying file from the beginning, mirroring
// RawAudioSource's reliance on reopening rather than seeking (io.py treats
// raw/wave file sources as Rewindable by closing and reopening).
func (r *RawFileSource) Rewind() error {
	if err := r.Close(); err != nil {
		return err
	}
	return r.Open()
}

// ReadAllRaw eagerly loads a raw PCM file into a BufferSource, the
// non-large-file path of auditok's _load_raw.
func ReadAllRaw(path string, samplingRate, sampleWidth, channels int) (*BufferSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewBufferSource(data, samplingRate, sampleWidth, channels)
}
