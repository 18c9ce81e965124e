package source

import "io"

// StdinSource reads headerless PCM from the process's standard input. It
// is never rewindable (spec.md §4.B), grounded on StdinAudioSource in
// original_source/auditok/io.py.
type StdinSource struct {
	r            io.Reader
	samplingRate int
	sampleWidth  int
	channels     int
	open         bool
}

// NewStdinSource wraps r (typically os.Stdin) as a PCM source with the
// given parameters, which must be supplied by the caller since stdin
// carries no header.
func NewStdinSource(r io.Reader, samplingRate, sampleWidth, channels int) (*StdinSource, error) {
	if err := checkParams(samplingRate, sampleWidth, channels); err != nil {
		return nil, err
	}
	return &StdinSource{r: r, samplingRate: samplingRate, sampleWidth: sampleWidth, channels: channels}, nil
}

func (s *StdinSource) Open() error {
	s.open = true
	return nil
}

func (s *StdinSource) Close() error {
	s.open = false
	return nil
}

func (s *StdinSource) IsOpen() bool { return s.open }

func (s *StdinSource) Read(n int) ([]byte, error) {
	if !s.open {
		return nil, errNotOpen
	}
	return readExact(s.r, FrameSize(s), n)
}

func (s *StdinSource) SamplingRate() int { return s.samplingRate }
func (s *StdinSource) SampleWidth() int  { return s.sampleWidth }
func (s *StdinSource) Channels() int     { return s.channels }
