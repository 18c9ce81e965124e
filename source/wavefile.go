package source

import (
	"io"
	"os"

	"github.com/amsehili/auditok-go/wav"
)

// WaveFileSource streams a WAVE file, reading its PCM parameters from the
// container header (spec.md §4.B "WAVE file ... parameters read from the
// container header; otherwise behaves as a raw file").
type WaveFileSource struct {
	path   string
	file   *os.File
	header wav.Header
	read   int64 // bytes already delivered from the data chunk
}

// NewWaveFileSource opens path, parses its header, and returns a lazily
// streaming source. The file is left open for subsequent Read calls; call
// Close when done.
func NewWaveFileSource(path string) (*WaveFileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	h, err := wav.ParseHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := checkParams(h.SamplingRate, h.SampleWidth, h.Channels); err != nil {
		f.Close()
		return nil, err
	}
	return &WaveFileSource{path: path, file: f, header: h}, nil
}

func (w *WaveFileSource) Open() error {
	if w.file != nil {
		return nil
	}
	f, err := os.Open(w.path)
	if err != nil {
		return err
	}
	h, err := wav.ParseHeader(f)
	if err != nil {
		f.Close()
		return err
	}
	w.file = f
	w.header = h
	w.read = 0
	return nil
}

func (w *WaveFileSource) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *WaveFileSource) IsOpen() bool { return w.file != nil }

func (w *WaveFileSource) Read(n int) ([]byte, error) {
	if w.file == nil {
		return nil, errNotOpen
	}
	frame := FrameSize(w)
	remaining := w.header.DataSize - w.read
	if remaining <= 0 {
		return nil, errEOF
	}
	if n <= 0 {
		n = int(remaining / int64(frame))
	}
	want := int64(n * frame)
	if want > remaining {
		want = (remaining / int64(frame)) * int64(frame)
	}
	buf := make([]byte, want)
	got, err := io.ReadFull(w.file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	whole := (got / frame) * frame
	w.read += int64(whole)
	if whole == 0 {
		return nil, errEOF
	}
	return buf[:whole], nil
}

func (w *WaveFileSource) SamplingRate() int { return w.header.SamplingRate }
func (w *WaveFileSource) SampleWidth() int  { return w.header.SampleWidth }
func (w *WaveFileSource) Channels() int     { return w.header.Channels }

// Rewind reopens the file and re-parses its header, the same "reopen"
// strategy RawFileSource uses.
func (w *WaveFileSource) Rewind() error {
	if err := w.Close(); err != nil {
		return err
	}
	return w.Open()
}

// ReadAllWave eagerly loads a WAVE file into a BufferSource, the
// non-large-file path of auditok's _load_wave.
func ReadAllWave(path string) (*BufferSource, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	payload, h, err := wav.Decode(fileData)
	if err != nil {
		return nil, err
	}
	return NewBufferSource(payload, h.SamplingRate, h.SampleWidth, h.Channels)
}
