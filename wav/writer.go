package wav

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Writer incrementally appends PCM frames to an open WAVE file, patching
// the RIFF and data chunk sizes on Close. This is the streaming
// counterpart to Encode, needed by the stream-saver and event-joiner
// workers (spec.md §4.G), which must write frames as they arrive rather
// than buffer the whole stream before encoding.
type Writer struct {
	f        *os.File
	dataSize int64
}

// NewWriter creates path, writes a placeholder 44-byte header, and returns
// a Writer ready to accept frames.
func NewWriter(path string, samplingRate, sampleWidth, channels int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wav: creating %s: %w", path, err)
	}
	header := BuildHeader(0, samplingRate, sampleWidth, channels)
	if _, err := f.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("wav: writing header to %s: %w", path, err)
	}
	return &Writer{f: f}, nil
}

// WriteFrames appends raw PCM bytes to the file.
func (w *Writer) WriteFrames(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if _, err := w.f.Write(data); err != nil {
		return fmt.Errorf("wav: writing frames: %w", err)
	}
	w.dataSize += int64(len(data))
	return nil
}

// Close patches the RIFF and data chunk sizes to reflect everything
// written, then closes the file.
func (w *Writer) Close() error {
	defer w.f.Close()
	var riffSize [4]byte
	binary.LittleEndian.PutUint32(riffSize[:], uint32(36+w.dataSize))
	if _, err := w.f.WriteAt(riffSize[:], 4); err != nil {
		return fmt.Errorf("wav: patching RIFF size: %w", err)
	}
	var dataSize [4]byte
	binary.LittleEndian.PutUint32(dataSize[:], uint32(w.dataSize))
	if _, err := w.f.WriteAt(dataSize[:], 40); err != nil {
		return fmt.Errorf("wav: patching data size: %w", err)
	}
	return nil
}
