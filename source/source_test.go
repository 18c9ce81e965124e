package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestBufferSourceReadExactMultipleOfFrameSize(t *testing.T) {
	data := make([]byte, 40) // 20 frames at width=2, channels=1
	for i := range data {
		data[i] = byte(i)
	}
	src, err := NewBufferSource(data, 16000, 2, 1)
	if err != nil {
		t.Fatalf("NewBufferSource: %v", err)
	}
	if err := src.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	chunk, err := src.Read(5)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(chunk) != 10 {
		t.Fatalf("got %d bytes, want 10", len(chunk))
	}
	if FrameSize(src) != 2 {
		t.Fatalf("FrameSize = %d, want 2", FrameSize(src))
	}
}

// Reading past the end of the buffer returns the tail once, then io.EOF on
// the next call, per spec.md §4.B "partial reads at end-of-stream return
// the tail and subsequently EOF".
func TestBufferSourceTailThenEOF(t *testing.T) {
	data := make([]byte, 30) // 15 frames
	src, err := NewBufferSource(data, 16000, 2, 1)
	if err != nil {
		t.Fatalf("NewBufferSource: %v", err)
	}
	if err := src.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if _, err := src.Read(10); err != nil {
		t.Fatalf("Read(10): %v", err)
	}
	tail, err := src.Read(10)
	if err != nil {
		t.Fatalf("Read tail: %v", err)
	}
	if len(tail) != 10 { // 5 remaining frames * 2 bytes
		t.Fatalf("tail length = %d, want 10", len(tail))
	}
	if _, err := src.Read(10); err != io.EOF {
		t.Fatalf("Read after tail: got err=%v, want io.EOF", err)
	}
}

func TestBufferSourceRewindReplaysIdenticalBytes(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	src, err := NewBufferSource(data, 16000, 2, 1)
	if err != nil {
		t.Fatalf("NewBufferSource: %v", err)
	}
	if err := src.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	first, err := src.Read(-1)
	if err != nil && err != io.EOF {
		t.Fatalf("Read: %v", err)
	}
	if err := src.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second, err := src.Read(-1)
	if err != nil && err != io.EOF {
		t.Fatalf("Read: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("rewind replay mismatch: %v vs %v", first, second)
	}
}

func TestBufferSourceSeekSecondsAndMillis(t *testing.T) {
	// 16000 Hz, width 2, 1 channel: 1 second = 32000 bytes.
	data := make([]byte, 32000)
	src, err := NewBufferSource(data, 16000, 2, 1)
	if err != nil {
		t.Fatalf("NewBufferSource: %v", err)
	}
	if err := src.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if err := src.SeekSeconds(0.5); err != nil {
		t.Fatalf("SeekSeconds: %v", err)
	}
	if got, want := src.Position(), 8000; got != want {
		t.Fatalf("Position after SeekSeconds(0.5) = %d, want %d", got, want)
	}

	if err := src.SeekMillis(250); err != nil {
		t.Fatalf("SeekMillis: %v", err)
	}
	if got, want := src.Position(), 4000; got != want {
		t.Fatalf("Position after SeekMillis(250) = %d, want %d", got, want)
	}
}

func TestBufferSourceRejectsNonFrameAlignedData(t *testing.T) {
	if _, err := NewBufferSource(make([]byte, 3), 16000, 2, 1); err == nil {
		t.Fatal("expected error for byte length not a multiple of frame size")
	}
}

func TestBufferSourceRejectsBadSampleWidth(t *testing.T) {
	if _, err := NewBufferSource(nil, 16000, 3, 1); err == nil {
		t.Fatal("expected error for sample width not in {1,2,4}")
	}
}

func TestBufferSourceCloseIdempotent(t *testing.T) {
	src, err := NewBufferSource(make([]byte, 4), 16000, 2, 1)
	if err != nil {
		t.Fatalf("NewBufferSource: %v", err)
	}
	if err := src.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if src.IsOpen() {
		t.Fatal("IsOpen() true after Close")
	}
}

func TestRawFileSourceRewindReopensFromStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.raw")
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src, err := NewRawFileSource(path, 16000, 2, 1)
	if err != nil {
		t.Fatalf("NewRawFileSource: %v", err)
	}
	if err := src.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	first, err := src.Read(-1)
	if err != nil && err != io.EOF {
		t.Fatalf("Read: %v", err)
	}
	if string(first) != string(data) {
		t.Fatalf("got %v, want %v", first, data)
	}

	if err := src.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second, err := src.Read(-1)
	if err != nil && err != io.EOF {
		t.Fatalf("Read after rewind: %v", err)
	}
	if string(second) != string(data) {
		t.Fatalf("after rewind got %v, want %v", second, data)
	}
}

func TestRawFileSourceReadBeforeOpenFails(t *testing.T) {
	src, err := NewRawFileSource("/nonexistent/path.raw", 16000, 2, 1)
	if err != nil {
		t.Fatalf("NewRawFileSource: %v", err)
	}
	if _, err := src.Read(1); err == nil {
		t.Fatal("expected error reading from a source that was never opened")
	}
}
