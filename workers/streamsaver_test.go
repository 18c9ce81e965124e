package workers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amsehili/auditok-go/wav"
)

// TestStreamSaverCloseBeforeEOFDoesNotDeadlock exercises the "interrupted
// run" path: the tokenizer worker stops driving the reader before the
// backing source is exhausted, so Read never sees an error and never
// closes the background persistence goroutine's inbox itself. Close must
// still return promptly, per spec.md §8 "Idempotence: close() on any
// source; stop() on any worker", which a stream saver mid-stream is a
// case of.
func TestStreamSaverCloseBeforeEOFDoesNotDeadlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.wav")

	r := &stringReader{data: []byte("NNNNNNNNNN")}
	s, err := NewStreamSaver(r, path, "wav")
	if err != nil {
		t.Fatalf("NewStreamSaver: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Read a few windows, well short of exhausting the 10-frame source,
	// the way an interrupted TokenizerWorker.Run would stop driving Read
	// partway through.
	for i := 0; i < 3; i++ {
		if _, err := s.Read(); err != nil {
			t.Fatalf("Read %d: %v", i, err)
		}
	}

	done := make(chan error, 1)
	go func() { done <- s.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close deadlocked waiting on the background persistence goroutine")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stream file: %v", err)
	}
	data, header, err := wav.Decode(raw)
	if err != nil {
		t.Fatalf("decoding stream file: %v", err)
	}
	if header.SamplingRate != 10 || header.SampleWidth != 1 || header.Channels != 1 {
		t.Fatalf("unexpected header: %+v", header)
	}
	if string(data) != "NNN" {
		t.Fatalf("persisted data = %q, want %q", data, "NNN")
	}
}

// TestStreamSaverCloseIdempotent calls Close twice, matching the worker
// graph's shutdown contract (spec.md §3 "close is idempotent"): a second
// Close must not re-run the writer finalize/encode step or hang.
func TestStreamSaverCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.wav")

	r := &stringReader{data: []byte("NN")}
	s, err := NewStreamSaver(r, path, "wav")
	if err != nil {
		t.Fatalf("NewStreamSaver: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for {
		if _, err := s.Read(); err != nil {
			break
		}
	}

	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
