package workers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amsehili/auditok-go/region"
	"github.com/amsehili/auditok-go/wav"
)

func TestJoinerWorkerInsertsSilenceBetweenEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "joined.wav")

	// 1 second of silence at 10 Hz mono 8-bit = 10 zero bytes between events.
	w, err := NewJoinerWorker(1.0, path, "wav", 10, 1, 1, nil)
	if err != nil {
		t.Fatalf("NewJoinerWorker: %v", err)
	}

	event1 := region.New([]byte{1, 1, 1}, 0, 10, 1, 1)
	event2 := region.New([]byte{2, 2}, 1, 10, 1, 1)

	w.Send(Message{Region: event1})
	w.Send(Message{Region: event2})
	w.Stop()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading joined file: %v", err)
	}
	data, header, err := wav.Decode(raw)
	if err != nil {
		t.Fatalf("decoding joined file: %v", err)
	}
	if header.SamplingRate != 10 || header.SampleWidth != 1 || header.Channels != 1 {
		t.Fatalf("unexpected header: %+v", header)
	}
	want := []byte{1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 2}
	if string(data) != string(want) {
		t.Fatalf("joined data = %v, want %v", data, want)
	}
}
