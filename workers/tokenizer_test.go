package workers

import (
	"io"
	"testing"

	"github.com/amsehili/auditok-go/region"
	"github.com/amsehili/auditok-go/tokenize"
)

// stringReader hands out one frame (one byte) per Read call, matching the
// uppercase/lowercase validity convention tokenize's own tests use.
// Uppercase bytes are "valid"; the accompanying caseValidator decides
// validity from case rather than energy, so the worker test stays
// independent of the energy validator.
type stringReader struct {
	data []byte
	pos  int
}

func (r *stringReader) Open() error  { return nil }
func (r *stringReader) Close() error { return nil }
func (r *stringReader) Read() ([]byte, error) {
	return r.ReadN(1)
}
func (r *stringReader) ReadN(n int) ([]byte, error) {
	if r.pos >= len(r.data) {
		return nil, io.EOF
	}
	end := r.pos + n
	if end > len(r.data) {
		end = len(r.data)
	}
	frame := r.data[r.pos:end]
	r.pos = end
	if r.pos >= len(r.data) {
		return frame, io.EOF
	}
	return frame, nil
}
func (r *stringReader) Rewind() error       { r.pos = 0; return nil }
func (r *stringReader) SamplingRate() int   { return 10 }
func (r *stringReader) SampleWidth() int    { return 1 }
func (r *stringReader) Channels() int       { return 1 }
func (r *stringReader) BlockSize() int      { return 1 }

type caseValidator struct{}

func (caseValidator) IsValid(window []byte) (bool, error) {
	b := window[0]
	return b >= 'A' && b <= 'Z', nil
}

// recordingObserver captures every message it's sent, including the
// terminal poison pill, so the test can assert both the detections and
// the shutdown broadcast.
type recordingObserver struct {
	received []Message
}

func (o *recordingObserver) Send(msg Message) { o.received = append(o.received, msg) }
func (o *recordingObserver) Stop()            {}

func TestTokenizerWorkerEmitsAndBroadcastsStop(t *testing.T) {
	r := &stringReader{data: []byte("ssNNNss")}
	cfg := tokenize.Config{MinLength: 1, MaxLength: 10, MaxContinuousSilence: 1}
	obs := &recordingObserver{}
	w, err := NewTokenizerWorker(r, caseValidator{}, cfg, 0.1, []Worker{obs}, nil)
	if err != nil {
		t.Fatalf("NewTokenizerWorker: %v", err)
	}
	if err := w.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(obs.received) != 2 {
		t.Fatalf("got %d observer messages, want 2 (1 detection + poison pill): %+v", len(obs.received), obs.received)
	}
	det := obs.received[0]
	if det.Stop {
		t.Fatalf("first message was the poison pill, want a detection")
	}
	// max_continuous_silence=1 means the event keeps exactly one trailing
	// silent frame: "ss|NNNs|s" (the second trailing 's' triggers
	// emission but isn't itself included).
	if string(det.Region.Data) != "NNNs" {
		t.Fatalf("detection data = %q, want %q", det.Region.Data, "NNNs")
	}
	if det.Detection.ID != 1 {
		t.Fatalf("detection id = %d, want 1", det.Detection.ID)
	}
	if !obs.received[1].Stop {
		t.Fatalf("second message was not the poison pill")
	}

	dets := w.Detections()
	if len(dets) != 1 {
		t.Fatalf("got %d recorded detections, want 1", len(dets))
	}
}

func TestTokenizerWorkerRegionTiming(t *testing.T) {
	r := &stringReader{data: []byte("NNN")}
	cfg := tokenize.Config{MinLength: 1, MaxLength: 10, MaxContinuousSilence: 1}
	obs := &recordingObserver{}
	w, err := NewTokenizerWorker(r, caseValidator{}, cfg, 0.1, []Worker{obs}, nil)
	if err != nil {
		t.Fatalf("NewTokenizerWorker: %v", err)
	}
	if err := w.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := region.New([]byte("NNN"), 0, 10, 1, 1)
	got := obs.received[0].Region
	if !got.Equal(want) || got.Start != want.Start || got.End != want.End {
		t.Fatalf("got region %+v, want %+v", got, want)
	}
}
