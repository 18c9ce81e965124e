package reader

import (
	"errors"
	"io"
	"testing"

	"github.com/amsehili/auditok-go/source"
)

func mono16Source(t *testing.T, frames int) *source.BufferSource {
	t.Helper()
	data := make([]byte, frames*2)
	for i := range data {
		data[i] = byte(i)
	}
	src, err := source.NewBufferSource(data, 16000, 2, 1)
	if err != nil {
		t.Fatalf("NewBufferSource: %v", err)
	}
	if err := src.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return src
}

func drain(t *testing.T, r Reader) [][]byte {
	t.Helper()
	var windows [][]byte
	for {
		data, err := r.Read()
		if len(data) > 0 {
			windows = append(windows, data)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return windows
			}
			t.Fatalf("Read: %v", err)
		}
	}
}

func TestBaseReaderFixedWindows(t *testing.T) {
	src := mono16Source(t, 100) // 10 windows of 10 frames at 100 fps block
	r, err := New(src, Config{BlockDur: 10.0 / 16000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	windows := drain(t, r)
	if len(windows) != 10 {
		t.Fatalf("got %d windows, want 10", len(windows))
	}
	for _, w := range windows {
		if len(w) != 20 {
			t.Errorf("window length = %d, want 20", len(w))
		}
	}
}

func TestMaxReadCapsSourceBytes(t *testing.T) {
	src := mono16Source(t, 1000)
	r, err := New(src, Config{BlockDur: 10.0 / 16000, MaxRead: 50.0 / 16000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	windows := drain(t, r)
	total := 0
	for _, w := range windows {
		total += len(w) / 2
	}
	if total != 50 {
		t.Fatalf("got %d total frames, want 50", total)
	}
}

func TestOverlapWindows(t *testing.T) {
	// block = 10 frames, hop = 4 frames over 30 frames: the first window
	// reads 10 frames and five hops of 4 follow, so all six windows hold 10
	// frames (a hop count that did not divide the rest would leave a shorter
	// last window, which the loop below does not check).
	src := mono16Source(t, 30)
	r, err := New(src, Config{BlockDur: 10.0 / 16000, HopDur: 4.0 / 16000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	windows := drain(t, r)
	if len(windows) == 0 {
		t.Fatal("expected at least one window")
	}
	if len(windows[0]) != 20 {
		t.Fatalf("first window length = %d, want 20 (10 frames)", len(windows[0]))
	}
	for i := 1; i < len(windows)-1; i++ {
		if len(windows[i]) != 20 {
			t.Errorf("window %d length = %d, want 20", i, len(windows[i]))
		}
	}
}

func TestRecordEnablesRewindOverStdin(t *testing.T) {
	data := make([]byte, 40)
	stdinLike, err := source.NewStdinSource(newOnceReader(data), 16000, 2, 1)
	if err != nil {
		t.Fatalf("NewStdinSource: %v", err)
	}
	if err := stdinLike.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	r, err := New(stdinLike, Config{BlockDur: 10.0 / 16000, Record: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first := drain(t, r)
	if err := r.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second := drain(t, r)
	if len(first) != len(second) {
		t.Fatalf("got %d windows before rewind, %d after", len(first), len(second))
	}
}

// onceReader hands out data exactly once, then returns io.EOF, the way an
// unbuffered stdin pipe would.
type onceReader struct {
	data []byte
	done bool
}

func newOnceReader(data []byte) *onceReader { return &onceReader{data: data} }

func (o *onceReader) Read(p []byte) (int, error) {
	if o.done {
		return 0, io.EOF
	}
	n := copy(p, o.data)
	if n < len(o.data) {
		o.data = o.data[n:]
		return n, nil
	}
	o.done = true
	return n, nil
}
