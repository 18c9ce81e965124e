package workers

import (
	"io"
	"strings"
	"sync"

	"github.com/amsehili/auditok-go/encoder"
	"github.com/amsehili/auditok-go/reader"
	"github.com/amsehili/auditok-go/wav"
)

// defaultCacheSeconds is the stream saver's high-water mark for batching
// writes, per spec.md §4.G "batching writes when accumulated bytes exceed
// a configurable high-water mark (default ≈ 0.5 s of audio)".
const defaultCacheSeconds = 0.5

// StreamSaver wraps a reader.Reader and persists every window it reads to
// a WAVE file in the background, per spec.md §4.G "Stream-saver tap" and
// §9 ("Cyclic interface: stream saver is both a reader ... and a worker
// ... Represent as two roles on one object with disjoint methods").
//
// Grounded on StreamSaverWorker in original_source/auditok/workers.py:
// Read (the reader role) forwards each window downstream and enqueues it
// to its own inbox; the background goroutine (the worker role) drains
// that inbox and batches writes.
type StreamSaver struct {
	reader.Reader
	inbox       chan []byte
	cacheBytes  int
	path        string
	exportFmt   string
	samplingHz  int
	sampleWidth int
	channels    int

	mu         sync.Mutex
	cache      [][]byte
	cached     int
	writer     *wav.Writer
	scratch    string
	done       chan struct{}
	closeInbox sync.Once
	closeOnce  sync.Once
	closeErr   error
}

// NewStreamSaver constructs a StreamSaver over r, writing to path in
// exportFormat ("" defaults to wav). The background persistence goroutine
// is started immediately; call Close when the reader role reaches
// end-of-stream.
func NewStreamSaver(r reader.Reader, path, exportFormat string) (*StreamSaver, error) {
	if exportFormat == "" {
		exportFormat = "wav"
	}
	s := &StreamSaver{
		Reader:      r,
		inbox:       make(chan []byte, 1024),
		samplingHz:  r.SamplingRate(),
		sampleWidth: r.SampleWidth(),
		channels:    r.Channels(),
		path:        path,
		exportFmt:   strings.ToLower(exportFormat),
		done:        make(chan struct{}),
	}
	s.cacheBytes = int(defaultCacheSeconds * float64(s.samplingHz) * float64(s.sampleWidth*s.channels))

	scratchPath := path
	if s.exportFmt != "wav" && s.exportFmt != "wave" {
		scratchPath = path + ".auditok-scratch.wav"
	}
	s.scratch = scratchPath

	writer, err := wav.NewWriter(scratchPath, s.samplingHz, s.sampleWidth, s.channels)
	if err != nil {
		return nil, err
	}
	s.writer = writer

	go s.run()
	return s, nil
}

// Read implements the reader role: forward the window untouched, and tap
// a copy to the background persistence goroutine. At end-of-stream it
// signals the background goroutine to flush and stop.
func (s *StreamSaver) Read() ([]byte, error) {
	data, err := s.Reader.Read()
	if len(data) > 0 {
		cp := append([]byte(nil), data...)
		s.inbox <- cp
	}
	if err != nil {
		s.closeInbox.Do(func() { close(s.inbox) })
	}
	return data, err
}

func (s *StreamSaver) run() {
	defer close(s.done)
	for data := range s.inbox {
		s.mu.Lock()
		s.cache = append(s.cache, data)
		s.cached += len(data)
		if s.cached >= s.cacheBytes {
			s.flushLocked()
		}
		s.mu.Unlock()
	}
	s.mu.Lock()
	s.flushLocked()
	s.mu.Unlock()
}

func (s *StreamSaver) flushLocked() {
	for _, data := range s.cache {
		s.writer.WriteFrames(data)
	}
	s.cache = nil
	s.cached = 0
}

// Close releases the underlying reader, waits for the background
// goroutine to drain and flush, closes the WAVE file, and — if a
// non-WAVE export format was requested — invokes the encoder bridge to
// transcode the scratch file. This combines StreamSaverWorker.close's
// "_reader.close(); self.stop()" with AudioDataSaverWorker's encode step.
//
// Close is idempotent and safe even when Read stopped being called before
// reaching end-of-stream (an interrupted run): the background goroutine's
// inbox is otherwise only closed from inside Read on error, which never
// happens on an early stop, so Close closes it here too, guarded by the
// same sync.Once Read uses.
func (s *StreamSaver) Close() error {
	readerErr := s.Reader.Close()
	s.closeInbox.Do(func() { close(s.inbox) })
	<-s.done
	s.closeOnce.Do(func() {
		s.closeErr = s.writer.Close()
		if s.closeErr == nil && s.scratch != s.path {
			bridge := encoder.NewBridge()
			s.closeErr = bridge.Encode(s.scratch, s.exportFmt, s.path)
		}
	})
	if s.closeErr != nil {
		return s.closeErr
	}
	return readerErr
}

var _ io.Closer = (*StreamSaver)(nil)
