package workers

import (
	"io"
	"log"
	"time"

	"github.com/amsehili/auditok-go/reader"
	"github.com/amsehili/auditok-go/region"
	"github.com/amsehili/auditok-go/tokenize"
	"github.com/amsehili/auditok-go/validate"
)

// TokenizerWorker drives the window reader synchronously through the
// detection automaton and fans each accepted event out to every observer
// worker, per spec.md §4.G "Tokenizer worker. Drives the reader, runs the
// automaton, assigns sequential ids and absolute timestamps, and
// broadcasts each accepted event to every observer."
//
// Grounded on TokenizerWorker in original_source/auditok/workers.py: its
// run() loop (open the reader, enumerate the region generator assigning
// _id from 1, stamp a wall-clock timestamp relative to the run's start,
// notify every observer, then broadcast the poison pill and close the
// reader) is ported directly; unlike the Python class this is not itself
// message-driven (nothing sends it a message), so its loop runs in the
// goroutine that calls Run (app.Run starts one for it) rather than through
// the shared base/inbox plumbing.
type TokenizerWorker struct {
	reader    reader.Reader
	validator validate.Validator
	tok       *tokenize.Tokenizer
	hopDur    float64
	observers []Worker
	logger    *log.Logger

	detections []Detection
	stopCh     chan struct{}
	runErr     error
}

// NewTokenizerWorker constructs a TokenizerWorker. hopDur is the seconds
// represented by one tokenizer frame index (the reader's hop duration,
// or its analysis window duration when there is no overlap), used to
// convert the automaton's frame indices into region timestamps.
func NewTokenizerWorker(r reader.Reader, validator validate.Validator, cfg tokenize.Config, hopDur float64, observers []Worker, logger *log.Logger) (*TokenizerWorker, error) {
	tok, err := tokenize.New(cfg)
	if err != nil {
		return nil, err
	}
	return &TokenizerWorker{
		reader:    r,
		validator: validator,
		tok:       tok,
		hopDur:    hopDur,
		observers: observers,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}, nil
}

// Detections returns every detection produced by the most recent Run,
// matching the read-only detections property in workers.py.
func (w *TokenizerWorker) Detections() []Detection { return w.detections }

// Run opens the reader, drives the automaton to completion (or until
// Stop is called), broadcasts each accepted event, then sends the
// poison pill to every observer and closes the reader. It blocks until
// the stream is exhausted or stopped, returning any fatal read or
// validation error encountered along the way.
func (w *TokenizerWorker) Run() error {
	if err := w.reader.Open(); err != nil {
		return err
	}
	startProcessing := time.Now()
	id := 0

	w.tok.Tokenize(w.nextFrame, func(ev tokenize.Event) {
		id++
		data := make([]byte, 0, len(ev.Frames)*len(ev.Frames[0]))
		for _, f := range ev.Frames {
			data = append(data, f...)
		}
		start := float64(ev.Start) * w.hopDur
		reg := region.New(data, start, w.reader.SamplingRate(), w.reader.SampleWidth(), w.reader.Channels())
		timestamp := startProcessing.Add(time.Duration(reg.Start * float64(time.Second)))
		reg.Timestamp = timestamp

		det := Detection{
			ID:        id,
			Start:     reg.Start,
			End:       reg.End,
			Duration:  reg.Duration(),
			Timestamp: timestamp,
		}
		w.detections = append(w.detections, det)
		if w.logger != nil {
			w.logger.Printf("[DET]: Detection %d (start: %.3f, end: %.3f, duration: %.3f)", det.ID, det.Start, det.End, det.Duration)
		}
		w.notifyObservers(Message{Detection: det, Region: reg})
	})

	w.notifyObservers(PoisonPill)
	closeErr := w.reader.Close()
	if w.runErr != nil {
		return w.runErr
	}
	return closeErr
}

// Stop requests an early end to Run's drive loop; it does not itself
// close the reader or wait for Run to return.
func (w *TokenizerWorker) Stop() {
	close(w.stopCh)
}

func (w *TokenizerWorker) notifyObservers(msg Message) {
	for _, o := range w.observers {
		o.Send(msg)
	}
}

// nextFrame is the tokenize.Tokenizer's frame source: it reads one window,
// validates it, and reports end-of-stream on a stop request, a fatal
// error, or the reader reaching io.EOF with no data.
func (w *TokenizerWorker) nextFrame() (tokenize.Frame, bool) {
	select {
	case <-w.stopCh:
		return tokenize.Frame{}, false
	default:
	}

	data, err := w.reader.Read()
	if len(data) == 0 {
		if err != nil && err != io.EOF {
			w.runErr = err
		}
		return tokenize.Frame{}, false
	}
	if err != nil && err != io.EOF {
		w.runErr = err
		return tokenize.Frame{}, false
	}

	valid, verr := w.validator.IsValid(data)
	if verr != nil {
		w.runErr = verr
		return tokenize.Frame{}, false
	}
	return tokenize.Frame{Data: data, Valid: valid}, true
}
