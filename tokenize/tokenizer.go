// Package tokenize implements the 4-state detection automaton of
// spec.md §4.E: it consumes a sequence of (frame, validity) tuples and
// emits event regions honoring length, silence and mode policies.
//
// This is a direct, faithful port of StreamTokenizer in
// original_source/auditok/core.py (_process/_process_end_of_detection/
// _post_process), renamed to idiomatic Go: the Python bound _deliver
// callable becomes an explicit Sink function argument to Tokenize, and the
// int bit-flag mode becomes two plain bool fields.
package tokenize

import "fmt"

type state int

const (
	stateSilence state = iota
	statePossibleNoise
	stateNoise
	statePossibleSilence
)

// Frame is one item of the window sequence fed to Tokenize: the raw window
// bytes (or whatever the caller wants delivered back in an emitted event)
// together with its validity decision.
type Frame struct {
	Data  []byte
	Valid bool
}

// Event is one emitted detection: the accumulated windows, one slice per
// frame in order, plus the absolute start/end frame indices (inclusive),
// matching the (data, start, end) tuple StreamTokenizer._deliver receives.
type Event struct {
	Frames   [][]byte
	Start    int
	End      int
	Length   int // number of frames == len(Frames)
}

// Sink receives each accepted event as Tokenize runs.
type Sink func(Event)

// Config holds the automaton's parameters (spec.md §4.E).
type Config struct {
	MinLength             int
	MaxLength             int
	MaxContinuousSilence  int
	InitMin               int
	InitMaxSilence        int
	StrictMinLength       bool
	DropTrailingSilence   bool
}

// Validate checks the parameter constraints from spec.md §4.E and §7
// ("Invalid parameter"): max_length >= min_length >= 1,
// 0 <= max_continuous_silence < max_length.
func (c Config) Validate() error {
	if c.MaxLength <= 0 {
		return fmt.Errorf("tokenize: max_length must be > 0, got %d", c.MaxLength)
	}
	if c.MinLength <= 0 || c.MinLength > c.MaxLength {
		return fmt.Errorf("tokenize: min_length must be > 0 and <= max_length, got %d (max_length=%d)", c.MinLength, c.MaxLength)
	}
	if c.MaxContinuousSilence < 0 || c.MaxContinuousSilence >= c.MaxLength {
		return fmt.Errorf("tokenize: max_continuous_silence must be >= 0 and < max_length, got %d (max_length=%d)", c.MaxContinuousSilence, c.MaxLength)
	}
	if c.InitMin < 0 {
		return fmt.Errorf("tokenize: init_min must be >= 0, got %d", c.InitMin)
	}
	if c.InitMaxSilence < 0 {
		return fmt.Errorf("tokenize: init_max_silence must be >= 0, got %d", c.InitMaxSilence)
	}
	return nil
}

// Tokenizer runs Config's automaton over a stream of Frames.
type Tokenizer struct {
	cfg Config

	state        state
	data         [][]byte
	startFrame   int
	currentFrame int
	silenceLen   int
	initCount    int
	contiguous   bool
}

// New constructs a Tokenizer. cfg is validated eagerly so construction-time
// parameter errors surface before any frame is processed (spec.md §7).
func New(cfg Config) (*Tokenizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Tokenizer{cfg: cfg}
	t.reset()
	return t, nil
}

func (t *Tokenizer) reset() {
	t.state = stateSilence
	t.data = nil
	t.currentFrame = -1
	t.contiguous = false
	t.silenceLen = 0
	t.initCount = 0
	t.startFrame = 0
}

// Tokenize drives a run to completion: Next is called repeatedly until it
// reports no more frames (io.EOF-like semantics delegated to the caller via
// the ok return), the automaton's end-of-stream post-processing runs, and
// sink is invoked once per accepted Event, in ascending start-frame order.
//
// The caller owns the source of frames (typically the window reader); this
// keeps Tokenizer itself free of any I/O concern, matching
// StreamTokenizer.tokenize's separation from DataSource.
func (t *Tokenizer) Tokenize(next func() (Frame, bool), sink Sink) {
	t.reset()
	for {
		frame, ok := next()
		if !ok {
			break
		}
		t.currentFrame++
		t.process(frame, sink)
	}
	t.postProcess(sink)
}

func (t *Tokenizer) process(frame Frame, sink Sink) {
	switch t.state {
	case stateSilence:
		if !frame.Valid {
			return
		}
		t.initCount = 1
		t.silenceLen = 0
		t.startFrame = t.currentFrame
		t.data = append(t.data, frame.Data)
		if t.initCount >= t.cfg.InitMin {
			t.state = stateNoise
			if len(t.data) >= t.cfg.MaxLength {
				t.emit(true, sink)
			}
		} else {
			t.state = statePossibleNoise
		}

	case statePossibleNoise:
		if frame.Valid {
			t.silenceLen = 0
			t.initCount++
			t.data = append(t.data, frame.Data)
			if t.initCount >= t.cfg.InitMin {
				t.state = stateNoise
				if len(t.data) >= t.cfg.MaxLength {
					t.emit(true, sink)
				}
			}
			return
		}
		t.silenceLen++
		if t.silenceLen > t.cfg.InitMaxSilence || len(t.data)+1 >= t.cfg.MaxLength {
			t.data = nil
			t.state = stateSilence
		} else {
			t.data = append(t.data, frame.Data)
		}

	case stateNoise:
		if frame.Valid {
			t.data = append(t.data, frame.Data)
			if len(t.data) >= t.cfg.MaxLength {
				t.emit(true, sink)
			}
			return
		}
		if t.cfg.MaxContinuousSilence <= 0 {
			t.emit(false, sink)
			t.state = stateSilence
			return
		}
		t.silenceLen = 1
		t.data = append(t.data, frame.Data)
		t.state = statePossibleSilence
		if len(t.data) == t.cfg.MaxLength {
			// don't reset silenceLen: still need the total silent count
			t.emit(true, sink)
		}

	case statePossibleSilence:
		if frame.Valid {
			t.data = append(t.data, frame.Data)
			t.silenceLen = 0
			t.state = stateNoise
			if len(t.data) >= t.cfg.MaxLength {
				t.emit(true, sink)
			}
			return
		}
		if t.silenceLen >= t.cfg.MaxContinuousSilence {
			if t.silenceLen < len(t.data) {
				t.emit(false, sink)
			} else {
				t.data = nil
			}
			t.state = stateSilence
			t.silenceLen = 0
			return
		}
		t.data = append(t.data, frame.Data)
		t.silenceLen++
		if len(t.data) >= t.cfg.MaxLength {
			// don't reset silenceLen: still need the total silent count
			t.emit(true, sink)
		}
	}
}

// postProcess implements spec.md §4.E "End of stream": if in NOISE or
// POSSIBLE_SILENCE and the accumulation is not entirely silence, emit one
// final, non-truncated event.
func (t *Tokenizer) postProcess(sink Sink) {
	if t.state == stateNoise || t.state == statePossibleSilence {
		if len(t.data) > 0 && len(t.data) > t.silenceLen {
			t.emit(false, sink)
		}
	}
}

// emit implements the emission policy of spec.md §4.E.
func (t *Tokenizer) emit(truncated bool, sink Sink) {
	if !truncated && t.cfg.DropTrailingSilence && t.silenceLen > 0 {
		t.data = t.data[:len(t.data)-t.silenceLen]
	}

	accept := len(t.data) >= t.cfg.MinLength ||
		(len(t.data) > 0 && !t.cfg.StrictMinLength && t.contiguous)

	if accept {
		end := t.startFrame + len(t.data) - 1
		sink(Event{Frames: t.data, Start: t.startFrame, End: end, Length: len(t.data)})
		if truncated {
			t.startFrame = t.currentFrame + 1
			t.contiguous = true
		} else {
			t.contiguous = false
		}
	} else {
		t.contiguous = false
	}
	t.data = nil
}
