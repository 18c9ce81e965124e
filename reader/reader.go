// Package reader implements the window reader of spec.md §4.C: it drives
// an audio source to yield fixed-duration analysis windows, optionally
// limiting total read, recording for rewind, or overlapping windows with a
// configurable hop.
//
// The factory here is the pipeline-builder replacement spec.md §9 calls
// for in place of ADSFactory's kwargs-and-aliases: New applies, in fixed
// order, a limiter wrapper (a small struct embedding source.Source), then a
// recorder wrapper and an overlap wrapper (each holding the Reader it
// wraps) — composition instead of the ADSDecorator inheritance chain in
// original_source/auditok/util.py.
package reader

import (
	"io"

	"github.com/amsehili/auditok-go/source"
)

// Config recognizes the options table of spec.md §4.C.
type Config struct {
	// BlockDur is the analysis window size in seconds. Zero defaults to
	// 0.01s (spec.md §6 "--analysis-window FLOAT (default 0.01)").
	BlockDur float64
	// HopDur is the hop size in seconds; zero means equal to BlockDur (no
	// overlap).
	HopDur float64
	// MaxRead caps total seconds read from the source; zero means no
	// limit.
	MaxRead float64
	// Record retains all bytes read so Rewind works even over a
	// non-rewindable backing source.
	Record bool
}

// Reader is the uniform window-of-frames interface the tokenizer drives.
type Reader interface {
	Open() error
	Close() error
	Read() ([]byte, error) // returns io.EOF (wrapped or bare) at end of stream
	Rewind() error
	SamplingRate() int
	SampleWidth() int
	Channels() int
	BlockSize() int // frames per non-overlapping window

	// ReadN reads exactly up to n frames from the underlying source,
	// bypassing BlockSize. overlapReader uses this to read a full block on
	// its first call and only the hop size on every call after, the same
	// trick OverlapADS plays by mutating the wrapped AudioDataSource's
	// block_size in original_source/auditok/util.py.
	ReadN(n int) ([]byte, error)
}

// baseReader reads one fixed-size, non-overlapping window per call, the
// AudioDataSource counterpart in original_source/auditok/util.py.
type baseReader struct {
	src       source.Source
	blockSize int
}

// New builds a Reader over src per cfg, applying wrappers in the fixed
// order: limiter, recorder, overlap. A zero BlockDur defaults to 0.01s;
// if that would yield a zero-frame window, construction fails (spec.md §3
// "when the configured duration would produce N = 0, construction fails
// with an invalid-parameter error").
func New(src source.Source, cfg Config) (Reader, error) {
	blockDur := cfg.BlockDur
	if blockDur <= 0 {
		blockDur = 0.01
	}
	blockSize := int(blockDur*float64(src.SamplingRate()) + 0.5)
	if blockSize < 1 {
		return nil, &source.InvalidParameterError{Msg: "analysis window duration is too small: produces a zero-frame window"}
	}

	// spec.md §9 "source → (limiter?) → (recorder?) → (overlap?) → reader":
	// the limiter wraps the raw byte Source (it caps aggregate source
	// bytes, the Open Question resolution recorded in limiter.go),
	// everything after it wraps the block-level Reader.
	effectiveSrc := src
	if cfg.MaxRead > 0 {
		effectiveSrc = newLimiterSource(src, cfg.MaxRead)
	}

	var r Reader = &baseReader{src: effectiveSrc, blockSize: blockSize}

	if cfg.Record {
		r = newRecorderReader(r)
	}

	if cfg.HopDur > 0 {
		hopSize := int(cfg.HopDur*float64(src.SamplingRate()) + 0.5)
		if hopSize < 1 || hopSize > blockSize {
			return nil, &source.InvalidParameterError{Msg: "hop_dur must be > 0 and <= block_dur"}
		}
		if hopSize < blockSize {
			r = newOverlapReader(r, hopSize, blockSize)
		}
	}

	return r, nil
}

func (b *baseReader) Open() error  { return b.src.Open() }
func (b *baseReader) Close() error { return b.src.Close() }

func (b *baseReader) Read() ([]byte, error) {
	return b.ReadN(b.blockSize)
}

func (b *baseReader) ReadN(n int) ([]byte, error) {
	data, err := b.src.Read(n)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(data) == 0 {
		return nil, io.EOF
	}
	return data, err
}

func (b *baseReader) Rewind() error {
	rw, ok := b.src.(source.Rewindable)
	if !ok {
		return source.ErrNotRewindable
	}
	return rw.Rewind()
}

func (b *baseReader) SamplingRate() int { return b.src.SamplingRate() }
func (b *baseReader) SampleWidth() int  { return b.src.SampleWidth() }
func (b *baseReader) Channels() int     { return b.src.Channels() }
func (b *baseReader) BlockSize() int    { return b.blockSize }
