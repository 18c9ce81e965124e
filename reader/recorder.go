package reader

import (
	"io"

	"github.com/amsehili/auditok-go/source"
)

// recorderReader retains every byte Read returns so that Rewind can
// restart from an in-memory buffer even when the backing source is not
// itself rewindable, per spec.md §4.C "record mode accumulates a byte log;
// rewind() replaces the underlying source with an in-memory buffer source
// over that log."
//
// Grounded on ADSFactory.RecorderADS in original_source/auditok/util.py,
// generalized from Python string concatenation to a growing []byte cache.
type recorderReader struct {
	inner Reader
	cache []byte
}

func newRecorderReader(inner Reader) *recorderReader {
	return &recorderReader{inner: inner}
}

func (r *recorderReader) Open() error { return r.inner.Open() }

func (r *recorderReader) Close() error { return r.inner.Close() }

func (r *recorderReader) Read() ([]byte, error) {
	data, err := r.inner.Read()
	if len(data) > 0 {
		r.cache = append(r.cache, data...)
	}
	return data, err
}

func (r *recorderReader) ReadN(n int) ([]byte, error) {
	data, err := r.inner.ReadN(n)
	if len(data) > 0 {
		r.cache = append(r.cache, data...)
	}
	return data, err
}

// Rewind replaces the underlying data with an in-memory buffer source over
// everything recorded so far and restarts reading from its beginning.
func (r *recorderReader) Rewind() error {
	buf, err := source.NewBufferSource(r.cache, r.SamplingRate(), r.SampleWidth(), r.Channels())
	if err != nil {
		return err
	}
	if err := buf.Open(); err != nil {
		return err
	}
	r.inner = &baseReader{src: buf, blockSize: r.inner.BlockSize()}
	return nil
}

func (r *recorderReader) SamplingRate() int { return r.inner.SamplingRate() }
func (r *recorderReader) SampleWidth() int  { return r.inner.SampleWidth() }
func (r *recorderReader) Channels() int     { return r.inner.Channels() }
func (r *recorderReader) BlockSize() int    { return r.inner.BlockSize() }

var _ io.Closer = (*recorderReader)(nil)
