package reader

import "io"

// overlapReader implements spec.md §4.C overlapping windows: the first
// Read returns blockSize frames; each subsequent Read appends hopSize
// fresh frames to a cache holding the previous (blockSize-hopSize) frames
// and returns the concatenation. The stream ends when the source cannot
// provide at least hopSize more frames; a trailing short block (size <
// blockSize but > blockSize-hopSize) may be emitted.
//
// Grounded on ADSFactory.OverlapADS in original_source/auditok/util.py,
// which achieves the same effect by mutating the wrapped
// AudioDataSource's block_size between the first and later reads; here
// that becomes explicit hopSize/blockSize arguments to ReadN.
type overlapReader struct {
	inner     Reader
	hopSize   int
	blockSize int
	cache     []byte
	first     bool
}

func newOverlapReader(inner Reader, hopSize, blockSize int) *overlapReader {
	return &overlapReader{inner: inner, hopSize: hopSize, blockSize: blockSize, first: true}
}

func (o *overlapReader) Open() error { return o.inner.Open() }

func (o *overlapReader) Close() error { return o.inner.Close() }

func (o *overlapReader) Read() ([]byte, error) {
	frame := o.SampleWidth() * o.Channels()
	hopBytes := o.hopSize * frame
	blockBytes := o.blockSize * frame

	if o.first {
		o.first = false
		block, err := o.inner.ReadN(o.blockSize)
		if err != nil && len(block) == 0 {
			return nil, err
		}
		if len(block) > hopBytes {
			o.cache = append([]byte(nil), block[hopBytes:]...)
		} else {
			o.cache = nil
		}
		return block, nil
	}

	fresh, err := o.inner.ReadN(o.hopSize)
	if len(fresh) == 0 {
		return nil, io.EOF
	}
	block := append(append([]byte(nil), o.cache...), fresh...)
	if len(block) == blockBytes {
		o.cache = append([]byte(nil), block[hopBytes:]...)
	} else {
		o.cache = nil
	}
	return block, err
}

func (o *overlapReader) ReadN(n int) ([]byte, error) {
	return o.inner.ReadN(n)
}

func (o *overlapReader) Rewind() error {
	if err := o.inner.Rewind(); err != nil {
		return err
	}
	o.first = true
	o.cache = nil
	return nil
}

func (o *overlapReader) SamplingRate() int { return o.inner.SamplingRate() }
func (o *overlapReader) SampleWidth() int  { return o.inner.SampleWidth() }
func (o *overlapReader) Channels() int     { return o.inner.Channels() }
func (o *overlapReader) BlockSize() int    { return o.blockSize }
