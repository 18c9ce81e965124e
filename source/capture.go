package source

import (
	"encoding/binary"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// CaptureSource obtains frames from a native capture device (a sound card
// microphone) through PortAudio, with a configured frames-per-buffer
// (spec.md §4.B "Capture device"). It is never rewindable.
//
// richinsley-goshadertoy/audio/microphone.go drives PortAudio in callback
// mode and pushes samples onto a Go channel because its AudioDevice
// interface is push-based. The tokenizer worker here needs a pull-based
// Read(n), so CaptureSource instead uses PortAudio's blocking stream API
// (stream.Read fills a caller-owned buffer synchronously) and accumulates
// partial buffers across calls the same way BufferSource hands out slices
// of a larger store.
type CaptureSource struct {
	samplingRate     int
	sampleWidth      int
	channels         int
	framesPerBuffer  int
	inputDeviceIndex int // -1 means default device

	stream *portaudio.Stream
	buf    []byte // decoded bytes for the current framesPerBuffer chunk
	pos    int    // read offset within buf
	i8buf  []int8
	i16buf []int16
	i32buf []int32
}

// NewCaptureSource constructs a CaptureSource. inputDeviceIndex < 0 selects
// the host API's default input device.
func NewCaptureSource(samplingRate, sampleWidth, channels, framesPerBuffer, inputDeviceIndex int) (*CaptureSource, error) {
	if err := checkParams(samplingRate, sampleWidth, channels); err != nil {
		return nil, err
	}
	if framesPerBuffer <= 0 {
		framesPerBuffer = 1024
	}
	return &CaptureSource{
		samplingRate:     samplingRate,
		sampleWidth:      sampleWidth,
		channels:         channels,
		framesPerBuffer:  framesPerBuffer,
		inputDeviceIndex: inputDeviceIndex,
	}, nil
}

func (c *CaptureSource) Open() error {
	if c.stream != nil {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("source: initializing portaudio: %w", err)
	}

	device, err := c.device()
	if err != nil {
		portaudio.Terminate()
		return err
	}

	params := portaudio.HighLatencyParameters(device, nil)
	params.Input.Channels = c.channels
	params.SampleRate = float64(c.samplingRate)
	params.FramesPerBuffer = c.framesPerBuffer

	var stream *portaudio.Stream
	switch c.sampleWidth {
	case 1:
		c.i8buf = make([]int8, c.framesPerBuffer*c.channels)
		stream, err = portaudio.OpenStream(params, c.i8buf)
	case 2:
		c.i16buf = make([]int16, c.framesPerBuffer*c.channels)
		stream, err = portaudio.OpenStream(params, c.i16buf)
	case 4:
		c.i32buf = make([]int32, c.framesPerBuffer*c.channels)
		stream, err = portaudio.OpenStream(params, c.i32buf)
	default:
		portaudio.Terminate()
		return &InvalidParameterError{Msg: fmt.Sprintf("sample width must be 1, 2 or 4 bytes, got %d", c.sampleWidth)}
	}
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("source: opening capture stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("source: starting capture stream: %w", err)
	}
	c.stream = stream
	return nil
}

func (c *CaptureSource) device() (*portaudio.DeviceInfo, error) {
	if c.inputDeviceIndex < 0 {
		host, err := portaudio.DefaultHostApi()
		if err != nil {
			return nil, err
		}
		return host.DefaultInputDevice, nil
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	if c.inputDeviceIndex >= len(devices) {
		return nil, &InvalidParameterError{Msg: fmt.Sprintf("input device index %d out of range", c.inputDeviceIndex)}
	}
	return devices[c.inputDeviceIndex], nil
}

func (c *CaptureSource) Close() error {
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	terminateErr := portaudio.Terminate()
	if err != nil {
		return err
	}
	return terminateErr
}

func (c *CaptureSource) IsOpen() bool { return c.stream != nil }

// fillBuffer blocks until one frames-per-buffer chunk of new samples is
// available and decodes it into c.buf.
func (c *CaptureSource) fillBuffer() error {
	if err := c.stream.Read(); err != nil {
		return fmt.Errorf("source: reading from capture stream: %w", err)
	}
	switch c.sampleWidth {
	case 1:
		c.buf = make([]byte, len(c.i8buf))
		for i, v := range c.i8buf {
			c.buf[i] = byte(v)
		}
	case 2:
		c.buf = make([]byte, len(c.i16buf)*2)
		for i, v := range c.i16buf {
			binary.LittleEndian.PutUint16(c.buf[i*2:], uint16(v))
		}
	case 4:
		c.buf = make([]byte, len(c.i32buf)*4)
		for i, v := range c.i32buf {
			binary.LittleEndian.PutUint32(c.buf[i*4:], uint32(v))
		}
	}
	c.pos = 0
	return nil
}

func (c *CaptureSource) Read(n int) ([]byte, error) {
	if c.stream == nil {
		return nil, errNotOpen
	}
	frame := FrameSize(c)
	if n <= 0 {
		n = c.framesPerBuffer
	}
	want := n * frame
	out := make([]byte, 0, want)
	for len(out) < want {
		if c.buf == nil || c.pos >= len(c.buf) {
			if err := c.fillBuffer(); err != nil {
				return nil, err
			}
		}
		avail := len(c.buf) - c.pos
		take := want - len(out)
		if take > avail {
			take = avail
		}
		out = append(out, c.buf[c.pos:c.pos+take]...)
		c.pos += take
	}
	return out, nil
}

func (c *CaptureSource) SamplingRate() int { return c.samplingRate }
func (c *CaptureSource) SampleWidth() int  { return c.sampleWidth }
func (c *CaptureSource) Channels() int     { return c.channels }
