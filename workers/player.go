package workers

import (
	"encoding/binary"
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

const playerFramesPerBuffer = 1024

// PlayerWorker plays each detected region through a loudspeaker device via
// PortAudio's blocking output stream, per spec.md §4.G "Player. For each
// message, plays the region through a loudspeaker interface (external)."
//
// It mirrors source.CaptureSource's use of the blocking stream API rather
// than richinsley-goshadertoy/audio/player.go's cgo/libavformat device
// muxer: playback here is just PCM-out, not container muxing, so the
// lighter PortAudio binding already vendored for capture is reused instead
// of introducing a second audio output dependency.
type PlayerWorker struct {
	*base
	logger   *log.Logger
	stream   *portaudio.Stream
	outbuf   []int16
	channels int
	opened   bool
}

// NewPlayerWorker constructs and starts a PlayerWorker.
func NewPlayerWorker(logger *log.Logger) *PlayerWorker {
	w := &PlayerWorker{logger: logger}
	w.base = newBase(DefaultTimeout, w.processMessage, w.closeStream)
	return w
}

func (w *PlayerWorker) processMessage(msg Message) {
	if err := w.play(msg); err != nil && w.logger != nil {
		w.logger.Printf("[PLAY]: detection %d: %v", msg.Detection.ID, err)
		return
	}
	if w.logger != nil {
		w.logger.Printf("[PLAY]: detection %d played", msg.Detection.ID)
	}
}

func (w *PlayerWorker) play(msg Message) error {
	r := msg.Region
	if err := w.ensureStream(r.SamplingRate, r.Channels); err != nil {
		return err
	}
	samples, err := decodeInt16(r.Data, r.SampleWidth)
	if err != nil {
		return err
	}
	frame := w.channels
	for i := 0; i < len(samples); i += len(w.outbuf) {
		end := i + len(w.outbuf)
		if end > len(samples) {
			end = len(samples)
		}
		n := copy(w.outbuf, samples[i:end])
		for j := n; j < len(w.outbuf); j++ {
			w.outbuf[j] = 0
		}
		if err := w.stream.Write(); err != nil {
			return fmt.Errorf("player: writing to output stream: %w", err)
		}
	}
	_ = frame
	return nil
}

func decodeInt16(data []byte, sampleWidth int) ([]int16, error) {
	switch sampleWidth {
	case 2:
		out := make([]int16, len(data)/2)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("player: unsupported sample width %d for playback", sampleWidth)
	}
}

func (w *PlayerWorker) ensureStream(samplingRate, channels int) error {
	if w.opened {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("player: initializing portaudio: %w", err)
	}
	w.channels = channels
	w.outbuf = make([]int16, playerFramesPerBuffer*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(samplingRate), playerFramesPerBuffer, &w.outbuf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("player: opening output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("player: starting output stream: %w", err)
	}
	w.stream = stream
	w.opened = true
	return nil
}

func (w *PlayerWorker) closeStream() {
	if !w.opened {
		return
	}
	w.stream.Close()
	portaudio.Terminate()
	w.opened = false
}
