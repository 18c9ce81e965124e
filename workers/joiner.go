package workers

import (
	"log"

	"github.com/amsehili/auditok-go/encoder"
	"github.com/amsehili/auditok-go/wav"
)

// JoinerWorker concatenates every detected region into a single output
// file, inserting a fixed-duration silence gap between consecutive
// regions (none before the first), per spec.md §4.G "Event joiner.
// Concatenates all detected regions into one output file, inserting a
// configurable silence gap between consecutive events."
//
// Grounded on AudioEventsJoinerWorker in
// original_source/auditok/workers.py: _write_audio_event's "write silence
// unless this is the first event, then write the event" is ported as-is;
// the PCM silence gap itself is zero-valued bytes of the right frame
// count, since make_silence in original_source/auditok/util.py also
// produces a buffer of zero samples.
type JoinerWorker struct {
	*base
	logger     *log.Logger
	writer     *wav.Writer
	scratch    string
	path       string
	exportFmt  string
	silence    []byte
	firstEvent bool
}

// NewJoinerWorker constructs and starts a JoinerWorker. silenceDuration is
// in seconds; exportFormat "" defaults to wav.
func NewJoinerWorker(silenceDuration float64, path, exportFormat string, samplingRate, sampleWidth, channels int, logger *log.Logger) (*JoinerWorker, error) {
	if exportFormat == "" {
		exportFormat = "wav"
	}
	scratch := path
	if exportFormat != "wav" && exportFormat != "wave" {
		scratch = path + ".auditok-scratch.wav"
	}
	writer, err := wav.NewWriter(scratch, samplingRate, sampleWidth, channels)
	if err != nil {
		return nil, err
	}
	frameSize := sampleWidth * channels
	silenceFrames := int(silenceDuration * float64(samplingRate))
	if silenceFrames < 0 {
		silenceFrames = 0
	}
	w := &JoinerWorker{
		logger:     logger,
		writer:     writer,
		scratch:    scratch,
		path:       path,
		exportFmt:  exportFormat,
		silence:    make([]byte, silenceFrames*frameSize),
		firstEvent: true,
	}
	w.base = newBase(DefaultTimeout, w.processMessage, w.postProcess)
	return w, nil
}

func (w *JoinerWorker) processMessage(msg Message) {
	w.writeEvent(msg.Region.Data)
}

func (w *JoinerWorker) writeEvent(data []byte) {
	if !w.firstEvent {
		w.writer.WriteFrames(w.silence)
	} else {
		w.firstEvent = false
	}
	if err := w.writer.WriteFrames(data); err != nil && w.logger != nil {
		w.logger.Printf("[JOIN]: writing event: %v", err)
	}
}

// postProcess closes the scratch WAVE file and, for a non-WAVE export
// format, runs the encoder bridge, matching _post_process's wfp.close()
// plus AudioDataSaverWorker's export step.
func (w *JoinerWorker) postProcess() {
	if err := w.writer.Close(); err != nil {
		if w.logger != nil {
			w.logger.Printf("[JOIN]: closing %q: %v", w.scratch, err)
		}
		return
	}
	if w.scratch == w.path {
		return
	}
	bridge := encoder.NewBridge()
	if err := bridge.Encode(w.scratch, w.exportFmt, w.path); err != nil && w.logger != nil {
		w.logger.Printf("[JOIN]: encoding %q: %v", w.path, err)
	}
}
