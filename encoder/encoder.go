// Package encoder implements the external encoder bridge of spec.md §4.H:
// given a WAVE scratch file and a target format, try ffmpeg, then avconv,
// then sox, in order; the first success wins and deletes the scratch file,
// exhausting the chain raises an EncodingWarning that preserves the WAVE.
//
// Grounded on AudioDataSaverWorker._encode_export_audio in
// original_source/auditok/workers.py for the fallback order, and on
// richinsley-goshadertoy/audio/ffmpegbase.go for driving ffmpeg through
// github.com/u2takey/ffmpeg-go rather than hand-built argv slices.
package encoder

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// EncodingWarning reports that every encoder in the fallback chain failed.
// The scratch WAVE file at ScratchPath is preserved so the audio is not
// lost (spec.md §7 "Encoding warning"). It does not affect the driver's
// exit code.
type EncodingWarning struct {
	ScratchPath string
	Format      string
	Attempts    []string
}

func (w *EncodingWarning) Error() string {
	return fmt.Sprintf("encoder: could not encode to %q: tried %v; audio preserved at %s", w.Format, w.Attempts, w.ScratchPath)
}

// step is one entry of the fallback chain: a human-readable name and a
// function that attempts the conversion, returning the captured stderr on
// failure.
type step struct {
	name string
	run  func(scratchWAV, format, outputPath string) error
}

// Bridge drives the ffmpeg -> avconv -> sox fallback chain.
type Bridge struct {
	steps []step
}

// NewBridge constructs a Bridge with the default fallback order: the
// "ffmpeg" and "avconv" binaries, then "sox", each looked up by that name.
func NewBridge() *Bridge {
	b := &Bridge{}
	b.steps = []step{
		{"ffmpeg", b.runFfmpegLike("ffmpeg")},
		{"avconv", b.runFfmpegLike("avconv")},
		{"sox", runSox},
	}
	return b
}

// Encode attempts the fallback chain in order for one non-WAV/raw target
// format. On the first success, scratchWAV is removed. If every step
// fails, scratchWAV is preserved and an *EncodingWarning is returned.
func (b *Bridge) Encode(scratchWAV, format, outputPath string) error {
	var attempts []string
	for _, s := range b.steps {
		if err := s.run(scratchWAV, format, outputPath); err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", s.name, err))
			continue
		}
		os.Remove(scratchWAV)
		return nil
	}
	return &EncodingWarning{ScratchPath: scratchWAV, Format: format, Attempts: attempts}
}

// runFfmpegLike returns a step function that drives binaryName (ffmpeg, or
// its CLI-compatible fork avconv) via ffmpeg-go's KwArgs builder, matching
// _export_with_ffmpeg_or_avconv's "-y -f wav -i <scratch> -f <format>
// <output>" command line.
func (b *Bridge) runFfmpegLike(binaryName string) func(string, string, string) error {
	return func(scratchWAV, format, outputPath string) error {
		var stderr bytes.Buffer
		cmd := ffmpeg.Input(scratchWAV, ffmpeg.KwArgs{"y": "", "f": "wav"}).
			Output(outputPath, ffmpeg.KwArgs{"f": format}).
			SetFfmpegPath(binaryName).
			WithErrorOutput(&stderr)
		if err := cmd.Run(); err != nil {
			if stderr.Len() > 0 {
				return fmt.Errorf("%s", stderr.String())
			}
			return err
		}
		return nil
	}
}

// runSox shells out to sox directly: its CLI syntax ("sox -t wav <in>
// <out>") differs enough from ffmpeg's that reusing the KwArgs builder
// would not help, matching _export_with_sox.
func runSox(scratchWAV, format, outputPath string) error {
	cmd := exec.Command("sox", "-t", "wav", scratchWAV, outputPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%s", stderr.String())
		}
		return err
	}
	return nil
}
