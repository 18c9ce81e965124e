// Package cliopts parses the auditok-go command line, per spec.md §6.
//
// Grounded on the ArgumentParser table in original_source/auditok/cmdline.py:
// every long flag there gets a Go flag.*Var of the same default and help
// text, and every short alias (-a, -n, -m, ...) is registered as a second
// flag.*Var against the same backing variable, the way SPEC_FULL.md's
// ambient stack section calls for (the standard flag package, no
// third-party flag library, matching cmd/main.go's choice in the teacher
// repo).
package cliopts

import (
	"flag"
	"fmt"
	"io"
)

// Version is the engine version reported by -v/--version, grounded on
// the --version/-v action in original_source/auditok/cmdline.py.
const Version = "auditok-go 0.1.0"

// Options holds every parsed flag, grouped the way cmdline.py groups its
// argument groups (Input-Output, Tokenization, Audio parameters, Use audio
// events, plus the top-level quiet/debug flags).
type Options struct {
	// Input-Output
	Input             string
	InputDeviceIndex  int
	FramePerBuffer    int
	InputFormat       string
	MaxRead           float64
	LargeFile         bool
	SaveStream        string
	SaveDetectionsAs  string
	JoinDetections    float64
	HasJoinDetections bool
	OutputFormat      string
	UseChannel        string

	// Tokenization
	AnalysisWindow      float64
	MinDuration         float64
	MaxDuration         float64
	MaxSilence          float64
	DropTrailingSilence bool
	StrictMinDuration   bool
	EnergyThreshold     float64

	// Audio parameters
	SamplingRate int
	Channels     int
	SampleWidth  int

	// Use audio events
	Command      string
	Echo         bool
	ProgressBar  bool
	Plot         bool
	SaveImage    string
	Printf       string
	TimeFormat   string
	TimestampFmt string

	Quiet     bool
	Debug     bool
	DebugFile string

	// ShowVersion reports that -v/--version was given; the caller should
	// print Version and exit without running the pipeline.
	ShowVersion bool
}

// Parse parses argv (not including the program name) into Options,
// mirroring cmdline.py's parser.parse_args. It writes usage/error output
// to errOut (os.Stderr in the CLI entrypoint, a buffer in tests).
func Parse(argv []string, errOut io.Writer) (*Options, error) {
	fs := flag.NewFlagSet("auditok", flag.ContinueOnError)
	fs.SetOutput(errOut)

	o := &Options{}
	var joinDetections float64
	var joinDetectionsSet bool

	fs.StringVar(&o.InputFormat, "input-format", "", "input audio file format")
	fs.StringVar(&o.InputFormat, "f", "", "alias for -input-format")
	fs.IntVar(&o.InputDeviceIndex, "input-device-index", -1, "audio device index (-1: default device)")
	fs.IntVar(&o.InputDeviceIndex, "I", -1, "alias for -input-device-index")
	fs.IntVar(&o.FramePerBuffer, "audio-frame-per-buffer", 1024, "audio frames per buffer")
	fs.IntVar(&o.FramePerBuffer, "F", 1024, "alias for -audio-frame-per-buffer")
	fs.Float64Var(&o.MaxRead, "max-read", 0, "maximum data (seconds) to read; 0 means until end of stream")
	fs.Float64Var(&o.MaxRead, "M", 0, "alias for -max-read")
	fs.BoolVar(&o.LargeFile, "large-file", false, "treat the input file as large (stream from disk on demand)")
	fs.BoolVar(&o.LargeFile, "L", false, "alias for -large-file")
	fs.StringVar(&o.SaveStream, "save-stream", "", "save the read audio stream to a file")
	fs.StringVar(&o.SaveStream, "O", "", "alias for -save-stream")
	fs.StringVar(&o.SaveDetectionsAs, "save-detections-as", "", "filename template for saving detected events")
	fs.StringVar(&o.SaveDetectionsAs, "o", "", "alias for -save-detections-as")
	fs.Float64Var(&joinDetections, "join-detections", 0, "join detected events into one file with this many seconds of silence between them")
	fs.Float64Var(&joinDetections, "j", 0, "alias for -join-detections")
	fs.StringVar(&o.OutputFormat, "output-format", "", "audio format for saving detections and/or the main stream")
	fs.StringVar(&o.OutputFormat, "T", "", "alias for -output-format")
	fs.StringVar(&o.UseChannel, "use-channel", "", "channel selection: empty (any), an index, or mix/avg/average")
	fs.StringVar(&o.UseChannel, "u", "", "alias for -use-channel")

	fs.Float64Var(&o.AnalysisWindow, "analysis-window", 0.01, "analysis window size in seconds")
	fs.Float64Var(&o.AnalysisWindow, "a", 0.01, "alias for -analysis-window")
	fs.Float64Var(&o.MinDuration, "min-duration", 0.2, "minimum duration of a valid audio event in seconds")
	fs.Float64Var(&o.MinDuration, "n", 0.2, "alias for -min-duration")
	fs.Float64Var(&o.MaxDuration, "max-duration", 5, "maximum duration of a valid audio event in seconds")
	fs.Float64Var(&o.MaxDuration, "m", 5, "alias for -max-duration")
	fs.Float64Var(&o.MaxSilence, "max-silence", 0.3, "maximum duration of consecutive silence within a valid event")
	fs.Float64Var(&o.MaxSilence, "s", 0.3, "alias for -max-silence")
	fs.BoolVar(&o.DropTrailingSilence, "drop-trailing-silence", false, "remove trailing silence from a detection")
	fs.BoolVar(&o.DropTrailingSilence, "d", false, "alias for -drop-trailing-silence")
	fs.BoolVar(&o.StrictMinDuration, "strict-min-duration", false, "reject events shorter than -min-duration even if adjacent to a max-duration event")
	fs.BoolVar(&o.StrictMinDuration, "R", false, "alias for -strict-min-duration")
	fs.Float64Var(&o.EnergyThreshold, "energy-threshold", 50, "log energy threshold for detection")
	fs.Float64Var(&o.EnergyThreshold, "e", 50, "alias for -energy-threshold")

	fs.IntVar(&o.SamplingRate, "rate", 16000, "sampling rate of headerless audio data")
	fs.IntVar(&o.SamplingRate, "r", 16000, "alias for -rate")
	fs.IntVar(&o.Channels, "channels", 1, "number of channels of headerless audio data")
	fs.IntVar(&o.Channels, "c", 1, "alias for -channels")
	fs.IntVar(&o.SampleWidth, "width", 2, "number of bytes per sample of headerless audio data")
	fs.IntVar(&o.SampleWidth, "w", 2, "alias for -width")

	fs.StringVar(&o.Command, "command", "", "command to run on each detected event; {file} is the temp WAV path")
	fs.StringVar(&o.Command, "C", "", "alias for -command")
	fs.BoolVar(&o.Echo, "echo", false, "play back each detected event")
	fs.BoolVar(&o.Echo, "E", false, "alias for -echo")
	fs.BoolVar(&o.ProgressBar, "progress-bar", false, "accepted for interface compatibility; no progress bar is shown")
	fs.BoolVar(&o.ProgressBar, "B", false, "alias for -progress-bar")
	fs.BoolVar(&o.Plot, "plot", false, "accepted for interface compatibility; no plotting backend is wired")
	fs.BoolVar(&o.Plot, "p", false, "alias for -plot")
	fs.StringVar(&o.SaveImage, "save-image", "", "accepted for interface compatibility; no plotting backend is wired")
	fs.StringVar(&o.Printf, "printf", "{id} {start} {end}", "per-event print format")
	fs.StringVar(&o.TimeFormat, "time-format", "%S", "format for {start}/{end}/{duration} in -printf")
	fs.StringVar(&o.TimestampFmt, "timestamp-format", "%Y/%m/%d %H:%M:%S", "strftime format for {timestamp} in -printf")

	fs.BoolVar(&o.Quiet, "quiet", false, "do not print per-event lines")
	fs.BoolVar(&o.Quiet, "q", false, "alias for -quiet")
	fs.BoolVar(&o.Debug, "debug", false, "log processing operations to stderr")
	fs.BoolVar(&o.Debug, "D", false, "alias for -debug")
	fs.StringVar(&o.DebugFile, "debug-file", "", "log processing operations to this file")

	fs.BoolVar(&o.ShowVersion, "version", false, "print the version and exit")
	fs.BoolVar(&o.ShowVersion, "v", false, "alias for -version")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	if o.ShowVersion {
		return o, nil
	}

	if fs.NArg() > 0 {
		o.Input = fs.Arg(0)
	}

	if wasSet(fs, "join-detections") || wasSet(fs, "j") {
		joinDetectionsSet = true
	}
	o.JoinDetections = joinDetections
	o.HasJoinDetections = joinDetectionsSet

	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func wasSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func (o *Options) validate() error {
	if o.HasJoinDetections && o.SaveStream == "" {
		return fmt.Errorf("cliopts: -join-detections requires -save-stream/-O")
	}
	return nil
}
