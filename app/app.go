// Package app wires the source, window reader, validator, tokenizer and
// worker graph together into one run, per spec.md §9's driver sketch.
//
// Grounded on initialize_workers plus main's "sleep and watch the thread
// count" loop in original_source/auditok/cmdline_util.py and
// original_source/auditok/cmdline.py: the reader is wrapped by a
// StreamSaver when -save-stream is given, the tokenizer worker drives the
// reader and broadcasts to every requested observer, and the driver waits
// for either the tokenizer to exhaust the stream or an interrupt, then
// shuts the graph down: the tokenizer worker closes its reader when it
// finishes (which flushes and finalizes the StreamSaver, if there is one),
// and only after that are the observers stopped.
package app

import (
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amsehili/auditok-go/cliopts"
	"github.com/amsehili/auditok-go/durfmt"
	"github.com/amsehili/auditok-go/reader"
	"github.com/amsehili/auditok-go/source"
	"github.com/amsehili/auditok-go/tokenize"
	"github.com/amsehili/auditok-go/validate"
	"github.com/amsehili/auditok-go/wav"
	"github.com/amsehili/auditok-go/workers"
)

// Run builds the full pipeline from opts and drives it to completion: it
// blocks until the input is exhausted or the process receives an
// interrupt, then shuts every worker down cleanly and returns the
// detections the run produced.
func Run(opts *cliopts.Options, logger *log.Logger) ([]workers.Detection, error) {
	// -plot/-save-image are accepted for interface compatibility with
	// cmdline.py's plotting group but no plotting backend is wired (no
	// example repo in the pack carries one); warn and keep going rather
	// than fail the whole run over a cosmetic feature.
	if opts.Plot || opts.SaveImage != "" {
		fmt.Fprintln(os.Stderr, "auditok: plotting is not supported in this build; ignoring -plot/-save-image")
	}

	channel, err := parseUseChannel(opts.UseChannel)
	if err != nil {
		return nil, err
	}

	src, err := openSource(opts)
	if err != nil {
		return nil, err
	}

	rcfg := reader.Config{
		BlockDur: opts.AnalysisWindow,
		MaxRead:  opts.MaxRead,
	}
	rd, err := reader.New(src, rcfg)
	if err != nil {
		return nil, err
	}

	// -join-detections (§6) saves only the joined, detected events to
	// -save-stream; it replaces continuous stream-saving of the whole
	// input rather than combining with it (cmdline.py: "[-j] is to be
	// used in combination with the --save-stream / -O option", and the
	// joiner, not the stream saver, is what writes to that path).
	var streamSaver *workers.StreamSaver
	if opts.SaveStream != "" && !opts.HasJoinDetections {
		streamSaver, err = workers.NewStreamSaver(rd, opts.SaveStream, opts.OutputFormat)
		if err != nil {
			return nil, err
		}
		rd = streamSaver
	}

	validator, err := validate.NewEnergyValidator(opts.EnergyThreshold, rd.SampleWidth(), rd.Channels(), channel)
	if err != nil {
		return nil, err
	}

	tcfg, err := tokenizerConfig(opts)
	if err != nil {
		return nil, err
	}

	observers, err := buildObservers(opts, rd.SamplingRate(), rd.SampleWidth(), rd.Channels(), logger)
	if err != nil {
		return nil, err
	}

	tok, err := workers.NewTokenizerWorker(rd, validator, tcfg, opts.AnalysisWindow, observers, logger)
	if err != nil {
		return nil, err
	}

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	runDone := make(chan error, 1)
	go func() { runDone <- tok.Run() }()

	var runErr error
	select {
	case runErr = <-runDone:
	case <-interrupted:
		tok.Stop()
		runErr = <-runDone
	}

	for _, o := range observers {
		o.Stop()
	}
	// streamSaver, if present, is the reader tok just drove: tok.Run
	// already closed it (the reader role's Close is also the worker
	// role's flush-and-finalize step), so there is nothing left to close
	// here. Calling Close again would be a second, redundant flush.

	return tok.Detections(), runErr
}

func parseUseChannel(spec string) (validate.Channel, error) {
	spec = strings.TrimSpace(spec)
	switch strings.ToLower(spec) {
	case "":
		return validate.AnyChannel(), nil
	case "mix", "avg", "average":
		return validate.MixChannel(), nil
	default:
		idx, err := strconv.Atoi(spec)
		if err != nil {
			return validate.Channel{}, fmt.Errorf("app: invalid -use-channel %q: %w", spec, err)
		}
		return validate.SingleChannel(idx), nil
	}
}

// openSource picks the source endpoint for opts.Input, per spec.md §4.B:
// no input means a microphone, "-" means stdin, otherwise a file. For a
// file, -large-file (spec.md §6) decides between reading the whole thing
// into memory up front (a BufferSource, rewindable and seekable) or
// streaming it lazily from disk, grounded on the _load_raw/_load_wave
// split on the large_file flag in original_source/auditok/io.py.
func openSource(opts *cliopts.Options) (source.Source, error) {
	switch {
	case opts.Input == "":
		return source.NewCaptureSource(opts.SamplingRate, opts.SampleWidth, opts.Channels, opts.FramePerBuffer, opts.InputDeviceIndex)
	case opts.Input == "-":
		return source.NewStdinSource(os.Stdin, opts.SamplingRate, opts.SampleWidth, opts.Channels)
	default:
		format := strings.ToLower(opts.InputFormat)
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Input)), ".")
		}
		if opts.LargeFile {
			if format == "raw" {
				return source.NewRawFileSource(opts.Input, opts.SamplingRate, opts.SampleWidth, opts.Channels)
			}
			return source.NewWaveFileSource(opts.Input)
		}
		if format == "raw" {
			return loadRawIntoBuffer(opts.Input, opts.SamplingRate, opts.SampleWidth, opts.Channels)
		}
		return loadWaveIntoBuffer(opts.Input)
	}
}

func loadRawIntoBuffer(path string, samplingRate, sampleWidth, channels int) (source.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: reading %q: %w", path, err)
	}
	return source.NewBufferSource(data, samplingRate, sampleWidth, channels)
}

func loadWaveIntoBuffer(path string) (source.Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: reading %q: %w", path, err)
	}
	data, header, err := wav.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("app: decoding %q: %w", path, err)
	}
	return source.NewBufferSource(data, header.SamplingRate, header.SampleWidth, header.Channels)
}

// tokenizerConfig converts every second-denominated duration flag into
// frames, the unit tokenize.Config is specified in (spec.md §4.E), using
// the analysis window as the frame duration.
func tokenizerConfig(opts *cliopts.Options) (tokenize.Config, error) {
	toFrames := func(seconds float64) int {
		return int(math.Round(seconds / opts.AnalysisWindow))
	}
	cfg := tokenize.Config{
		MinLength:            toFrames(opts.MinDuration),
		MaxLength:            toFrames(opts.MaxDuration),
		MaxContinuousSilence: toFrames(opts.MaxSilence),
		StrictMinLength:      opts.StrictMinDuration,
		DropTrailingSilence:  opts.DropTrailingSilence,
	}
	if err := cfg.Validate(); err != nil {
		return tokenize.Config{}, err
	}
	return cfg, nil
}

// buildObservers assembles the fan-out worker list, mirroring
// initialize_workers' sequence of optional-worker appends in
// original_source/auditok/cmdline_util.py: region saver (or event joiner
// when -join-detections is set), player, command, print.
func buildObservers(opts *cliopts.Options, samplingRate, sampleWidth, channels int, logger *log.Logger) ([]workers.Worker, error) {
	var observers []workers.Worker

	if opts.HasJoinDetections {
		joiner, err := workers.NewJoinerWorker(opts.JoinDetections, opts.SaveStream, opts.OutputFormat, samplingRate, sampleWidth, channels, logger)
		if err != nil {
			return nil, err
		}
		observers = append(observers, joiner)
	} else if opts.SaveDetectionsAs != "" {
		observers = append(observers, workers.NewRegionSaverWorker(opts.SaveDetectionsAs, opts.OutputFormat, logger))
	}

	if opts.Echo {
		observers = append(observers, workers.NewPlayerWorker(logger))
	}

	if opts.Command != "" {
		observers = append(observers, workers.NewCommandWorker(opts.Command, logger))
	}

	if !opts.Quiet {
		durFormatter, err := durfmt.NewDurationFormatter(opts.TimeFormat)
		if err != nil {
			return nil, err
		}
		printFormat := strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r").Replace(opts.Printf)
		observers = append(observers, workers.NewPrintWorker(printFormat, durFormatter, opts.TimestampFmt))
	}

	return observers, nil
}
