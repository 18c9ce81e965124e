// Command auditok drives the audio activity detection pipeline described
// in spec.md §6: read audio from a file, stdin or a microphone, tokenize
// it into detected events, and dispatch each event to whichever observers
// the flags requested (save, play, run a command, print).
//
// Grounded on main() in original_source/auditok/cmdline.py, transliterated
// from argparse to the standard flag package per SPEC_FULL.md's ambient
// stack (cmd/main.go in the teacher repo uses flag the same way).
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/amsehili/auditok-go/app"
	"github.com/amsehili/auditok-go/cliopts"
	"github.com/amsehili/auditok-go/encoder"
)

func main() {
	opts, err := cliopts.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(1)
	}
	if opts.ShowVersion {
		fmt.Println(cliopts.Version)
		return
	}

	logger, err := newLogger(opts.Debug, opts.DebugFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	detections, err := app.Run(opts, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		// An encoding warning (spec.md §7) is non-fatal: the fallback
		// encoder chain was exhausted but the scratch WAVE was
		// preserved, so the run otherwise succeeded.
		var warning *encoder.EncodingWarning
		if !errors.As(err, &warning) {
			os.Exit(1)
		}
	}
	if opts.Debug {
		log.Printf("processed %d detections", len(detections))
	}
}

// newLogger mirrors make_logger in original_source/auditok/cmdline_util.py:
// no logger at all unless -debug or -debug-file is set, otherwise a
// *log.Logger writing to stderr and/or the given file.
func newLogger(debug bool, debugFile string) (*log.Logger, error) {
	if !debug && debugFile == "" {
		return nil, nil
	}
	var writers []io.Writer
	if debug {
		writers = append(writers, os.Stderr)
	}
	if debugFile != "" {
		f, err := os.Create(debugFile)
		if err != nil {
			return nil, fmt.Errorf("auditok: opening debug file %q: %w", debugFile, err)
		}
		writers = append(writers, f)
	}
	return log.New(io.MultiWriter(writers...), "", log.LstdFlags), nil
}
