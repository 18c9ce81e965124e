package cliopts

import (
	"bytes"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	var errOut bytes.Buffer
	o, err := Parse(nil, &errOut)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.AnalysisWindow != 0.01 {
		t.Errorf("AnalysisWindow = %v, want 0.01", o.AnalysisWindow)
	}
	if o.MinDuration != 0.2 || o.MaxDuration != 5 || o.MaxSilence != 0.3 {
		t.Errorf("got min/max/silence = %v/%v/%v, want 0.2/5/0.3", o.MinDuration, o.MaxDuration, o.MaxSilence)
	}
	if o.SamplingRate != 16000 || o.Channels != 1 || o.SampleWidth != 2 {
		t.Errorf("got rate/channels/width = %v/%v/%v, want 16000/1/2", o.SamplingRate, o.Channels, o.SampleWidth)
	}
	if o.Printf != "{id} {start} {end}" {
		t.Errorf("Printf = %q", o.Printf)
	}
	if o.Input != "" {
		t.Errorf("Input = %q, want empty (microphone)", o.Input)
	}
}

func TestParsePositionalInput(t *testing.T) {
	var errOut bytes.Buffer
	o, err := Parse([]string{"recording.wav"}, &errOut)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.Input != "recording.wav" {
		t.Errorf("Input = %q, want recording.wav", o.Input)
	}
}

func TestParseShortAliasesMatchLongFlags(t *testing.T) {
	var errOut bytes.Buffer
	o, err := Parse([]string{"-n", "0.5", "-m", "2.5", "-s", "0.1"}, &errOut)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.MinDuration != 0.5 || o.MaxDuration != 2.5 || o.MaxSilence != 0.1 {
		t.Errorf("got %v/%v/%v, want 0.5/2.5/0.1", o.MinDuration, o.MaxDuration, o.MaxSilence)
	}
}

func TestJoinDetectionsRequiresSaveStream(t *testing.T) {
	var errOut bytes.Buffer
	if _, err := Parse([]string{"-j", "0.5"}, &errOut); err == nil {
		t.Fatalf("expected -join-detections without -save-stream to fail")
	}
}

func TestVersionFlagSkipsValidation(t *testing.T) {
	var errOut bytes.Buffer
	// -join-detections alone would normally fail validation (needs
	// -save-stream); -version short-circuits before that check runs.
	o, err := Parse([]string{"-version", "-j", "0.5"}, &errOut)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !o.ShowVersion {
		t.Fatalf("expected ShowVersion to be true")
	}
}

func TestJoinDetectionsWithSaveStreamSucceeds(t *testing.T) {
	var errOut bytes.Buffer
	o, err := Parse([]string{"-j", "0.5", "-O", "out.wav"}, &errOut)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !o.HasJoinDetections || o.JoinDetections != 0.5 {
		t.Errorf("got HasJoinDetections=%v JoinDetections=%v", o.HasJoinDetections, o.JoinDetections)
	}
}
