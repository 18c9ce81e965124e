// Package validate implements the energy-based window validator described
// in spec.md §4.D: given one analysis window, decide valid vs silent by
// comparing its log-energy to a threshold.
//
// Grounded on AudioEnergyValidator in original_source/auditok/util.py,
// generalized from a single-channel-only numpy implementation to the
// channel-selection rules of spec.md §3 (None/any, single index, mix/avg).
package validate

import (
	"fmt"

	sig "github.com/amsehili/auditok-go/signal"
)

// Channel selects which channel(s) of a multi-channel window the validator
// inspects, per spec.md §3.
type Channel struct {
	// Any reports that every channel must be checked independently and the
	// window is valid if any one of them meets the threshold (spec.md §3
	// "None" / "any").
	Any bool
	// Mix reports that channels should be averaged before computing energy
	// (spec.md §3 "mix"/"avg"/"average").
	Mix bool
	// Index is the single channel index to inspect when Any and Mix are
	// both false. A negative index is interpreted as channels+Index by
	// ResolveChannel (so -1 is the last channel).
	Index int
}

// AnyChannel is the "None"/"any" channel-selection rule.
func AnyChannel() Channel { return Channel{Any: true} }

// MixChannel is the "mix"/"avg"/"average" channel-selection rule.
func MixChannel() Channel { return Channel{Mix: true} }

// SingleChannel selects one channel by index.
func SingleChannel(index int) Channel { return Channel{Index: index} }

// ResolveChannel normalizes a negative index (spec.md §3: "-k is
// interpreted as channels - k") and range-checks it.
func ResolveChannel(c Channel, channels int) (Channel, error) {
	if c.Any || c.Mix {
		return c, nil
	}
	idx := c.Index
	if idx < 0 {
		idx = channels + idx
	}
	if idx < 0 || idx >= channels {
		return c, fmt.Errorf("validate: channel selection %d out of range [0, %d)", c.Index, channels)
	}
	return Channel{Index: idx}, nil
}

// Validator is the capability StreamTokenizer needs: decide whether a
// window of raw PCM bytes is acoustically active.
type Validator interface {
	IsValid(window []byte) (bool, error)
}

// EnergyValidator is the only Validator this module ships, matching
// spec.md §4.D's single algorithm.
type EnergyValidator struct {
	Threshold   float64
	SampleWidth int
	Channels    int
	Use         Channel
}

// NewEnergyValidator validates and normalizes its channel-selection
// parameter before returning, so later calls to IsValid never fail on a bad
// channel index.
func NewEnergyValidator(threshold float64, sampleWidth, channels int, use Channel) (*EnergyValidator, error) {
	resolved, err := ResolveChannel(use, channels)
	if err != nil {
		return nil, err
	}
	return &EnergyValidator{
		Threshold:   threshold,
		SampleWidth: sampleWidth,
		Channels:    channels,
		Use:         resolved,
	}, nil
}

// IsValid implements spec.md §4.D's three-branch algorithm.
func (v *EnergyValidator) IsValid(window []byte) (bool, error) {
	if v.Use.Any {
		return v.anyChannelValid(window)
	}
	mono, err := v.deriveMonoChannel(window)
	if err != nil {
		return false, err
	}
	energy, err := sig.LogEnergy(mono, v.SampleWidth)
	if err != nil {
		return false, err
	}
	return energy >= v.Threshold, nil
}

func (v *EnergyValidator) deriveMonoChannel(window []byte) ([]byte, error) {
	if v.Channels == 1 {
		return window, nil
	}
	if v.Use.Mix {
		return sig.MixChannels(window, v.SampleWidth, v.Channels)
	}
	return sig.ExtractChannel(window, v.SampleWidth, v.Channels, v.Use.Index)
}

// anyChannelValid implements the "None"/"any" rule: per-channel log-energy,
// valid iff any channel meets threshold (aggregation = max).
func (v *EnergyValidator) anyChannelValid(window []byte) (bool, error) {
	if v.Channels == 1 {
		energy, err := sig.LogEnergy(window, v.SampleWidth)
		if err != nil {
			return false, err
		}
		return energy >= v.Threshold, nil
	}
	for c := 0; c < v.Channels; c++ {
		mono, err := sig.ExtractChannel(window, v.SampleWidth, v.Channels, c)
		if err != nil {
			return false, err
		}
		energy, err := sig.LogEnergy(mono, v.SampleWidth)
		if err != nil {
			return false, err
		}
		if energy >= v.Threshold {
			return true, nil
		}
	}
	return false, nil
}
