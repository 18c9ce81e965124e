package validate

import "testing"

func constantWindow(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

func TestEnergyValidatorSingleChannel(t *testing.T) {
	v, err := NewEnergyValidator(0, 2, 1, AnyChannel())
	if err != nil {
		t.Fatalf("NewEnergyValidator: %v", err)
	}
	loud := constantWindow([]int16{10000, -10000, 10000, -10000})
	valid, err := v.IsValid(loud)
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if !valid {
		t.Fatalf("expected loud window to be valid")
	}

	silent := constantWindow([]int16{0, 0, 0, 0})
	v2, err := NewEnergyValidator(0, 2, 1, AnyChannel())
	if err != nil {
		t.Fatalf("NewEnergyValidator: %v", err)
	}
	valid, err = v2.IsValid(silent)
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if valid {
		t.Fatalf("expected zero-energy window to be invalid against a 0 dB threshold floor")
	}
}

func TestEnergyValidatorAnyChannelAcceptsIfOneChannelIsLoud(t *testing.T) {
	v, err := NewEnergyValidator(40, 2, 2, AnyChannel())
	if err != nil {
		t.Fatalf("NewEnergyValidator: %v", err)
	}
	// interleaved: channel 0 silent, channel 1 loud.
	window := make([]byte, 0, 16)
	for i := 0; i < 4; i++ {
		window = append(window, constantWindow([]int16{0})...)
		window = append(window, constantWindow([]int16{20000})...)
	}
	valid, err := v.IsValid(window)
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if !valid {
		t.Fatalf("expected any-channel validator to accept a window with one loud channel")
	}
}

func TestEnergyValidatorMixChannelAverages(t *testing.T) {
	v, err := NewEnergyValidator(40, 2, 2, MixChannel())
	if err != nil {
		t.Fatalf("NewEnergyValidator: %v", err)
	}
	window := make([]byte, 0, 16)
	for i := 0; i < 4; i++ {
		window = append(window, constantWindow([]int16{0})...)
		window = append(window, constantWindow([]int16{20000})...)
	}
	valid, err := v.IsValid(window)
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if !valid {
		t.Fatalf("expected the averaged channel to still clear the threshold")
	}
}

func TestResolveChannelNegativeIndex(t *testing.T) {
	c, err := ResolveChannel(SingleChannel(-1), 4)
	if err != nil {
		t.Fatalf("ResolveChannel: %v", err)
	}
	if c.Index != 3 {
		t.Fatalf("got index %d, want 3 (channels - 1)", c.Index)
	}
}

func TestResolveChannelOutOfRange(t *testing.T) {
	if _, err := ResolveChannel(SingleChannel(5), 2); err == nil {
		t.Fatalf("expected an out-of-range channel selection to fail")
	}
}
