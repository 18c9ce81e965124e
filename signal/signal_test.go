package signal

import (
	"encoding/binary"
	"math"
	"testing"
)

func int16Bytes(values ...int16) []byte {
	out := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

func TestCheckAudioData(t *testing.T) {
	if err := CheckAudioData(int16Bytes(1, 2, 3, 4), 2, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckAudioData(make([]byte, 3), 2, 1); err == nil {
		t.Fatal("expected error for non-multiple length")
	}
}

func TestLogEnergySilence(t *testing.T) {
	data := int16Bytes(0, 0, 0, 0)
	e, err := LogEnergy(data, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := 10 * math.Log10(energyFloor)
	if math.Abs(e-want) > 1e-9 {
		t.Fatalf("got %v, want %v", e, want)
	}
}

func TestLogEnergyConstant(t *testing.T) {
	data := int16Bytes(100, 100, 100, 100)
	e, err := LogEnergy(data, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := 10 * math.Log10(100.0*100.0)
	if math.Abs(e-want) > 1e-9 {
		t.Fatalf("got %v, want %v", e, want)
	}
}

func TestExtractChannel(t *testing.T) {
	// stereo: L=10,R=20; L=30,R=40
	data := int16Bytes(10, 20, 30, 40)
	left, err := ExtractChannel(data, 2, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	right, err := ExtractChannel(data, 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	wantLeft := int16Bytes(10, 30)
	wantRight := int16Bytes(20, 40)
	if string(left) != string(wantLeft) {
		t.Fatalf("left: got %v want %v", left, wantLeft)
	}
	if string(right) != string(wantRight) {
		t.Fatalf("right: got %v want %v", right, wantRight)
	}
}

func TestExtractChannelOutOfRange(t *testing.T) {
	data := int16Bytes(10, 20)
	if _, err := ExtractChannel(data, 2, 2, 2); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestMixChannels(t *testing.T) {
	data := int16Bytes(10, 20, 30, 40)
	mixed, err := MixChannels(data, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := int16Bytes(15, 35)
	if string(mixed) != string(want) {
		t.Fatalf("got %v want %v", mixed, want)
	}
}

func TestMixChannelsMono(t *testing.T) {
	data := int16Bytes(1, 2, 3)
	mixed, err := MixChannels(data, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if string(mixed) != string(data) {
		t.Fatalf("mono mix should be identity, got %v want %v", mixed, data)
	}
}
