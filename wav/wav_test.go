package wav

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	encoded := Encode(data, 16000, 2, 1)
	payload, h, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if string(payload) != string(data) {
		t.Fatalf("payload mismatch: got %v want %v", payload, data)
	}
	if h.SamplingRate != 16000 || h.SampleWidth != 2 || h.Channels != 1 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestDecodeRejectsNonWave(t *testing.T) {
	if _, _, err := Decode([]byte("not a wave file at all")); err == nil {
		t.Fatal("expected error decoding non-WAVE data")
	}
}

func TestBuildHeaderLength(t *testing.T) {
	h := BuildHeader(100, 44100, 2, 2)
	if len(h) != headerSize {
		t.Fatalf("got header length %d, want %d", len(h), headerSize)
	}
}
