package messages

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	enc := EncodeFrame([]byte("hdr"), []byte("payload"))
	h, p, err := DecodeFrame(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(h, []byte("hdr")) || !bytes.Equal(p, []byte("payload")) {
		t.Fatalf("mismatch: %q %q", h, p)
	}
}

func TestFrameDetectsCorruption(t *testing.T) {
	enc := EncodeFrame([]byte("hdr"), []byte("payload"))
	enc[len(enc)-6] ^= 0xff
	if _, _, err := DecodeFrame(enc); err == nil {
		t.Fatalf("expected checksum failure")
	}
	if _, _, err := DecodeFrame([]byte{0x7f, 1, 2}); err == nil {
		t.Fatalf("expected short frame failure")
	}
}
