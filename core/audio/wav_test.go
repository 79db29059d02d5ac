package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestEncodeWAVProducesCanonicalHeader(t *testing.T) {
	pcm := make([]byte, 320)
	payload := EncodeWAV(pcm, 16000)

	if len(payload) != 44+len(pcm) {
		t.Fatalf("expected 44-byte header plus payload, got %d bytes", len(payload))
	}
	if !HasWAVHeader(payload) {
		t.Fatalf("expected encoded payload to carry a RIFF header")
	}

	sampleRate := binary.LittleEndian.Uint32(payload[24:])
	if sampleRate != 16000 {
		t.Fatalf("expected sample rate 16000 in header, got %d", sampleRate)
	}
	dataSize := binary.LittleEndian.Uint32(payload[40:])
	if int(dataSize) != len(pcm) {
		t.Fatalf("expected data size %d in header, got %d", len(pcm), dataSize)
	}
}

func TestStripWAVHeaderRoundTrips(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	payload := EncodeWAV(pcm, 24000)

	stripped := StripWAVHeader(payload)
	if !bytes.Equal(stripped, pcm) {
		t.Fatalf("expected stripped payload to match original PCM, got %v", stripped)
	}
}

func TestStripWAVHeaderLeavesRawPayloadAlone(t *testing.T) {
	raw := make([]byte, 100)
	raw[0] = 0x7F

	if got := StripWAVHeader(raw); !bytes.Equal(got, raw) {
		t.Fatalf("expected raw payload to pass through unchanged")
	}
}

func TestStripWAVHeaderIgnoresShortRIFFPrefix(t *testing.T) {
	short := []byte("RIFF")

	if got := StripWAVHeader(short); !bytes.Equal(got, short) {
		t.Fatalf("expected payload shorter than a header to pass through unchanged")
	}
}

func TestFloat32ToWAVClampsSamples(t *testing.T) {
	payload := Float32ToWAV([]float32{2.0, -2.0}, 16000)
	pcm := StripWAVHeader(payload)

	high := int16(binary.LittleEndian.Uint16(pcm[0:]))
	low := int16(binary.LittleEndian.Uint16(pcm[2:]))
	if high != 32767 {
		t.Fatalf("expected positive overflow to clamp to 32767, got %d", high)
	}
	if low != -32767 {
		t.Fatalf("expected negative overflow to clamp to -32767, got %d", low)
	}
}

func TestEncodingInfoDuration(t *testing.T) {
	encoding := EncodingInfo{SampleRate: 16000, Format: EncodingLinear16}

	if got := encoding.Duration(32000); got != time.Second {
		t.Fatalf("expected 32000 linear16 bytes at 16kHz to last 1s, got %v", got)
	}
	if got := encoding.Samples(time.Second); got != 32000 {
		t.Fatalf("expected 1s at 16kHz linear16 to cover 32000 bytes, got %d", got)
	}
}
