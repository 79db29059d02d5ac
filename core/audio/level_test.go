package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestLevelOfSilenceIsZero(t *testing.T) {
	if got := Level(make([]byte, 320)); got != 0 {
		t.Fatalf("expected zeroed chunk to have level 0, got %f", got)
	}
}

func TestLevelOfEmptyChunkIsZero(t *testing.T) {
	if got := Level(nil); got != 0 {
		t.Fatalf("expected empty chunk to have level 0, got %f", got)
	}
}

func TestLevelOfConstantAmplitude(t *testing.T) {
	chunk := make([]byte, 200)
	for i := 0; i < len(chunk); i += 2 {
		binary.LittleEndian.PutUint16(chunk[i:], uint16(int16(16384)))
	}

	got := Level(chunk)
	want := float32(16384.0 / 32768.0)
	if math.Abs(float64(got-want)) > 1e-4 {
		t.Fatalf("expected level %f for constant half-scale amplitude, got %f", want, got)
	}
}

func TestLevelIgnoresTrailingOddByte(t *testing.T) {
	chunk := make([]byte, 5)
	if got := Level(chunk); got != 0 {
		t.Fatalf("expected truncated chunk to still compute, got %f", got)
	}
}
