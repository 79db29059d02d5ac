package audio

import (
	"encoding/binary"
	"math"
)

// Level computes the RMS energy of a 16-bit little-endian PCM chunk,
// normalized to [0, 1]. A trailing odd byte is ignored.
func Level(chunk []byte) float32 {
	sampleCount := len(chunk) / 2
	if sampleCount == 0 {
		return 0
	}

	var sum float64
	for i := range sampleCount {
		sample := int16(binary.LittleEndian.Uint16(chunk[i*2:]))
		v := float64(sample) / 32768.0
		sum += v * v
	}

	return float32(math.Sqrt(sum / float64(sampleCount)))
}
