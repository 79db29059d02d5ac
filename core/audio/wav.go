package audio

import (
	"bytes"
	"encoding/binary"
)

// wavHeaderSize is the size of the canonical PCM WAV header: RIFF chunk
// descriptor, fmt sub-chunk and data sub-chunk header.
const wavHeaderSize = 44

var riffMagic = []byte("RIFF")

// HasWAVHeader reports whether the payload starts with a RIFF container
// marker. This is a magic-byte check, not a container parser; payloads with
// extra sub-chunks before data are still treated as canonical headers.
func HasWAVHeader(payload []byte) bool {
	return len(payload) >= wavHeaderSize && bytes.Equal(payload[:4], riffMagic)
}

// StripWAVHeader removes the fixed 44-byte WAV header if the payload carries
// one, returning the raw PCM payload. Payloads without the RIFF marker are
// returned unchanged.
func StripWAVHeader(payload []byte) []byte {
	if !HasWAVHeader(payload) {
		return payload
	}

	return payload[wavHeaderSize:]
}

// EncodeWAV wraps raw 16-bit mono PCM in a canonical 44-byte WAV header.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	dataSize := uint32(len(pcm))
	byteRate := uint32(sampleRate) * 2

	buf := bytes.Buffer{}
	buf.Grow(wavHeaderSize + len(pcm))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36)+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16)) // fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, uint16(2))  // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	buf.Write(pcm)

	return buf.Bytes()
}

// Float32ToWAV converts raw float32 samples to a 16-bit mono WAV payload.
// Samples outside [-1, 1] are clamped.
func Float32ToWAV(samples []float32, sampleRate int) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(s*32767)))
	}
	return EncodeWAV(pcm, sampleRate)
}
