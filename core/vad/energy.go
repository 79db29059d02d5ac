// Package vad provides energy-based speech activity detection used by the
// session silence and capture loops.
//
// Detection is split in two deliberately: OnLevel only raises the
// speech-active flag and refreshes the last-speech timestamp, while
// SilenceElapsed decides end of turn from elapsed time alone. Brief dips
// below the threshold mid-sentence therefore never end a turn.
package vad

import (
	"sync"
	"time"
)

// levelGain maps typical speech RMS (~0.1-0.3) into a usable [0, 1]
// visualization range. Fixed heuristic, not adaptive.
const levelGain = 3.0

// NormalizeLevel converts a raw RMS value into a [0, 1] display level.
func NormalizeLevel(rms float32) float32 {
	level := rms * levelGain
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// Edge is a speech state transition reported by OnLevel.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeSpeechStarted
)

// Detector tracks speech activity from normalized audio levels.
//
// State is owned by the detector and guarded internally; the capture loop
// feeds OnLevel while the silence loop polls SilenceElapsed.
type Detector struct {
	threshold       float32
	silenceDuration time.Duration

	mu           sync.Mutex
	speechActive bool
	lastSpeechAt time.Time
}

func NewDetector(threshold float32, silenceDuration time.Duration) *Detector {
	return &Detector{
		threshold:       threshold,
		silenceDuration: silenceDuration,
	}
}

// OnLevel processes one normalized level sample. Crossing the threshold
// while inactive raises the speech-active flag and reports the edge; every
// above-threshold sample refreshes the last-speech timestamp. OnLevel never
// clears the flag, that is EndTurn's responsibility.
func (d *Detector) OnLevel(level float32, now time.Time) Edge {
	if level <= d.threshold {
		return EdgeNone
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastSpeechAt = now
	if d.speechActive {
		return EdgeNone
	}

	d.speechActive = true
	return EdgeSpeechStarted
}

// SilenceElapsed reports whether speech was active and more than the
// configured silence duration has passed since the last above-threshold
// sample. It is the sole turn-boundary signal and ignores the current
// instantaneous level.
func (d *Detector) SilenceElapsed(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.speechActive && now.Sub(d.lastSpeechAt) > d.silenceDuration
}

// IsSpeechActive reports whether speech is currently considered active.
func (d *Detector) IsSpeechActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.speechActive
}

// EndTurn clears the speech-active flag after a turn boundary was acted on.
func (d *Detector) EndTurn() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.speechActive = false
}

// Reset clears all detection state for a fresh utterance.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.speechActive = false
	d.lastSpeechAt = time.Time{}
}
