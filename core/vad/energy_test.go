package vad

import (
	"testing"
	"time"
)

func TestNormalizeLevelClampsToUnitRange(t *testing.T) {
	if got := NormalizeLevel(0.5); got != 1 {
		t.Fatalf("expected levels above 1/3 to clamp to 1, got %f", got)
	}
	if got := NormalizeLevel(-0.1); got != 0 {
		t.Fatalf("expected negative levels to clamp to 0, got %f", got)
	}
	if got := NormalizeLevel(0.1); got != 0.3 && got != 0.30000001 {
		if diff := got - 0.3; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("expected 0.1 RMS to normalize to 0.3, got %f", got)
		}
	}
}

func TestOnLevelReportsSpeechStartedOnce(t *testing.T) {
	d := NewDetector(0.1, 1500*time.Millisecond)
	now := time.Now()

	if edge := d.OnLevel(0.3, now); edge != EdgeSpeechStarted {
		t.Fatalf("expected first above-threshold sample to report speech started, got %v", edge)
	}
	if edge := d.OnLevel(0.3, now.Add(50*time.Millisecond)); edge != EdgeNone {
		t.Fatalf("expected subsequent above-threshold samples to report no edge, got %v", edge)
	}
	if !d.IsSpeechActive() {
		t.Fatalf("expected detector to remain speech-active")
	}
}

func TestOnLevelIgnoresSubThresholdSamples(t *testing.T) {
	d := NewDetector(0.1, 1500*time.Millisecond)
	now := time.Now()

	if edge := d.OnLevel(0.05, now); edge != EdgeNone {
		t.Fatalf("expected sub-threshold sample to report no edge, got %v", edge)
	}
	if d.IsSpeechActive() {
		t.Fatalf("expected detector to stay inactive below threshold")
	}
}

func TestOnLevelTreatsThresholdAsExclusive(t *testing.T) {
	d := NewDetector(0.1, 1500*time.Millisecond)

	if edge := d.OnLevel(0.1, time.Now()); edge != EdgeNone {
		t.Fatalf("expected sample equal to threshold to report no edge, got %v", edge)
	}
}

func TestSilenceElapsedRequiresActiveSpeech(t *testing.T) {
	d := NewDetector(0.1, 1500*time.Millisecond)
	now := time.Now()

	if d.SilenceElapsed(now.Add(10 * time.Second)) {
		t.Fatalf("expected no turn boundary before any speech")
	}
}

func TestSilenceElapsedAfterSilenceDuration(t *testing.T) {
	d := NewDetector(0.1, 1500*time.Millisecond)
	start := time.Now()

	// 20 speech samples at 50ms spacing, then silence.
	now := start
	for range 20 {
		d.OnLevel(0.3, now)
		now = now.Add(50 * time.Millisecond)
	}
	lastSpeech := now.Add(-50 * time.Millisecond)

	if d.SilenceElapsed(lastSpeech.Add(1400 * time.Millisecond)) {
		t.Fatalf("expected no turn boundary before silence duration elapses")
	}
	if d.SilenceElapsed(lastSpeech.Add(1500 * time.Millisecond)) {
		t.Fatalf("expected boundary to require strictly more than the silence duration")
	}
	if !d.SilenceElapsed(lastSpeech.Add(1750 * time.Millisecond)) {
		t.Fatalf("expected turn boundary after silence duration elapsed")
	}
}

func TestSilenceElapsedResetsWithNewSpeech(t *testing.T) {
	d := NewDetector(0.1, 500*time.Millisecond)
	now := time.Now()

	d.OnLevel(0.3, now)
	// A mid-sentence dip followed by more speech refreshes the timestamp.
	d.OnLevel(0.3, now.Add(600*time.Millisecond))

	if d.SilenceElapsed(now.Add(1 * time.Second)) {
		t.Fatalf("expected refreshed speech timestamp to defer the boundary")
	}
	if !d.SilenceElapsed(now.Add(1200 * time.Millisecond)) {
		t.Fatalf("expected boundary relative to the refreshed timestamp")
	}
}

func TestEndTurnClearsActiveWithoutBoundary(t *testing.T) {
	d := NewDetector(0.1, 100*time.Millisecond)
	now := time.Now()

	d.OnLevel(0.3, now)
	d.EndTurn()

	if d.IsSpeechActive() {
		t.Fatalf("expected EndTurn to clear the speech-active flag")
	}
	if d.SilenceElapsed(now.Add(time.Second)) {
		t.Fatalf("expected no boundary after the turn was ended")
	}

	if edge := d.OnLevel(0.3, now.Add(2 * time.Second)); edge != EdgeSpeechStarted {
		t.Fatalf("expected a fresh speech edge after the previous turn ended, got %v", edge)
	}
}
