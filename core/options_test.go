package voicesession

import (
	"testing"
	"time"
)

func TestSessionDefaults(t *testing.T) {
	session := NewSession()

	config := session.Config()
	if config.SpeechThreshold != DefaultSpeechThreshold {
		t.Errorf("unexpected default threshold: %f", config.SpeechThreshold)
	}
	if config.SilenceDuration != DefaultSilenceDuration {
		t.Errorf("unexpected default silence duration: %v", config.SilenceDuration)
	}
	if config.MinTurnBytes != DefaultMinTurnBytes {
		t.Errorf("unexpected default minimum turn bytes: %d", config.MinTurnBytes)
	}
	if !config.ContinuousMode {
		t.Errorf("expected continuous mode by default")
	}
	if !config.AutoPlayResponse {
		t.Errorf("expected auto-play by default")
	}
	if session.State() != StateDisconnected {
		t.Errorf("expected a new session to be disconnected, got %v", session.State())
	}
	if session.ID() == "" {
		t.Errorf("expected the session to carry an ID")
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	session := NewSession(
		WithSpeechThreshold(0.25),
		WithSilenceDuration(2*time.Second),
		WithMinTurnBytes(6400),
		WithContinuousMode(false),
		WithAutoPlayResponse(false),
	)

	config := session.Config()
	if config.SpeechThreshold != 0.25 {
		t.Errorf("unexpected threshold: %f", config.SpeechThreshold)
	}
	if config.SilenceDuration != 2*time.Second {
		t.Errorf("unexpected silence duration: %v", config.SilenceDuration)
	}
	if config.MinTurnBytes != 6400 {
		t.Errorf("unexpected minimum turn bytes: %d", config.MinTurnBytes)
	}
	if config.ContinuousMode {
		t.Errorf("expected continuous mode to be disabled")
	}
	if config.AutoPlayResponse {
		t.Errorf("expected auto-play to be disabled")
	}
}

func TestInvalidOptionValuesAreIgnored(t *testing.T) {
	session := NewSession(
		WithSpeechThreshold(1.5),
		WithSilenceDuration(-time.Second),
		WithMinTurnBytes(-1),
	)

	config := session.Config()
	if config.SpeechThreshold != DefaultSpeechThreshold {
		t.Errorf("expected out-of-range threshold to be ignored, got %f", config.SpeechThreshold)
	}
	if config.SilenceDuration != DefaultSilenceDuration {
		t.Errorf("expected negative silence duration to be ignored, got %v", config.SilenceDuration)
	}
	if config.MinTurnBytes != DefaultMinTurnBytes {
		t.Errorf("expected negative minimum turn bytes to be ignored, got %d", config.MinTurnBytes)
	}
}

func TestWithAudioOutputIgnoresTypedNil(t *testing.T) {
	var client *fakePlaybackDevice
	session := NewSession(WithAudioOutput(client))

	if session.audioOutput.isConfigured() {
		t.Errorf("expected typed-nil output client to be treated as unconfigured")
	}
}
