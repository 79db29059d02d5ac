package voicesession

import (
	"context"
	"time"

	"github.com/voxloop/voxloop-core/core/audio"
	"github.com/voxloop/voxloop-core/core/events"
	"github.com/voxloop/voxloop-core/core/pipeline"
)

const (
	// DefaultSpeechThreshold is the normalized level above which a chunk
	// counts as speech.
	DefaultSpeechThreshold = 0.1
	// DefaultSilenceDuration is how long after the last speech sample a turn
	// is considered finished.
	DefaultSilenceDuration = 1500 * time.Millisecond
	// DefaultMinTurnBytes is one ~100ms chunk of 16kHz 16-bit mono audio.
	// Shorter utterances are discarded without a pipeline call.
	DefaultMinTurnBytes = 3200
)

// SessionConfig is fixed for the session's lifetime; it is assembled from
// options at construction and never mutated afterwards.
type SessionConfig struct {
	SpeechThreshold  float32
	SilenceDuration  time.Duration
	MinTurnBytes     int
	ContinuousMode   bool
	AutoPlayResponse bool
}

func defaultSessionConfig() SessionConfig {
	return SessionConfig{
		SpeechThreshold:  DefaultSpeechThreshold,
		SilenceDuration:  DefaultSilenceDuration,
		MinTurnBytes:     DefaultMinTurnBytes,
		ContinuousMode:   true,
		AutoPlayResponse: true,
	}
}

type SessionOption func(*Session)

type AudioInput interface {
	audioInputBase
}

// AudioInputFine is implemented by input clients that can start and stop
// capture without tearing the device down.
type AudioInputFine interface {
	StartCapture(ctx context.Context, onChunk func(chunk []byte)) error
	StopCapture() error
}

func WithAudioInput(client AudioInput) SessionOption {
	return func(s *Session) { s.audioInput.Set(client) }
}

type AudioOutput interface {
	audioOutputBase
}

func WithAudioOutput(client AudioOutput) SessionOption {
	return func(s *Session) { s.audioOutput.Set(client) }
}

func WithPipeline(voicePipeline pipeline.VoicePipeline) SessionOption {
	return func(s *Session) { s.pipeline = voicePipeline }
}

// EventSink receives session events in emission order. Delivery is
// fire-and-forget; a slow sink drops events rather than stalling the session.
type EventSink func(event events.Event)

func WithEventSink(sink EventSink) SessionOption {
	return func(s *Session) { s.emitter.setSink(sink) }
}

func WithSpeechThreshold(threshold float32) SessionOption {
	return func(s *Session) {
		if threshold >= 0 && threshold <= 1 {
			s.config.SpeechThreshold = threshold
		}
	}
}

func WithSilenceDuration(duration time.Duration) SessionOption {
	return func(s *Session) {
		if duration > 0 {
			s.config.SilenceDuration = duration
		}
	}
}

func WithMinTurnBytes(minTurnBytes int) SessionOption {
	return func(s *Session) {
		if minTurnBytes >= 0 {
			s.config.MinTurnBytes = minTurnBytes
		}
	}
}

// WithContinuousMode controls whether the session resumes listening after a
// turn's playback. When disabled the session stops itself after one turn.
func WithContinuousMode(continuous bool) SessionOption {
	return func(s *Session) { s.config.ContinuousMode = continuous }
}

// WithAutoPlayResponse controls whether synthesized audio is played back
// automatically. When disabled the audio is still delivered on the
// TurnCompleted event.
func WithAutoPlayResponse(autoPlay bool) SessionOption {
	return func(s *Session) { s.config.AutoPlayResponse = autoPlay }
}

type audioInputBase interface {
	EncodingInfo() audio.EncodingInfo
	Stream(ctx context.Context, onChunk func(chunk []byte)) error
	Close()
}

type audioOutputBase interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(chunk []byte) error
	IsPlaying() bool
	ClearBuffer()
}
