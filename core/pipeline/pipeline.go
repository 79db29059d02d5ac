// Package pipeline defines the inference boundary the voice session hands
// completed utterances to, plus a local speech-to-text → language-model →
// speech-synthesis implementation of it.
package pipeline

import "context"

// TurnResult is the outcome of processing one utterance. It is created once
// per completed turn and consumed immediately by the session.
type TurnResult struct {
	// SpeechDetected is false when transcription produced no usable text.
	// The remaining fields are empty in that case.
	SpeechDetected   bool
	Transcript       string
	Response         string
	SynthesizedAudio []byte
}

// VoicePipeline turns utterance audio into a transcript, a response and
// synthesized speech.
type VoicePipeline interface {
	// Ready reports whether every pipeline component is loaded. A session
	// will not start while Ready returns an error.
	Ready() error

	// ProcessVoice runs one utterance through the pipeline. It is invoked
	// from a background goroutine and must be safe to call there; the
	// session guarantees at most one invocation is in flight at a time.
	ProcessVoice(ctx context.Context, utterance []byte) (TurnResult, error)
}
