package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/voxloop/voxloop-core/core/audio"
	"github.com/voxloop/voxloop-core/core/llms"
	"github.com/voxloop/voxloop-core/core/speechtotext"
	"github.com/voxloop/voxloop-core/core/texttospeech"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Transcriber converts utterance audio into text. An empty transcript with a
// nil error means no recognizable speech.
type Transcriber interface {
	IsLoaded() bool
	Transcribe(ctx context.Context, utterance []byte, opts ...speechtotext.TranscriptionOption) (string, error)
}

// Responder generates a response for a transcript.
type Responder interface {
	IsLoaded() bool
	Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (string, error)
}

// Synthesizer converts response text into playable audio.
type Synthesizer interface {
	IsLoaded() bool
	Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) ([]byte, error)
}

// LocalPipeline chains a transcriber, a responder and a synthesizer into one
// utterance-to-speech pass. It keeps conversation history across turns and
// feeds it back to the responder.
type LocalPipeline struct {
	transcriber Transcriber
	responder   Responder
	synthesizer Synthesizer

	instructions string
	encoding     audio.EncodingInfo

	mu    sync.Mutex
	turns []llms.Turn
}

func NewLocalPipeline(transcriber Transcriber, responder Responder, synthesizer Synthesizer, opts ...LocalPipelineOption) *LocalPipeline {
	pipeline := &LocalPipeline{
		transcriber: transcriber,
		responder:   responder,
		synthesizer: synthesizer,
		encoding:    audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(pipeline)
	}
	return pipeline
}

type LocalPipelineOption func(*LocalPipeline)

// WithInstructions sets the system prompt passed to the responder on every
// turn.
func WithInstructions(instructions string) LocalPipelineOption {
	return func(p *LocalPipeline) { p.instructions = instructions }
}

// WithEncodingInfo sets the audio encoding used for transcription input and
// synthesis output.
func WithEncodingInfo(encoding audio.EncodingInfo) LocalPipelineOption {
	return func(p *LocalPipeline) {
		if !encoding.IsZero() {
			p.encoding = encoding
		}
	}
}

// Ready verifies each component is configured and loaded. Failures name the
// component so start-up guard errors stay actionable.
func (p *LocalPipeline) Ready() error {
	if err := componentReady("speech-to-text", p.transcriber); err != nil {
		return err
	}
	if err := componentReady("language model", p.responder); err != nil {
		return err
	}
	if err := componentReady("speech synthesis", p.synthesizer); err != nil {
		return err
	}
	return nil
}

func componentReady(name string, component interface{ IsLoaded() bool }) error {
	if component == nil {
		return fmt.Errorf("%s component is not configured", name)
	}
	if !component.IsLoaded() {
		return fmt.Errorf("%s component is not loaded", name)
	}
	return nil
}

// ProcessVoice runs transcription, response generation and synthesis for one
// utterance. An utterance that transcribes to nothing short-circuits with
// SpeechDetected false and no error.
func (p *LocalPipeline) ProcessVoice(ctx context.Context, utterance []byte) (TurnResult, error) {
	ctx, span := tracer.Start(ctx, "process voice turn")
	defer span.End()
	span.SetAttributes(attribute.Int("turn.utterance_bytes", len(utterance)))

	if err := p.Ready(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TurnResult{}, err
	}

	transcript, err := p.transcribe(ctx, utterance)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TurnResult{}, err
	}
	if transcript == "" {
		logger.InfoContext(ctx, "empty transcription, skipping turn")
		return TurnResult{SpeechDetected: false}, nil
	}

	response, err := p.respond(ctx, transcript)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TurnResult{}, err
	}

	synthesized, err := p.synthesize(ctx, response)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TurnResult{}, err
	}

	p.mu.Lock()
	p.turns = append(p.turns, llms.Turn{Prompt: transcript, Response: response})
	p.mu.Unlock()

	return TurnResult{
		SpeechDetected:   true,
		Transcript:       transcript,
		Response:         response,
		SynthesizedAudio: synthesized,
	}, nil
}

// History returns a copy of the conversation turns processed so far.
func (p *LocalPipeline) History() []llms.Turn {
	p.mu.Lock()
	defer p.mu.Unlock()

	history := make([]llms.Turn, len(p.turns))
	copy(history, p.turns)
	return history
}

// ResetHistory clears the conversation context between sessions.
func (p *LocalPipeline) ResetHistory() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.turns = nil
}

func (p *LocalPipeline) transcribe(ctx context.Context, utterance []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "transcribe utterance")
	defer span.End()

	transcript, err := p.transcriber.Transcribe(ctx, utterance, speechtotext.WithEncodingInfo(p.encoding))
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return transcript, nil
}

func (p *LocalPipeline) respond(ctx context.Context, transcript string) (string, error) {
	ctx, span := tracer.Start(ctx, "generate response")
	defer span.End()

	promptOpts := []llms.PromptOption{llms.WithHistory(p.History())}
	if p.instructions != "" {
		promptOpts = append(promptOpts, llms.WithSystemPrompt(p.instructions))
	}

	response, err := p.responder.Prompt(ctx, transcript, promptOpts...)
	if err != nil {
		return "", fmt.Errorf("response generation failed: %w", err)
	}
	return response, nil
}

func (p *LocalPipeline) synthesize(ctx context.Context, response string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	synthesized, err := p.synthesizer.Synthesize(ctx, response, texttospeech.WithEncodingInfo(p.encoding))
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	return synthesized, nil
}
