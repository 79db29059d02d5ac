// Package voicesession drives a continuous spoken conversation: it captures
// microphone audio, detects when the user starts and stops speaking, hands
// each finished utterance to a voice pipeline, plays the synthesized response
// back, and resumes listening until the caller ends the session.
package voicesession

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/voxloop/voxloop-core/core/audio"
	"github.com/voxloop/voxloop-core/core/events"
	"github.com/voxloop/voxloop-core/core/pipeline"
	"github.com/voxloop/voxloop-core/core/vad"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const silencePollInterval = 50 * time.Millisecond

type Session struct {
	id     string
	config SessionConfig

	state sessionState

	// audioInput is the input facade used to normalize capture behavior.
	audioInput audioInput
	// audioOutput is the output facade playback snapshots are taken from.
	audioOutput audioOutput
	pipeline    pipeline.VoicePipeline

	detector   *vad.Detector
	turnBuffer *turnBuffer
	emitter    *eventEmitter

	// turnInFlight guards against overlapping pipeline invocations.
	turnInFlight atomic.Bool

	mu             sync.Mutex
	listenCancel   context.CancelFunc
	playbackCancel context.CancelFunc
	turnCancel     context.CancelFunc

	baseContext context.Context

	started  atomic.Bool
	closeCh  chan struct{}
	stopOnce sync.Once
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:          uuid.NewString(),
		config:      defaultSessionConfig(),
		turnBuffer:  newTurnBuffer(),
		emitter:     newEventEmitter(),
		baseContext: context.Background(),
		closeCh:     make(chan struct{}),
	}
	s.audioInput = *newAudioInput(nil, s.handleChunk)

	for _, opt := range opts {
		opt(s)
	}

	s.detector = vad.NewDetector(s.config.SpeechThreshold, s.config.SilenceDuration)

	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() SessionState { return s.state.load() }

func (s *Session) Config() SessionConfig { return s.config }

// Start brings the session up: it validates the capture device and the
// pipeline components, then begins listening. A guard failure leaves the
// session stopped and startable again; ctx cancellation stops the session.
func (s *Session) Start(ctx context.Context) error {
	if s.isClosed() {
		return fmt.Errorf("session already stopped")
	}
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("session already started")
	}

	s.baseContext = ctx
	s.emitter.start()
	s.state.store(StateConnecting)

	if err := s.checkStartGuards(); err != nil {
		s.state.store(StateError)
		s.emitter.emit(events.NewSessionError(err.Error()))
		s.started.Store(false)
		return err
	}

	s.emitter.emit(events.NewSessionStarted())

	if err := s.startListening(); err != nil {
		s.state.store(StateError)
		s.emitter.emit(events.NewSessionError(err.Error()))
		s.started.Store(false)
		return err
	}

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.closeCh:
		}
	}()

	return nil
}

func (s *Session) checkStartGuards() error {
	if !s.audioInput.IsConfigured() {
		return fmt.Errorf("no audio input configured")
	}
	if s.pipeline == nil {
		return fmt.Errorf("no voice pipeline configured")
	}
	if err := s.pipeline.Ready(); err != nil {
		return fmt.Errorf("voice pipeline not ready: %w", err)
	}
	return nil
}

// Stop tears the session down: silence monitoring first, then capture, then
// playback, then any in-flight turn. If a full utterance is still buffered it
// is processed synchronously before the session goes down. Safe to call more
// than once; later calls are no-ops.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.closeCh)

		s.stopListening()

		s.mu.Lock()
		playbackCancel := s.playbackCancel
		turnCancel := s.turnCancel
		s.mu.Unlock()
		if playbackCancel != nil {
			playbackCancel()
		}
		s.audioOutput.Clear()
		if turnCancel != nil {
			turnCancel()
		}

		s.flushFinalTurn()

		if err := s.audioInput.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close audio input: %w", err)
			span := trace.SpanFromContext(s.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		s.state.store(StateDisconnected)
		s.emitter.emit(events.NewSessionStopped())
		s.emitter.end()
	})
}

func (s *Session) isClosed() bool {
	select {
	case <-s.closeCh:
		return true
	default:
		return false
	}
}

// startListening resets speech activity, starts capture and spawns the
// silence monitor. The listen context covers both loops so one cancel stops
// them together.
//
// The whole transition runs under s.mu and re-checks closeCh there, so it
// serializes against stopListening: a resume that loses the race with Stop
// becomes a no-op instead of restarting capture on a torn-down session.
func (s *Session) startListening() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return nil
	}

	listenCtx, cancel := context.WithCancel(s.baseContext)
	s.listenCancel = cancel

	// Drop any straggler chunk that raced the previous turn's buffer handoff.
	s.turnBuffer.TakeAndReset()
	s.detector.Reset()
	s.state.store(StateListening)

	if err := s.audioInput.Capture(listenCtx); err != nil {
		cancel()
		s.listenCancel = nil
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	go s.monitorSilence(listenCtx)
	return nil
}

// stopListening cancels the silence monitor before stopping the capture
// device so no turn can trigger while the device winds down. It holds the
// same mutex as startListening so the two transitions never interleave.
func (s *Session) stopListening() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listenCancel != nil {
		s.listenCancel()
		s.listenCancel = nil
	}

	if err := s.audioInput.StopCapture(); err != nil {
		logger.Warn("failed to stop audio capture", "error", err)
	}
}

// handleChunk runs inline on the capture path. Chunks arriving outside
// Listening are dropped; a turn in progress must not pick up new audio.
func (s *Session) handleChunk(chunk []byte) {
	if s.state.load() != StateListening {
		return
	}

	s.turnBuffer.Append(chunk)

	level := vad.NormalizeLevel(audio.Level(chunk))
	edge := s.detector.OnLevel(level, time.Now())

	s.emitter.emit(events.NewSessionListening(level))
	if edge == vad.EdgeSpeechStarted {
		s.emitter.emit(events.NewUserSpeechStarted())
	}
}

func (s *Session) monitorSilence(ctx context.Context) {
	ticker := time.NewTicker(silencePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.state.load() != StateListening {
				continue
			}
			if !s.detector.SilenceElapsed(time.Now()) {
				continue
			}

			s.detector.EndTurn()

			if s.turnBuffer.Len() < s.config.MinTurnBytes {
				// Too short to be a meaningful utterance.
				s.turnBuffer.TakeAndReset()
				continue
			}

			if !s.turnInFlight.CompareAndSwap(false, true) {
				continue
			}

			s.beginTurn()
			return
		}
	}
}

// beginTurn transitions into Processing. Capture is fully stopped before the
// buffer handoff so no writer is active when the utterance is taken.
func (s *Session) beginTurn() {
	s.state.store(StateProcessing)
	s.emitter.emit(events.NewTurnProcessing())

	s.stopListening()
	utterance := s.turnBuffer.TakeAndReset()

	go s.processTurn(utterance)
}

func (s *Session) processTurn(utterance []byte) {
	defer s.turnInFlight.Store(false)

	turnCtx, cancel := context.WithCancel(s.baseContext)
	s.mu.Lock()
	s.turnCancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.turnCancel = nil
		s.mu.Unlock()
		cancel()
	}()

	ctx, span := tracer.Start(turnCtx, "process turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", s.id),
		attribute.String("turn.id", uuid.NewString()),
		attribute.Int("turn.utterance_bytes", len(utterance)),
	)

	result, err := s.pipeline.ProcessVoice(ctx, utterance)
	if err != nil {
		recordedErr := fmt.Errorf("failed to process turn: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		s.emitter.emit(events.NewSessionError(recordedErr.Error()))
		s.resumeListening()
		return
	}

	if !result.SpeechDetected {
		s.emitter.emit(events.NewSessionError("No speech detected"))
		s.resumeListening()
		return
	}

	s.emitter.emit(events.NewTurnTranscribed(result.Transcript))
	s.emitter.emit(events.NewTurnResponded(result.Response))

	if len(result.SynthesizedAudio) > 0 && s.config.AutoPlayResponse {
		s.speak(ctx, result.SynthesizedAudio)
	}

	s.emitter.emit(events.NewTurnCompleted(result.Transcript, result.Response, result.SynthesizedAudio))

	if !s.config.ContinuousMode {
		s.Stop()
		return
	}

	s.resumeListening()
}

// speak plays the synthesized response and waits for it to finish. Whatever
// the outcome, the caller resumes listening afterwards; a playback failure
// never strands the session.
func (s *Session) speak(ctx context.Context, synthesized []byte) {
	s.state.store(StateSpeaking)
	s.emitter.emit(events.NewSessionSpeaking())

	playbackCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.playbackCancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.playbackCancel = nil
		s.mu.Unlock()
		cancel()
	}()

	coordinator := newPlaybackCoordinator(s.audioOutput.Snapshot())
	if err := coordinator.Play(playbackCtx, synthesized); err != nil {
		logger.WarnContext(playbackCtx, "playback did not complete", "error", err)
	}
}

func (s *Session) resumeListening() {
	if s.isClosed() {
		return
	}

	if err := s.startListening(); err != nil {
		s.state.store(StateError)
		s.emitter.emit(events.NewSessionError(fmt.Sprintf("failed to resume listening: %v", err)))
	}
}

// flushFinalTurn runs one last pipeline invocation for a buffered utterance
// during Stop. There is no playback and no resume; the result is only
// reported through events.
func (s *Session) flushFinalTurn() {
	if s.pipeline == nil || s.turnBuffer.Len() < s.config.MinTurnBytes {
		s.turnBuffer.TakeAndReset()
		return
	}

	if !s.turnInFlight.CompareAndSwap(false, true) {
		// An in-flight turn already owns the pipeline; its result stands.
		return
	}
	defer s.turnInFlight.Store(false)

	utterance := s.turnBuffer.TakeAndReset()

	// The flush must survive the cancellation that triggered the stop.
	ctx, span := tracer.Start(context.WithoutCancel(s.baseContext), "flush final turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", s.id),
		attribute.String("turn.id", uuid.NewString()),
		attribute.Int("turn.utterance_bytes", len(utterance)),
	)

	result, err := s.pipeline.ProcessVoice(ctx, utterance)
	if err != nil {
		recordedErr := fmt.Errorf("failed to process final turn: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		s.emitter.emit(events.NewSessionError(recordedErr.Error()))
		return
	}

	if !result.SpeechDetected {
		s.emitter.emit(events.NewSessionError("No speech detected"))
		return
	}

	s.emitter.emit(events.NewTurnTranscribed(result.Transcript))
	s.emitter.emit(events.NewTurnResponded(result.Response))
	s.emitter.emit(events.NewTurnCompleted(result.Transcript, result.Response, result.SynthesizedAudio))
}
