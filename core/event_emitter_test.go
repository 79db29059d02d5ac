package voicesession

import (
	"sync"
	"testing"
	"time"

	"github.com/voxloop/voxloop-core/core/events"
)

func TestEventEmitterDeliversInOrder(t *testing.T) {
	recorder := &eventRecorder{}
	emitter := newEventEmitter()
	emitter.setSink(recorder.sink)
	emitter.start()

	emitter.emit(events.NewSessionStarted())
	emitter.emit(events.NewUserSpeechStarted())
	emitter.emit(events.NewSessionStopped())
	emitter.end()

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	expected := []events.Kind{
		events.KindSessionStarted,
		events.KindUserSpeechStarted,
		events.KindSessionStopped,
	}
	if len(recorder.events) != len(expected) {
		t.Fatalf("expected %d events, got %d", len(expected), len(recorder.events))
	}
	for i, kind := range expected {
		if recorder.events[i].Kind() != kind {
			t.Errorf("event %d: expected %s, got %s", i, kind, recorder.events[i].Kind())
		}
	}
}

func TestEventEmitterNeverBlocksCaller(t *testing.T) {
	blocked := make(chan struct{})
	released := sync.Once{}
	emitter := newEventEmitter()
	emitter.setSink(func(events.Event) {
		released.Do(func() { <-blocked })
	})
	emitter.start()
	defer func() {
		close(blocked)
		emitter.end()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Well past queue capacity while the sink is stuck.
		for range sessionEventQueueCapacity * 3 {
			emitter.emit(events.NewSessionListening(0.5))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a stuck sink")
	}
}

func TestEventEmitterFlushesQueueOnEnd(t *testing.T) {
	recorder := &eventRecorder{}
	emitter := newEventEmitter()
	emitter.setSink(recorder.sink)
	emitter.start()

	for range 10 {
		emitter.emit(events.NewSessionListening(0.1))
	}
	emitter.end()

	recorder.mu.Lock()
	count := len(recorder.events)
	recorder.mu.Unlock()
	if count != 10 {
		t.Errorf("expected all queued events to be flushed, got %d of 10", count)
	}
}

func TestEventEmitterDropsAfterEnd(t *testing.T) {
	recorder := &eventRecorder{}
	emitter := newEventEmitter()
	emitter.setSink(recorder.sink)
	emitter.start()
	emitter.end()

	emitter.emit(events.NewSessionStarted())

	recorder.mu.Lock()
	count := len(recorder.events)
	recorder.mu.Unlock()
	if count != 0 {
		t.Errorf("expected no events after end, got %d", count)
	}
}

func TestEventEmitterWithoutSink(t *testing.T) {
	emitter := newEventEmitter()
	emitter.start()

	emitter.emit(events.NewSessionStarted())
	emitter.end()
}
