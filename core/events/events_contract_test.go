package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "session started", event: NewSessionStarted(), expected: KindSessionStarted},
		{name: "session listening", event: NewSessionListening(0.5), expected: KindSessionListening},
		{name: "session speaking", event: NewSessionSpeaking(), expected: KindSessionSpeaking},
		{name: "session stopped", event: NewSessionStopped(), expected: KindSessionStopped},
		{name: "session error", event: NewSessionError("boom"), expected: KindSessionError},
		{name: "user speech started", event: NewUserSpeechStarted(), expected: KindUserSpeechStarted},
		{name: "turn processing", event: NewTurnProcessing(), expected: KindTurnProcessing},
		{name: "turn transcribed", event: NewTurnTranscribed("text"), expected: KindTurnTranscribed},
		{name: "turn responded", event: NewTurnResponded("text"), expected: KindTurnResponded},
		{name: "turn completed", event: NewTurnCompleted("text", "reply", []byte{1}), expected: KindTurnCompleted},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestSessionErrorCarriesMessageNotError(t *testing.T) {
	event := NewSessionError("no speech detected")

	if event.Message != "no speech detected" {
		t.Fatalf("expected message to pass through, got %q", event.Message)
	}
}

func TestTimestampsAreSet(t *testing.T) {
	if NewSessionStarted().Timestamp().IsZero() {
		t.Fatalf("expected constructor to stamp the event")
	}
}
