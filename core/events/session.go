package events

const (
	// KindSessionStarted identifies the session entering listening.
	KindSessionStarted Kind = "session.started"
	// KindSessionListening identifies per-chunk level updates while listening.
	KindSessionListening Kind = "session.listening"
	// KindSessionSpeaking identifies the start of response playback.
	KindSessionSpeaking Kind = "session.speaking"
	// KindSessionStopped identifies session teardown.
	KindSessionStopped Kind = "session.stopped"
	// KindSessionError identifies recoverable failures and informational conditions.
	KindSessionError Kind = "session.error"
)

// SessionStarted marks the session entering the listening state.
type SessionStarted struct{ Base }

// NewSessionStarted creates a session started event.
func NewSessionStarted() SessionStarted {
	return SessionStarted{Base: NewBase(KindSessionStarted)}
}

// SessionListening carries the normalized audio level of a capture chunk.
type SessionListening struct {
	Base
	Level float32
}

// NewSessionListening creates a listening level event.
func NewSessionListening(level float32) SessionListening {
	return SessionListening{Base: NewBase(KindSessionListening), Level: level}
}

// SessionSpeaking marks the start of synthesized response playback.
type SessionSpeaking struct{ Base }

// NewSessionSpeaking creates a speaking event.
func NewSessionSpeaking() SessionSpeaking {
	return SessionSpeaking{Base: NewBase(KindSessionSpeaking)}
}

// SessionStopped marks session teardown.
type SessionStopped struct{ Base }

// NewSessionStopped creates a session stopped event.
func NewSessionStopped() SessionStopped {
	return SessionStopped{Base: NewBase(KindSessionStopped)}
}

// SessionError carries a human-readable failure or informational message.
type SessionError struct {
	Base
	Message string
}

// NewSessionError creates a session error event.
func NewSessionError(message string) SessionError {
	return SessionError{Base: NewBase(KindSessionError), Message: message}
}
