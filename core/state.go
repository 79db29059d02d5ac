package voicesession

import "sync/atomic"

// SessionState is the single active state of a voice session. It is owned
// exclusively by the session; callers only observe it.
type SessionState int32

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateListening
	StateProcessing
	StateSpeaking
	StateError
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateSpeaking:
		return "speaking"
	case StateError:
		return "error"
	}
	return "unknown"
}

type sessionState struct {
	state atomic.Int32
}

func (s *sessionState) load() SessionState {
	return SessionState(s.state.Load())
}

func (s *sessionState) store(state SessionState) {
	s.state.Store(int32(state))
}
