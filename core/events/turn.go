package events

const (
	// KindUserSpeechStarted identifies start of user speech activity.
	KindUserSpeechStarted Kind = "user_input.speech_started"
	// KindTurnProcessing identifies hand-off of an utterance to the pipeline.
	KindTurnProcessing Kind = "turn_state.processing"
	// KindTurnTranscribed identifies a completed utterance transcript.
	KindTurnTranscribed Kind = "turn_state.transcribed"
	// KindTurnResponded identifies a generated response text.
	KindTurnResponded Kind = "turn_state.responded"
	// KindTurnCompleted identifies a fully completed turn.
	KindTurnCompleted Kind = "turn_state.completed"
)

// UserSpeechStarted marks when user speech activity starts.
type UserSpeechStarted struct{ Base }

// NewUserSpeechStarted creates a user speech started event.
func NewUserSpeechStarted() UserSpeechStarted {
	return UserSpeechStarted{Base: NewBase(KindUserSpeechStarted)}
}

// TurnProcessing marks hand-off of the accumulated utterance to the pipeline.
type TurnProcessing struct{ Base }

// NewTurnProcessing creates a turn processing event.
func NewTurnProcessing() TurnProcessing {
	return TurnProcessing{Base: NewBase(KindTurnProcessing)}
}

// TurnTranscribed carries the transcript of the completed utterance.
type TurnTranscribed struct {
	Base
	Transcript string
}

// NewTurnTranscribed creates a transcription event.
func NewTurnTranscribed(transcript string) TurnTranscribed {
	return TurnTranscribed{Base: NewBase(KindTurnTranscribed), Transcript: transcript}
}

// TurnResponded carries the generated response text.
type TurnResponded struct {
	Base
	Response string
}

// NewTurnResponded creates a response event.
func NewTurnResponded(response string) TurnResponded {
	return TurnResponded{Base: NewBase(KindTurnResponded), Response: response}
}

// TurnCompleted carries the full result of one completed turn.
type TurnCompleted struct {
	Base
	Transcript string
	Response   string
	Audio      []byte
}

// NewTurnCompleted creates a turn completed event.
func NewTurnCompleted(transcript, response string, audio []byte) TurnCompleted {
	return TurnCompleted{
		Base:       NewBase(KindTurnCompleted),
		Transcript: transcript,
		Response:   response,
		Audio:      audio,
	}
}
