// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - session.*
//   - user_input.*
//   - turn_state.*
//
// session events
//
//   - SessionStarted (session.started): the session entered the listening
//     state for the first time.
//   - SessionListening (session.listening): a capture chunk was processed;
//     carries the normalized audio level for visualization.
//   - SessionSpeaking (session.speaking): playback of the synthesized
//     response started.
//   - SessionStopped (session.stopped): the session was torn down and is
//     disconnected.
//   - SessionError (session.error): a recoverable failure or informational
//     condition; carries a human-readable message, never an error object.
//
// user_input events
//
//   - UserSpeechStarted (user_input.speech_started): the audio level crossed
//     the speech threshold while inactive.
//
// turn_state events
//
//   - TurnProcessing (turn_state.processing): an utterance was handed to the
//     inference pipeline.
//   - TurnTranscribed (turn_state.transcribed): the pipeline produced a
//     transcript for the utterance.
//   - TurnResponded (turn_state.responded): the pipeline produced a response
//     text.
//   - TurnCompleted (turn_state.completed): one full
//     utterance-to-response cycle finished; carries transcript, response and
//     any synthesized audio.
//
// Events are emitted in order and never stored; sinks must treat delivery as
// fire-and-forget.
package events
