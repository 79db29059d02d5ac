package voicesession

import (
	"reflect"

	"github.com/voxloop/voxloop-core/core/audio"
)

// audioOutput wraps the configured playback client so session code can send
// audio, query playback state and flush without nil checks everywhere.
//
// NOTE: SendAudio forwarding is best-effort; playback is a non-fatal side
// effect of a turn and its errors are reported but never end the session.
type audioOutput struct {
	// base stores the configured output client.
	base audioOutputBase
}

func newAudioOutput(client audioOutputBase) *audioOutput {
	audioOutput := audioOutput{}
	audioOutput.Set(client)
	return &audioOutput
}

// Set replaces the configured output client. Nil and typed-nil clients are
// treated as unconfigured.
func (a *audioOutput) Set(client audioOutputBase) {
	if a == nil {
		return
	}

	a.base = nil
	if isNilAudioOutputBase(client) {
		return
	}
	a.base = client
}

func (a *audioOutput) isConfigured() bool {
	return a != nil && a.base != nil
}

// Snapshot returns a per-turn copy of the facade so reconfiguration does not
// change behavior mid-playback.
func (a *audioOutput) Snapshot() *audioOutput {
	if a == nil {
		return a
	}

	return newAudioOutput(a.base)
}

func (a *audioOutput) SendAudio(chunk []byte) error {
	if !a.isConfigured() {
		return nil
	}

	return a.base.SendAudio(chunk)
}

func (a *audioOutput) IsPlaying() bool {
	if !a.isConfigured() {
		return false
	}

	return a.base.IsPlaying()
}

func (a *audioOutput) Clear() {
	if !a.isConfigured() {
		return
	}

	a.base.ClearBuffer()
}

func (a *audioOutput) EncodingInfo() audio.EncodingInfo {
	if !a.isConfigured() {
		return audio.GetDefaultEncodingInfo()
	}

	return a.base.EncodingInfo()
}

// isNilAudioOutputBase detects nil and typed-nil interface values so Set can
// avoid storing unusable interface wrappers as configured clients.
func isNilAudioOutputBase(client audioOutputBase) bool {
	if client == nil {
		return true
	}

	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
