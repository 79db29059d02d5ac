package voicesession

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"github.com/voxloop/voxloop-core/core/audio"
)

// audioInput normalizes capture behavior behind one facade so session code
// does not care whether the client supports explicit capture controls.
type audioInput struct {
	// base stores the configured input client used for streaming audio.
	base audioInputBase
	// fineCaptureControl is set when the input client supports explicit
	// capture controls.
	fineCaptureControl AudioInputFine

	// connected reports whether a concrete input client is currently configured.
	connected atomic.Bool
	// isCapturing reports whether the input client is currently capturing audio.
	isCapturing atomic.Bool

	// onChunk is called with each captured audio chunk
	onChunk func(chunk []byte)
}

func newAudioInput(client audioInputBase, onChunk func(chunk []byte)) *audioInput {
	if onChunk == nil {
		onChunk = func(chunk []byte) {}
	}

	audioInput := audioInput{onChunk: onChunk}
	audioInput.Set(client)
	return &audioInput
}

func (a *audioInput) Set(client audioInputBase) {
	if a == nil {
		return
	}

	a.base = client
	a.fineCaptureControl = nil
	a.connected.Store(false)
	a.isCapturing.Store(false)

	if client == nil {
		return
	}

	a.connected.Store(true)
	if fine, ok := client.(AudioInputFine); ok {
		a.fineCaptureControl = fine
	}
}

func (a *audioInput) IsConfigured() bool            { return a != nil && a.connected.Load() }
func (a *audioInput) SupportsCaptureControls() bool { return a != nil && a.fineCaptureControl != nil }
func (a *audioInput) IsCapturing() bool             { return a != nil && a.isCapturing.Load() }

// Capture starts delivering chunks to the configured callback. Clients with
// capture controls are started directly; stream-only clients run until ctx is
// cancelled.
func (a *audioInput) Capture(ctx context.Context) error {
	if a == nil {
		return nil
	}

	if !a.isCapturing.CompareAndSwap(false, true) {
		return nil
	}

	if a.SupportsCaptureControls() {
		if err := a.fineCaptureControl.StartCapture(ctx, a.onChunk); err != nil {
			a.isCapturing.Store(false)
			return err
		}
		return nil
	}

	if a.base != nil {
		go func() {
			if err := a.base.Stream(ctx, a.onChunk); err != nil {
				a.isCapturing.Store(false)
				// TODO: Find a way to propagate this error
				log.Printf("Failed to start audio input: %v", err)
			}
		}()
		return nil
	}

	a.isCapturing.Store(false)
	return nil
}

// StopCapture halts chunk delivery. Stream-only clients keep running until
// their streaming context is cancelled; their chunks are dropped upstream.
func (a *audioInput) StopCapture() error {
	if a == nil {
		return nil
	}

	if !a.isCapturing.CompareAndSwap(true, false) {
		return nil
	}

	if a.SupportsCaptureControls() {
		return a.fineCaptureControl.StopCapture()
	}

	return nil
}

func (a *audioInput) Close() error {
	var errs error
	if a.base != nil && a.IsConfigured() {
		if a.fineCaptureControl != nil {
			if err := a.fineCaptureControl.StopCapture(); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		a.base.Close()
	}
	a.isCapturing.Store(false)

	return errs
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	if a == nil || a.base == nil {
		return audio.GetDefaultEncodingInfo()
	}

	return a.base.EncodingInfo()
}
