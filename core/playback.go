package voicesession

import (
	"context"
	"fmt"
	"time"

	"github.com/voxloop/voxloop-core/core/audio"
)

const playbackPollInterval = 100 * time.Millisecond

// playbackCoordinator plays one synthesized response through the output
// client and waits for it to finish. It strips a WAV container header if one
// is present, estimates how long the payload should take, and polls the
// device until the estimate elapses, the device runs dry, or the context is
// cancelled. The output buffer is always cleared on the way out, whatever the
// outcome.
type playbackCoordinator struct {
	output *audioOutput
}

func newPlaybackCoordinator(output *audioOutput) *playbackCoordinator {
	return &playbackCoordinator{output: output}
}

func (p *playbackCoordinator) Play(ctx context.Context, synthesized []byte) error {
	defer p.output.Clear()

	payload := audio.StripWAVHeader(synthesized)
	if len(payload) == 0 {
		return nil
	}

	expected := p.output.EncodingInfo().Duration(len(payload))

	if err := p.output.SendAudio(payload); err != nil {
		return fmt.Errorf("failed to send audio to output: %w", err)
	}

	started := time.Now()
	ticker := time.NewTicker(playbackPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if time.Since(started) >= expected {
				return nil
			}
			if !p.output.IsPlaying() {
				return nil
			}
		}
	}
}
