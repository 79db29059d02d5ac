package voicesession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voxloop/voxloop-core/core/audio"
)

func TestPlaybackStripsContainerHeader(t *testing.T) {
	device := &fakePlaybackDevice{}
	coordinator := newPlaybackCoordinator(newAudioOutput(device))

	pcm := chunkAtLevel(160, 1000)
	synthesized := audio.EncodeWAV(pcm, audio.DefaultSampleRate)

	if err := coordinator.Play(context.Background(), synthesized); err != nil {
		t.Fatalf("expected playback to succeed, got: %v", err)
	}

	device.mu.Lock()
	defer device.mu.Unlock()
	if len(device.sent) != len(pcm) {
		t.Errorf("expected %d payload bytes, got %d", len(pcm), len(device.sent))
	}
	if device.clears == 0 {
		t.Errorf("expected output buffer to be released")
	}
}

func TestPlaybackPlaysRawPayloadWithoutHeader(t *testing.T) {
	device := &fakePlaybackDevice{}
	coordinator := newPlaybackCoordinator(newAudioOutput(device))

	pcm := chunkAtLevel(160, 1000)
	if err := coordinator.Play(context.Background(), pcm); err != nil {
		t.Fatalf("expected playback to succeed, got: %v", err)
	}

	device.mu.Lock()
	defer device.mu.Unlock()
	if len(device.sent) != len(pcm) {
		t.Errorf("expected raw payload to be played untouched, sent %d of %d bytes", len(device.sent), len(pcm))
	}
}

func TestPlaybackEmptyPayloadIsNoop(t *testing.T) {
	device := &fakePlaybackDevice{}
	coordinator := newPlaybackCoordinator(newAudioOutput(device))

	if err := coordinator.Play(context.Background(), nil); err != nil {
		t.Fatalf("expected no error for empty payload, got: %v", err)
	}

	device.mu.Lock()
	defer device.mu.Unlock()
	if len(device.sent) != 0 {
		t.Errorf("expected nothing to be sent, got %d bytes", len(device.sent))
	}
}

func TestPlaybackCancellationStillReleases(t *testing.T) {
	device := &fakePlaybackDevice{playing: true}
	coordinator := newPlaybackCoordinator(newAudioOutput(device))

	// A long payload so the duration estimate cannot elapse during the test.
	pcm := make([]byte, audio.DefaultSampleRate*2*10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- coordinator.Play(ctx, pcm) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected cancellation error, got: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("playback did not stop within a polling interval of cancellation")
	}

	device.mu.Lock()
	defer device.mu.Unlock()
	if device.clears == 0 {
		t.Errorf("expected output buffer to be released after cancellation")
	}
}

func TestPlaybackStopsWhenDeviceRunsDry(t *testing.T) {
	device := &fakePlaybackDevice{playing: false}
	coordinator := newPlaybackCoordinator(newAudioOutput(device))

	// Duration estimate is 10s, but the device reports not playing.
	pcm := make([]byte, audio.DefaultSampleRate*2*10)

	started := time.Now()
	if err := coordinator.Play(context.Background(), pcm); err != nil {
		t.Fatalf("expected playback to finish, got: %v", err)
	}

	if elapsed := time.Since(started); elapsed > time.Second {
		t.Errorf("expected playback to finish once the device ran dry, took %v", elapsed)
	}
}
