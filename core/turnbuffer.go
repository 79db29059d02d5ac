package voicesession

import "sync"

// turnBuffer accumulates the raw audio of the current utterance. The capture
// loop appends, the silence loop takes; TakeAndReset is the only read and it
// always clears, so there is never a partially consumed buffer.
type turnBuffer struct {
	mu    sync.Mutex
	audio []byte
}

func newTurnBuffer() *turnBuffer {
	return &turnBuffer{}
}

func (b *turnBuffer) Append(chunk []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.audio = append(b.audio, chunk...)
}

func (b *turnBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.audio)
}

// TakeAndReset returns the accumulated audio and empties the buffer. The
// backing array is handed off, not copied; the buffer starts a fresh one.
func (b *turnBuffer) TakeAndReset() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	audio := b.audio
	b.audio = nil
	return audio
}
