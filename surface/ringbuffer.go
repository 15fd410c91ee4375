package surface

import (
	"io"
	"sync"
)

// audioRingBuffer is a fixed-capacity byte ring between the emulation
// goroutine (writer) and the oto player (reader, pull model). Underruns
// are padded with silence so the player never starves; overruns drop the
// oldest data so latency stays bounded.
type audioRingBuffer struct {
	mu     sync.Mutex
	buf    []byte
	start  int
	length int
	closed bool
}

func newAudioRingBuffer(capacity int) *audioRingBuffer {
	return &audioRingBuffer{buf: make([]byte, capacity)}
}

// Write appends p to the ring. If p exceeds free space, the oldest
// buffered bytes are discarded to make room.
func (rb *audioRingBuffer) Write(p []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed {
		return
	}

	if len(p) > len(rb.buf) {
		p = p[len(p)-len(rb.buf):]
	}

	overflow := rb.length + len(p) - len(rb.buf)
	if overflow > 0 {
		rb.start = (rb.start + overflow) % len(rb.buf)
		rb.length -= overflow
	}

	end := (rb.start + rb.length) % len(rb.buf)
	n := copy(rb.buf[end:], p)
	copy(rb.buf, p[n:])
	rb.length += len(p)
}

// Read fills p with buffered audio, padding with silence when the ring
// holds less than len(p). Returns io.EOF only after Close.
func (rb *audioRingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed {
		return 0, io.EOF
	}

	n := rb.length
	if n > len(p) {
		n = len(p)
	}

	first := copy(p[:n], rb.buf[rb.start:])
	copy(p[first:n], rb.buf)
	rb.start = (rb.start + n) % len(rb.buf)
	rb.length -= n

	// Silence fill on underrun
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Buffered returns the number of bytes currently held.
func (rb *audioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.length
}

// Clear discards all buffered audio.
func (rb *audioRingBuffer) Clear() {
	rb.mu.Lock()
	rb.start = 0
	rb.length = 0
	rb.mu.Unlock()
}

// Close makes subsequent Reads return io.EOF so the oto player stops.
func (rb *audioRingBuffer) Close() {
	rb.mu.Lock()
	rb.closed = true
	rb.mu.Unlock()
}
