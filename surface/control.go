// Package surface implements the natively-backed render/audio/input
// object that hosts a running core. The surface owns a dedicated
// emulation goroutine; readiness and teardown are signaled, never polled.
package surface

import (
	"sync"
	"time"
)

// control coordinates pause/resume/stop between the host thread and the
// emulation goroutine.
type control struct {
	mu       sync.Mutex
	pauseReq bool
	paused   bool
	running  bool
	stopReq  bool
	ackCh    chan struct{}
}

func newControl() *control {
	return &control{
		running: true,
		ackCh:   make(chan struct{}, 1),
	}
}

// requestPause asks the emulation goroutine to pause and blocks until it
// acknowledges.
func (c *control) requestPause() {
	c.mu.Lock()
	if c.paused || c.pauseReq || !c.running {
		c.mu.Unlock()
		return
	}
	c.pauseReq = true
	c.mu.Unlock()

	<-c.ackCh
}

// latchPause records a pause request without waiting for the
// acknowledgement. Used while the emulation goroutine does not exist
// yet; once it starts, its first checkPause parks before any frame runs.
func (c *control) latchPause() {
	c.mu.Lock()
	if c.running {
		c.pauseReq = true
	}
	c.mu.Unlock()
}

// requestResume tells the emulation goroutine to resume.
func (c *control) requestResume() {
	c.mu.Lock()
	c.pauseReq = false
	c.paused = false
	c.mu.Unlock()
}

// checkPause is called by the emulation goroutine between frames. If a
// pause has been requested it acknowledges and waits until resumed or
// stopped. Returns false if the goroutine should exit.
func (c *control) checkPause() bool {
	c.mu.Lock()
	if !c.running || c.stopReq {
		c.mu.Unlock()
		return false
	}
	if !c.pauseReq {
		c.mu.Unlock()
		return true
	}

	c.paused = true
	c.mu.Unlock()

	// Non-blocking send of ack (buffer size 1)
	select {
	case c.ackCh <- struct{}{}:
	default:
	}

	for {
		c.mu.Lock()
		if !c.running || c.stopReq {
			c.mu.Unlock()
			return false
		}
		if !c.pauseReq {
			c.paused = false
			c.mu.Unlock()
			return true
		}
		c.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
}

// stop signals the emulation goroutine to exit. Clears any pending pause
// so checkPause unblocks.
func (c *control) stop() {
	c.mu.Lock()
	c.running = false
	c.stopReq = true
	c.pauseReq = false
	c.mu.Unlock()
}

func (c *control) isPaused() bool {
	c.mu.Lock()
	p := c.paused
	c.mu.Unlock()
	return p
}
