package surface

import "sync"

// frameBuffer holds pixel data written by the emulation goroutine and
// read by the host's Draw call. Separate write and read buffers let the
// goroutine write new data while Draw uses the read copy.
type frameBuffer struct {
	mu           sync.Mutex
	writePixels  []byte
	readPixels   []byte
	stride       int
	activeHeight int
}

// newFrameBuffer pre-allocates both buffers for the given screen
// dimensions (4 bytes per pixel).
func newFrameBuffer(width, height int) *frameBuffer {
	size := width * height * 4
	return &frameBuffer{
		writePixels: make([]byte, size),
		readPixels:  make([]byte, size),
	}
}

// update copies framebuffer data from the emulation goroutine.
func (fb *frameBuffer) update(pixels []byte, stride, activeHeight int) {
	fb.mu.Lock()
	n := stride * activeHeight
	if n > len(fb.writePixels) {
		n = len(fb.writePixels)
	}
	if n > len(pixels) {
		n = len(pixels)
	}
	copy(fb.writePixels[:n], pixels[:n])
	fb.stride = stride
	fb.activeHeight = activeHeight
	fb.mu.Unlock()
}

// read returns a snapshot of the current frame. The write buffer is
// copied into the read buffer under the lock; the returned slice is safe
// to use without holding it.
func (fb *frameBuffer) read() (pixels []byte, stride, activeHeight int) {
	fb.mu.Lock()
	stride = fb.stride
	activeHeight = fb.activeHeight
	n := stride * activeHeight
	if n > len(fb.writePixels) {
		n = len(fb.writePixels)
	}
	if n > 0 {
		copy(fb.readPixels[:n], fb.writePixels[:n])
	}
	pixels = fb.readPixels
	fb.mu.Unlock()
	return
}
