package surface

import (
	"bytes"
	"sync"
	"testing"
	"time"

	retro "github.com/KecklerHoch/LibRetroWrapper/api"
)

// inputRecord is one SetButton or SetAxis call observed by the fake core.
type inputRecord struct {
	isKey   bool
	code    retro.KeyCode
	pressed bool
	channel retro.MotionChannel
	x, y    float64
}

// fakeCore is a thread-safe core double. The emulation goroutine calls
// into it while tests inspect it, so everything is behind the mutex.
type fakeCore struct {
	mu     sync.Mutex
	frames int
	inputs []inputRecord
	sram   []byte
	closed bool

	fb     []byte
	stride int
	height int
}

func newFakeCore() *fakeCore {
	return &fakeCore{
		fb:     make([]byte, 4*4*4),
		stride: 16,
		height: 4,
	}
}

func (c *fakeCore) RunFrame() {
	c.mu.Lock()
	c.frames++
	c.mu.Unlock()
}

func (c *fakeCore) Framebuffer() []byte     { return c.fb }
func (c *fakeCore) FramebufferStride() int  { return c.stride }
func (c *fakeCore) ActiveHeight() int       { return c.height }
func (c *fakeCore) AudioSamples() []int16   { return nil }

func (c *fakeCore) SetButton(code retro.KeyCode, pressed bool) {
	c.mu.Lock()
	c.inputs = append(c.inputs, inputRecord{isKey: true, code: code, pressed: pressed})
	c.mu.Unlock()
}

func (c *fakeCore) SetAxis(channel retro.MotionChannel, x, y float64) {
	c.mu.Lock()
	c.inputs = append(c.inputs, inputRecord{channel: channel, x: x, y: y})
	c.mu.Unlock()
}

func (c *fakeCore) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeCore) HasSRAM() bool { return true }

func (c *fakeCore) GetSRAM() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, len(c.sram))
	copy(out, c.sram)
	return out
}

func (c *fakeCore) SetSRAM(data []byte) {
	c.mu.Lock()
	c.sram = append([]byte(nil), data...)
	c.mu.Unlock()
}

func (c *fakeCore) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

func (c *fakeCore) recordedInputs() []inputRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]inputRecord(nil), c.inputs...)
}

func (c *fakeCore) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeFactory hands out one prepared fakeCore.
type fakeFactory struct {
	core *fakeCore
}

func (f *fakeFactory) SystemInfo() retro.SystemInfo {
	return retro.SystemInfo{
		CoreName:        "fake",
		Extensions:      []string{".bin"},
		ScreenWidth:     4,
		MaxScreenHeight: 4,
		SampleRate:      48000,
		FPS:             120,
		DataDirName:     "fake",
	}
}

func (f *fakeFactory) CreateCore(rom []byte) (retro.Core, error) {
	return f.core, nil
}

func newTestSurface(t *testing.T, cfg Config) (*Surface, *fakeCore) {
	t.Helper()
	core := newFakeCore()
	cfg.Factory = &fakeFactory{core: core}
	cfg.DisableAudio = true
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s, core
}

func waitReady(t *testing.T, s *Surface) {
	t.Helper()
	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("surface never became ready")
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestLifecycleStates(t *testing.T) {
	s, core := newTestSurface(t, Config{})

	if s.State() != StateUninitialized {
		t.Fatalf("state after New = %v, want Uninitialized", s.State())
	}
	select {
	case <-s.Ready():
		t.Fatal("ready channel closed before Start")
	default:
	}

	s.Start()
	waitReady(t, s)
	if s.State() != StateReady {
		t.Fatalf("state after ready = %v, want Ready", s.State())
	}

	s.Destroy()
	if s.State() != StateDestroyed {
		t.Fatalf("state after Destroy = %v, want Destroyed", s.State())
	}
	if !core.isClosed() {
		t.Error("Destroy should close the core")
	}

	// Idempotent.
	s.Destroy()
}

func TestDestroyBeforeStart(t *testing.T) {
	s, core := newTestSurface(t, Config{})
	s.Destroy()
	if s.State() != StateDestroyed {
		t.Fatalf("state = %v, want Destroyed", s.State())
	}
	if !core.isClosed() {
		t.Error("core should be closed")
	}

	// Start after Destroy must not spawn the goroutine.
	s.Start()
	select {
	case <-s.Ready():
		t.Error("destroyed surface must never become ready")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventsBeforeReadyAreDropped(t *testing.T) {
	s, core := newTestSurface(t, Config{})

	s.SendKeyEvent(retro.ActionDown, retro.KeyA)
	s.SendMotionEvent(retro.MotionDPad, 1, 0)

	s.Start()
	waitReady(t, s)
	waitFor(t, func() bool { return core.frameCount() >= 2 }, "no frames ran")

	if got := core.recordedInputs(); len(got) != 0 {
		t.Errorf("events sent before ready must not reach the core, got %v", got)
	}
	s.Destroy()
}

func TestEventOrderPreserved(t *testing.T) {
	s, core := newTestSurface(t, Config{})
	s.Start()
	waitReady(t, s)

	s.SendKeyEvent(retro.ActionDown, retro.KeyA)
	s.SendMotionEvent(retro.MotionAnalogLeft, 0.5, -0.5)
	s.SendKeyEvent(retro.ActionUp, retro.KeyA)

	waitFor(t, func() bool { return len(core.recordedInputs()) == 3 }, "core did not receive all events")
	got := core.recordedInputs()

	if !got[0].isKey || got[0].code != retro.KeyA || !got[0].pressed {
		t.Errorf("event 0 = %+v, want A down", got[0])
	}
	if got[1].isKey || got[1].channel != retro.MotionAnalogLeft || got[1].x != 0.5 || got[1].y != -0.5 {
		t.Errorf("event 1 = %+v, want left analog (0.5,-0.5)", got[1])
	}
	if !got[2].isKey || got[2].code != retro.KeyA || got[2].pressed {
		t.Errorf("event 2 = %+v, want A up", got[2])
	}
	s.Destroy()
}

func TestEventsAfterDestroyAreDropped(t *testing.T) {
	s, core := newTestSurface(t, Config{})
	s.Start()
	waitReady(t, s)
	s.Destroy()

	before := len(core.recordedInputs())
	s.SendKeyEvent(retro.ActionDown, retro.KeyB)
	if got := core.recordedInputs(); len(got) != before {
		t.Errorf("events after Destroy must be dropped, got %v", got)
	}
}

func TestPauseStopsFrames(t *testing.T) {
	s, core := newTestSurface(t, Config{})
	s.Start()
	waitReady(t, s)
	waitFor(t, func() bool { return core.frameCount() > 0 }, "no frames before pause")

	s.Pause()
	if !s.Paused() {
		t.Fatal("surface should report paused")
	}
	count := core.frameCount()
	time.Sleep(50 * time.Millisecond)
	if got := core.frameCount(); got != count {
		t.Errorf("frames advanced while paused: %d -> %d", count, got)
	}

	s.Resume()
	waitFor(t, func() bool { return core.frameCount() > count }, "frames did not resume")
	s.Destroy()
}

func TestPauseBeforeStartParksGoroutine(t *testing.T) {
	s, core := newTestSurface(t, Config{})

	// The pause arrives while no goroutine exists. It must latch, not
	// vanish: after Start the goroutine parks before its first frame.
	s.Pause()
	s.Start()
	waitReady(t, s)

	waitFor(t, s.Paused, "surface never parked after latched pause")
	if got := core.frameCount(); got != 0 {
		t.Errorf("frames ran despite pause latched before start: %d", got)
	}

	s.Resume()
	waitFor(t, func() bool { return core.frameCount() > 0 }, "frames did not start after resume")
	s.Destroy()
}

func TestInitialSaveSeedsCore(t *testing.T) {
	save := []byte{0xCA, 0xFE}
	s, core := newTestSurface(t, Config{InitialSave: save})

	if got := core.GetSRAM(); !bytes.Equal(got, save) {
		t.Errorf("core SRAM = %v, want %v seeded before start", got, save)
	}
	s.Destroy()
}

func TestSerializeSRAM(t *testing.T) {
	s, core := newTestSurface(t, Config{InitialSave: []byte{0x01}})
	s.Start()
	waitReady(t, s)

	core.SetSRAM([]byte{0x0A, 0x0B})
	s.Pause()
	got := s.SerializeSRAM()
	if !bytes.Equal(got, []byte{0x0A, 0x0B}) {
		t.Errorf("SerializeSRAM = %v, want 0A 0B", got)
	}
	s.Destroy()
}

func TestAudioEnabledFlag(t *testing.T) {
	s, _ := newTestSurface(t, Config{AudioEnabled: true})
	if !s.AudioEnabled() {
		t.Error("expected audio enabled from config")
	}
	s.SetAudioEnabled(false)
	if s.AudioEnabled() {
		t.Error("expected audio disabled after toggle")
	}
	s.Destroy()
}
