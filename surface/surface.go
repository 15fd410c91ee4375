package surface

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	retro "github.com/KecklerHoch/LibRetroWrapper/api"
)

// State is the lifecycle state of a surface.
type State int32

const (
	// StateUninitialized means the surface exists but its asynchronous
	// setup has not completed yet.
	StateUninitialized State = iota
	// StateReady means the surface accepts input and produces frames.
	StateReady
	// StateDestroyed means all further unmediated access is undefined.
	StateDestroyed
)

// Config describes a surface at construction time. The initial save
// bytes are loaded into the core before the first frame runs.
type Config struct {
	Factory      retro.CoreFactory
	ROM          []byte
	InitialSave  []byte
	ShaderMode   ShaderMode
	AudioEnabled bool

	// DisableAudio skips audio device setup entirely. Used by tests and
	// headless environments where no output device exists.
	DisableAudio bool
}

// Surface hosts a running core: a dedicated emulation goroutine, an
// audio player, and a double-buffered framebuffer for the host's Draw.
// It is created in StateUninitialized; Start launches the goroutine and
// readiness is signaled on the Ready channel the moment setup completes.
type Surface struct {
	core    retro.Core
	battery retro.BatterySaver
	info    retro.SystemInfo

	state atomic.Int32
	ready chan struct{}

	control *control
	frames  *frameBuffer
	render  *renderer
	audio   *audioPlayer

	audioEnabled atomic.Bool
	disableAudio bool

	mu      sync.Mutex
	pending []queuedEvent

	started bool
	done    chan struct{}
}

// queuedEvent preserves the relative order of key and motion events
// between host calls and core delivery.
type queuedEvent struct {
	isKey  bool
	key    retro.KeyEvent
	motion retro.MotionEvent
}

// New constructs a surface around a fresh core seeded with the given
// save-memory bytes. The emulation goroutine is not running until Start.
func New(cfg Config) (*Surface, error) {
	if cfg.Factory == nil {
		return nil, fmt.Errorf("surface: no core factory")
	}

	core, err := cfg.Factory.CreateCore(cfg.ROM)
	if err != nil {
		return nil, fmt.Errorf("surface: failed to create core: %w", err)
	}

	info := cfg.Factory.SystemInfo()
	if info.FPS == 0 {
		info.FPS = 60
	}

	s := &Surface{
		core:         core,
		info:         info,
		ready:        make(chan struct{}),
		control:      newControl(),
		frames:       newFrameBuffer(info.ScreenWidth, info.MaxScreenHeight),
		render:       newRenderer(cfg.ShaderMode),
		disableAudio: cfg.DisableAudio,
		done:         make(chan struct{}),
	}
	s.audioEnabled.Store(cfg.AudioEnabled)

	// Transfer save memory into the core before any frame runs
	s.battery, _ = core.(retro.BatterySaver)
	if s.battery != nil && len(cfg.InitialSave) > 0 {
		s.battery.SetSRAM(cfg.InitialSave)
	}

	return s, nil
}

// Start launches the emulation goroutine. Readiness is signaled via
// Ready once goroutine-side setup completes. Calling Start on a
// destroyed or already-started surface is a no-op.
func (s *Surface) Start() {
	if s.State() != StateUninitialized || s.started {
		return
	}
	s.started = true
	go s.run()
}

// Ready returns a channel closed exactly once, when the surface
// transitions to StateReady.
func (s *Surface) Ready() <-chan struct{} {
	return s.ready
}

// State returns the current lifecycle state.
func (s *Surface) State() State {
	return State(s.state.Load())
}

// SendKeyEvent queues a digital button event for delivery to the core.
// Events sent while ready reach the core in call order; anything sent
// outside the ready state is dropped.
func (s *Surface) SendKeyEvent(action retro.KeyAction, code retro.KeyCode) {
	if s.State() != StateReady {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, queuedEvent{isKey: true, key: retro.KeyEvent{Action: action, Code: code}})
	s.mu.Unlock()
}

// SendMotionEvent queues a two-axis motion sample for one channel.
func (s *Surface) SendMotionEvent(channel retro.MotionChannel, x, y float64) {
	if s.State() != StateReady {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, queuedEvent{motion: retro.MotionEvent{Channel: channel, X: x, Y: y}})
	s.mu.Unlock()
}

// SerializeSRAM returns a copy of the core's current save memory, or nil
// when the program has none. Callers must hold the surface paused (or
// stopped) so the core is not mid-frame.
func (s *Surface) SerializeSRAM() []byte {
	if s.battery == nil || !s.battery.HasSRAM() {
		return nil
	}
	return s.battery.GetSRAM()
}

// SetAudioEnabled mutes or unmutes output. The player keeps draining
// either way so frame pacing is unaffected.
func (s *Surface) SetAudioEnabled(enabled bool) {
	s.audioEnabled.Store(enabled)
	if s.audio != nil {
		s.audio.setEnabled(enabled)
	}
}

// AudioEnabled reports the current audio flag.
func (s *Surface) AudioEnabled() bool {
	return s.audioEnabled.Load()
}

// Pause blocks until the emulation goroutine acknowledges the pause.
// Before Start the request is latched instead of blocking: the goroutine
// then parks before its first frame. No-op after Destroy.
func (s *Surface) Pause() {
	if !s.started {
		s.control.latchPause()
		return
	}
	s.control.requestPause()
}

// Resume lets a paused emulation goroutine continue.
func (s *Surface) Resume() {
	if !s.started {
		return
	}
	s.control.requestResume()
}

// Paused reports whether the emulation goroutine is parked between
// frames.
func (s *Surface) Paused() bool {
	return s.control.isPaused()
}

// Draw renders the most recent frame to screen.
func (s *Surface) Draw(screen *ebiten.Image) {
	pixels, stride, height := s.frames.read()
	if height == 0 {
		return
	}
	s.render.draw(screen, pixels, stride, height)
}

// Destroy stops the emulation goroutine, closes audio, and releases the
// core. Idempotent. All further access must be mediated by a guard.
func (s *Surface) Destroy() {
	if !s.state.CompareAndSwap(int32(StateUninitialized), int32(StateDestroyed)) &&
		!s.state.CompareAndSwap(int32(StateReady), int32(StateDestroyed)) {
		return
	}

	if s.started {
		s.control.stop()
		<-s.done
	}

	if s.audio != nil {
		s.audio.close()
		s.audio = nil
	}
	s.core.Close()
}

// run is the emulation goroutine: set up audio, signal readiness, then
// execute frames paced against the audio buffer level.
func (s *Surface) run() {
	defer close(s.done)

	if !s.disableAudio {
		player, err := newAudioPlayer(s.info.SampleRate, s.audioEnabled.Load())
		if err != nil {
			log.Printf("Failed to init audio: %v", err)
		} else {
			s.audio = player
		}
	}

	// Native setup is complete: signal readiness exactly once. Destroy
	// may have won the race, in which case the surface never becomes
	// ready.
	if s.state.CompareAndSwap(int32(StateUninitialized), int32(StateReady)) {
		close(s.ready)
	} else {
		return
	}

	frameTime := time.Duration(float64(time.Second) / float64(s.info.FPS))
	bytesPerFrame := s.info.SampleRate * 4 / s.info.FPS
	minBuffer := 3 * bytesPerFrame
	maxBuffer := 6 * bytesPerFrame
	lastFrameTime := time.Now()

	for {
		if !s.control.checkPause() {
			return
		}

		s.drainEvents()
		s.core.RunFrame()

		if s.audio != nil {
			s.audio.queueSamples(s.core.AudioSamples())
		}

		s.frames.update(
			s.core.Framebuffer(),
			s.core.FramebufferStride(),
			s.core.ActiveHeight(),
		)

		// Wall-clock baseline ± adjustment from audio buffer level
		elapsed := time.Since(lastFrameTime)
		sleepTime := frameTime - elapsed

		if s.audio != nil {
			level := s.audio.bufferLevel()
			if level < minBuffer {
				sleepTime = time.Duration(float64(sleepTime) * 0.9)
			} else if level > maxBuffer {
				sleepTime = time.Duration(float64(sleepTime) * 1.1)
			}
		}

		if sleepTime > time.Millisecond {
			time.Sleep(sleepTime)
		}

		lastFrameTime = time.Now()
	}
}

// drainEvents delivers queued input to the core in the order it arrived.
func (s *Surface) drainEvents() {
	s.mu.Lock()
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, ev := range events {
		if ev.isKey {
			s.core.SetButton(ev.key.Code, ev.key.Action == retro.ActionDown)
		} else {
			s.core.SetAxis(ev.motion.Channel, ev.motion.X, ev.motion.Y)
		}
	}
}
