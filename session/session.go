package session

import (
	"errors"
	"io/fs"
	"log"

	retro "github.com/KecklerHoch/LibRetroWrapper/api"
	"github.com/KecklerHoch/LibRetroWrapper/assets"
	"github.com/KecklerHoch/LibRetroWrapper/input"
	"github.com/KecklerHoch/LibRetroWrapper/overlay"
	"github.com/KecklerHoch/LibRetroWrapper/surface"
)

// ErrNoROM is returned when the store holds no program image and the
// bundle cannot supply one.
var ErrNoROM = errors.New("session: no program image available")

// Config describes one session. The zero value is usable with a
// factory and store: layout 1, drop-while-unready, audio on.
type Config struct {
	PadLayout    overlay.Variant
	Policy       UnreadyPolicy
	ShaderMode   surface.ShaderMode
	AudioEnabled bool

	// Touchscreen reports whether the device has a touch pointer at
	// all. Without one the overlay never shows.
	Touchscreen bool

	// ControllerDetector reports whether a physical controller is
	// currently attached. Re-queried on every ConfigurationChanged,
	// never cached. Nil means the ebiten gamepad query.
	ControllerDetector func() bool

	// Bundle optionally seeds missing assets (program image, initial
	// save) before the store is read.
	Bundle fs.FS

	// DisableAudio skips audio device setup. Tests and headless runs.
	DisableAudio bool
}

// Session wires one emulation run together: the surface, the guard
// mediating access to it, the input router, and the two overlay pads.
// Lifecycle calls arrive from the host in its documented order; each
// transition acts at most once.
type Session struct {
	surf   *surface.Surface
	guard  *Guard
	group  *Disposables
	router *input.Router
	store  *assets.Store

	padLeft  *overlay.Pad
	padRight *overlay.Pad

	touchscreen        bool
	controllerDetector func() bool

	running   bool
	destroyed bool
}

// NewSession materializes assets, boots a surface seeded with the
// stored save memory, and builds the access path around it. The
// surface's goroutine is already running when NewSession returns;
// readiness arrives asynchronously through the guard.
func NewSession(factory retro.CoreFactory, store *assets.Store, cfg Config) (*Session, error) {
	if cfg.PadLayout == 0 {
		cfg.PadLayout = overlay.Layout1
	}
	if cfg.ControllerDetector == nil {
		cfg.ControllerDetector = input.PhysicalControllerPresent
	}

	store.Ensure(assets.ROM, cfg.Bundle)
	store.Ensure(assets.Save, cfg.Bundle)
	store.Ensure(assets.State, cfg.Bundle)

	rom := store.Read(assets.ROM)
	if rom == nil {
		return nil, ErrNoROM
	}

	surf, err := surface.New(surface.Config{
		Factory:      factory,
		ROM:          rom,
		InitialSave:  store.Read(assets.Save),
		ShaderMode:   cfg.ShaderMode,
		AudioEnabled: cfg.AudioEnabled,
		DisableAudio: cfg.DisableAudio,
	})
	if err != nil {
		return nil, err
	}

	group := &Disposables{}
	guard := NewGuard(surf, cfg.Policy, group)
	router := input.NewRouter(guard)

	s := &Session{
		surf:               surf,
		guard:              guard,
		group:              group,
		router:             router,
		store:              store,
		touchscreen:        cfg.Touchscreen,
		controllerDetector: cfg.ControllerDetector,
	}
	s.padLeft = overlay.NewPad(router, overlay.Config{Variant: cfg.PadLayout, Side: overlay.SideLeft})
	s.padRight = overlay.NewPad(router, overlay.Config{Variant: cfg.PadLayout, Side: overlay.SideRight})
	s.refreshOverlayVisibility()

	surf.Start()
	return s, nil
}

// Guard returns the safe-access wrapper around the surface.
func (s *Session) Guard() *Guard { return s.guard }

// Router returns the input router feeding the surface.
func (s *Session) Router() *input.Router { return s.router }

// Pads returns the left and right overlay pads.
func (s *Session) Pads() (*overlay.Pad, *overlay.Pad) {
	return s.padLeft, s.padRight
}

// Resume starts emulation and overlay touch processing. Idempotent.
func (s *Session) Resume() {
	if s.destroyed || s.running {
		return
	}
	s.running = true
	s.padLeft.Resume()
	s.padRight.Resume()
	s.guard.Do(func(surf *surface.Surface) { surf.Resume() })
}

// Pause halts emulation and persists save memory. The pads release
// their latched controls first so no input survives into the pause,
// then the surface stops between frames, then SRAM is written out.
// Idempotent.
func (s *Session) Pause() {
	if s.destroyed || !s.running {
		return
	}
	s.running = false
	s.padLeft.Pause()
	s.padRight.Pause()

	// The pause goes straight to the surface rather than through the
	// guard: delivered before readiness it still parks the emulation
	// goroutine the moment setup completes, instead of being dropped and
	// leaving frames running under a session that believes itself paused.
	surf := s.guard.Unsafe()
	surf.Pause()

	if !s.guard.Safe() {
		return
	}
	if data := surf.SerializeSRAM(); data != nil {
		if err := s.store.Write(assets.Save, data); err != nil {
			log.Printf("Failed to persist save memory: %v", err)
		}
	}
}

// FocusChanged maps window focus transitions onto Resume and Pause.
func (s *Session) FocusChanged(focused bool) {
	if focused {
		s.Resume()
	} else {
		s.Pause()
	}
}

// ConfigurationChanged re-evaluates the overlay visibility policy.
// Called on controller attach/detach and display layout changes.
func (s *Session) ConfigurationChanged() {
	s.refreshOverlayVisibility()
}

// refreshOverlayVisibility hides the pads when a physical controller is
// attached or the device has no touchscreen. The controller question is
// asked fresh every time.
func (s *Session) refreshOverlayVisibility() {
	visible := s.touchscreen && !s.controllerDetector()
	s.padLeft.SetVisible(visible)
	s.padRight.SetVisible(visible)
}

// SetAudioEnabled toggles audio output through the guard.
func (s *Session) SetAudioEnabled(enabled bool) {
	s.guard.Do(func(surf *surface.Surface) { surf.SetAudioEnabled(enabled) })
}

// Destroy tears the session down: the guard group is disposed first so
// no access slips through mid-teardown, then the surface is destroyed.
// The host pauses before destroying; Destroy tolerates either order.
// Idempotent.
func (s *Session) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.running = false
	s.group.Dispose()
	s.surf.Destroy()
}
