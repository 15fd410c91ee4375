// Package host is the lifecycle authority: an ebiten.Game that owns
// one session, translating window focus, controller attach/detach, and
// window close into the session's lifecycle calls.
package host

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sqweek/dialog"

	retro "github.com/KecklerHoch/LibRetroWrapper/api"
	"github.com/KecklerHoch/LibRetroWrapper/assets"
	"github.com/KecklerHoch/LibRetroWrapper/input"
	"github.com/KecklerHoch/LibRetroWrapper/overlay"
	"github.com/KecklerHoch/LibRetroWrapper/romloader"
	"github.com/KecklerHoch/LibRetroWrapper/session"
	"github.com/KecklerHoch/LibRetroWrapper/surface"
)

// Options configures Run.
type Options struct {
	// Bundle optionally carries a program image and initial assets
	// compiled into the binary.
	Bundle fs.FS

	// Title overrides the window title; empty uses the core name.
	Title string
}

// Run hosts a core for its whole lifetime: store and config setup, ROM
// acquisition, session construction, and the ebiten game loop. Returns
// when the window closes.
func Run(factory retro.CoreFactory, opts Options) error {
	info := factory.SystemInfo()

	store, err := assets.NewStore(info.DataDirName, info.Extensions)
	if err != nil {
		return fmt.Errorf("failed to open asset store: %w", err)
	}

	configPath := filepath.Join(store.Dir(), "config.json")
	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := SaveConfig(configPath, config); err != nil {
		log.Printf("Failed to persist config: %v", err)
	}

	if err := acquireROM(store, config, opts.Bundle, info); err != nil {
		return err
	}

	policy := session.DropWhileUnready
	if config.QueueInputUntilReady {
		policy = session.QueueUntilReady
	}

	sess, err := session.NewSession(factory, store, session.Config{
		PadLayout:    overlay.Variant(config.PadLayout),
		Policy:       policy,
		ShaderMode:   surface.ParseShaderMode(config.Shader),
		AudioEnabled: config.AudioEnabled,
		Touchscreen:  config.Touchscreen,
		Bundle:       opts.Bundle,
	})
	if err != nil {
		return err
	}

	title := opts.Title
	if title == "" {
		title = info.CoreName
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(60)

	windowW := info.ScreenWidth * 3
	windowH := info.MaxScreenHeight * 3
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowSizeLimits(info.ScreenWidth, info.MaxScreenHeight, -1, -1)

	left, right := sess.Pads()
	app := &App{
		sess:     sess,
		poller:   input.NewDevicePoller(sess.Router(), input.BuildMapping(config.Keyboard, config.Gamepad)),
		padLeft:  left,
		padRight: right,
		shots:    newScreenshotSaver(store.Dir()),
		audioOn:  config.AudioEnabled,
	}

	err = ebiten.RunGame(app)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	return err
}

// acquireROM makes sure the store holds a program image: bundle first,
// then the configured path, then a native file dialog.
func acquireROM(store *assets.Store, config *Config, bundle fs.FS, info retro.SystemInfo) error {
	store.Ensure(assets.ROM, bundle)
	if store.Has(assets.ROM) {
		return nil
	}

	path := config.ROMPath
	if path == "" {
		picked, err := pickROM(info)
		if err != nil {
			return fmt.Errorf("no program image selected: %w", err)
		}
		path = picked
	}

	data, _, err := romloader.Load(path, info.Extensions)
	if err != nil {
		return fmt.Errorf("failed to load ROM: %w", err)
	}
	if err := store.Write(assets.ROM, data); err != nil {
		return fmt.Errorf("failed to import ROM: %w", err)
	}

	// Any save memory or resume state left in the store belongs to a
	// previous image, not the one just imported.
	if err := store.Remove(assets.Save); err != nil {
		log.Printf("Failed to drop stale save: %v", err)
	}
	if err := store.Remove(assets.State); err != nil {
		log.Printf("Failed to drop stale state: %v", err)
	}
	return nil
}

// pickROM shows a native open-file dialog filtered to the core's
// extensions plus the supported archive formats.
func pickROM(info retro.SystemInfo) (string, error) {
	exts := make([]string, 0, len(info.Extensions)+4)
	for _, ext := range info.Extensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	exts = append(exts, "zip", "7z", "gz", "rar")

	return dialog.File().
		Title("Select ROM").
		Filter(info.CoreName+" ROMs", exts...).
		Load()
}

// App implements ebiten.Game around one session.
type App struct {
	sess     *session.Session
	poller   *input.DevicePoller
	padLeft  *overlay.Pad
	padRight *overlay.Pad
	shots    *screenshotSaver

	touchIDs     []ebiten.TouchID
	gamepadIDs   []ebiten.GamepadID
	gamepadCount int
	started      bool
	focused      bool
	audioOn      bool
	screenW      int
	screenH      int
	pendingShot  bool
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.sess.Pause()
		a.sess.Destroy()
		return ebiten.Termination
	}

	focused := ebiten.IsFocused()
	if !a.started || focused != a.focused {
		a.started = true
		a.focused = focused
		a.sess.FocusChanged(focused)
	}

	a.gamepadIDs = ebiten.AppendGamepadIDs(a.gamepadIDs[:0])
	if len(a.gamepadIDs) != a.gamepadCount {
		a.gamepadCount = len(a.gamepadIDs)
		a.sess.ConfigurationChanged()
	}

	a.poller.Poll()

	var touches []overlay.TouchPoint
	touches, a.touchIDs = overlay.CurrentTouches(a.touchIDs)
	a.padLeft.Layout(a.screenW, a.screenH)
	a.padRight.Layout(a.screenW, a.screenH)
	a.padLeft.Update(touches)
	a.padRight.Update(touches)

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.audioOn = !a.audioOn
		a.sess.SetAudioEnabled(a.audioOn)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.pendingShot = true
	}

	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	a.sess.Guard().Do(func(s *surface.Surface) {
		s.Draw(screen)
	})
	a.padLeft.Draw(screen)
	a.padRight.Draw(screen)

	if a.pendingShot {
		a.pendingShot = false
		if err := a.shots.save(screen); err != nil {
			log.Printf("Failed to save screenshot: %v", err)
		}
	}
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	a.screenW = int(float64(outsideWidth) * s)
	a.screenH = int(float64(outsideHeight) * s)
	return a.screenW, a.screenH
}
