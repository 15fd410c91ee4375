package overlay

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	retro "github.com/KecklerHoch/LibRetroWrapper/api"
)

// EventSink receives the edges a pad emits. *input.Router satisfies it.
type EventSink interface {
	Key(code retro.KeyCode, action retro.KeyAction) bool
	Motion(channel retro.MotionChannel, x, y float64)
}

// dpadDeadZone is the fraction of the d-pad radius around the center
// that maps to neutral on each axis.
const dpadDeadZone = 0.28

// axisEpsilon suppresses analog dial re-sends for sub-perceptible moves.
const axisEpsilon = 0.02

// Config describes one virtual pad.
type Config struct {
	Variant Variant
	Side    Side
	// Scale is the pad square's height as a fraction of the screen
	// height. Zero means the default of 0.42.
	Scale float64
	// MaxSize caps the pad square in pixels so the overlay does not
	// balloon on large displays. Zero means no cap.
	MaxSize float64
}

// TouchPoint is one active pointer in screen coordinates. The host
// collects these once per frame and hands the same slice to both pads.
type TouchPoint struct {
	ID ebiten.TouchID
	X  float64
	Y  float64
}

// Pad is one half of the virtual gamepad. It tracks touches over its
// layout and forwards edges through the router. A paused or hidden pad
// releases everything it holds and goes inert.
type Pad struct {
	router EventSink
	cfg    Config
	spec   layoutSpec

	visible bool
	active  bool

	// Pad square in screen coordinates, recomputed on Layout.
	size    float64
	originX float64
	originY float64

	pressed      map[retro.KeyCode]bool
	dpadX, dpadY float64
	dialX, dialY float64
}

// NewPad builds a pad for the given layout. The pad starts visible but
// inactive; Resume begins touch processing.
func NewPad(router EventSink, cfg Config) *Pad {
	if cfg.Scale == 0 {
		cfg.Scale = 0.42
	}
	return &Pad{
		router:  router,
		cfg:     cfg,
		spec:    layoutFor(cfg.Variant, cfg.Side),
		visible: true,
		pressed: make(map[retro.KeyCode]bool),
	}
}

// Resume enables touch processing.
func (p *Pad) Resume() { p.active = true }

// Pause stops touch processing and releases every control the pad is
// holding, so no button stays latched across a pause.
func (p *Pad) Pause() {
	p.active = false
	p.releaseAll()
}

// SetVisible shows or hides the pad. Hiding releases held controls.
func (p *Pad) SetVisible(v bool) {
	if !v && p.visible {
		p.releaseAll()
	}
	p.visible = v
}

// Visible reports whether the pad is drawn and accepting touches.
func (p *Pad) Visible() bool { return p.visible }

// Layout recomputes the pad square for the current screen size.
func (p *Pad) Layout(screenW, screenH int) {
	w, h := float64(screenW), float64(screenH)
	size := h * p.cfg.Scale
	if p.cfg.MaxSize > 0 && size > p.cfg.MaxSize {
		size = p.cfg.MaxSize
	}
	margin := h * 0.02
	p.size = size
	p.originY = h - size - margin
	if p.cfg.Side == SideLeft {
		p.originX = margin
	} else {
		p.originX = w - size - margin
	}
}

// Update reads the frame's touches and forwards the resulting edges.
func (p *Pad) Update(touches []TouchPoint) {
	if !p.active || !p.visible || p.size == 0 {
		return
	}
	p.applyTouches(touches)
}

// applyTouches is the pure core of Update: it diffs the touch set
// against held state and emits only edges. Buttons send key down/up,
// the d-pad sends quantized axes on MotionDPad, and the analog dial
// sends clamped displacement on its channel.
func (p *Pad) applyTouches(touches []TouchPoint) {
	now := make(map[retro.KeyCode]bool, len(p.spec.Buttons))
	var dpadTouch, dialTouch *TouchPoint

	for i := range touches {
		t := touches[i]
		ux := (t.X - p.originX) / p.size
		uy := (t.Y - p.originY) / p.size
		if ux < -0.1 || ux > 1.1 || uy < -0.1 || uy > 1.1 {
			continue
		}
		claimed := false
		for _, b := range p.spec.Buttons {
			if within(ux, uy, b.CX, b.CY, b.R) {
				now[b.Code] = true
				claimed = true
			}
		}
		if claimed {
			continue
		}
		if p.spec.DPad && dpadTouch == nil &&
			within(ux, uy, p.spec.DPadCX, p.spec.DPadCY, p.spec.DPadR*1.2) {
			dpadTouch = &TouchPoint{ID: t.ID, X: ux, Y: uy}
			continue
		}
		if p.spec.HasDial && dialTouch == nil &&
			within(ux, uy, p.spec.Dial.CX, p.spec.Dial.CY, p.spec.Dial.R*1.6) {
			dialTouch = &TouchPoint{ID: t.ID, X: ux, Y: uy}
		}
	}

	for _, b := range p.spec.Buttons {
		was, is := p.pressed[b.Code], now[b.Code]
		if is && !was {
			p.router.Key(b.Code, retro.ActionDown)
			p.pressed[b.Code] = true
		}
		if was && !is {
			p.router.Key(b.Code, retro.ActionUp)
			delete(p.pressed, b.Code)
		}
	}

	if p.spec.DPad {
		x, y := 0.0, 0.0
		if dpadTouch != nil {
			x, y = quantize(dpadTouch.X-p.spec.DPadCX, dpadTouch.Y-p.spec.DPadCY, p.spec.DPadR)
		}
		if x != p.dpadX || y != p.dpadY {
			p.dpadX, p.dpadY = x, y
			p.router.Motion(retro.MotionDPad, x, y)
		}
	}

	if p.spec.HasDial {
		x, y := 0.0, 0.0
		if dialTouch != nil {
			x = clamp((dialTouch.X - p.spec.Dial.CX) / p.spec.Dial.R)
			y = clamp((dialTouch.Y - p.spec.Dial.CY) / p.spec.Dial.R)
		}
		if math.Abs(x-p.dialX) > axisEpsilon || math.Abs(y-p.dialY) > axisEpsilon {
			p.dialX, p.dialY = x, y
			p.router.Motion(p.spec.Dial.Channel, x, y)
		}
	}
}

// releaseAll emits the up edge for everything currently held and
// re-centers the d-pad and analog dial.
func (p *Pad) releaseAll() {
	for code := range p.pressed {
		p.router.Key(code, retro.ActionUp)
	}
	p.pressed = make(map[retro.KeyCode]bool)
	if p.dpadX != 0 || p.dpadY != 0 {
		p.dpadX, p.dpadY = 0, 0
		p.router.Motion(retro.MotionDPad, 0, 0)
	}
	if p.dialX != 0 || p.dialY != 0 {
		p.dialX, p.dialY = 0, 0
		p.router.Motion(p.spec.Dial.Channel, 0, 0)
	}
}

func within(x, y, cx, cy, r float64) bool {
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// quantize maps a d-pad displacement to {-1, 0, 1} per axis with a
// center dead zone.
func quantize(dx, dy, r float64) (float64, float64) {
	x, y := 0.0, 0.0
	if dx > r*dpadDeadZone {
		x = 1
	} else if dx < -r*dpadDeadZone {
		x = -1
	}
	if dy > r*dpadDeadZone {
		y = 1
	} else if dy < -r*dpadDeadZone {
		y = -1
	}
	return x, y
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// CurrentTouches snapshots the active touches from ebiten, reusing ids
// as the scratch buffer. The host calls this once per frame, keeps the
// returned id slice for the next call, and shares the points between
// pads.
func CurrentTouches(ids []ebiten.TouchID) ([]TouchPoint, []ebiten.TouchID) {
	ids = ebiten.AppendTouchIDs(ids[:0])
	out := make([]TouchPoint, 0, len(ids))
	for _, id := range ids {
		x, y := ebiten.TouchPosition(id)
		out = append(out, TouchPoint{ID: id, X: float64(x), Y: float64(y)})
	}
	return out, ids
}
