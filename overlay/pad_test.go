package overlay

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	retro "github.com/KecklerHoch/LibRetroWrapper/api"
)

type sinkEvent struct {
	key    bool
	code   retro.KeyCode
	action retro.KeyAction
	ch     retro.MotionChannel
	x, y   float64
}

// recordingSink captures everything a pad emits.
type recordingSink struct {
	events []sinkEvent
}

func (r *recordingSink) Key(code retro.KeyCode, action retro.KeyAction) bool {
	r.events = append(r.events, sinkEvent{key: true, code: code, action: action})
	return true
}

func (r *recordingSink) Motion(ch retro.MotionChannel, x, y float64) {
	r.events = append(r.events, sinkEvent{ch: ch, x: x, y: y})
}

func newTestPad(t *testing.T, cfg Config) (*Pad, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	p := NewPad(sink, cfg)
	p.Layout(1000, 1000)
	p.Resume()
	return p, sink
}

// touchAt places a touch at pad-local unit coordinates.
func touchAt(p *Pad, id int, ux, uy float64) TouchPoint {
	return TouchPoint{
		ID: ebiten.TouchID(id),
		X:  p.originX + ux*p.size,
		Y:  p.originY + uy*p.size,
	}
}

func TestLayoutVariants(t *testing.T) {
	left1 := layoutFor(Layout1, SideLeft)
	if !left1.DPad {
		t.Errorf("left layout 1 should have a d-pad")
	}
	if left1.HasDial {
		t.Errorf("left layout 1 should not have an analog dial")
	}

	left3 := layoutFor(Layout3, SideLeft)
	if !left3.HasDial || left3.Dial.Channel != retro.MotionAnalogLeft {
		t.Errorf("left layout 3 should carry the left analog dial")
	}
	if !hasButton(left3, retro.KeyL3) {
		t.Errorf("left layout 3 should have L3")
	}

	right1 := layoutFor(Layout1, SideRight)
	if right1.DPad || right1.HasDial {
		t.Errorf("right layout 1 should have neither d-pad nor dial")
	}
	if hasButton(right1, retro.KeyX) {
		t.Errorf("right layout 1 should not have X")
	}

	right2 := layoutFor(Layout2, SideRight)
	if !hasButton(right2, retro.KeyX) || !hasButton(right2, retro.KeyY) {
		t.Errorf("right layout 2 should have the full face diamond")
	}
	if !right2.HasDial || right2.Dial.Channel != retro.MotionAnalogRight {
		t.Errorf("right layout 2 should carry the right analog dial")
	}
	if hasButton(right2, retro.KeyR3) {
		t.Errorf("R3 belongs to layout 3 only")
	}

	right3 := layoutFor(Layout3, SideRight)
	if !hasButton(right3, retro.KeyR3) {
		t.Errorf("right layout 3 should have R3")
	}
}

func hasButton(spec layoutSpec, code retro.KeyCode) bool {
	for _, b := range spec.Buttons {
		if b.Code == code {
			return true
		}
	}
	return false
}

func TestButtonPressAndRelease(t *testing.T) {
	p, sink := newTestPad(t, Config{Variant: Layout1, Side: SideRight})

	spec := p.spec
	a := spec.Buttons[0] // KeyA
	if a.Code != retro.KeyA {
		t.Fatalf("expected first right button to be A, got %v", a.Code)
	}

	p.Update([]TouchPoint{touchAt(p, 1, a.CX, a.CY)})
	if len(sink.events) != 1 {
		t.Fatalf("expected one event after press, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if !ev.key || ev.code != retro.KeyA || ev.action != retro.ActionDown {
		t.Errorf("expected A down, got %+v", ev)
	}

	// Holding in place emits nothing new.
	p.Update([]TouchPoint{touchAt(p, 1, a.CX, a.CY)})
	if len(sink.events) != 1 {
		t.Fatalf("hold should not re-emit, got %d events", len(sink.events))
	}

	p.Update(nil)
	if len(sink.events) != 2 {
		t.Fatalf("expected release event, got %d events", len(sink.events))
	}
	ev = sink.events[1]
	if !ev.key || ev.code != retro.KeyA || ev.action != retro.ActionUp {
		t.Errorf("expected A up, got %+v", ev)
	}
}

func TestDPadQuantizesToEdges(t *testing.T) {
	p, sink := newTestPad(t, Config{Variant: Layout1, Side: SideLeft})
	spec := p.spec

	// Touch right of center, past the dead zone.
	p.Update([]TouchPoint{touchAt(p, 1, spec.DPadCX+spec.DPadR*0.8, spec.DPadCY)})
	if len(sink.events) != 1 {
		t.Fatalf("expected one motion event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.key || ev.ch != retro.MotionDPad || ev.x != 1 || ev.y != 0 {
		t.Errorf("expected dpad (1,0), got %+v", ev)
	}

	// Slide to the diagonal.
	p.Update([]TouchPoint{touchAt(p, 1, spec.DPadCX+spec.DPadR*0.6, spec.DPadCY-spec.DPadR*0.6)})
	ev = sink.events[len(sink.events)-1]
	if ev.x != 1 || ev.y != -1 {
		t.Errorf("expected dpad (1,-1), got %+v", ev)
	}

	// Inside the dead zone maps back to neutral.
	p.Update([]TouchPoint{touchAt(p, 1, spec.DPadCX+spec.DPadR*0.1, spec.DPadCY)})
	ev = sink.events[len(sink.events)-1]
	if ev.x != 0 || ev.y != 0 {
		t.Errorf("expected dpad neutral in dead zone, got %+v", ev)
	}

	// Lifting the finger stays neutral without a duplicate event.
	n := len(sink.events)
	p.Update(nil)
	if len(sink.events) != n {
		t.Errorf("release from neutral should not re-emit")
	}
}

func TestDialClampsDisplacement(t *testing.T) {
	p, sink := newTestPad(t, Config{Variant: Layout2, Side: SideRight})
	spec := p.spec
	if !spec.HasDial {
		t.Fatalf("right layout 2 should have a dial")
	}

	// Touch far past the dial radius: axes clamp to 1.
	p.Update([]TouchPoint{touchAt(p, 1, spec.Dial.CX+spec.Dial.R*1.5, spec.Dial.CY)})
	if len(sink.events) != 1 {
		t.Fatalf("expected one motion event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.ch != retro.MotionAnalogRight || ev.x != 1 || ev.y != 0 {
		t.Errorf("expected clamped (1,0) on right analog, got %+v", ev)
	}

	p.Update(nil)
	ev = sink.events[len(sink.events)-1]
	if ev.x != 0 || ev.y != 0 {
		t.Errorf("expected dial re-center on release, got %+v", ev)
	}
}

func TestPauseReleasesHeldControls(t *testing.T) {
	p, sink := newTestPad(t, Config{Variant: Layout1, Side: SideLeft})
	spec := p.spec
	sel := spec.Buttons[0]

	p.Update([]TouchPoint{
		touchAt(p, 1, sel.CX, sel.CY),
		touchAt(p, 2, spec.DPadCX-spec.DPadR*0.8, spec.DPadCY),
	})
	sink.events = nil

	p.Pause()
	var sawUp, sawNeutral bool
	for _, ev := range sink.events {
		if ev.key && ev.code == sel.Code && ev.action == retro.ActionUp {
			sawUp = true
		}
		if !ev.key && ev.ch == retro.MotionDPad && ev.x == 0 && ev.y == 0 {
			sawNeutral = true
		}
	}
	if !sawUp {
		t.Errorf("pause should release the held button")
	}
	if !sawNeutral {
		t.Errorf("pause should re-center the d-pad")
	}

	// Paused pads ignore touches entirely.
	n := len(sink.events)
	p.Update([]TouchPoint{touchAt(p, 1, sel.CX, sel.CY)})
	if len(sink.events) != n {
		t.Errorf("paused pad should not emit events")
	}
}

func TestHideReleasesHeldControls(t *testing.T) {
	p, sink := newTestPad(t, Config{Variant: Layout1, Side: SideRight})
	a := p.spec.Buttons[0]

	p.Update([]TouchPoint{touchAt(p, 1, a.CX, a.CY)})
	sink.events = nil

	p.SetVisible(false)
	if len(sink.events) != 1 || sink.events[0].action != retro.ActionUp {
		t.Fatalf("hiding should release the held button, got %+v", sink.events)
	}

	n := len(sink.events)
	p.Update([]TouchPoint{touchAt(p, 1, a.CX, a.CY)})
	if len(sink.events) != n {
		t.Errorf("hidden pad should not emit events")
	}
}

func TestQuantizeDeadZone(t *testing.T) {
	cases := []struct {
		dx, dy float64
		x, y   float64
	}{
		{0, 0, 0, 0},
		{0.5, 0, 1, 0},
		{-0.5, 0, -1, 0},
		{0, 0.5, 0, 1},
		{0.1, 0.1, 0, 0},
		{0.5, -0.5, 1, -1},
	}
	for _, c := range cases {
		x, y := quantize(c.dx, c.dy, 1)
		if x != c.x || y != c.y {
			t.Errorf("quantize(%v, %v) = (%v, %v), want (%v, %v)", c.dx, c.dy, x, y, c.x, c.y)
		}
	}
}
