package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	retro "github.com/KecklerHoch/LibRetroWrapper/api"
)

// axisEpsilon is the minimum change in a stick axis worth forwarding.
// Below it the sample is considered unchanged, not coalesced.
const axisEpsilon = 0.01

// DevicePoller reads physical keyboard and gamepad state once per frame,
// edge-detects it, and feeds the resulting events through the router.
type DevicePoller struct {
	router  *Router
	mapping Mapping

	lastAxes map[retro.MotionChannel][2]float64
}

// NewDevicePoller creates a poller bound to a router and binding set.
func NewDevicePoller(router *Router, mapping Mapping) *DevicePoller {
	return &DevicePoller{
		router:   router,
		mapping:  mapping,
		lastAxes: make(map[retro.MotionChannel][2]float64),
	}
}

// PhysicalControllerPresent reports whether at least one gamepad is
// connected. Queried fresh on every call, never cached.
func PhysicalControllerPresent() bool {
	return len(ebiten.AppendGamepadIDs(nil)) > 0
}

// Poll runs once per frame on the host thread. Key and button edges
// become key events; stick movement becomes motion events on the analog
// channels.
func (p *DevicePoller) Poll() {
	for code, key := range p.mapping.Keys {
		if inpututil.IsKeyJustPressed(key) {
			p.router.OnKeyDown(code)
		}
		if inpututil.IsKeyJustReleased(key) {
			p.router.OnKeyUp(code)
		}
	}

	gamepadIDs := ebiten.AppendGamepadIDs(nil)
	if len(gamepadIDs) == 0 {
		return
	}
	id := gamepadIDs[0]

	for code, btn := range p.mapping.Pad {
		if inpututil.IsStandardGamepadButtonJustPressed(id, btn) {
			p.router.OnKeyDown(code)
		}
		if inpututil.IsStandardGamepadButtonJustReleased(id, btn) {
			p.router.OnKeyUp(code)
		}
	}

	p.pollAxes(id, retro.MotionAnalogLeft,
		ebiten.StandardGamepadAxisLeftStickHorizontal,
		ebiten.StandardGamepadAxisLeftStickVertical)
	p.pollAxes(id, retro.MotionAnalogRight,
		ebiten.StandardGamepadAxisRightStickHorizontal,
		ebiten.StandardGamepadAxisRightStickVertical)
}

// pollAxes forwards a stick sample when either axis moved since the last
// forwarded value.
func (p *DevicePoller) pollAxes(id ebiten.GamepadID, channel retro.MotionChannel, hAxis, vAxis ebiten.StandardGamepadAxis) {
	x := ebiten.StandardGamepadAxisValue(id, hAxis)
	y := ebiten.StandardGamepadAxisValue(id, vAxis)

	last := p.lastAxes[channel]
	if math.Abs(x-last[0]) < axisEpsilon && math.Abs(y-last[1]) < axisEpsilon {
		return
	}

	p.lastAxes[channel] = [2]float64{x, y}
	p.router.Motion(channel, x, y)
}
