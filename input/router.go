// Package input validates and translates key/motion events into the
// surface's event vocabulary and forwards them through the session's
// guarded-execution path.
package input

import (
	retro "github.com/KecklerHoch/LibRetroWrapper/api"
	"github.com/KecklerHoch/LibRetroWrapper/surface"
)

// Executor runs an action against the surface when it is safe to do so.
// Implemented by session.Guard.
type Executor interface {
	Do(action func(*surface.Surface))
}

// Router forwards recognized input events to the surface. Codes outside
// the fixed allow-list and channels outside the three known motion
// sources are dropped without error. No buffering, no rate limiting:
// every accepted event is forwarded immediately and exactly once.
type Router struct {
	exec Executor
}

// NewRouter creates a router driving the given executor.
func NewRouter(exec Executor) *Router {
	return &Router{exec: exec}
}

// Key forwards a digital button event and reports whether the code was
// recognized. Unrecognized codes never reach guarded execution.
func (r *Router) Key(code retro.KeyCode, action retro.KeyAction) bool {
	if !retro.KnownKeyCode(code) {
		return false
	}
	r.exec.Do(func(s *surface.Surface) {
		s.SendKeyEvent(action, code)
	})
	return true
}

// Motion forwards a two-axis sample for one of the three known motion
// channels, identity on the axis payload. Any other channel is a no-op.
func (r *Router) Motion(channel retro.MotionChannel, x, y float64) {
	if !retro.KnownMotionChannel(channel) {
		return
	}
	r.exec.Do(func(s *surface.Surface) {
		s.SendMotionEvent(channel, x, y)
	})
}

// OnKeyDown is the host input-dispatch surface for key presses.
func (r *Router) OnKeyDown(code retro.KeyCode) bool {
	return r.Key(code, retro.ActionDown)
}

// OnKeyUp is the host input-dispatch surface for key releases.
func (r *Router) OnKeyUp(code retro.KeyCode) bool {
	return r.Key(code, retro.ActionUp)
}

// OnGenericMotion is the host input-dispatch surface for analog events.
// Returns whether the channel was recognized.
func (r *Router) OnGenericMotion(channel retro.MotionChannel, x, y float64) bool {
	if !retro.KnownMotionChannel(channel) {
		return false
	}
	r.Motion(channel, x, y)
	return true
}
