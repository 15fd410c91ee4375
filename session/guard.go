package session

import (
	"sync"

	"github.com/KecklerHoch/LibRetroWrapper/surface"
)

// UnreadyPolicy selects what Guard.Do does while the surface exists but
// has not signaled readiness yet.
type UnreadyPolicy int

const (
	// DropWhileUnready silently discards actions until the surface is
	// ready. A dropped input event is preferable to a blocked caller.
	DropWhileUnready UnreadyPolicy = iota
	// QueueUntilReady holds actions and flushes them in order on the
	// readiness signal. The queue dies with the disposable group.
	QueueUntilReady
)

// Guard mediates every access to the surface. Do runs an action only
// while the surface is known to be valid; once the session's disposable
// group is released, or the surface is destroyed, every Do is a silent
// no-op. The guard protects against acting on an absent surface, not
// against errors inside the action — those propagate to the caller.
type Guard struct {
	surface *surface.Surface
	policy  UnreadyPolicy

	mu       sync.Mutex
	disposed bool
	queue    []func(*surface.Surface)
}

// NewGuard wraps a surface, subscribing to its readiness signal. The
// subscription is registered with the disposable group so it is released
// with everything else at session teardown.
func NewGuard(s *surface.Surface, policy UnreadyPolicy, group *Disposables) *Guard {
	g := &Guard{surface: s, policy: policy}

	stop := make(chan struct{})
	group.Add(func() {
		g.mu.Lock()
		g.disposed = true
		g.queue = nil
		g.mu.Unlock()
		close(stop)
	})

	go func() {
		select {
		case <-s.Ready():
			g.flush()
		case <-stop:
		}
	}()

	return g
}

// Do executes action with the surface handle iff the handle is currently
// ready; otherwise it does nothing and returns. While the surface is
// not-yet-ready the configured UnreadyPolicy applies.
//
// The state check and the action are not one atomic step: a Destroy can
// complete between them. Every Surface operation therefore re-checks
// state (or tolerates the destroyed state) internally; actions must stay
// within the Surface API rather than reach into the core directly.
func (g *Guard) Do(action func(*surface.Surface)) {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return
	}
	switch g.surface.State() {
	case surface.StateReady:
		g.mu.Unlock()
		action(g.surface)
	case surface.StateUninitialized:
		if g.policy == QueueUntilReady {
			g.queue = append(g.queue, action)
		}
		g.mu.Unlock()
	default:
		g.mu.Unlock()
	}
}

// Safe reports whether the surface is ready, not destroyed, and the
// session not yet torn down.
func (g *Guard) Safe() bool {
	g.mu.Lock()
	disposed := g.disposed
	g.mu.Unlock()
	return !disposed && g.surface.State() == surface.StateReady
}

// Unsafe returns the raw surface handle. This is the single permitted
// exception to the guarded-only rule, for the pause path: the pause
// itself must reach the surface in every lifecycle state, and the
// save-memory serialize that follows must run before destruction is
// finalized. Callers gate anything beyond the pause on Safe.
func (g *Guard) Unsafe() *surface.Surface {
	return g.surface
}

// flush runs queued actions in arrival order once the surface is ready.
func (g *Guard) flush() {
	g.mu.Lock()
	queue := g.queue
	g.queue = nil
	g.mu.Unlock()

	for _, action := range queue {
		g.Do(action)
	}
}
