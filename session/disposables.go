// Package session owns the safe-access boundary between the lifecycle-
// bound surface and everything that wants to talk to it, plus the
// controller that wires assets, surface, router, and overlays together.
package session

import "sync"

// Disposables collects teardown functions from asynchronous
// registrations so the session can release them together, exactly once.
type Disposables struct {
	mu       sync.Mutex
	funcs    []func()
	disposed bool
}

// Add registers a teardown function. If the group has already been
// disposed the function runs immediately.
func (d *Disposables) Add(f func()) {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		f()
		return
	}
	d.funcs = append(d.funcs, f)
	d.mu.Unlock()
}

// Dispose runs every registered function in one pass. Subsequent calls
// are no-ops.
func (d *Disposables) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	funcs := d.funcs
	d.funcs = nil
	d.mu.Unlock()

	for _, f := range funcs {
		f()
	}
}

// Disposed reports whether the group has been released.
func (d *Disposables) Disposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}
