package profiler

import "sync/atomic"

// sessionGuard is the single-flight slot for one engine: at most one
// profiling session may hold it at a time. It is owned by the engine
// instance and released on every exit path, normal or not.
type sessionGuard struct {
	active atomic.Bool
}

// acquire claims the slot, failing if a session already holds it. The
// failure leaves the running session untouched.
func (g *sessionGuard) acquire() error {
	if !g.active.CompareAndSwap(false, true) {
		return ErrSessionActive
	}
	return nil
}

// release frees the slot. It must be called exactly once per session.
func (g *sessionGuard) release() {
	if !g.active.CompareAndSwap(true, false) {
		panic("profiler: [BUG] session slot released twice")
	}
}
