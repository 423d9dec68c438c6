// Package profiler implements a call-stack profiler for an embedded
// scripting host. The host's execution hook reports function entry and
// return events tagged with the current stack depth; the engine turns that
// event stream into per-function call counts, total time and self time,
// handling recursion and abnormal unwinding along the way.
//
// The engine is driven entirely in-line with the host's own execution of
// the profiled callable: every event is processed to completion before the
// profiled program resumes. There is no background work and no queueing.
package profiler

import (
	"errors"
	"time"
)

// ErrSessionActive is returned when a session is started while another one
// is still running on the same engine.
var ErrSessionActive = errors.New("profiler: session already active")

// Engine consumes call/return events and owns the live frame stack plus the
// in-flight Result. It is not safe for concurrent use; events must arrive
// synchronously, in the order calls and returns occur in the profiled
// program.
type Engine struct {
	guard   sessionGuard
	frames  []*frame
	result  *Result
	started time.Time
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the engine's time source. The trace replayer uses it
// to step the clock along recorded timestamps; tests use it for
// deterministic durations.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Begin starts a session with an empty frame stack and a fresh Result.
// It fails with ErrSessionActive while another session runs on this engine.
func (e *Engine) Begin() error {
	if err := e.guard.acquire(); err != nil {
		return err
	}
	e.frames = e.frames[:0]
	e.result = newResult()
	e.started = e.now()
	return nil
}

// End closes every still-open frame, deepest first, as if each had just
// returned at the current moment. This yields a consistent result even when
// the profiled callable exited abnormally partway through nested calls
// without matching return notifications. The session wall time is attached
// to the result, the session slot is released, and ownership of the result
// transfers to the caller.
func (e *Engine) End() *Result {
	if e.result == nil {
		panic("profiler: [BUG] End without an active session")
	}
	now := e.now()
	for i := len(e.frames) - 1; i >= 0; i-- {
		f := e.frames[i]
		f.resume(now)
		f.close(now)
	}
	e.frames = e.frames[:0]
	res := e.result
	e.result = nil
	res.setTotal(now.Sub(e.started))
	e.guard.release()
	return res
}

// Profile runs fn under profiling and returns the finished result. If fn
// fails, the session state is torn down, the session slot is released, and
// the error propagates unchanged with no result.
func (e *Engine) Profile(run func() error) (*Result, error) {
	if err := e.Begin(); err != nil {
		return nil, err
	}
	if err := run(); err != nil {
		e.abort()
		return nil, err
	}
	return e.End(), nil
}

// abort discards the in-flight session after the profiled callable failed.
func (e *Engine) abort() {
	e.frames = e.frames[:0]
	e.result = nil
	e.guard.release()
}

// OnCall records entry into the function identified by id at the given
// host-reported stack depth. The caller's frame, if any, is suspended so
// its self-time clock stops while the callee runs. resolve is consulted
// only the first time the identity is seen; it costs a host round-trip and
// is never invoked again for the same function, even when it misses.
func (e *Engine) OnCall(id FuncID, depth int, resolve NameResolver) {
	if e.result == nil {
		panic("profiler: [BUG] call event outside an active session")
	}
	now := e.now()
	if top := e.top(); top != nil {
		top.suspend(now)
	}

	ent := e.result.ensure(id)
	ent.Calls++
	ent.depth++
	if !ent.named {
		ent.named = true
		if resolve != nil {
			ent.Name = resolve()
		}
	}

	e.frames = append(e.frames, &frame{
		id:        id,
		entry:     ent,
		enteredAt: now,
		innerAt:   now,
		level:     depth,
	})
}

// OnReturn records that some frame at the given stack depth is closing.
//
// Control flow can skip return notifications when an error propagates
// across several frames at once, so the stack is reconciled first: every
// frame deeper than depth is an orphan and is closed, most-recent first, as
// though it had just returned. Then every frame at exactly depth is closed,
// and the frame left on top, if any, has its self-time clock restarted
// since control is back in it.
func (e *Engine) OnReturn(depth int) {
	now := e.now()
	for top := e.top(); top != nil && top.level > depth; top = e.top() {
		e.closeTop(now)
	}
	for top := e.top(); top != nil && top.level == depth; top = e.top() {
		e.closeTop(now)
	}
	if top := e.top(); top != nil {
		top.resume(now)
	}
}

// Active reports whether a session is currently running on this engine.
func (e *Engine) Active() bool {
	return e.result != nil
}

// Depth is the number of frames currently open on the stack.
func (e *Engine) Depth() int { return len(e.frames) }

func (e *Engine) top() *frame {
	if len(e.frames) == 0 {
		return nil
	}
	return e.frames[len(e.frames)-1]
}

// closeTop pops the top frame, resuming it first if a callee left it
// suspended; a frame is never closed while its self-time clock is paused.
func (e *Engine) closeTop(now time.Time) {
	f := e.frames[len(e.frames)-1]
	f.resume(now)
	f.close(now)
	e.frames = e.frames[:len(e.frames)-1]
}
