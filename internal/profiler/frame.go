package profiler

import "time"

// frame is one active invocation on the call stack. Self time accrues only
// between innerAt and the moment the frame is suspended or closed; a
// suspended frame contributes no further self time until resumed.
type frame struct {
	id        FuncID
	entry     *Entry
	enteredAt time.Time // when the invocation began
	innerAt   time.Time // start of the current unsuspended self-time period
	level     int       // host-reported stack depth at entry
	suspended bool
}

// suspend pauses the self-time clock while a callee runs, flushing the
// period accrued so far into the entry.
func (f *frame) suspend(now time.Time) {
	if f.suspended {
		panic("profiler: [BUG] suspending an already-suspended frame")
	}
	f.entry.SelfTime += now.Sub(f.innerAt)
	f.suspended = true
}

// resume restarts the self-time clock once control is back in this frame.
// Resuming an active frame is a no-op.
func (f *frame) resume(now time.Time) {
	if !f.suspended {
		return
	}
	f.innerAt = now
	f.suspended = false
}

// close finishes the invocation: flush the open self-time period, unwind
// the recursion depth, and finalize total time on the outermost return of
// a recursive chain. The frame must be active; callers resume it first.
func (f *frame) close(now time.Time) {
	if f.suspended {
		panic("profiler: [BUG] closing a suspended frame")
	}
	f.entry.SelfTime += now.Sub(f.innerAt)
	f.entry.depth--
	if f.entry.depth == 0 {
		f.entry.TotalTime += now.Sub(f.enteredAt)
	}
}
