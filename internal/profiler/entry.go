package profiler

import "time"

// Entry aggregates the statistics for one function across a session.
type Entry struct {
	// Calls is how many times the function was entered.
	Calls int
	// TotalTime is the wall time from the outermost entry to the outermost
	// return, counted once per completed recursive chain.
	TotalTime time.Duration
	// SelfTime is the time spent in the function's own code, excluding
	// time attributed to callees.
	SelfTime time.Duration
	// Name is the resolved description, nil when resolution missed.
	Name *FuncName

	// depth is the number of currently-open invocations of this function
	// on the stack. TotalTime is only finalized when it returns to 0.
	depth int
	// named records that resolution already ran, even if it returned nil.
	named bool
}

// RecursionDepth reports how many invocations of this function are still
// open on the stack. It is 0 for every entry once a session has ended.
func (e *Entry) RecursionDepth() int { return e.depth }

// RenderedName returns the display label, empty when unresolved.
func (e *Entry) RenderedName() string {
	if e.Name == nil {
		return ""
	}
	return e.Name.Render()
}
