// Package tracefile reads and writes recorded call/return event streams.
//
// A trace file is the offline form of one profiled run: the host's
// instrumentation hook records depth-tagged events as they happen, and the
// trace is later replayed through the profiler engine to reproduce the
// per-function timing table. The format is line-based text:
//
//	lprofile trace 1
//	func 1 script global fib 3 "fib.lua"
//	call 1 1 0
//	call 1 2 1200
//	return 2 2400
//	return 1 3600
//	end 4000
//
// Timestamps are nanoseconds from the start of the session, taken from the
// host's monotonic clock. A "-" stands for an absent kind or name.
package tracefile

import "lprofile/internal/profiler"

// EventKind is the type of a recorded event.
type EventKind uint8

const (
	// EventCall marks entry into a function.
	EventCall EventKind = iota + 1
	// EventReturn marks a return at some stack depth. Return events may be
	// missing for frames unwound by an error; the engine reconciles those
	// during replay.
	EventReturn
)

// Event is one recorded call or return notification.
type Event struct {
	Kind   EventKind
	Func   profiler.FuncID // call events only
	Depth  int             // host-reported stack depth at the event
	TimeNS int64           // nanoseconds since session start
}

// Trace is a fully parsed trace file.
type Trace struct {
	// Funcs maps each identity seen during the run to its resolved name.
	// Functions whose resolution missed are absent.
	Funcs map[profiler.FuncID]profiler.FuncName
	// Events in recorded order.
	Events []Event
	// EndNS is the session end timestamp. When the file carries no "end"
	// directive it is the timestamp of the last event.
	EndNS int64
}
