package profiler

import "time"

// Row is one materialized result entry, in the shape host bindings convert
// into native structures.
type Row struct {
	Name          string  // rendered name, empty if unresolved
	Calls         int     // invocation count
	TotalTime     float64 // seconds, including callees
	TotalSelfTime float64 // seconds, excluding callees
}

// Result owns the per-function table produced by one profiling session.
// Ownership transfers to the caller when the session ends; a new session
// starts with a fresh Result.
type Result struct {
	entries map[FuncID]*Entry
	order   []FuncID
	total   time.Duration
	sealed  bool
}

func newResult() *Result {
	return &Result{entries: make(map[FuncID]*Entry)}
}

// ensure returns the entry for id, creating it on first sighting.
func (r *Result) ensure(id FuncID) *Entry {
	e, ok := r.entries[id]
	if !ok {
		e = &Entry{}
		r.entries[id] = e
		r.order = append(r.order, id)
	}
	return e
}

// Entry returns the aggregated entry for id, nil if the function was never
// observed.
func (r *Result) Entry(id FuncID) *Entry { return r.entries[id] }

// Len is the number of distinct functions observed.
func (r *Result) Len() int { return len(r.order) }

// TotalTime is the overall session wall time. It is zero until the session
// ends and is set exactly once.
func (r *Result) TotalTime() time.Duration { return r.total }

func (r *Result) setTotal(d time.Duration) {
	if r.sealed {
		panic("profiler: [BUG] session total time set twice")
	}
	r.total = d
	r.sealed = true
}

// Entries returns the aggregated entries in first-sighting order.
func (r *Result) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// Rows materializes the table in first-sighting order. The table itself
// carries no ordering significance; callers that need a ranking sort the
// rows themselves.
func (r *Result) Rows() []Row {
	rows := make([]Row, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		rows = append(rows, Row{
			Name:          e.RenderedName(),
			Calls:         e.Calls,
			TotalTime:     e.TotalTime.Seconds(),
			TotalSelfTime: e.SelfTime.Seconds(),
		})
	}
	return rows
}
