package tracefile

import (
	"fmt"
	"io"
	"time"

	"lprofile/internal/profiler"
)

// Writer emits a trace file directive by directive.
type Writer struct {
	w        io.Writer
	declared map[profiler.FuncID]bool
	started  bool
}

// NewWriter returns a Writer emitting to w. The header is written before
// the first directive.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, declared: make(map[profiler.FuncID]bool)}
}

func (w *Writer) writeHeader() error {
	if w.started {
		return nil
	}
	w.started = true
	_, err := fmt.Fprintln(w.w, header)
	return err
}

// Declare records the identity-to-name binding for id. A nil name declares
// a resolution miss. Redeclarations are ignored, mirroring the engine's
// resolve-once contract.
func (w *Writer) Declare(id profiler.FuncID, name *profiler.FuncName) error {
	if w.declared[id] {
		return nil
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.declared[id] = true

	if name == nil {
		_, err := fmt.Fprintf(w.w, "func %d - - - 0 \"-\"\n", id)
		return err
	}
	source := name.Source
	if source == "" {
		source = "?"
	}
	_, err := fmt.Fprintf(w.w, "func %d %s %s %s %d %q\n",
		id, name.Domain, dash(name.Kind), dash(name.Name), name.Line, source)
	return err
}

// Call emits a call event. The function must have been declared.
func (w *Writer) Call(id profiler.FuncID, depth int, timeNS int64) error {
	if !w.declared[id] {
		return fmt.Errorf("call for undeclared function %d", id)
	}
	_, err := fmt.Fprintf(w.w, "call %d %d %d\n", id, depth, timeNS)
	return err
}

// Return emits a return event.
func (w *Writer) Return(depth int, timeNS int64) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.w, "return %d %d\n", depth, timeNS)
	return err
}

// End emits the session end timestamp.
func (w *Writer) End(timeNS int64) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.w, "end %d\n", timeNS)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Recorder is the host-side collaborator: it receives the same call/return
// notifications the engine would and captures them as a trace, resolving
// names on first sighting just like a live session.
type Recorder struct {
	tw    *Writer
	start time.Time
	now   func() time.Time
}

// NewRecorder returns a Recorder writing a trace to w. The session clock
// starts at the first recorded event.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{tw: NewWriter(w), now: time.Now}
}

func (r *Recorder) elapsed() int64 {
	now := r.now()
	if r.start.IsZero() {
		r.start = now
	}
	return now.Sub(r.start).Nanoseconds()
}

// OnCall records entry into id at the given stack depth. resolve is invoked
// only for identities not seen before.
func (r *Recorder) OnCall(id profiler.FuncID, depth int, resolve profiler.NameResolver) error {
	ts := r.elapsed()
	if !r.tw.declared[id] {
		var name *profiler.FuncName
		if resolve != nil {
			name = resolve()
		}
		if err := r.tw.Declare(id, name); err != nil {
			return err
		}
	}
	return r.tw.Call(id, depth, ts)
}

// OnReturn records a return at the given stack depth.
func (r *Recorder) OnReturn(depth int) error {
	return r.tw.Return(depth, r.elapsed())
}

// Close finishes the trace with the session end timestamp.
func (r *Recorder) Close() error {
	return r.tw.End(r.elapsed())
}
