package tracefile

import (
	"time"

	"lprofile/internal/profiler"
)

// Replay drives a fresh engine over the recorded events, stepping the
// engine's clock along the recorded timestamps, and returns the finished
// result. Orphaned returns present in the capture are reconciled by the
// engine exactly as they would have been live.
func (t *Trace) Replay() (*profiler.Result, error) {
	base := time.Unix(0, 0)
	current := base
	eng := profiler.New(profiler.WithClock(func() time.Time { return current }))

	return eng.Profile(func() error {
		for _, ev := range t.Events {
			current = base.Add(time.Duration(ev.TimeNS))
			switch ev.Kind {
			case EventCall:
				eng.OnCall(ev.Func, ev.Depth, t.resolver(ev.Func))
			case EventReturn:
				eng.OnReturn(ev.Depth)
			}
		}
		current = base.Add(time.Duration(t.EndNS))
		return nil
	})
}

// resolver hands the engine the recorded name binding for id, or a miss
// when resolution failed at record time.
func (t *Trace) resolver(id profiler.FuncID) profiler.NameResolver {
	name, ok := t.Funcs[id]
	if !ok {
		return nil
	}
	return func() *profiler.FuncName {
		n := name
		return &n
	}
}
