package pprofconv

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/pprof/profile"

	"lprofile/internal/profiler"
)

func buildResult(t *testing.T) *profiler.Result {
	t.Helper()

	now := time.Unix(0, 0)
	eng := profiler.New(profiler.WithClock(func() time.Time { return now }))
	if err := eng.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	eng.OnCall(1, 1, func() *profiler.FuncName {
		return &profiler.FuncName{Name: "f", Kind: "global", Source: "demo.lua", Line: 2, Domain: profiler.DomainScript}
	})
	now = now.Add(2 * time.Millisecond)
	eng.OnCall(2, 2, nil)
	now = now.Add(3 * time.Millisecond)
	eng.OnReturn(2)
	eng.OnReturn(1)

	return eng.End()
}

func TestConvert(t *testing.T) {
	res := buildResult(t)
	prof := Convert(res)

	if err := prof.CheckValid(); err != nil {
		t.Fatalf("CheckValid: %v", err)
	}
	if len(prof.Sample) != 2 {
		t.Fatalf("samples: want 2, got %d", len(prof.Sample))
	}
	if prof.DurationNanos != res.TotalTime().Nanoseconds() {
		t.Fatalf("duration: want %d, got %d", res.TotalTime().Nanoseconds(), prof.DurationNanos)
	}

	f := prof.Sample[0]
	if got := f.Value; got[0] != 1 || got[1] != (2*time.Millisecond).Nanoseconds() || got[2] != (5*time.Millisecond).Nanoseconds() {
		t.Fatalf("f sample values: got %v", got)
	}
	if fn := f.Location[0].Line[0].Function; fn.Name != "global script function f (demo.lua:2)" || fn.Filename != "demo.lua" {
		t.Fatalf("f function record: %+v", fn)
	}

	unresolved := prof.Sample[1].Location[0].Line[0].Function
	if unresolved.Name != "(unresolved)" {
		t.Fatalf("unresolved name: got %q", unresolved.Name)
	}
}

func TestWriteFileRoundtrip(t *testing.T) {
	res := buildResult(t)

	path := filepath.Join(t.TempDir(), "out.pprof")
	if err := WriteFile(path, res); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	parsed, err := profile.Parse(f)
	if err != nil {
		t.Fatalf("parse written profile: %v", err)
	}
	if len(parsed.Sample) != 2 {
		t.Fatalf("parsed samples: want 2, got %d", len(parsed.Sample))
	}
	if parsed.SampleType[1].Type != "self" || parsed.SampleType[1].Unit != "nanoseconds" {
		t.Fatalf("sample type: %+v", parsed.SampleType[1])
	}
}
