package analyzer

import (
	"math"
	"strings"
	"testing"
	"time"

	"lprofile/internal/profiler"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// buildResult replays a small session: f runs for 10ms total, spending 6ms
// in its own code, 3ms in g and 1ms in an unresolved function.
func buildResult(t *testing.T) *profiler.Result {
	t.Helper()

	now := time.Unix(0, 0)
	eng := profiler.New(profiler.WithClock(func() time.Time { return now }))
	if err := eng.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	named := func(name string) profiler.NameResolver {
		return func() *profiler.FuncName {
			return &profiler.FuncName{Name: name, Kind: "global", Source: "demo.lua", Line: 1, Domain: profiler.DomainScript}
		}
	}

	eng.OnCall(1, 1, named("f"))
	now = now.Add(3 * time.Millisecond)
	eng.OnCall(2, 2, named("g"))
	now = now.Add(3 * time.Millisecond)
	eng.OnReturn(2)
	eng.OnCall(3, 2, nil)
	now = now.Add(1 * time.Millisecond)
	eng.OnReturn(2)
	now = now.Add(3 * time.Millisecond)
	eng.OnReturn(1)

	return eng.End()
}

func TestFindHotspotsOrdersBySelfTime(t *testing.T) {
	res := buildResult(t)

	hotspots := FindHotspots(res, 0)
	if len(hotspots) != 3 {
		t.Fatalf("want 3 hotspots, got %d", len(hotspots))
	}
	if hotspots[0].Name != "global script function f (demo.lua:1)" {
		t.Fatalf("top hotspot: got %q", hotspots[0].Name)
	}
	if want := 0.006; hotspots[0].SelfTime != want {
		t.Fatalf("top self time: want %v, got %v", want, hotspots[0].SelfTime)
	}
	if want := 60.0; !approx(hotspots[0].Percentage, want) {
		t.Fatalf("top percentage: want %v, got %v", want, hotspots[0].Percentage)
	}
	if hotspots[2].Name != "" {
		t.Fatalf("unresolved entry should keep an empty name, got %q", hotspots[2].Name)
	}

	top2 := FindHotspots(res, 2)
	if len(top2) != 2 {
		t.Fatalf("topN trim: want 2, got %d", len(top2))
	}
}

func TestFindTotalTimeRanking(t *testing.T) {
	res := buildResult(t)

	ranking := FindTotalTimeRanking(res, 0)
	if want := 0.010; ranking[0].TotalTime != want {
		t.Fatalf("top total time: want %v, got %v", want, ranking[0].TotalTime)
	}
	if want := 100.0; !approx(ranking[0].Percentage, want) {
		t.Fatalf("top percentage: want %v, got %v", want, ranking[0].Percentage)
	}
}

func TestComputeStatistics(t *testing.T) {
	res := buildResult(t)

	stats := ComputeStatistics(res)
	if stats.UniqueFunctions != 3 {
		t.Fatalf("unique functions: want 3, got %d", stats.UniqueFunctions)
	}
	if stats.NamedFunctions != 2 {
		t.Fatalf("named functions: want 2, got %d", stats.NamedFunctions)
	}
	if stats.TotalCalls != 3 {
		t.Fatalf("total calls: want 3, got %d", stats.TotalCalls)
	}
	if want := 0.010; stats.SessionTime != want {
		t.Fatalf("session time: want %v, got %v", want, stats.SessionTime)
	}
	// Every moment of this session belongs to exactly one function.
	if want := 100.0; !approx(stats.SelfCoverage, want) {
		t.Fatalf("self coverage: want %v, got %v", want, stats.SelfCoverage)
	}
	if stats.BusiestFunction != "global script function f (demo.lua:1)" {
		t.Fatalf("busiest: got %q", stats.BusiestFunction)
	}
	// f and g are script functions; the unresolved call has no domain.
	if stats.ScriptCalls != 2 || stats.ChunkCalls != 0 || stats.NativeCalls != 0 {
		t.Fatalf("domain calls: want script=2 main=0 native=0, got script=%d main=%d native=%d",
			stats.ScriptCalls, stats.ChunkCalls, stats.NativeCalls)
	}
}

func TestRankOf(t *testing.T) {
	hotspots := FindHotspots(buildResult(t), 0)

	if got := RankOf(hotspots, "global script function g (demo.lua:1)"); got != 2 {
		t.Fatalf("rank of g: want 2, got %d", got)
	}
	if got := RankOf(hotspots, "no such function"); got != 0 {
		t.Fatalf("rank of missing name: want 0, got %d", got)
	}
}

func TestDetectIssues(t *testing.T) {
	res := buildResult(t)

	issues := DetectIssues(res)
	if len(issues) == 0 {
		t.Fatalf("want at least one issue")
	}
	if issues[0].Severity != "Critical" || issues[0].Category != "Self-Time Hotspot" {
		t.Fatalf("top issue: got %s/%s", issues[0].Severity, issues[0].Category)
	}
}

func TestFormatHotspotLabelsUnresolved(t *testing.T) {
	out := FormatHotspot(Hotspot{Calls: 4, SelfTime: 0.001, TotalTime: 0.002}, 1)
	if !strings.Contains(out, "(unresolved)") {
		t.Fatalf("want unresolved label, got:\n%s", out)
	}
}
