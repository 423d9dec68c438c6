package analyzer

import (
	"lprofile/internal/profiler"
)

// Statistics contains comprehensive statistics about a profiling result.
type Statistics struct {
	SessionTime     float64 // seconds of wall time for the whole session
	UniqueFunctions int     // distinct functions observed
	NamedFunctions  int     // functions whose name resolution succeeded
	TotalCalls      int     // sum of invocation counts
	SelfCoverage    float64 // % of session time attributed to self time
	BusiestFunction string  // largest self-time consumer
	BusiestCalls    int     // invocation count of the most-called function
	MostCalled      string  // name of the most-called function

	// Per-domain call counts. Calls into functions whose name resolution
	// missed have no known domain and appear only in TotalCalls.
	ChunkCalls  int
	ScriptCalls int
	NativeCalls int
}

// ComputeStatistics calculates summary statistics for a profiling result.
func ComputeStatistics(res *profiler.Result) Statistics {
	stats := Statistics{
		SessionTime:     res.TotalTime().Seconds(),
		UniqueFunctions: res.Len(),
	}

	selfSum := 0.0
	busiestSelf := 0.0
	for _, row := range res.Rows() {
		stats.TotalCalls += row.Calls
		selfSum += row.TotalSelfTime
		if row.Name != "" {
			stats.NamedFunctions++
		}
		if row.TotalSelfTime > busiestSelf {
			busiestSelf = row.TotalSelfTime
			stats.BusiestFunction = row.Name
		}
		if row.Calls > stats.BusiestCalls {
			stats.BusiestCalls = row.Calls
			stats.MostCalled = row.Name
		}
	}

	for _, e := range res.Entries() {
		if e.Name == nil {
			continue
		}
		switch e.Name.Domain {
		case profiler.DomainChunk:
			stats.ChunkCalls += e.Calls
		case profiler.DomainScript:
			stats.ScriptCalls += e.Calls
		case profiler.DomainNative:
			stats.NativeCalls += e.Calls
		}
	}

	if stats.SessionTime > 0 {
		stats.SelfCoverage = (selfSum / stats.SessionTime) * 100.0
	}

	return stats
}
