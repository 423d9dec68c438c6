package analyzer

import (
	"fmt"
	"sort"

	"lprofile/internal/profiler"
)

// Issue is a heuristic finding about a profiling result.
type Issue struct {
	Severity    string // "Critical", "High", "Medium", "Low"
	Category    string // e.g. "Self-Time Hotspot", "Hot Call Site"
	Description string
	Function    string
	Impact      float64 // % of session time or of total calls
}

// DetectIssues runs heuristics over a result to point at likely problems.
// It is a starting point for analysis, not a verdict.
func DetectIssues(res *profiler.Result) []Issue {
	issues := []Issue{}
	stats := ComputeStatistics(res)

	// Functions dominating self time.
	for _, hs := range FindHotspots(res, 10) {
		switch {
		case hs.Percentage > 20.0:
			issues = append(issues, Issue{
				Severity:    "Critical",
				Category:    "Self-Time Hotspot",
				Description: fmt.Sprintf("Function spends %.2f%% of the session in its own code", hs.Percentage),
				Function:    hs.Name,
				Impact:      hs.Percentage,
			})
		case hs.Percentage > 10.0:
			issues = append(issues, Issue{
				Severity:    "High",
				Category:    "Self-Time Hotspot",
				Description: fmt.Sprintf("Function spends %.2f%% of the session in its own code", hs.Percentage),
				Function:    hs.Name,
				Impact:      hs.Percentage,
			})
		}
	}

	// Functions called far more often than everything else: likely a hot
	// loop body or a missing cache.
	if stats.TotalCalls > 0 {
		for _, hs := range FindHotspots(res, 0) {
			share := (float64(hs.Calls) / float64(stats.TotalCalls)) * 100.0
			if hs.Calls >= 1000 && share > 50.0 {
				issues = append(issues, Issue{
					Severity:    "Medium",
					Category:    "Hot Call Site",
					Description: fmt.Sprintf("Function accounts for %.2f%% of all calls (%d invocations)", share, hs.Calls),
					Function:    hs.Name,
					Impact:      share,
				})
			}
		}
	}

	// Mostly-unresolved names make every other report hard to read.
	if stats.UniqueFunctions > 0 {
		unnamed := stats.UniqueFunctions - stats.NamedFunctions
		share := (float64(unnamed) / float64(stats.UniqueFunctions)) * 100.0
		if share > 50.0 {
			issues = append(issues, Issue{
				Severity:    "Low",
				Category:    "Unresolved Names",
				Description: fmt.Sprintf("%d of %d functions have no resolved name; reports will be hard to attribute", unnamed, stats.UniqueFunctions),
				Impact:      share,
			})
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Impact > issues[j].Impact
	})

	return issues
}
