// Package analyzer ranks and summarizes profiling results.
package analyzer

import (
	"sort"

	"lprofile/internal/profiler"
)

// Hotspot is one ranked function from a profiling result.
type Hotspot struct {
	Name       string  // rendered name, empty if resolution missed
	Calls      int     // invocation count
	TotalTime  float64 // seconds, including callees
	SelfTime   float64 // seconds, excluding callees
	Percentage float64 // share of session time for the ranking metric
}

// FindHotspots returns the functions consuming the most self time, the
// usual answer to "where did the time actually go". Results are sorted by
// self time descending and trimmed to topN (0 keeps everything).
func FindHotspots(res *profiler.Result, topN int) []Hotspot {
	return ranked(res, topN, func(h Hotspot) float64 { return h.SelfTime })
}

// FindTotalTimeRanking returns the functions with the largest total time,
// callees included. Useful for spotting expensive entry points whose cost
// hides in what they call.
func FindTotalTimeRanking(res *profiler.Result, topN int) []Hotspot {
	return ranked(res, topN, func(h Hotspot) float64 { return h.TotalTime })
}

// RankOf returns the 1-based position of the named function in a ranking,
// or 0 when no entry renders to that name.
func RankOf(hotspots []Hotspot, name string) int {
	for i, hs := range hotspots {
		if hs.Name == name {
			return i + 1
		}
	}
	return 0
}

func ranked(res *profiler.Result, topN int, metric func(Hotspot) float64) []Hotspot {
	sessionTime := res.TotalTime().Seconds()

	hotspots := make([]Hotspot, 0, res.Len())
	for _, row := range res.Rows() {
		hs := Hotspot{
			Name:      row.Name,
			Calls:     row.Calls,
			TotalTime: row.TotalTime,
			SelfTime:  row.TotalSelfTime,
		}
		if sessionTime > 0 {
			hs.Percentage = (metric(hs) / sessionTime) * 100.0
		}
		hotspots = append(hotspots, hs)
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		return metric(hotspots[i]) > metric(hotspots[j])
	})

	if topN > 0 && topN < len(hotspots) {
		return hotspots[:topN]
	}
	return hotspots
}
