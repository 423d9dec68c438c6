package analyzer

import (
	"fmt"
	"strings"
)

// FormatHotspot renders one ranked entry as a text block for tool output.
func FormatHotspot(hs Hotspot, rank int) string {
	var sb strings.Builder

	name := hs.Name
	if name == "" {
		name = "(unresolved)"
	}

	sb.WriteString(fmt.Sprintf("#%d: %s\n", rank, name))
	sb.WriteString(fmt.Sprintf("    Self: %.6f seconds (%.2f%%)\n", hs.SelfTime, hs.Percentage))
	sb.WriteString(fmt.Sprintf("    Total: %.6f seconds\n", hs.TotalTime))
	sb.WriteString(fmt.Sprintf("    Calls: %d\n", hs.Calls))
	return sb.String()
}

// FormatStatistics renders session statistics as a text block.
func FormatStatistics(stats Statistics) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Session Time: %.6f seconds\n", stats.SessionTime))
	sb.WriteString(fmt.Sprintf("Distinct Functions: %d (%d named)\n", stats.UniqueFunctions, stats.NamedFunctions))
	sb.WriteString(fmt.Sprintf("Total Calls: %d\n", stats.TotalCalls))
	sb.WriteString(fmt.Sprintf("Calls By Domain: main=%d script=%d native=%d\n", stats.ChunkCalls, stats.ScriptCalls, stats.NativeCalls))
	sb.WriteString(fmt.Sprintf("Self-Time Coverage: %.2f%%\n", stats.SelfCoverage))
	if stats.BusiestFunction != "" {
		sb.WriteString(fmt.Sprintf("Busiest Function: %s\n", stats.BusiestFunction))
	}
	if stats.MostCalled != "" {
		sb.WriteString(fmt.Sprintf("Most Called: %s (%d calls)\n", stats.MostCalled, stats.BusiestCalls))
	}
	return sb.String()
}
