package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"lprofile/internal/analyzer"
	"lprofile/internal/pprofconv"
	"lprofile/internal/profiler"
	"lprofile/internal/tracefile"
)

// loadedTrace is one replayed capture held in the cache.
type loadedTrace struct {
	SessionID uuid.UUID
	Result    *profiler.Result
	Events    int
}

// Trace cache, keyed by file path.
var traceCache = make(map[string]*loadedTrace)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML config file")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	// Create MCP server
	s := server.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		server.WithLogging(),
	)

	// Tool 1: Load Trace
	loadTraceTool := mcp.NewTool("load_trace",
		mcp.WithDescription("Load an lprofile trace file and replay it through the profiler engine for analysis"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Absolute path to the trace file"),
		),
	)

	s.AddTool(loadTraceTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		trace, err := tracefile.Load(filePath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load trace: %v", err)), nil
		}
		res, err := trace.Replay()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to replay trace: %v", err)), nil
		}

		loaded := &loadedTrace{
			SessionID: uuid.New(),
			Result:    res,
			Events:    len(trace.Events),
		}
		traceCache[filePath] = loaded
		log.Info().
			Str("path", filePath).
			Str("session", loaded.SessionID.String()).
			Int("events", loaded.Events).
			Msg("trace replayed")

		result := fmt.Sprintf(`Trace replayed successfully!

File: %s
Session: %s
Session Time: %.6f seconds
Events: %d
Functions: %d

Use other tools to analyze this trace.
`,
			filePath,
			loaded.SessionID,
			res.TotalTime().Seconds(),
			loaded.Events,
			res.Len(),
		)

		return mcp.NewToolResultText(result), nil
	})

	// Tool 2: Find Hotspots
	findHotspotsTool := mcp.NewTool("find_hotspots",
		mcp.WithDescription("Rank functions by time consumed. The self-time ranking answers where the time actually went; the total-time ranking surfaces expensive entry points."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the loaded trace file"),
		),
		mcp.WithNumber("top_n",
			mcp.Description("Number of top functions to return"),
		),
		mcp.WithString("by",
			mcp.Description("Ranking metric: \"self\" (default) or \"total\""),
		),
	)

	s.AddTool(findHotspotsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		topN := cfg.DefaultTopN
		if n := request.GetFloat("top_n", float64(cfg.DefaultTopN)); int(n) > 0 {
			topN = int(n)
		}

		loaded, ok := traceCache[filePath]
		if !ok {
			return mcp.NewToolResultError("Trace not loaded. Use load_trace tool first"), nil
		}

		by := request.GetString("by", "self")
		var hotspots []analyzer.Hotspot
		var title string
		switch by {
		case "self":
			hotspots = analyzer.FindHotspots(loaded.Result, topN)
			title = "🔥 TOP FUNCTIONS BY SELF TIME\n"
		case "total":
			hotspots = analyzer.FindTotalTimeRanking(loaded.Result, topN)
			title = "⏱️  TOP FUNCTIONS BY TOTAL TIME\n"
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Unknown ranking metric %q (want self or total)", by)), nil
		}

		var sb strings.Builder
		sb.WriteString(title)
		sb.WriteString("═══════════════════════════════════════════════════\n\n")

		if len(hotspots) == 0 {
			sb.WriteString("No functions observed.\n")
		} else {
			for i, hs := range hotspots {
				sb.WriteString(analyzer.FormatHotspot(hs, i+1))
				sb.WriteString("\n")
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	})

	// Tool 3: Get Statistics
	getStatisticsTool := mcp.NewTool("get_statistics",
		mcp.WithDescription("Get summary statistics for a replayed trace: session time, call counts, name resolution coverage."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the loaded trace file"),
		),
	)

	s.AddTool(getStatisticsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		loaded, ok := traceCache[filePath]
		if !ok {
			return mcp.NewToolResultError("Trace not loaded. Use load_trace tool first"), nil
		}

		stats := analyzer.ComputeStatistics(loaded.Result)

		var sb strings.Builder
		sb.WriteString("📊 SESSION STATISTICS\n")
		sb.WriteString("═══════════════════════════════════════════════════\n\n")
		sb.WriteString(analyzer.FormatStatistics(stats))

		return mcp.NewToolResultText(sb.String()), nil
	})

	// Tool 4: Detect Issues
	detectIssuesTool := mcp.NewTool("detect_issues",
		mcp.WithDescription("Run heuristics over a replayed trace to point at likely performance problems. A good starting point for analysis."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the loaded trace file"),
		),
	)

	s.AddTool(detectIssuesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		loaded, ok := traceCache[filePath]
		if !ok {
			return mcp.NewToolResultError("Trace not loaded. Use load_trace tool first"), nil
		}

		issues := analyzer.DetectIssues(loaded.Result)

		var sb strings.Builder
		sb.WriteString("⚠️  HEURISTIC ISSUE DETECTION\n")
		sb.WriteString("═══════════════════════════════════════════════════\n\n")

		if len(issues) == 0 {
			sb.WriteString("✅ No significant issues detected!\n")
		} else {
			for i, issue := range issues {
				sb.WriteString(fmt.Sprintf("%d. [%s/%s] %s\n", i+1, issue.Severity, issue.Category, issue.Description))
				if issue.Function != "" {
					sb.WriteString(fmt.Sprintf("   Function: %s\n", issue.Function))
				}
				if issue.Impact > 0 {
					sb.WriteString(fmt.Sprintf("   Impact: %.2f%%\n", issue.Impact))
				}
				sb.WriteString("\n")
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	})

	// Tool 5: View Function
	viewFunctionTool := mcp.NewTool("view_function",
		mcp.WithDescription("View one function from the self-time ranking in detail, selected by rank or by rendered name."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the loaded trace file"),
		),
		mcp.WithNumber("rank",
			mcp.Description("Position in the self-time ranking (1-based)"),
		),
		mcp.WithString("name",
			mcp.Description("Rendered function name, as shown by find_hotspots"),
		),
	)

	s.AddTool(viewFunctionTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		loaded, ok := traceCache[filePath]
		if !ok {
			return mcp.NewToolResultError("Trace not loaded. Use load_trace tool first"), nil
		}

		hotspots := analyzer.FindHotspots(loaded.Result, 0)
		rank := int(request.GetFloat("rank", 0))
		if name := request.GetString("name", ""); name != "" {
			rank = analyzer.RankOf(hotspots, name)
			if rank == 0 {
				return mcp.NewToolResultError(fmt.Sprintf("No function named %q in this trace", name)), nil
			}
		}
		if rank < 1 || rank > len(hotspots) {
			return mcp.NewToolResultError(fmt.Sprintf("Provide a name or a rank in range 1-%d", len(hotspots))), nil
		}

		hs := hotspots[rank-1]
		stats := analyzer.ComputeStatistics(loaded.Result)

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("🔎 FUNCTION #%d\n", rank))
		sb.WriteString("═══════════════════════════════════════════════════\n\n")
		sb.WriteString(analyzer.FormatHotspot(hs, rank))
		if hs.Calls > 0 {
			sb.WriteString(fmt.Sprintf("    Average Self Per Call: %.9f seconds\n", hs.SelfTime/float64(hs.Calls)))
		}
		if stats.TotalCalls > 0 {
			sb.WriteString(fmt.Sprintf("    Share of All Calls: %.2f%%\n", float64(hs.Calls)/float64(stats.TotalCalls)*100.0))
		}

		return mcp.NewToolResultText(sb.String()), nil
	})

	// Tool 6: Export pprof
	exportPprofTool := mcp.NewTool("export_pprof",
		mcp.WithDescription("Export a replayed trace as a gzip-compressed pprof profile for the pprof toolchain."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the loaded trace file"),
		),
		mcp.WithString("output_path",
			mcp.Required(),
			mcp.Description("Destination path for the pprof profile"),
		),
	)

	s.AddTool(exportPprofTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		outputPath, err := request.RequireString("output_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		loaded, ok := traceCache[filePath]
		if !ok {
			return mcp.NewToolResultError("Trace not loaded. Use load_trace tool first"), nil
		}

		if err := pprofconv.WriteFile(outputPath, loaded.Result); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to export profile: %v", err)), nil
		}
		log.Info().Str("path", outputPath).Msg("pprof profile written")

		return mcp.NewToolResultText(fmt.Sprintf("Profile written to %s (%d functions)", outputPath, loaded.Result.Len())), nil
	})

	// Start the server
	log.Info().Str("server", cfg.ServerName).Str("version", cfg.ServerVersion).Msg("serving on stdio")
	if err := server.ServeStdio(s); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
