package tracefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lprofile/internal/profiler"
)

const header = "lprofile trace 1"

// Load reads and parses a trace file from disk.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a trace from r, validating that every event references a
// declared function and that the directives are well-formed.
func Parse(r io.Reader) (*Trace, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read trace header: %w", err)
		}
		return nil, fmt.Errorf("empty trace file")
	}
	if got := strings.TrimSpace(scanner.Text()); got != header {
		return nil, fmt.Errorf("unsupported trace header %q", got)
	}

	trace := &Trace{Funcs: make(map[profiler.FuncID]profiler.FuncName)}
	declared := make(map[profiler.FuncID]bool)
	sawEnd := false

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if sawEnd {
			return nil, fmt.Errorf("line %d: data after end directive", lineNo)
		}

		fields := splitFields(line)
		if len(fields) == 0 {
			return nil, fmt.Errorf("line %d: empty directive", lineNo)
		}
		switch fields[0] {
		case "func":
			id, name, err := parseFunc(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if declared[id] {
				return nil, fmt.Errorf("line %d: function %d declared twice", lineNo, id)
			}
			declared[id] = true
			if name != nil {
				trace.Funcs[id] = *name
			}
		case "call":
			ev, err := parseCall(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if !declared[ev.Func] {
				return nil, fmt.Errorf("line %d: call references undeclared function %d", lineNo, ev.Func)
			}
			trace.Events = append(trace.Events, ev)
			trace.EndNS = ev.TimeNS
		case "return":
			ev, err := parseReturn(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			trace.Events = append(trace.Events, ev)
			trace.EndNS = ev.TimeNS
		case "end":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: malformed end directive", lineNo)
			}
			ts, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid end timestamp: %w", lineNo, err)
			}
			trace.EndNS = ts
			sawEnd = true
		default:
			return nil, fmt.Errorf("line %d: unknown directive %q", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return trace, nil
}

// parseFunc handles "func <id> <domain> <kind|-> <name|-> <line> <source>".
// A declaration whose domain is "-" records a resolution miss: the identity
// exists but stays unnamed.
func parseFunc(fields []string) (profiler.FuncID, *profiler.FuncName, error) {
	if len(fields) != 7 {
		return 0, nil, fmt.Errorf("malformed func declaration (%d fields)", len(fields))
	}

	rawID, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid function id %q: %w", fields[1], err)
	}
	id := profiler.FuncID(rawID)

	if fields[2] == "-" {
		// A miss carries no name data; the remaining fields must be the
		// canonical placeholders.
		if fields[3] != "-" || fields[4] != "-" || fields[5] != "0" || fields[6] != "-" {
			return 0, nil, fmt.Errorf("malformed resolution-miss declaration for function %d", id)
		}
		return id, nil, nil
	}
	domain, err := parseDomain(fields[2])
	if err != nil {
		return 0, nil, err
	}

	line, err := strconv.Atoi(fields[5])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid line number %q: %w", fields[5], err)
	}

	name := &profiler.FuncName{
		Kind:   optional(fields[3]),
		Name:   optional(fields[4]),
		Line:   line,
		Source: fields[6],
		Domain: domain,
	}
	return id, name, nil
}

func parseCall(fields []string) (Event, error) {
	if len(fields) != 4 {
		return Event{}, fmt.Errorf("malformed call event (%d fields)", len(fields))
	}
	rawID, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("invalid function id %q: %w", fields[1], err)
	}
	depth, ts, err := parseDepthTime(fields[2], fields[3])
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: EventCall, Func: profiler.FuncID(rawID), Depth: depth, TimeNS: ts}, nil
}

func parseReturn(fields []string) (Event, error) {
	if len(fields) != 3 {
		return Event{}, fmt.Errorf("malformed return event (%d fields)", len(fields))
	}
	depth, ts, err := parseDepthTime(fields[1], fields[2])
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: EventReturn, Depth: depth, TimeNS: ts}, nil
}

func parseDepthTime(rawDepth, rawTime string) (int, int64, error) {
	depth, err := strconv.Atoi(rawDepth)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid depth %q: %w", rawDepth, err)
	}
	if depth < 1 {
		return 0, 0, fmt.Errorf("depth %d out of range", depth)
	}
	ts, err := strconv.ParseInt(rawTime, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid timestamp %q: %w", rawTime, err)
	}
	if ts < 0 {
		return 0, 0, fmt.Errorf("negative timestamp %d", ts)
	}
	return depth, ts, nil
}

func parseDomain(s string) (profiler.Domain, error) {
	switch s {
	case "main":
		return profiler.DomainChunk, nil
	case "script":
		return profiler.DomainScript, nil
	case "native":
		return profiler.DomainNative, nil
	default:
		return 0, fmt.Errorf("unknown domain %q", s)
	}
}

func optional(s string) string {
	if s == "-" {
		return ""
	}
	return s
}

// splitFields splits on spaces while keeping double-quoted fields, such as
// source descriptors with spaces in them, intact.
func splitFields(line string) []string {
	var fields []string
	inQuote := false
	current := strings.Builder{}
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				fields = append(fields, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		fields = append(fields, current.String())
	}
	return fields
}
