// Package pprofconv converts profiling results to pprof format so they can
// be inspected with the standard pprof toolchain.
package pprofconv

import (
	"fmt"
	"os"
	"time"

	"github.com/google/pprof/profile"

	"lprofile/internal/profiler"
)

// Convert builds a flat profile from a result: one sample per distinct
// function, carrying its call count, self time and total time. The result
// table has no stack context left, so samples are single-location.
func Convert(res *profiler.Result) *profile.Profile {
	prof := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "calls", Unit: "count"},
			{Type: "self", Unit: "nanoseconds"},
			{Type: "total", Unit: "nanoseconds"},
		},
		TimeNanos:     time.Now().UnixNano(),
		DurationNanos: res.TotalTime().Nanoseconds(),
		PeriodType: &profile.ValueType{
			Type: "wall",
			Unit: "nanoseconds",
		},
		Period: 1,
	}

	nextID := uint64(1)
	for _, ent := range res.Entries() {
		name := ent.RenderedName()
		if name == "" {
			name = "(unresolved)"
		}

		fn := &profile.Function{
			ID:         nextID,
			Name:       name,
			SystemName: name,
		}
		if ent.Name != nil {
			fn.Filename = ent.Name.Source
			fn.StartLine = int64(ent.Name.Line)
		}

		loc := &profile.Location{
			ID: nextID,
			Line: []profile.Line{
				{
					Function: fn,
					Line:     fn.StartLine,
				},
			},
		}
		nextID++

		prof.Function = append(prof.Function, fn)
		prof.Location = append(prof.Location, loc)
		prof.Sample = append(prof.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value: []int64{
				int64(ent.Calls),
				ent.SelfTime.Nanoseconds(),
				ent.TotalTime.Nanoseconds(),
			},
		})
	}

	return prof
}

// WriteFile validates the converted profile and writes it, gzip-compressed,
// to path.
func WriteFile(path string, res *profiler.Result) error {
	prof := Convert(res)
	if err := prof.CheckValid(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating profile file: %w", err)
	}
	if err := prof.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing profile: %w", err)
	}
	return f.Close()
}
