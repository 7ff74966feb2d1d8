// Package core holds the window generation, aggregation, ratio and pipeline
// logic for bfskpi.
package core

import (
	"time"

	"github.com/huangsam/bfskpi/schema"
)

// DefaultWindowDuration is the fixed quarter length. Windows step by this
// exact duration rather than calendar months, so boundaries stay identical
// across years.
const DefaultWindowDuration = 90 * 24 * time.Hour

// GenerateWindows produces count contiguous windows of the given duration,
// the first starting exactly at anchor. Window[i].End == Window[i+1].Start
// and every window is half-open [Start, End). Indexes are 1-based.
func GenerateWindows(anchor time.Time, count int, duration time.Duration) []schema.Window {
	windows := make([]schema.Window, 0, max(count, 0))
	current := anchor
	for i := 1; i <= count; i++ {
		next := current.Add(duration)
		windows = append(windows, schema.Window{Index: i, Start: current, End: next})
		current = next
	}
	return windows
}
