// Package contract provides interfaces and shared configuration for the
// bfskpi internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/bfskpi/schema"
)

// EventStore is the read-only query surface over the relational store that
// holds raw repository events. Implementations must never write.
type EventStore interface {
	// AnchorDate returns the earliest observed activity timestamp for the
	// repository across all tracked event kinds. found is false when the
	// repository has no recorded activity at all.
	AnchorDate(ctx context.Context, repo string) (anchor time.Time, found bool, err error)

	// Collect counts the eleven raw metrics for one (repository, window)
	// pair. Either every count succeeds and a complete record is returned,
	// or an error is returned and no partial record is accepted.
	Collect(ctx context.Context, repo string, window schema.Window) (*schema.RawMetricsRecord, error)

	// CountRange counts a single metric over an arbitrary [start, end)
	// range. Used by scale factor computation.
	CountRange(ctx context.Context, repo string, metric schema.Metric, start, end time.Time) (int, error)

	Close() error
}
