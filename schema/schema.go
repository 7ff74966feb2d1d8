// Package schema has configs, models and shared constants for all parts of bfskpi.
package schema

import "time"

// SentinelAnchor is substituted for a repository with no observed activity.
// Its windows land far in the future, so every query returns zero rows and
// the repository contributes nothing material to peer averages.
var SentinelAnchor = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

// Window is one quarter of a repository's activity timeline. Start is
// inclusive, End is exclusive. Index is 1-based and sequential.
type Window struct {
	Index int
	Start time.Time
	End   time.Time
}

// Repository is a tracked source repository and its resolved anchor date.
// Anchor is the earliest observed activity across all event kinds, resolved
// once at pipeline start.
type Repository struct {
	Name   string
	Anchor time.Time
}

// HasActivity reports whether the repository produced any observable events.
func (r Repository) HasActivity() bool {
	return !r.Anchor.Equal(SentinelAnchor)
}

// RawMetricsRecord holds the eleven raw event counts for one
// (repository, window) pair, plus the literal text of every query that
// produced them. Immutable once collected.
type RawMetricsRecord struct {
	Repo   string
	Window Window

	Merges         int
	ClosedIssues   int
	ClosedPRs      int
	Forks          int
	Stars          int
	NewIssues      int
	IssueComments  int
	PRComments     int
	IssueReactions int
	PRReactions    int
	NewPulls       int

	// Queries maps each metric to the exact SQL issued for it, with all
	// parameter values substituted in literal form for manual reproduction.
	Queries map[Metric]string
}

// Value returns the raw count for the given metric.
func (r *RawMetricsRecord) Value(m Metric) int {
	switch m {
	case MetricMerges:
		return r.Merges
	case MetricClosedIssues:
		return r.ClosedIssues
	case MetricClosedPRs:
		return r.ClosedPRs
	case MetricForks:
		return r.Forks
	case MetricStars:
		return r.Stars
	case MetricNewIssues:
		return r.NewIssues
	case MetricIssueComments:
		return r.IssueComments
	case MetricPRComments:
		return r.PRComments
	case MetricIssueReactions:
		return r.IssueReactions
	case MetricPRReactions:
		return r.PRReactions
	case MetricNewPulls:
		return r.NewPulls
	default:
		return 0
	}
}

// AggregateRecord holds the scaled raw values and the four composite
// scores for one (repository, window) pair. Derived deterministically from
// a RawMetricsRecord and the active weights; recomputed if weights change.
type AggregateRecord struct {
	Repo   string
	Window Window

	Merges         float64
	ClosedIssues   float64
	ClosedPRs      float64
	Forks          float64
	Stars          float64
	NewIssues      float64
	IssueComments  float64
	PRComments     float64
	IssueReactions float64
	PRReactions    float64
	NewPulls       float64

	Velocity float64
	UIG      float64
	MAC      float64
	SEI      float64
}

// Value returns the aggregate value for a variable name, raw or composite.
func (a *AggregateRecord) Value(variable string) float64 {
	switch variable {
	case string(MetricMerges):
		return a.Merges
	case string(MetricClosedIssues):
		return a.ClosedIssues
	case string(MetricClosedPRs):
		return a.ClosedPRs
	case string(MetricForks):
		return a.Forks
	case string(MetricStars):
		return a.Stars
	case string(MetricNewIssues):
		return a.NewIssues
	case string(MetricIssueComments):
		return a.IssueComments
	case string(MetricPRComments):
		return a.PRComments
	case string(MetricIssueReactions):
		return a.IssueReactions
	case string(MetricPRReactions):
		return a.PRReactions
	case string(MetricNewPulls):
		return a.NewPulls
	case string(CompositeVelocity):
		return a.Velocity
	case string(CompositeUIG):
		return a.UIG
	case string(CompositeMAC):
		return a.MAC
	case string(CompositeSEI):
		return a.SEI
	default:
		return 0
	}
}

// RatioRecord holds a repository's value for one (window index, variable)
// pair relative to the cross-repository average for that same pair.
type RatioRecord struct {
	Repo        string
	WindowIndex int
	Variable    string
	Ratio       float64
}

// ScaleFactors maps repository name to a per-metric scaling factor. A
// missing entry means 1.0 (no scaling).
type ScaleFactors map[string]map[Metric]float64

// Factor returns the scaling factor for a repo/metric pair, defaulting to 1.0.
func (s ScaleFactors) Factor(repo string, m Metric) float64 {
	if s == nil {
		return 1.0
	}
	repoFactors, ok := s[repo]
	if !ok {
		return 1.0
	}
	f, ok := repoFactors[m]
	if !ok {
		return 1.0
	}
	return f
}
