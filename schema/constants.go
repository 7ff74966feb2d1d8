package schema

// Custom string types for type safety.
type (
	// Metric represents one of the raw event counters tracked per window.
	Metric string

	// Composite represents a derived index built from weighted raw metrics.
	Composite string

	// DatabaseBackend represents the database backend for the event store.
	DatabaseBackend string
)

// Raw metrics counted per (repository, window) pair.
const (
	MetricMerges         Metric = "merges"
	MetricClosedIssues   Metric = "closed_issues"
	MetricClosedPRs      Metric = "closed_prs"
	MetricForks          Metric = "forks"
	MetricStars          Metric = "stars"
	MetricNewIssues      Metric = "new_issues"
	MetricIssueComments  Metric = "issue_comments"
	MetricPRComments     Metric = "pr_comments"
	MetricIssueReactions Metric = "issue_reactions"
	MetricPRReactions    Metric = "pr_reactions"
	MetricNewPulls       Metric = "new_pulls"
)

// Composite indices derived from the raw metrics.
const (
	CompositeVelocity Composite = "velocity"
	CompositeUIG      Composite = "uig"
	CompositeMAC      Composite = "mac"
	CompositeSEI      Composite = "sei"
)

// All event store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql" // default
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// AllMetrics returns every raw metric in canonical (tabular) order.
var AllMetrics = []Metric{
	MetricMerges,
	MetricClosedIssues,
	MetricClosedPRs,
	MetricForks,
	MetricStars,
	MetricNewIssues,
	MetricIssueComments,
	MetricPRComments,
	MetricIssueReactions,
	MetricPRReactions,
	MetricNewPulls,
}

// AllComposites returns every composite index in canonical order.
var AllComposites = []Composite{
	CompositeVelocity,
	CompositeUIG,
	CompositeMAC,
	CompositeSEI,
}

// ValidBackends lists all valid event store backends.
var ValidBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// Variables returns the names of all tracked variables, raw metrics first
// and composites after, in canonical order. Ratio computation and chart
// emission both iterate this list.
func Variables() []string {
	out := make([]string, 0, len(AllMetrics)+len(AllComposites))
	for _, m := range AllMetrics {
		out = append(out, string(m))
	}
	for _, c := range AllComposites {
		out = append(out, string(c))
	}
	return out
}
