package kpistore

import (
	"fmt"

	"github.com/huangsam/bfskpi/schema"
)

// metricQuery describes how one raw metric is counted: the event table, its
// timestamp column, and any extra predicate beyond the repo + range scope.
type metricQuery struct {
	table   string
	dateCol string
	extra   string
}

// Reaction-style comments carry a literal +1 or -1 in the body; everything
// else counts as an ordinary comment. The merged/closed predicates match an
// event-type field inside the semi-structured payload column, the same way
// the mining layer stores GitHub event JSON.
const (
	predMerged   = ` AND payload LIKE '%"event": "merged"%'`
	predClosed   = ` AND payload LIKE '%"event": "closed"%'`
	predComment  = ` AND body NOT LIKE '%+1%' AND body NOT LIKE '%-1%'`
	predReaction = ` AND (body LIKE '%+1%' OR body LIKE '%-1%')`
)

// metricQueries binds each of the eleven raw metrics to its count query.
var metricQueries = map[schema.Metric]metricQuery{
	schema.MetricMerges:         {table: "pull_events", dateCol: "created_at", extra: predMerged},
	schema.MetricClosedIssues:   {table: "issue_events", dateCol: "created_at", extra: predClosed},
	schema.MetricClosedPRs:      {table: "pull_events", dateCol: "created_at", extra: predClosed},
	schema.MetricForks:          {table: "forks", dateCol: "created_at"},
	schema.MetricStars:          {table: "stars", dateCol: "starred_at"},
	schema.MetricNewIssues:      {table: "issues", dateCol: "created_at"},
	schema.MetricIssueComments:  {table: "issue_comments", dateCol: "created_at", extra: predComment},
	schema.MetricPRComments:     {table: "pull_comments", dateCol: "created_at", extra: predComment},
	schema.MetricIssueReactions: {table: "issue_comments", dateCol: "created_at", extra: predReaction},
	schema.MetricPRReactions:    {table: "pull_comments", dateCol: "created_at", extra: predReaction},
	schema.MetricNewPulls:       {table: "pulls", dateCol: "created_at"},
}

// buildCountQuery returns the parameterized count query for a metric. The
// range predicate is always half-open: [start, end). Args are repo, start,
// end in that order.
func buildCountQuery(m schema.Metric) (string, error) {
	mq, ok := metricQueries[m]
	if !ok {
		return "", fmt.Errorf("unknown metric: %s", m)
	}
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE repo_name = ? AND %s >= ? AND %s < ?%s",
		mq.table, mq.dateCol, mq.dateCol, mq.extra,
	), nil
}

// anchorQueries are the MIN-date lookups used to resolve a repository's
// anchor date, one per tracked event kind.
var anchorQueries = []string{
	"SELECT MIN(created_at) FROM issues WHERE repo_name = ?",
	"SELECT MIN(created_at) FROM pulls WHERE repo_name = ?",
	"SELECT MIN(created_at) FROM forks WHERE repo_name = ?",
	"SELECT MIN(starred_at) FROM stars WHERE repo_name = ?",
}
