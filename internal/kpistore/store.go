// Package kpistore is the read-only query layer over the relational store
// that holds raw repository events.
package kpistore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// Store executes count queries against the event store and records the
// literal form of every query it issues.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.EventStore = &Store{} // Compile-time check

// NewStore opens a connection for the given backend and verifies it with a
// ping. The store only ever reads; callers own provisioning.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	var driverName string
	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite3"
		if connStr == "" {
			connStr = "kpi_events.db"
		}
	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname?parseTime=true
		driverName = "mysql"
	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s event store: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s event store. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return &Store{db: db, backend: backend}, nil
}

// NewStoreFromDB wraps an existing connection. Used by tests and fixtures.
func NewStoreFromDB(db *sql.DB, backend schema.DatabaseBackend) *Store {
	return &Store{db: db, backend: backend}
}

// AnchorDate returns the earliest activity timestamp across issues, pulls,
// forks and stars. found is false when every table is empty for the repo.
func (s *Store) AnchorDate(ctx context.Context, repo string) (time.Time, bool, error) {
	var oldest time.Time
	var found bool
	for _, q := range anchorQueries {
		// MIN() strips the column decltype, so SQLite hands back a plain
		// string. Scan loosely and normalize afterwards.
		var raw any
		if err := s.db.QueryRowContext(ctx, s.rebind(q), repo).Scan(&raw); err != nil {
			return time.Time{}, false, fmt.Errorf("anchor query failed (%s): %w", renderLiteral(q, repo), err)
		}
		ts, ok, err := parseTimestamp(raw)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("anchor query returned bad timestamp (%s): %w", renderLiteral(q, repo), err)
		}
		if !ok {
			continue
		}
		if !found || ts.Before(oldest) {
			oldest = ts
			found = true
		}
	}
	return oldest, found, nil
}

// parseTimestamp normalizes a scanned MIN() value across backends. MySQL
// with parseTime and Postgres return time.Time; SQLite returns the stored
// string; an empty table returns nil.
func parseTimestamp(raw any) (time.Time, bool, error) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return v, true, nil
	case []byte:
		return parseTimestampString(string(v))
	case string:
		return parseTimestampString(v)
	default:
		return time.Time{}, false, fmt.Errorf("unexpected timestamp type %T", raw)
	}
}

func parseTimestampString(s string) (time.Time, bool, error) {
	for _, layout := range []string{contract.DateTimeFormat, time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unparseable timestamp %q", s)
}

// Collect counts all eleven raw metrics for one (repository, window) pair.
// Any failed query aborts the whole window; a partial record is never
// returned. A query that succeeds with zero rows is a valid zero count.
func (s *Store) Collect(ctx context.Context, repo string, window schema.Window) (*schema.RawMetricsRecord, error) {
	record := &schema.RawMetricsRecord{
		Repo:    repo,
		Window:  window,
		Queries: make(map[schema.Metric]string, len(schema.AllMetrics)),
	}

	for _, m := range schema.AllMetrics {
		count, literal, err := s.countMetric(ctx, repo, m, window.Start, window.End)
		if err != nil {
			return nil, err
		}
		record.Queries[m] = literal
		setRawValue(record, m, count)
	}
	return record, nil
}

// CountRange counts a single metric over an arbitrary [start, end) range.
func (s *Store) CountRange(ctx context.Context, repo string, metric schema.Metric, start, end time.Time) (int, error) {
	count, _, err := s.countMetric(ctx, repo, metric, start, end)
	return count, err
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// countMetric runs one count query and returns the count along with the
// fully substituted literal query text.
func (s *Store) countMetric(ctx context.Context, repo string, m schema.Metric, start, end time.Time) (int, string, error) {
	query, err := buildCountQuery(m)
	if err != nil {
		return 0, "", err
	}
	// Bind timestamps as fixed-width UTC strings so every backend compares
	// them the same way the stored values sort.
	args := []any{repo, start.UTC().Format(contract.DateTimeFormat), end.UTC().Format(contract.DateTimeFormat)}
	literal := renderLiteral(query, args...)

	var count int
	if err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(&count); err != nil {
		return 0, literal, fmt.Errorf("count query for metric %s failed (%s): %w", m, literal, err)
	}
	return count, literal, nil
}

// rebind converts ? placeholders to the $N style when talking to Postgres.
func (s *Store) rebind(query string) string {
	if s.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func setRawValue(r *schema.RawMetricsRecord, m schema.Metric, count int) {
	switch m {
	case schema.MetricMerges:
		r.Merges = count
	case schema.MetricClosedIssues:
		r.ClosedIssues = count
	case schema.MetricClosedPRs:
		r.ClosedPRs = count
	case schema.MetricForks:
		r.Forks = count
	case schema.MetricStars:
		r.Stars = count
	case schema.MetricNewIssues:
		r.NewIssues = count
	case schema.MetricIssueComments:
		r.IssueComments = count
	case schema.MetricPRComments:
		r.PRComments = count
	case schema.MetricIssueReactions:
		r.IssueReactions = count
	case schema.MetricPRReactions:
		r.PRReactions = count
	case schema.MetricNewPulls:
		r.NewPulls = count
	}
}
