package kpistore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/huangsam/bfskpi/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens an in-memory SQLite store with the event schema applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ddl, err := migrationsFS.ReadFile("migrations/0001_event_tables.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(ddl))
	require.NoError(t, err)

	return NewStoreFromDB(db, schema.SQLiteBackend)
}

func seed(t *testing.T, store *Store, query string, args ...any) {
	t.Helper()
	_, err := store.db.Exec(query, args...)
	require.NoError(t, err)
}

const seedTime = "2020-02-15 10:00:00"

// seedRepoEvents inserts one row into every event table for the repo at
// the given timestamp.
func seedRepoEvents(t *testing.T, store *Store, repo, ts string) {
	t.Helper()
	seed(t, store, "INSERT INTO issues (repo_name, issue_number, created_at) VALUES (?, 1, ?)", repo, ts)
	seed(t, store, "INSERT INTO pulls (repo_name, pull_number, created_at) VALUES (?, 1, ?)", repo, ts)
	seed(t, store, `INSERT INTO issue_events (repo_name, issue_number, payload, created_at) VALUES (?, 1, '{"event": "closed"}', ?)`, repo, ts)
	seed(t, store, `INSERT INTO pull_events (repo_name, pull_number, payload, created_at) VALUES (?, 1, '{"event": "merged"}', ?)`, repo, ts)
	seed(t, store, "INSERT INTO forks (repo_name, created_at) VALUES (?, ?)", repo, ts)
	seed(t, store, "INSERT INTO stars (repo_name, starred_at) VALUES (?, ?)", repo, ts)
	seed(t, store, "INSERT INTO issue_comments (repo_name, issue_number, body, created_at) VALUES (?, 1, 'looks good', ?)", repo, ts)
	seed(t, store, "INSERT INTO pull_comments (repo_name, pull_number, body, created_at) VALUES (?, 1, '+1', ?)", repo, ts)
}

// TestStoreAnchorDate verifies the anchor is the minimum across all four
// event kinds.
func TestStoreAnchorDate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seed(t, store, "INSERT INTO issues (repo_name, issue_number, created_at) VALUES ('acme/api', 1, '2020-03-01 00:00:00')")
	seed(t, store, "INSERT INTO pulls (repo_name, pull_number, created_at) VALUES ('acme/api', 1, '2020-02-01 00:00:00')")
	seed(t, store, "INSERT INTO stars (repo_name, starred_at) VALUES ('acme/api', '2020-01-15 08:30:00')")

	anchor, found, err := store.AnchorDate(ctx, "acme/api")

	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, time.Date(2020, 1, 15, 8, 30, 0, 0, time.UTC), anchor)
}

// TestStoreAnchorDateNotFound verifies found is false for an unknown repo.
func TestStoreAnchorDateNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, found, err := store.AnchorDate(ctx, "acme/ghost")

	assert.NoError(t, err)
	assert.False(t, found)
}

// TestStoreCollect seeds one event of every kind inside the window and
// verifies each counter and its recorded literal query.
func TestStoreCollect(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedRepoEvents(t, store, "acme/api", seedTime)
	// Noise outside the window and from another repo.
	seedRepoEvents(t, store, "acme/api", "2021-01-01 00:00:00")
	seedRepoEvents(t, store, "acme/web", seedTime)

	window := schema.Window{
		Index: 1,
		Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	record, err := store.Collect(ctx, "acme/api", window)

	require.NoError(t, err)
	assert.Equal(t, 1, record.Merges)
	assert.Equal(t, 1, record.ClosedIssues)
	assert.Zero(t, record.ClosedPRs) // pull event is "merged", not "closed"
	assert.Equal(t, 1, record.Forks)
	assert.Equal(t, 1, record.Stars)
	assert.Equal(t, 1, record.NewIssues)
	assert.Equal(t, 1, record.IssueComments)  // 'looks good' is a comment
	assert.Zero(t, record.IssueReactions)     // no +1/-1 issue comment seeded
	assert.Zero(t, record.PRComments)         // '+1' counts as a reaction
	assert.Equal(t, 1, record.PRReactions)    // the '+1' body
	assert.Equal(t, 1, record.NewPulls)

	assert.Len(t, record.Queries, len(schema.AllMetrics))
	for _, m := range schema.AllMetrics {
		literal := record.Queries[m]
		assert.Contains(t, literal, "'acme/api'")
		assert.Contains(t, literal, "'2020-01-01 00:00:00'")
		assert.Contains(t, literal, "'2020-03-31 00:00:00'")
		assert.NotContains(t, literal, "= ?")
	}
}

// TestStoreCollectWindowBoundaries verifies the range is half-open: events
// at Start count, events at End do not.
func TestStoreCollectWindowBoundaries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seed(t, store, "INSERT INTO stars (repo_name, starred_at) VALUES ('acme/api', '2020-01-01 00:00:00')")
	seed(t, store, "INSERT INTO stars (repo_name, starred_at) VALUES ('acme/api', '2020-03-31 00:00:00')")

	window := schema.Window{
		Index: 1,
		Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	record, err := store.Collect(ctx, "acme/api", window)

	require.NoError(t, err)
	assert.Equal(t, 1, record.Stars)
}

// TestStoreCollectEmptyWindow verifies a quiet window is a complete record
// of zeros, not an error.
func TestStoreCollectEmptyWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	window := schema.Window{
		Index: 1,
		Start: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2030, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	record, err := store.Collect(ctx, "acme/api", window)

	require.NoError(t, err)
	for _, m := range schema.AllMetrics {
		assert.Zero(t, record.Value(m), "metric %s", m)
	}
	assert.Len(t, record.Queries, len(schema.AllMetrics))
}

// TestStoreCountRange verifies single-metric counting over an arbitrary range.
func TestStoreCountRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seed(t, store, "INSERT INTO forks (repo_name, created_at) VALUES ('acme/api', '2020-02-01 00:00:00')")
	seed(t, store, "INSERT INTO forks (repo_name, created_at) VALUES ('acme/api', '2020-05-01 00:00:00')")

	count, err := store.CountRange(ctx, "acme/api", schema.MetricForks,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

// TestStoreRebind verifies placeholder conversion for Postgres only.
func TestStoreRebind(t *testing.T) {
	sqlite := &Store{backend: schema.SQLiteBackend}
	postgres := &Store{backend: schema.PostgreSQLBackend}
	query := "SELECT COUNT(*) FROM forks WHERE repo_name = ? AND created_at >= ? AND created_at < ?"

	assert.Equal(t, query, sqlite.rebind(query))
	assert.Equal(t,
		"SELECT COUNT(*) FROM forks WHERE repo_name = $1 AND created_at >= $2 AND created_at < $3",
		postgres.rebind(query))
}

// TestNewStoreUnsupportedBackend verifies backend validation at open time.
func TestNewStoreUnsupportedBackend(t *testing.T) {
	_, err := NewStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

// TestParseTimestamp covers the scan normalization across backend types.
func TestParseTimestamp(t *testing.T) {
	want := time.Date(2020, 2, 15, 10, 0, 0, 0, time.UTC)

	ts, ok, err := parseTimestamp(want)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, ts.Equal(want))

	ts, ok, err = parseTimestamp("2020-02-15 10:00:00")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, ts.Equal(want))

	ts, ok, err = parseTimestamp([]byte("2020-02-15T10:00:00Z"))
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, ts.Equal(want))

	_, ok, err = parseTimestamp(nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = parseTimestamp("gibberish")
	assert.Error(t, err)
}
