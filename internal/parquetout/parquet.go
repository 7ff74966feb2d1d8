// Package parquetout exports aggregate records to Parquet files using
// github.com/parquet-go/parquet-go.
package parquetout

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/huangsam/bfskpi/core"
	"github.com/parquet-go/parquet-go"
)

// AggregateRow is the flat Parquet shape of one (repository, window)
// aggregate record.
type AggregateRow struct {
	RepoName    string    `parquet:"repo_name,snappy"`
	WindowIndex int32     `parquet:"window_index,snappy"`
	WindowStart time.Time `parquet:"window_start,snappy"`
	WindowEnd   time.Time `parquet:"window_end,snappy"`

	Merges         float64 `parquet:"merges,snappy"`
	ClosedIssues   float64 `parquet:"closed_issues,snappy"`
	ClosedPRs      float64 `parquet:"closed_prs,snappy"`
	Forks          float64 `parquet:"forks,snappy"`
	Stars          float64 `parquet:"stars,snappy"`
	NewIssues      float64 `parquet:"new_issues,snappy"`
	IssueComments  float64 `parquet:"issue_comments,snappy"`
	PRComments     float64 `parquet:"pr_comments,snappy"`
	IssueReactions float64 `parquet:"issue_reactions,snappy"`
	PRReactions    float64 `parquet:"pr_reactions,snappy"`
	NewPulls       float64 `parquet:"new_pulls,snappy"`

	Velocity float64 `parquet:"velocity,snappy"`
	UIG      float64 `parquet:"uig,snappy"`
	MAC      float64 `parquet:"mac,snappy"`
	SEI      float64 `parquet:"sei,snappy"`
}

// ConvertAggregates flattens a pipeline result into Parquet rows, ordered
// by repository name then window index for deterministic output.
func ConvertAggregates(result *core.PipelineResult) []AggregateRow {
	repos := make([]string, 0, len(result.Aggregates))
	for repo := range result.Aggregates {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	var rows []AggregateRow
	for _, repo := range repos {
		for _, agg := range result.Aggregates[repo] {
			rows = append(rows, AggregateRow{
				RepoName:       agg.Repo,
				WindowIndex:    int32(agg.Window.Index),
				WindowStart:    agg.Window.Start,
				WindowEnd:      agg.Window.End,
				Merges:         agg.Merges,
				ClosedIssues:   agg.ClosedIssues,
				ClosedPRs:      agg.ClosedPRs,
				Forks:          agg.Forks,
				Stars:          agg.Stars,
				NewIssues:      agg.NewIssues,
				IssueComments:  agg.IssueComments,
				PRComments:     agg.PRComments,
				IssueReactions: agg.IssueReactions,
				PRReactions:    agg.PRReactions,
				NewPulls:       agg.NewPulls,
				Velocity:       agg.Velocity,
				UIG:            agg.UIG,
				MAC:            agg.MAC,
				SEI:            agg.SEI,
			})
		}
	}
	return rows
}

// WriteAggregatesParquet writes aggregate rows to a Parquet file. The
// schema is inferred from the AggregateRow struct tags.
func WriteAggregatesParquet(rows []AggregateRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[AggregateRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}
