package outwriter

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/huangsam/bfskpi/core"
	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// repoTableHeaders is the column layout of the per-repository BFS table:
// the interval, the eleven raw counters, then the four composites.
var repoTableHeaders = []string{
	"Interval",
	"Merges", "ClosedIss", "ClosedPR", "Forks", "Stars", "NewIss",
	"IssComm", "PRComm", "IssReact", "PRReact", "NewPulls",
	"Velocity", "UIG", "MAC", "SEI",
}

// writeRepoTables prints one table per repository, one row per window.
func (ow *OutWriter) writeRepoTables(result *core.PipelineResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	header := fmt.Sprint
	if cfg.UseColors {
		header = color.New(color.FgCyan, color.Bold).SprintFunc()
	}

	for _, repo := range cfg.Repos {
		fmt.Fprintf(ow.w, "\n%s\n", header(fmt.Sprintf("=== BFS aggregates for %s ===", repo)))

		raws := result.Raw[repo]
		aggs := result.Aggregates[repo]

		table := tablewriter.NewWriter(ow.w)
		table.Header(repoTableHeaders)
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for i, raw := range raws {
			agg := aggs[i]
			row := []string{formatInterval(raw.Window)}
			for _, m := range schema.AllMetrics {
				row = append(row, fmt.Sprintf(intFmt, raw.Value(m)))
			}
			row = append(row,
				fmtFloat(agg.Velocity),
				fmtFloat(agg.UIG),
				fmtFloat(agg.MAC),
				fmtFloat(agg.SEI),
			)
			data = append(data, row)
		}

		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

// writeRatioTables prints, for every tracked variable, each repository's
// per-window ratio to the peer-group average.
func (ow *OutWriter) writeRatioTables(result *core.PipelineResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	header := fmt.Sprint
	if cfg.UseColors {
		header = color.New(color.FgYellow, color.Bold).SprintFunc()
	}

	// result.Ratios is already sorted by variable, repo, window index.
	byVariable := make(map[string]map[string]map[int]float64)
	for _, r := range result.Ratios {
		if byVariable[r.Variable] == nil {
			byVariable[r.Variable] = make(map[string]map[int]float64)
		}
		if byVariable[r.Variable][r.Repo] == nil {
			byVariable[r.Variable][r.Repo] = make(map[int]float64)
		}
		byVariable[r.Variable][r.Repo][r.WindowIndex] = r.Ratio
	}

	variables := make([]string, 0, len(byVariable))
	for v := range byVariable {
		variables = append(variables, v)
	}
	sort.Strings(variables)

	fmt.Fprintf(ow.w, "\n%s\n", header("=== Peer ratios (value / group average, self included) ==="))

	for _, variable := range variables {
		fmt.Fprintf(ow.w, "\n-- %s --\n", variable)

		headers := []string{"Repo"}
		for idx := 1; idx <= result.MaxIndex; idx++ {
			headers = append(headers, fmt.Sprintf("Q%02d", idx))
		}

		table := tablewriter.NewWriter(ow.w)
		table.Header(headers)
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		repos := make([]string, 0, len(byVariable[variable]))
		for repo := range byVariable[variable] {
			repos = append(repos, repo)
		}
		sort.Strings(repos)

		repoWidth := maxRepoColWidth(cfg, result.MaxIndex)
		var data [][]string
		for _, repo := range repos {
			row := []string{truncateName(repo, repoWidth)}
			for idx := 1; idx <= result.MaxIndex; idx++ {
				if ratio, ok := byVariable[variable][repo][idx]; ok {
					row = append(row, fmtFloat(ratio))
				} else {
					row = append(row, "-")
				}
			}
			data = append(data, row)
		}

		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

// formatInterval renders a window as start..end using date-only bounds.
func formatInterval(w schema.Window) string {
	return fmt.Sprintf("%s..%s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}
