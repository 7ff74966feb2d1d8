package outwriter

import (
	"fmt"
	"sort"

	"github.com/huangsam/bfskpi/core"
	"github.com/huangsam/bfskpi/schema"
)

// writeQueryLog prints every literal query issued during collection,
// grouped by metric name, then repository, then window index. The literal
// form is exactly what ran against the store (with substituted values), so
// any count can be reproduced by pasting the line into a database shell.
func (ow *OutWriter) writeQueryLog(result *core.PipelineResult) error {
	fmt.Fprintf(ow.w, "\n=== Query log ===\n")

	metrics := make([]string, 0, len(schema.AllMetrics))
	for _, m := range schema.AllMetrics {
		metrics = append(metrics, string(m))
	}
	sort.Strings(metrics)

	repos := make([]string, 0, len(result.Raw))
	for repo := range result.Raw {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	for _, metric := range metrics {
		fmt.Fprintf(ow.w, "\n[%s]\n", metric)
		for _, repo := range repos {
			for _, raw := range result.Raw[repo] {
				query, ok := raw.Queries[schema.Metric(metric)]
				if !ok {
					continue
				}
				fmt.Fprintf(ow.w, "%s Q%02d: %s\n", repo, raw.Window.Index, query)
			}
		}
	}
	return nil
}
