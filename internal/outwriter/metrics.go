package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/bfskpi/schema"
)

// WriteMetricsDefinitions prints the formal definitions of all composite
// scores along with the active weights. This is a static display that
// does not touch the event store.
func WriteMetricsDefinitions(w io.Writer, weights schema.WeightConfig) error {
	fmt.Fprintln(w, "KPI Composite Scores")
	fmt.Fprintln(w, "====================")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "All scores = weighted sum of per-window event counts")
	fmt.Fprintln(w)

	composites := []struct {
		name    string
		purpose string
		formula string
	}{
		{
			name:    "VELOCITY",
			purpose: "Delivery throughput - merged and closed work items",
			formula: fmt.Sprintf("%.2f*merges + %.2f*closed_issues + %.2f*closed_prs",
				weights.VelocityMerges, weights.VelocityClosedIss, weights.VelocityClosedPR),
		},
		{
			name:    "UIG",
			purpose: "User interest growth - forks and stars gained",
			formula: fmt.Sprintf("%.2f*forks + %.2f*stars",
				weights.UIGForks, weights.UIGStars),
		},
		{
			name:    "MAC",
			purpose: "Maintenance activity - discussion, reactions and new work",
			formula: fmt.Sprintf("%.2f*(new_issues + issue_comments + pr_comments + issue_reactions + pr_reactions) + %.2f*new_pulls",
				weights.MACMainWeight, weights.MACSubWeight),
		},
		{
			name:    "SEI",
			purpose: "Software engineering index - blend of the other three",
			formula: fmt.Sprintf("%.2f*velocity + %.2f*uig + %.2f*mac",
				weights.SEIVelocity, weights.SEIUIG, weights.SEIMAC),
		},
	}

	for _, c := range composites {
		fmt.Fprintf(w, "%s: %s\n", c.name, c.purpose)
		fmt.Fprintf(w, "   Formula: Score = %s\n", c.formula)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Raw counts may be normalized by per-repo scale factors before weighting.")
	return nil
}
