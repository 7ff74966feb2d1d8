package core

import "github.com/huangsam/bfskpi/schema"

// Aggregate combines a raw metrics record into an aggregate record using
// the given weights and per-repository scale factors. Pure and total: no
// I/O, no failure path. Composite scores are unbounded; no clamping or
// normalization is applied.
//
// Formulas:
//
//	velocity = w1*merges + w2*closedIssues + w3*closedPRs
//	uig      = w4*forks + w5*stars
//	mac      = w6*(newIssues + issueComments + prComments + issueReactions + prReactions) + w7*newPulls
//	sei      = w8*velocity + w9*uig + w10*mac
func Aggregate(raw *schema.RawMetricsRecord, weights schema.WeightConfig, factors schema.ScaleFactors) *schema.AggregateRecord {
	scaled := func(m schema.Metric) float64 {
		return float64(raw.Value(m)) * factors.Factor(raw.Repo, m)
	}

	agg := &schema.AggregateRecord{
		Repo:   raw.Repo,
		Window: raw.Window,

		Merges:         scaled(schema.MetricMerges),
		ClosedIssues:   scaled(schema.MetricClosedIssues),
		ClosedPRs:      scaled(schema.MetricClosedPRs),
		Forks:          scaled(schema.MetricForks),
		Stars:          scaled(schema.MetricStars),
		NewIssues:      scaled(schema.MetricNewIssues),
		IssueComments:  scaled(schema.MetricIssueComments),
		PRComments:     scaled(schema.MetricPRComments),
		IssueReactions: scaled(schema.MetricIssueReactions),
		PRReactions:    scaled(schema.MetricPRReactions),
		NewPulls:       scaled(schema.MetricNewPulls),
	}

	agg.Velocity = weights.VelocityMerges*agg.Merges +
		weights.VelocityClosedIss*agg.ClosedIssues +
		weights.VelocityClosedPR*agg.ClosedPRs

	agg.UIG = weights.UIGForks*agg.Forks + weights.UIGStars*agg.Stars

	maintainerSum := agg.NewIssues + agg.IssueComments + agg.PRComments +
		agg.IssueReactions + agg.PRReactions
	agg.MAC = weights.MACMainWeight*maintainerSum + weights.MACSubWeight*agg.NewPulls

	agg.SEI = weights.SEIVelocity*agg.Velocity +
		weights.SEIUIG*agg.UIG +
		weights.SEIMAC*agg.MAC

	return agg
}
