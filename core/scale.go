package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/schema"
)

// scaledMetrics are the metrics that receive a computed scale factor when
// scale factor computation is enabled. Everything else stays at 1.0.
var scaledMetrics = []schema.Metric{
	schema.MetricMerges,
	schema.MetricClosedIssues,
	schema.MetricForks,
	schema.MetricStars,
	schema.MetricNewPulls,
}

// ComputeScaleFactors measures each repository's early activity against the
// scaling repository over the same-length window from each repo's anchor,
// and derives a per-metric factor that maps the peer onto the scaling
// repo's magnitude.
//
// Zero handling: scaling side active but peer idle keeps the peer at 1.0;
// scaling side idle but peer active zeroes the peer out; both idle is 1.0.
// Repositories with no anchor stay at 1.0 for every metric.
func ComputeScaleFactors(ctx context.Context, store contract.EventStore, repos []schema.Repository, scalingRepo string, window time.Duration) (schema.ScaleFactors, error) {
	factors := make(schema.ScaleFactors, len(repos))
	for _, r := range repos {
		factors[r.Name] = identityFactors()
	}

	var scaling *schema.Repository
	for i := range repos {
		if repos[i].Name == scalingRepo {
			scaling = &repos[i]
			break
		}
	}
	if scaling == nil || !scaling.HasActivity() {
		return factors, nil
	}

	base, err := sumEarlyActivity(ctx, store, scaling.Name, scaling.Anchor, window)
	if err != nil {
		return nil, fmt.Errorf("scale factor baseline for %s: %w", scaling.Name, err)
	}

	for _, r := range repos {
		if r.Name == scaling.Name || !r.HasActivity() {
			continue
		}
		peer, err := sumEarlyActivity(ctx, store, r.Name, r.Anchor, window)
		if err != nil {
			return nil, fmt.Errorf("scale factor sums for %s: %w", r.Name, err)
		}
		for _, m := range scaledMetrics {
			factors[r.Name][m] = scaleFactor(base[m], peer[m])
		}
	}
	return factors, nil
}

// scaleFactor applies the original zero-handling rules before dividing.
func scaleFactor(scalingCount, peerCount int) float64 {
	switch {
	case scalingCount > 0 && peerCount == 0:
		return 1.0
	case scalingCount == 0 && peerCount > 0:
		return 0.0
	case peerCount == 0:
		return 1.0
	default:
		return float64(scalingCount) / float64(peerCount)
	}
}

func sumEarlyActivity(ctx context.Context, store contract.EventStore, repo string, anchor time.Time, window time.Duration) (map[schema.Metric]int, error) {
	end := anchor.Add(window)
	sums := make(map[schema.Metric]int, len(scaledMetrics))
	for _, m := range scaledMetrics {
		n, err := store.CountRange(ctx, repo, m, anchor, end)
		if err != nil {
			return nil, err
		}
		sums[m] = n
	}
	return sums, nil
}

func identityFactors() map[schema.Metric]float64 {
	out := make(map[schema.Metric]float64, len(scaledMetrics))
	for _, m := range scaledMetrics {
		out[m] = 1.0
	}
	return out
}
