package core

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/schema"
)

// PipelineResult is the complete output of one aggregation pass. All maps
// are keyed by repository name; slices are ordered by window index.
type PipelineResult struct {
	Repos      []schema.Repository
	Raw        map[string][]*schema.RawMetricsRecord
	Aggregates map[string][]*schema.AggregateRecord
	Factors    schema.ScaleFactors

	// Ratios is sorted by variable name, then repository, then window index.
	Ratios []schema.RatioRecord

	// GroupAverages maps variable name to the per-window-index average of
	// every tracked repository except the scaling repository. This is the
	// comparison baseline the charts plot; the ratio engine averages over
	// all repositories including the one being scored.
	GroupAverages map[string][]float64

	// Forecasts maps repository to variable to forecast points past the
	// last observed window. Empty unless forecasting is enabled.
	Forecasts map[string]map[string][]float64

	MaxIndex int
	Duration time.Duration
}

// RunPipeline drives one full aggregation pass: anchor resolution, window
// generation, raw collection, aggregation, and ratio computation. Ratio
// computation for a window index never begins before every repository's
// aggregate for that index exists; the sequential loop below establishes
// that barrier for all indexes at once.
func RunPipeline(ctx context.Context, cfg *contract.Config, store contract.EventStore, logger *slog.Logger) (*PipelineResult, error) {
	started := time.Now()

	repos, err := resolveAnchors(ctx, cfg, store, logger)
	if err != nil {
		return nil, err
	}

	factors := schema.ScaleFactors(nil)
	if cfg.ScaleFactors {
		window := time.Duration(cfg.ScaleWindowDays) * 24 * time.Hour
		factors, err = ComputeScaleFactors(ctx, store, repos, cfg.ScalingRepo, window)
		if err != nil {
			return nil, err
		}
	}

	result := &PipelineResult{
		Repos:      repos,
		Raw:        make(map[string][]*schema.RawMetricsRecord, len(repos)),
		Aggregates: make(map[string][]*schema.AggregateRecord, len(repos)),
		Factors:    factors,
		MaxIndex:   cfg.Quarters,
	}

	for _, repo := range repos {
		windows := GenerateWindows(repo.Anchor, cfg.Quarters, cfg.WindowDuration)
		logger.Info("collecting windows", "repo", repo.Name, "anchor", repo.Anchor.Format(contract.DateTimeFormat), "windows", len(windows))

		for _, w := range windows {
			raw, err := store.Collect(ctx, repo.Name, w)
			if err != nil {
				return nil, fmt.Errorf("collection failed for repo %s window %d [%s, %s): %w",
					repo.Name, w.Index,
					w.Start.Format(contract.DateTimeFormat), w.End.Format(contract.DateTimeFormat), err)
			}
			result.Raw[repo.Name] = append(result.Raw[repo.Name], raw)
			result.Aggregates[repo.Name] = append(result.Aggregates[repo.Name], Aggregate(raw, cfg.Weights, factors))
		}
	}

	// Every aggregate exists at this point, so the per-index barrier holds.
	computeRatios(result)
	computeGroupAverages(result, cfg.ScalingRepo)

	if cfg.Forecast {
		computeForecasts(result, cfg.ForecastSteps)
	}

	result.Duration = time.Since(started)
	return result, nil
}

// resolveAnchors determines each repository's anchor date once, applying
// the configured offset. Repositories without any activity get the
// sentinel far-future anchor and still flow through the pipeline.
func resolveAnchors(ctx context.Context, cfg *contract.Config, store contract.EventStore, logger *slog.Logger) ([]schema.Repository, error) {
	repos := make([]schema.Repository, 0, len(cfg.Repos))
	for _, name := range cfg.Repos {
		anchor, found, err := store.AnchorDate(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("anchor date lookup for repo %s: %w", name, err)
		}
		if !found {
			logger.Warn("no activity found, using sentinel anchor", "repo", name)
			anchor = schema.SentinelAnchor
		} else {
			anchor = anchor.Add(cfg.Offset)
		}
		repos = append(repos, schema.Repository{Name: name, Anchor: anchor})
	}
	return repos, nil
}

// computeRatios fills result.Ratios for every (window index, variable)
// pair, ordered by variable name, then repository, then window index.
func computeRatios(result *PipelineResult) {
	variables := schema.Variables()
	sorted := make([]string, len(variables))
	copy(sorted, variables)
	sort.Strings(sorted)

	for _, variable := range sorted {
		type entry struct {
			repo  string
			index int
			ratio float64
		}
		var entries []entry
		for idx := 1; idx <= result.MaxIndex; idx++ {
			for repo, ratio := range Ratios(result.Aggregates, idx, variable) {
				entries = append(entries, entry{repo: repo, index: idx, ratio: ratio})
			}
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].repo != entries[j].repo {
				return entries[i].repo < entries[j].repo
			}
			return entries[i].index < entries[j].index
		})
		for _, e := range entries {
			result.Ratios = append(result.Ratios, schema.RatioRecord{
				Repo:        e.repo,
				WindowIndex: e.index,
				Variable:    variable,
				Ratio:       e.ratio,
			})
		}
	}
}

func computeGroupAverages(result *PipelineResult, scalingRepo string) {
	result.GroupAverages = make(map[string][]float64)
	for _, variable := range schema.Variables() {
		result.GroupAverages[variable] = GroupAverages(result.Aggregates, result.MaxIndex, variable, scalingRepo)
	}
}

func computeForecasts(result *PipelineResult, steps int) {
	result.Forecasts = make(map[string]map[string][]float64, len(result.Aggregates))
	for repo, records := range result.Aggregates {
		perVariable := make(map[string][]float64)
		for _, variable := range schema.Variables() {
			series := make([]float64, 0, len(records))
			for _, rec := range records {
				series = append(series, rec.Value(variable))
			}
			perVariable[variable] = Forecast(series, steps)
		}
		result.Forecasts[repo] = perVariable
	}
}
