// Package charts renders the per-variable comparison bar charts.
package charts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/bfskpi/core"
	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/schema"
)

const (
	chartWidth  = "900px"
	chartHeight = "520px"
)

// WriteAll renders one grouped bar chart per tracked variable, contrasting
// the scaling repository against the peer-group average across window
// indices. Filenames derive from the variable name only, so reruns
// overwrite in place.
func WriteAll(result *core.PipelineResult, cfg *contract.Config) error {
	for _, variable := range schema.Variables() {
		path := filepath.Join(cfg.OutputDir, FileName(variable))
		if err := writeOne(result, cfg, variable, path); err != nil {
			return fmt.Errorf("chart for %s: %w", variable, err)
		}
	}
	return nil
}

// FileName returns the deterministic artifact name for a variable.
func FileName(variable string) string {
	return variable + "_compare.html"
}

func writeOne(result *core.PipelineResult, cfg *contract.Config, variable, path string) error {
	scalingSeries := seriesFor(result, cfg.ScalingRepo, variable)
	groupSeries := result.GroupAverages[variable]

	labels := make([]string, 0, result.MaxIndex)
	for idx := 1; idx <= result.MaxIndex; idx++ {
		labels = append(labels, fmt.Sprintf("Q%02d", idx))
	}

	// Forecast points extend the scaling repo series only; the peer
	// average stays observation-based.
	if forecasts, ok := result.Forecasts[cfg.ScalingRepo]; ok {
		for i, v := range forecasts[variable] {
			labels = append(labels, fmt.Sprintf("F%02d", i+1))
			scalingSeries = append(scalingSeries, v)
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s: %s vs peer average", variable, cfg.ScalingRepo),
			Subtitle: "Index-based quarters from each repository's anchor date",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)
	bar.SetXAxis(labels)

	bar.AddSeries(cfg.ScalingRepo, barData(scalingSeries, len(labels)))
	bar.AddSeries("Peer average", barData(groupSeries, len(labels)))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return bar.Render(file)
}

// seriesFor extracts the per-window values of one variable for a repo.
func seriesFor(result *core.PipelineResult, repo, variable string) []float64 {
	records := result.Aggregates[repo]
	out := make([]float64, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Value(variable))
	}
	return out
}

// barData pads a series with zeroes up to n so both series align on the
// same category axis.
func barData(values []float64, n int) []opts.BarData {
	data := make([]opts.BarData, 0, n)
	for i := range n {
		var v float64
		if i < len(values) {
			v = values[i]
		}
		data = append(data, opts.BarData{Value: v})
	}
	return data
}
