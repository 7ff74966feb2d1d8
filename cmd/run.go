package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/huangsam/bfskpi/core"
	"github.com/huangsam/bfskpi/internal/charts"
	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/internal/kpistore"
	"github.com/huangsam/bfskpi/internal/outwriter"
	"github.com/huangsam/bfskpi/internal/teelog"
	"github.com/spf13/cobra"
)

// runCmd computes quarterly KPIs and writes the full report.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute quarterly KPIs for the configured repositories.",
	Long: `Aggregate raw repository events into quarterly composite indices.

For each repository the pipeline:
- Anchors a sequence of fixed-length activity windows to the earliest
  recorded event across issues, pulls, forks and stars
- Counts eleven raw event metrics per window, logging every query verbatim
- Combines the counts into velocity, uig, mac and sei composite scores
- Compares the scaling repository against the peer-group average

Output includes per-repository tables, per-variable ratio tables, the
full query log, and one comparison chart per variable under the output
directory.

Examples:
  # Four quarters for two repositories against a local SQLite store
  bfskpi run --repos acme/api,acme/web --backend sqlite

  # Six quarters with custom weights and forecast points on the charts
  bfskpi run --repos acme/api,acme/web --quarters 6 \
    --weights-file weights.ini --forecast

  # Normalize peers by early-activity scale factors
  bfskpi run --repos acme/api,acme/web --scale-factors`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := executeRun(); err != nil {
			contract.LogFatal("Cannot run KPI pipeline", err)
		}
	},
}

func executeRun() error {
	logger, err := teelog.New(cfg.OutputDir, slog.LevelDebug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	store, err := kpistore.NewStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			contract.LogWarn("Error closing event store", err)
		}
	}()

	result, err := core.RunPipeline(rootCtx, cfg, store, logger.Logger)
	if err != nil {
		return err
	}

	// The report goes to the terminal and to the debug log.
	out := outwriter.NewOutWriter(io.MultiWriter(os.Stdout, logger.DebugWriter()))
	if err := out.WriteReport(result, cfg); err != nil {
		return err
	}
	logger.Info("Pipeline finished", "duration", result.Duration, "repos", len(result.Repos))

	return charts.WriteAll(result, cfg)
}
