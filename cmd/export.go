package cmd

import (
	"log/slog"
	"path/filepath"

	"github.com/huangsam/bfskpi/core"
	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/internal/kpistore"
	"github.com/huangsam/bfskpi/internal/parquetout"
	"github.com/huangsam/bfskpi/internal/teelog"
	"github.com/spf13/cobra"
)

// exportCmd runs the pipeline and writes aggregates to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export quarterly aggregates to a Parquet file.",
	Long: `Run the KPI pipeline and write one Parquet row per repository window.

Each row carries the window boundaries, all eleven raw event counts and
the four composite scores, ready for downstream analytics tools.

Examples:
  # Export four quarters of aggregates
  bfskpi export --repos acme/api,acme/web --backend sqlite

  # Export to a custom directory
  bfskpi export --repos acme/api --output-dir ./exports`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := executeExport(); err != nil {
			contract.LogFatal("Cannot export aggregates", err)
		}
	},
}

func executeExport() error {
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

	path := filepath.Join(cfg.OutputDir, "aggregates.parquet")
	rows := parquetout.ConvertAggregates(result)
	if err := parquetout.WriteAggregatesParquet(rows, path); err != nil {
		return err
	}
	logger.Info("Wrote aggregates", "path", path, "rows", len(rows))
	return nil
}
