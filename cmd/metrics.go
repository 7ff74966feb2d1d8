package cmd

import (
	"os"

	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// metricsSetup loads only the weight configuration. No repositories or
// database connection are required for the static display.
func metricsSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	weights, err := contract.LoadWeights(viper.GetString("weights-file"))
	if err != nil {
		return err
	}
	cfg.Weights = weights
	return nil
}

// metricsCmd displays the formal definitions of all composite scores.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display formulas and weights for all composite scores",
	Long: `Show the formal definitions and weights for all composite scores.

Provides complete transparency into how repositories are scored, including:
- Each composite's purpose
- The raw event counts it combines
- The weight each count contributes
- Custom weights if configured via --weights-file

No database access is performed - this is purely informational.

Examples:
  # Show default formulas
  bfskpi metrics

  # View with custom weights
  bfskpi metrics --weights-file weights.ini`,
	PreRunE: metricsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.WriteMetricsDefinitions(os.Stdout, cfg.Weights); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
