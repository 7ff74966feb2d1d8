// Package cmd defines the command-line interface for bfskpi.
package cmd

import (
	"github.com/huangsam/bfskpi/core"
	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringSliceP("repos", "r", nil, "Repository names to analyze (owner/name)")
	rootCmd.PersistentFlags().String("scaling-repo", "", "Repository to compare against the peer group (defaults to first repo)")
	rootCmd.PersistentFlags().IntP("quarters", "q", contract.DefaultQuarters, "Number of activity windows per repository")
	rootCmd.PersistentFlags().Int("window-days", contract.DefaultWindowDays, "Length of each activity window in days")
	rootCmd.PersistentFlags().Int("offset-days", contract.DefaultOffsetDays, "Days to shift each repository anchor forward")
	rootCmd.PersistentFlags().String("backend", string(schema.MySQLBackend), "Event store backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().StringP("output-dir", "o", contract.DefaultOutputDir, "Directory for charts, debug log and exports")
	rootCmd.PersistentFlags().Bool("forecast", false, "Append forecast points to chart series")
	rootCmd.PersistentFlags().Int("forecast-steps", core.DefaultForecastSteps, "Number of forecast points per series")
	rootCmd.PersistentFlags().Bool("scale-factors", false, "Normalize peer metrics by early-activity scale factors")
	rootCmd.PersistentFlags().Int("scale-window-days", contract.DefaultScaleWindowDays, "Early-activity window for scale factor computation")
	rootCmd.PersistentFlags().String("weights-file", "", "Path to an INI file overriding composite weights")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of migrateCmd to Viper
	migrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(migrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
