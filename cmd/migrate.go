package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/bfskpi/internal/contract"
	"github.com/huangsam/bfskpi/internal/kpistore"
	"github.com/huangsam/bfskpi/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migrateSetup loads the minimal configuration needed for migrate
// operations. It does NOT run full validation, so migrations can run on
// a fresh database before any repositories are configured.
func migrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("backend")))
	if _, ok := schema.ValidBackends[backend]; !ok {
		return fmt.Errorf("unsupported backend %q: must be sqlite, mysql, or postgresql", viper.GetString("backend"))
	}
	connStr := viper.GetString("db-connect")
	if backend != schema.SQLiteBackend && connStr == "" {
		return fmt.Errorf("db-connect is required when using %s backend", backend)
	}

	cfg.Backend = backend
	cfg.DBConnect = connStr
	return nil
}

// migrateCmd runs database migrations for the event store.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the event store.

Migrations allow:
- Creating the event tables on a fresh database
- Upgrading to new schema versions when bfskpi is updated
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  bfskpi migrate --backend sqlite

  # Rollback to initial state
  bfskpi migrate --backend mysql --db-connect user:pass@tcp(host:3306)/kpi \
    --target-version 0`,
	PreRunE: migrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := kpistore.MigrateEventSchema(cfg.Backend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
