package cmd

import (
	"fmt"
	"strings"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/internal/iocache"
	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConfig loads and validates the history backend settings only.
func historyConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("history-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need the store without full shared setup.
func historySetup(_ *cobra.Command, _ []string) error {
	if err := historyConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historyMigrateSetup loads the history settings without opening the store,
// so that migrations can run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := historyConfig(); err != nil {
		return err
	}
	// For SQLite backend with empty connection string, use default path
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect == "" {
		cfg.HistoryDBConnect = contract.GetHistoryDBFilePath()
	}
	return nil
}

// historyCmd focused on load history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by the file commands. No results file is needed.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of loaded results files",
	Long: `Manage the history of results files read by qa4sm.

Every command reading a results file records:
- Load metadata (file path, timestamp, options, duration)
- The reference dataset and number of fallback diagnostics
- Every metric variable with its group, candidates and scaling dataset

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show load history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations`,
}

// historyClearCmd clears the load history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all load history data",
	Long: `Delete all stored loads and recorded variables.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  qa4sm history export --output-file backup
  qa4sm history clear`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows load history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display load history statistics and connection details",
	Long: `Show information about the load history.

Displays:
- Backend type, target and connection status
- Total number of loads and their time range
- Total variables recorded
- Schema version and table sizes

Examples:
  qa4sm history status
  QA4SM_HISTORY_BACKEND=postgresql QA4SM_HISTORY_DB_CONNECT="host=db dbname=qa4sm" qa4sm history status`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		target, err := iocache.DescribeTarget(cfg.HistoryBackend, cfg.HistoryDBConnect)
		if err != nil {
			contract.LogWarn("Cannot describe history target", err)
		}
		iocache.PrintHistoryStatus(status, target)
	},
}

// historyExportCmd exports the load history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the load history to Parquet",
	Long: `Export all loads and recorded variables to two Parquet files,
<output-file>.loads.parquet and <output-file>.load_variables.parquet.

Requires: --output-file parameter

Examples:
  qa4sm history export --output-file qa4sm-history
  duckdb -c "SELECT * FROM read_parquet('qa4sm-history.loads.parquet') LIMIT 10"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions of the load history.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  qa4sm history migrate

  # Migrate to specific version
  qa4sm history migrate --target-version 1

  # Rollback to initial state
  qa4sm history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
