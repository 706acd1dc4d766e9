// Package cmd defines the command-line interface for qa4sm.
package cmd

import (
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(varsCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(frameCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the parse subcommands to the parent parse command
	parseCmd.AddCommand(parseVarnameCmd)
	parseCmd.AddCommand(parseFilenameCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultLimit, "Number of rows shown per frame in text output")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print every dataset name fallback")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Selection flags share keys across commands, so sharedSetup binds the
	// flags of the running command instead of binding them here.
	metricsCmd.Flags().Bool("grouped", false, "Order metrics by metric group")
	varsCmd.Flags().Bool("grouped", false, "Order variables by metric group")
	metaCmd.Flags().String("metric", "", "Metric whose variables are resolved")
	metaCmd.Flags().String("var", "", "Single metric variable to resolve")
	metaCmd.MarkFlagsMutuallyExclusive("metric", "var")
	for _, c := range []*cobra.Command{frameCmd, summaryCmd} {
		c.Flags().String("metric", "", "Metric whose variables are selected")
		c.Flags().String("vars", "", "Comma-separated list of metric variables")
		c.Flags().String("extent", "", "Bounding box min_lon,max_lon,min_lat,max_lat")
		c.MarkFlagsMutuallyExclusive("metric", "vars")
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
