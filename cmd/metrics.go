package cmd

import (
	"github.com/qa4sm/qa4sm-reader/core"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd lists the metrics of a results file.
var metricsCmd = &cobra.Command{
	Use:   "metrics <results-file>",
	Short: "List the metrics of a results file.",
	Long: `List every metric with at least one non-empty variable in a results file.

Each metric is shown with its group, pretty name and number of variables.
Metrics are sorted by name, or by group with --grouped.

Examples:
  # List metrics
  qa4sm metrics results.parquet

  # Group by common, pairwise and triple collocation metrics
  qa4sm metrics results.parquet --grouped

  # Custom pretty names from a config file
  qa4sm metrics results.parquet --config .qa4sm.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot list metrics", err)
		}
	},
}
