package cmd

import (
	"github.com/qa4sm/qa4sm-reader/core"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd computes descriptive statistics of metric variables.
var summaryCmd = &cobra.Command{
	Use:   "summary <results-file>",
	Short: "Show descriptive statistics of a metric or of selected variables.",
	Long: `Compute count, mean, standard deviation, min, quartiles and max of every
selected variable. Missing values are skipped.

Examples:
  # Statistics of every variable of a metric
  qa4sm summary results.parquet --metric ubRMSD

  # Restricted to a bounding box
  qa4sm summary results.parquet --metric R --extent 5,20,45,55 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot summarize metric", err)
		}
	},
}
