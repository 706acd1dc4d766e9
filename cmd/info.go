package cmd

import (
	"github.com/qa4sm/qa4sm-reader/core"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/spf13/cobra"
)

// infoCmd summarizes a results file.
var infoCmd = &cobra.Command{
	Use:   "info <results-file>",
	Short: "Show the reference, datasets and metric groups of a results file.",
	Long: `Load a QA4SM results file and summarize what it holds.

Shows:
- The reference dataset shared by all metric variables
- Every dataset with its resolved pretty name and version
- The id offset between variable names and attributes
- Number of variables and metrics per group (common, pairwise, triple)
- Variables that are not metric variables
- Every fallback used while resolving dataset names

Examples:
  # Summarize a results file
  qa4sm info 0-ISMN.soil_moisture_with_1-C3S.sm.parquet

  # Machine readable summary
  qa4sm info results.parquet --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteInfo(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot summarize results file", err)
		}
	},
}
