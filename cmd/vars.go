package cmd

import (
	"github.com/qa4sm/qa4sm-reader/core"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/spf13/cobra"
)

// varsCmd lists the metric variables of a results file.
var varsCmd = &cobra.Command{
	Use:   "vars <results-file>",
	Short: "List the metric variables of a results file.",
	Long: `List every non-empty metric variable with its metric, group, candidate
datasets and, for triple collocation metrics, the scaling dataset.

Examples:
  # List variables sorted by name
  qa4sm vars results.parquet

  # Keep file order within each group
  qa4sm vars results.parquet --grouped --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVariables(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot list variables", err)
		}
	},
}
