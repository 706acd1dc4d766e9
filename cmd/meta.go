package cmd

import (
	"github.com/qa4sm/qa4sm-reader/core"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/spf13/cobra"
)

// metaCmd resolves the datasets of metric variables.
var metaCmd = &cobra.Command{
	Use:   "meta <results-file>",
	Short: "Resolve the datasets compared by a metric or a variable.",
	Long: `Show the reference, candidate and scaling datasets of metric variables
with their short and pretty names and versions.

Names come from the file attributes first, then from the lookup tables,
and finally from the raw short name. Use --verbose to see each fallback.

Examples:
  # Every variable of a metric
  qa4sm meta results.parquet --metric R

  # A single variable
  qa4sm meta results.parquet --var snr_1-C3S_between_0-ISMN_and_1-C3S_and_2-SMAP`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMeta(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot resolve metadata", err)
		}
	},
}
