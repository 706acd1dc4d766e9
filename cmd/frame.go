package cmd

import (
	"github.com/qa4sm/qa4sm-reader/core"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/spf13/cobra"
)

// frameCmd extracts the values of metric variables.
var frameCmd = &cobra.Command{
	Use:   "frame <results-file>",
	Short: "Extract the values of a metric or of selected variables.",
	Long: `Build a table of metric values indexed by location (lat, lon).

Locations where every selected variable is missing are dropped.
Triple collocation metrics are split into one table per scaling dataset.
Parquet output writes one results file per table, carrying the
attributes of the source file.

Examples:
  # Preview a metric
  qa4sm frame results.parquet --metric R --limit 10

  # Selected variables inside a bounding box as CSV
  qa4sm frame results.parquet --vars R_between_0-ISMN_and_1-C3S,n_obs --extent 5,20,45,55 --output csv

  # Write a parquet subset
  qa4sm frame results.parquet --metric snr --output parquet --output-file snr.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFrame(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot build metric frame", err)
		}
	},
}
