package cmd

import (
	"github.com/qa4sm/qa4sm-reader/core"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/spf13/cobra"
)

// parseSetup validates the config of commands that read no results file.
func parseSetup(_ *cobra.Command, _ []string) error {
	return processConfig("")
}

// parseCmd groups the name parsers.
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Decode QA4SM variable and file names without reading a file",
	Long: `Decode the names used by QA4SM results.

Subcommands:
  varname  - Split a metric variable name
  filename - Split a results file name into dataset segments`,
}

// parseVarnameCmd decodes a metric variable name.
var parseVarnameCmd = &cobra.Command{
	Use:   "varname <name>",
	Short: "Split a metric variable name into metric and datasets",
	Long: `Match a variable name against the triple, pairwise and common templates.

Examples:
  qa4sm parse varname R_between_0-ISMN_and_1-C3S
  qa4sm parse varname snr_1-C3S_between_0-ISMN_and_1-C3S_and_2-SMAP --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: parseSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteParseVariable(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot parse variable name", err)
		}
	},
}

// parseFilenameCmd decodes a results file name.
var parseFilenameCmd = &cobra.Command{
	Use:   "filename <name>",
	Short: "Split a results file name into dataset segments",
	Long: `Split "{id}-{dataset}.{variable}" segments joined by "_with_".
The first segment is the reference.

Examples:
  qa4sm parse filename 0-ISMN.soil_moisture_with_1-C3S.sm.nc`,
	Args:    cobra.ExactArgs(1),
	PreRunE: parseSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteParseFilename(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot parse file name", err)
		}
	},
}
