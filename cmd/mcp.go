package cmd

import (
	"github.com/qa4sm/qa4sm-reader/internal/iocache"
	"github.com/qa4sm/qa4sm-reader/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the QA4SM MCP server",
	Long:  `Launch an MCP server on stdio that lets agents decode names and inspect results files via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := parseSetup(cmd, args); err != nil {
			return err
		}
		return iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
