// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
)

// NewMCPServer initializes and configures the QA4SM MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"QA4SM Reader Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: parse_variable ---
	s.AddTool(mcp.NewTool("parse_variable",
		mcp.WithDescription("Split a QA4SM metric variable name into metric, group, reference, candidate and scaling datasets."),
		mcp.WithString("varname", mcp.Description("Variable name, e.g. 'R_between_0-ISMN_and_1-C3S'."), mcp.Required()),
	), h.handleParseVariable)

	// --- 2. Tool: parse_filename ---
	s.AddTool(mcp.NewTool("parse_filename",
		mcp.WithDescription("Split a QA4SM results file name into its dataset segments. The first segment is the reference."),
		mcp.WithString("filename", mcp.Description("Results file name or path."), mcp.Required()),
	), h.handleParseFilename)

	// --- 3. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List the metrics of a results file with their group and number of variables."),
		mcp.WithString("path", mcp.Description("Path to the results file."), mcp.Required()),
		mcp.WithBoolean("grouped", mcp.Description("Order metrics by group instead of by name.")),
	), h.handleListMetrics)

	// --- 4. Tool: metric_meta ---
	s.AddTool(mcp.NewTool("metric_meta",
		mcp.WithDescription("Resolve the dataset names and versions of every variable of a metric."),
		mcp.WithString("path", mcp.Description("Path to the results file."), mcp.Required()),
		mcp.WithString("metric", mcp.Description("Metric name, e.g. 'R' or 'snr'."), mcp.Required()),
	), h.handleMetricMeta)

	// --- 5. Tool: var_meta ---
	s.AddTool(mcp.NewTool("var_meta",
		mcp.WithDescription("Resolve the dataset names and versions of a single metric variable."),
		mcp.WithString("path", mcp.Description("Path to the results file."), mcp.Required()),
		mcp.WithString("varname", mcp.Description("Metric variable name."), mcp.Required()),
	), h.handleVarMeta)

	// --- 6. Tool: ref_identity ---
	s.AddTool(mcp.NewTool("ref_identity",
		mcp.WithDescription("Return the reference dataset shared by all variables of a results file."),
		mcp.WithString("path", mcp.Description("Path to the results file."), mcp.Required()),
	), h.handleRefIdentity)

	return s
}

// StartMCPServer starts the QA4SM MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
