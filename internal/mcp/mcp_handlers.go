package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/qa4sm/qa4sm-reader/core"
	"github.com/qa4sm/qa4sm-reader/core/grammar"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// jsonResult renders v as an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// loadCatalog loads the results file named by the "path" argument.
func (h *toolHandler) loadCatalog(ctx context.Context, request mcp.CallToolRequest) (*core.MetricCatalog, error) {
	path := request.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg := h.baseCfg.Clone()
	cfg.SourcePath = abs
	return core.LoadCatalog(core.WithQuiet(ctx), cfg, h.mgr)
}

func (h *toolHandler) handleParseVariable(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	varname := request.GetString("varname", "")
	if varname == "" {
		return mcp.NewToolResultError("varname is required"), nil
	}
	parsed, err := grammar.NewVariableNameGrammar(h.baseCfg.Tables).Parse(varname)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parsing failed: %v", err)), nil
	}
	return jsonResult(parsed)
}

func (h *toolHandler) handleParseFilename(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("filename", "")
	if name == "" {
		return mcp.NewToolResultError("filename is required"), nil
	}
	parsed, err := grammar.ParseFilename(filepath.Base(name))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parsing failed: %v", err)), nil
	}
	return jsonResult(parsed)
}

func (h *toolHandler) handleListMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, err := h.loadCatalog(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	return jsonResult(core.GetMetricEntries(cat, request.GetBool("grouped", false)))
}

func (h *toolHandler) handleMetricMeta(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric := request.GetString("metric", "")
	if metric == "" {
		return mcp.NewToolResultError("metric is required"), nil
	}
	cat, err := h.loadCatalog(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	meta, err := cat.MetricMeta(metric)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("metric lookup failed: %v", err)), nil
	}
	return jsonResult(meta)
}

func (h *toolHandler) handleVarMeta(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	varname := request.GetString("varname", "")
	if varname == "" {
		return mcp.NewToolResultError("varname is required"), nil
	}
	cat, err := h.loadCatalog(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	meta, err := cat.VarMeta(varname)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("variable lookup failed: %v", err)), nil
	}
	return jsonResult(meta)
}

func (h *toolHandler) handleRefIdentity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, err := h.loadCatalog(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	ref, err := cat.RefIdentity()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reference lookup failed: %v", err)), nil
	}
	return jsonResult(ref)
}
