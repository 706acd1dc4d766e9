package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	mcp_internal "github.com/qa4sm/qa4sm-reader/internal/mcp"
	"github.com/qa4sm/qa4sm-reader/internal/source"
	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsName = "0-ISMN.soil_moisture_with_1-C3S.sm_with_2-SMAP.soil_moisture.nc"

func writeResults(t *testing.T) string {
	t.Helper()
	attrs := map[string]string{
		"val_ref":                     "val_dc_dataset0",
		"val_dc_dataset0":             "ISMN",
		"val_dc_version0":             "ISMN_V20180712_MINI",
		"val_dc_version_pretty_name0": "20180712 mini testset",
		"val_dc_dataset1":             "C3S",
		"val_dc_version1":             "C3S_V201812",
		"val_dc_dataset2":             "SMAP",
		"val_dc_version2":             "SMAP_V5_PM",
	}
	frame := schema.Frame{
		Index: []schema.Point{{Lat: 48.2, Lon: 16.3}},
		Columns: []schema.Column{
			{Name: "R_between_0-ISMN_and_1-C3S", Values: []float64{0.7}},
			{Name: "R_between_0-ISMN_and_2-SMAP", Values: []float64{0.5}},
			{Name: "n_obs", Values: []float64{100}},
		},
	}
	path := filepath.Join(t.TempDir(), "results.parquet")
	require.NoError(t, source.WriteParquet(path, resultsName, attrs, frame))
	return path
}

func call(t *testing.T, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(&contract.Config{Tables: schema.DefaultTables()}, nil)
	registered := s.GetTool(tool)
	require.NotNil(t, registered, "Tool %s should exist", tool)

	res, err := registered.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: tool, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		tool     string
		args     map[string]any
		expected string
	}{
		{"parse_variable", map[string]any{}, "varname is required"},
		{"parse_variable", map[string]any{"varname": "gpi"}, "parsing failed"},
		{"parse_filename", map[string]any{"filename": "results.nc"}, "parsing failed"},
		{"list_metrics", map[string]any{}, "path is required"},
		{"list_metrics", map[string]any{"path": "/nonexistent/results.parquet"}, "loading failed"},
		{"metric_meta", map[string]any{"path": "x.parquet"}, "metric is required"},
		{"var_meta", map[string]any{"path": "x.parquet"}, "varname is required"},
		{"ref_identity", map[string]any{"path": "results.nc"}, "unsupported results file"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.expected, func(t *testing.T) {
			res := call(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(res), tt.expected)
		})
	}
}

func TestMCPServerHandlers_Parse(t *testing.T) {
	t.Run("parse_variable", func(t *testing.T) {
		res := call(t, "parse_variable", map[string]any{"varname": "snr_1-C3S_between_0-ISMN_and_1-C3S_and_2-SMAP"})
		require.False(t, res.IsError, text(res))

		var parsed schema.ParsedVariable
		require.NoError(t, json.Unmarshal([]byte(text(res)), &parsed))
		assert.Equal(t, schema.GroupTriple, parsed.Group)
		assert.Equal(t, "C3S", parsed.Scaling.ShortName)
	})

	t.Run("parse_filename", func(t *testing.T) {
		res := call(t, "parse_filename", map[string]any{"filename": "/data/" + resultsName})
		require.False(t, res.IsError, text(res))

		var parsed schema.ParsedFilename
		require.NoError(t, json.Unmarshal([]byte(text(res)), &parsed))
		assert.Equal(t, "ISMN", parsed.Reference.ShortName)
		assert.Len(t, parsed.Candidates, 2)
	})
}

func TestMCPServerHandlers_Catalog(t *testing.T) {
	path := writeResults(t)

	t.Run("list_metrics", func(t *testing.T) {
		res := call(t, "list_metrics", map[string]any{"path": path})
		require.False(t, res.IsError, text(res))

		var entries []schema.MetricEntry
		require.NoError(t, json.Unmarshal([]byte(text(res)), &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "R", entries[0].Metric)
		assert.Equal(t, 2, entries[0].Variables)
		assert.Equal(t, schema.GroupCommon, entries[1].Group)
	})

	t.Run("metric_meta", func(t *testing.T) {
		res := call(t, "metric_meta", map[string]any{"path": path, "metric": "R"})
		require.False(t, res.IsError, text(res))

		var meta map[string]schema.VarMeta
		require.NoError(t, json.Unmarshal([]byte(text(res)), &meta))
		assert.Equal(t, "SMAP", meta["R_between_0-ISMN_and_2-SMAP"].Candidates[0].ShortName)
	})

	t.Run("metric_meta unknown metric", func(t *testing.T) {
		res := call(t, "metric_meta", map[string]any{"path": path, "metric": "snr"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "metric lookup failed")
	})

	t.Run("var_meta", func(t *testing.T) {
		res := call(t, "var_meta", map[string]any{"path": path, "varname": "n_obs"})
		require.False(t, res.IsError, text(res))

		var meta schema.VarMeta
		require.NoError(t, json.Unmarshal([]byte(text(res)), &meta))
		assert.Len(t, meta.Candidates, 2)
	})

	t.Run("ref_identity", func(t *testing.T) {
		res := call(t, "ref_identity", map[string]any{"path": path})
		require.False(t, res.IsError, text(res))

		var ref schema.DatasetIdentity
		require.NoError(t, json.Unmarshal([]byte(text(res)), &ref))
		assert.Equal(t, "ISMN", ref.ShortName)
		assert.Equal(t, "20180712 mini testset", ref.PrettyVersion)
	})
}
