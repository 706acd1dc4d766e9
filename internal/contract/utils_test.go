package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		group    schema.MetricGroup
		expected string
	}{
		{schema.GroupCommon, "common"},
		{schema.GroupPairwise, "pairwise"},
		{schema.GroupTriple, "triple"},
		{schema.GroupOther, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.group))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	for _, g := range []schema.MetricGroup{schema.GroupCommon, schema.GroupPairwise, schema.GroupTriple, schema.GroupOther} {
		t.Run(g.String(), func(t *testing.T) {
			// Should contain the plain label
			assert.Contains(t, GetColorLabel(g), g.String())
		})
	}
}

func TestGetDiagnosticLabel(t *testing.T) {
	assert.Equal(t, "static table", GetDiagnosticLabel(schema.FallbackStaticTable, false))
	assert.Equal(t, "raw name", GetDiagnosticLabel(schema.FallbackRawName, false))
	assert.Contains(t, GetDiagnosticLabel(schema.FallbackRawName, true), "raw name")
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, path, f.Name())
	})
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".qa4sm_history.db"))
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"short", "R_between_1-C3S_and_2-ISMN", 40, "R_between_1-C3S_and_2-ISMN"},
		{"truncated", "R_between_1-C3S_and_2-ISMN", 10, "..._2-ISMN"},
		{"width too small", "abcdef", 3, "abcdef"},
		{"multibyte", "m³/m³ m³/m³", 8, "...m³/m³"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.input, tt.width))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input     string
		expected  bool
		expectErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
