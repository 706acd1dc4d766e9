package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:    "text",
		Precision: DefaultPrecision,
		Limit:     DefaultLimit,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:   "json output",
			mutate: func(in *ConfigRawInput) { in.Output = "JSON" },
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "parquet output without file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: true,
		},
		{
			name: "parquet output with file",
			mutate: func(in *ConfigRawInput) {
				in.Output = "parquet"
				in.OutputFile = "frame.parquet"
			},
		},
		{
			name:        "invalid limit (zero)",
			mutate:      func(in *ConfigRawInput) { in.Limit = 0 },
			expectError: true,
		},
		{
			name:        "invalid limit (too large)",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxLimit + 1 },
			expectError: true,
		},
		{
			name:        "invalid precision",
			mutate:      func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 },
			expectError: true,
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "invalid history backend",
			mutate:      func(in *ConfigRawInput) { in.HistoryBackend = "oracle" },
			expectError: true,
		},
		{
			name:        "mysql without connection string",
			mutate:      func(in *ConfigRawInput) { in.HistoryBackend = "mysql" },
			expectError: true,
		},
		{
			name: "postgresql with connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "postgresql"
				in.HistoryDBConnect = "host=localhost port=5432 user=qa4sm dbname=qa4sm"
			},
		},
		{
			name: "empty table key",
			mutate: func(in *ConfigRawInput) {
				in.Tables.DatasetPrettyNames = []TableEntryRaw{{Key: "", Value: "x"}}
			},
			expectError: true,
		},
		{
			name: "metric registered twice",
			mutate: func(in *ConfigRawInput) {
				in.Metrics.Triple = []string{"snr", "R"}
			},
			expectError: true,
		},
		{
			name: "blank metric name",
			mutate: func(in *ConfigRawInput) {
				in.Metrics.Common = []string{" "}
			},
			expectError: true,
		},
		{
			name:        "missing results file",
			mutate:      func(in *ConfigRawInput) { in.SourcePathStr = "does/not/exist.parquet" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{Precision: 2, Limit: 5}))

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, 2, cfg.Precision)
	assert.Equal(t, 5, cfg.Limit)
	assert.Empty(t, cfg.SourcePath)
	assert.Equal(t, schema.DefaultTables(), cfg.Tables)
}

func TestProcessTables(t *testing.T) {
	input := validInput()
	input.Tables.DatasetPrettyNames = []TableEntryRaw{{Key: "CCI_Passive", Value: "ESA CCI SM passive"}}
	input.Tables.VersionPrettyNames = []TableEntryRaw{{Key: "C3S_V202012", Value: "v202012"}}
	input.Metrics.Pairwise = []string{"R", "urmsd"}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "ESA CCI SM passive", cfg.Tables.DatasetPrettyNames["CCI_Passive"])
	assert.Equal(t, "v202012", cfg.Tables.VersionPrettyNames["C3S_V202012"])
	// built-in entries survive
	assert.Equal(t, "SMAP level 3", cfg.Tables.DatasetPrettyNames["SMAP"])
	// a registry override replaces the whole group
	assert.Equal(t, []string{"R", "urmsd"}, cfg.Tables.MetricGroups[schema.GroupPairwise])
	assert.Equal(t, []string{"snr", "err_std", "beta"}, cfg.Tables.MetricGroups[schema.GroupTriple])
}

func TestProcessSelection(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*ConfigRawInput)
		check     func(t *testing.T, cfg *Config)
		expectErr string
	}{
		{
			name:   "metric",
			modify: func(in *ConfigRawInput) { in.Metric = " R " },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "R", cfg.Metric)
				assert.Empty(t, cfg.Vars)
			},
		},
		{
			name:   "vars list and single var",
			modify: func(in *ConfigRawInput) { in.Vars = "a, b,,"; in.Var = "c" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"a", "b", "c"}, cfg.Vars)
			},
		},
		{
			name:      "metric and vars",
			modify:    func(in *ConfigRawInput) { in.Metric = "R"; in.Vars = "a" },
			expectErr: "mutually exclusive",
		},
		{
			name:   "extent",
			modify: func(in *ConfigRawInput) { in.Extent = "10, 20, -5.5, 50" },
			check: func(t *testing.T, cfg *Config) {
				require.NotNil(t, cfg.Extent)
				assert.Equal(t, schema.Extent{MinLon: 10, MaxLon: 20, MinLat: -5.5, MaxLat: 50}, *cfg.Extent)
			},
		},
		{
			name:      "extent with three bounds",
			modify:    func(in *ConfigRawInput) { in.Extent = "1,2,3" },
			expectErr: "invalid --extent value",
		},
		{
			name:      "extent not a number",
			modify:    func(in *ConfigRawInput) { in.Extent = "1,2,x,4" },
			expectErr: "not a number",
		},
		{
			name:      "extent bounds swapped",
			modify:    func(in *ConfigRawInput) { in.Extent = "20,10,0,1" },
			expectErr: "lower bound exceeds upper bound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestResolveSourcePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "0-ISMN.soil_moisture_with_1-C3S.sm.parquet")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	t.Run("existing file", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, resolveSourcePath(cfg, &ConfigRawInput{SourcePathStr: file}))
		assert.Equal(t, file, cfg.SourcePath)
	})

	t.Run("directory", func(t *testing.T) {
		cfg := &Config{}
		assert.Error(t, resolveSourcePath(cfg, &ConfigRawInput{SourcePathStr: dir}))
	})
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Precision: 3,
		Tables:    schema.DefaultTables(),
		Vars:      []string{"a"},
		Extent:    &schema.Extent{MaxLon: 1, MaxLat: 1},
	}
	clone := cfg.Clone()

	clone.Precision = 5
	clone.Tables.DatasetPrettyNames["ISMN"] = "changed"
	clone.Vars[0] = "b"
	clone.Extent.MaxLon = 2

	assert.Equal(t, 3, cfg.Precision)
	assert.Equal(t, "ISMN", cfg.Tables.DatasetPrettyNames["ISMN"])
	assert.Equal(t, []string{"a"}, cfg.Vars)
	assert.Equal(t, 1.0, cfg.Extent.MaxLon)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name      string
		backend   schema.DatabaseBackend
		connStr   string
		expectErr bool
	}{
		{"sqlite ignores connection", schema.SQLiteBackend, "", false},
		{"none ignores connection", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/qa4sm", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/qa4sm", true},
		{"mysql missing database", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=qa4sm", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=qa4sm", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
