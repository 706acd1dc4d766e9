package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/qa4sm/qa4sm-reader/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 3
	MaxPrecision     = 8
	DefaultLimit     = 20
	MaxLimit         = 100000
)

// TableEntryRaw is one key/value pair of a lookup table override. Lookup
// tables are lists rather than maps because config keys are case-insensitive
// and dataset short names are not.
type TableEntryRaw struct {
	Key   string `mapstructure:"key"`
	Value string `mapstructure:"value"`
}

// TablesRawInput holds lookup table overrides from the YAML config file.
type TablesRawInput struct {
	DatasetPrettyNames []TableEntryRaw `mapstructure:"dataset-pretty-names"`
	VersionPrettyNames []TableEntryRaw `mapstructure:"version-pretty-names"`
	MetricPrettyNames  []TableEntryRaw `mapstructure:"metric-pretty-names"`
	DatasetUnits       []TableEntryRaw `mapstructure:"dataset-units"`
}

// MetricsRawInput holds metric registry overrides from the YAML config file.
// A non-empty list replaces the built-in registry of that group.
type MetricsRawInput struct {
	Common   []string `mapstructure:"common"`
	Pairwise []string `mapstructure:"pairwise"`
	Triple   []string `mapstructure:"triple"`
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	SourcePath string
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	Limit      int // Rows shown when previewing frames in text mode
	Verbose    bool
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// Variable selection of the meta, frame and summary commands
	Grouped bool
	Metric  string
	Vars    []string
	Extent  *schema.Extent // nil keeps every location

	// Tables is the built-in lookup tables merged with config overrides
	Tables schema.Tables
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SourcePathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Limit            int    `mapstructure:"limit"`
	Verbose          bool   `mapstructure:"verbose"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from subcommand flags ---
	Grouped bool   `mapstructure:"grouped"`
	Metric  string `mapstructure:"metric"`
	Vars    string `mapstructure:"vars"`
	Var     string `mapstructure:"var"`
	Extent  string `mapstructure:"extent"`

	// --- Lookup tables and metric registry from config file ---
	Tables  TablesRawInput  `mapstructure:"tables"`
	Metrics MetricsRawInput `mapstructure:"metrics"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Tables = c.Tables.Clone()
	clone.Vars = slices.Clone(c.Vars)
	if c.Extent != nil {
		extent := *c.Extent
		clone.Extent = &extent
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processTables(cfg, input); err != nil {
		return err
	}
	if err := processSelection(cfg, input); err != nil {
		return err
	}
	if err := resolveSourcePath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose

	colors := true
	if input.Color != "" {
		var err error
		colors, err = ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
	}
	cfg.UseColors = colors

	// --- 1. Precision Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	// --- 2. Limit Validation ---
	if input.Limit <= 0 || input.Limit > MaxLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	return nil
}

// processTables merges lookup table and metric registry overrides into the built-in tables.
func processTables(cfg *Config, input *ConfigRawInput) error {
	overrides := schema.Tables{MetricGroups: make(map[schema.MetricGroup][]string)}

	toMap := func(name string, entries []TableEntryRaw) (map[string]string, error) {
		out := make(map[string]string, len(entries))
		for _, e := range entries {
			if e.Key == "" {
				return nil, fmt.Errorf("tables.%s: entry with empty key", name)
			}
			out[e.Key] = e.Value
		}
		return out, nil
	}

	var err error
	if overrides.DatasetPrettyNames, err = toMap("dataset-pretty-names", input.Tables.DatasetPrettyNames); err != nil {
		return err
	}
	if overrides.VersionPrettyNames, err = toMap("version-pretty-names", input.Tables.VersionPrettyNames); err != nil {
		return err
	}
	if overrides.MetricPrettyNames, err = toMap("metric-pretty-names", input.Tables.MetricPrettyNames); err != nil {
		return err
	}
	if overrides.DatasetUnits, err = toMap("dataset-units", input.Tables.DatasetUnits); err != nil {
		return err
	}

	groups := map[schema.MetricGroup][]string{
		schema.GroupCommon:   input.Metrics.Common,
		schema.GroupPairwise: input.Metrics.Pairwise,
		schema.GroupTriple:   input.Metrics.Triple,
	}
	for g, metrics := range groups {
		if len(metrics) == 0 {
			continue
		}
		for _, m := range metrics {
			if strings.TrimSpace(m) == "" {
				return fmt.Errorf("metrics.%s: empty metric name", g)
			}
		}
		overrides.MetricGroups[g] = metrics
	}

	cfg.Tables = schema.DefaultTables().Merge(overrides)

	// a metric name must belong to exactly one group, overridden or built-in
	counts := make(map[string]int)
	for _, metrics := range cfg.Tables.MetricGroups {
		for _, m := range metrics {
			counts[m]++
		}
	}
	for _, m := range slices.Sorted(maps.Keys(counts)) {
		if counts[m] > 1 {
			return fmt.Errorf("metric %q is registered in more than one metric group", m)
		}
	}
	return nil
}

// processSelection parses the variable selection and the geographic extent.
func processSelection(cfg *Config, input *ConfigRawInput) error {
	cfg.Grouped = input.Grouped
	cfg.Metric = strings.TrimSpace(input.Metric)

	cfg.Vars = nil
	for _, v := range strings.Split(input.Vars, ",") {
		if v = strings.TrimSpace(v); v != "" {
			cfg.Vars = append(cfg.Vars, v)
		}
	}
	if v := strings.TrimSpace(input.Var); v != "" {
		cfg.Vars = append(cfg.Vars, v)
	}
	if cfg.Metric != "" && len(cfg.Vars) > 0 {
		return fmt.Errorf("--metric and --vars are mutually exclusive")
	}

	cfg.Extent = nil
	if input.Extent != "" {
		extent, err := ParseExtent(input.Extent)
		if err != nil {
			return fmt.Errorf("invalid --extent value: %w", err)
		}
		cfg.Extent = &extent
	}
	return nil
}

// ParseExtent parses "min_lon,max_lon,min_lat,max_lat" into an Extent.
func ParseExtent(s string) (schema.Extent, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return schema.Extent{}, fmt.Errorf("expected min_lon,max_lon,min_lat,max_lat (received %q)", s)
	}
	bounds := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return schema.Extent{}, fmt.Errorf("bound %q is not a number", p)
		}
		bounds[i] = v
	}
	e := schema.Extent{MinLon: bounds[0], MaxLon: bounds[1], MinLat: bounds[2], MaxLat: bounds[3]}
	if e.MinLon > e.MaxLon || e.MinLat > e.MaxLat {
		return schema.Extent{}, fmt.Errorf("lower bound exceeds upper bound in %q", s)
	}
	return e, nil
}

// resolveSourcePath validates the results file given as positional argument.
func resolveSourcePath(cfg *Config, input *ConfigRawInput) error {
	if input.SourcePathStr == "" {
		cfg.SourcePath = ""
		return nil
	}
	absPath, err := filepath.Abs(input.SourcePathStr)
	if err != nil {
		return fmt.Errorf("failed to resolve results file path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("results file %s: %w", input.SourcePathStr, err)
	}
	if info.IsDir() {
		return fmt.Errorf("results file %s is a directory", input.SourcePathStr)
	}
	cfg.SourcePath = absPath
	return nil
}
