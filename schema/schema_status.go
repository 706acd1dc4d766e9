package schema

import "time"

// HistoryStatus represents the status of the load history store.
type HistoryStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TotalLoads      int              `json:"total_loads"`
	LastLoadID      int64            `json:"last_load_id"`
	LastLoadTime    time.Time        `json:"last_load_time"`
	OldestLoadTime  time.Time        `json:"oldest_load_time"`
	TotalVariables  int              `json:"total_variables"`
	TableSizes      map[string]int64 `json:"table_sizes"`
	SchemaVersion   uint             `json:"schema_version"`
	SchemaDirty     bool             `json:"schema_dirty"`
}

// LoadRecord represents a row from the qa4sm_loads table.
type LoadRecord struct {
	LoadID           int64
	FilePath         string
	LoadTime         time.Time
	DurationMs       *int64
	VariableCount    *int32
	DiagnosticCount  *int32
	RefShortName     *string
	RefShortVersion  *string
	ConfigParamsJSON *string
}

// LoadVariableRecord represents a row from the qa4sm_load_variables table.
type LoadVariableRecord struct {
	LoadID      int64
	Varname     string
	Metric      string
	MetricGroup string
	Candidates  string
	Scaling     *string
}
