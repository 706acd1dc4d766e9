// Package parquet provides data structures and functions for exporting qa4sm
// load history and catalog tables to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// Load represents a single load of a results file.
// This struct maps to the qa4sm_loads database table.
type Load struct {
	// LoadID is the unique identifier for this load
	LoadID int64 `parquet:"load_id,snappy"`

	// FilePath is the results file that was loaded
	FilePath string `parquet:"file_path,snappy"`

	// LoadTime is when the load began (stored as TIMESTAMP with nanosecond precision)
	LoadTime time.Time `parquet:"load_time,snappy"`

	// DurationMs is the duration of the load in milliseconds (nullable)
	DurationMs *int64 `parquet:"duration_ms,optional,snappy"`

	// VariableCount is the number of metric variables found (nullable)
	VariableCount *int32 `parquet:"variable_count,optional,snappy"`

	// DiagnosticCount is the number of fallback diagnostics raised (nullable)
	DiagnosticCount *int32 `parquet:"diagnostic_count,optional,snappy"`

	// RefShortName is the reference dataset short name (nullable)
	RefShortName *string `parquet:"ref_short_name,optional,snappy"`

	// RefShortVersion is the reference dataset short version (nullable)
	RefShortVersion *string `parquet:"ref_short_version,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// LoadVariable is one metric variable parsed during a load.
// This struct maps to the qa4sm_load_variables database table.
type LoadVariable struct {
	LoadID      int64   `parquet:"load_id,snappy"`
	Varname     string  `parquet:"varname,snappy"`
	Metric      string  `parquet:"metric,snappy"`
	MetricGroup string  `parquet:"metric_group,snappy"`
	Candidates  string  `parquet:"candidates,snappy"`
	Scaling     *string `parquet:"scaling,optional,snappy"`
}

// WriteLoadsParquet writes a slice of Load structs to a Parquet file.
func WriteLoadsParquet(data []Load, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteLoadVariablesParquet writes a slice of LoadVariable structs to a Parquet file.
func WriteLoadVariablesParquet(data []LoadVariable, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet infers the schema from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	return nil
}

// ConvertLoadRecords converts schema.LoadRecord to Load for Parquet export.
func ConvertLoadRecords(records []schema.LoadRecord) []Load {
	result := make([]Load, len(records))
	for i, record := range records {
		result[i] = Load{
			LoadID:          record.LoadID,
			FilePath:        record.FilePath,
			LoadTime:        record.LoadTime,
			DurationMs:      record.DurationMs,
			VariableCount:   record.VariableCount,
			DiagnosticCount: record.DiagnosticCount,
			RefShortName:    record.RefShortName,
			RefShortVersion: record.RefShortVersion,
			ConfigParams:    record.ConfigParamsJSON,
		}
	}
	return result
}

// ConvertLoadVariableRecords converts schema.LoadVariableRecord to LoadVariable for Parquet export.
func ConvertLoadVariableRecords(records []schema.LoadVariableRecord) []LoadVariable {
	result := make([]LoadVariable, len(records))
	for i, record := range records {
		result[i] = LoadVariable{
			LoadID:      record.LoadID,
			Varname:     record.Varname,
			Metric:      record.Metric,
			MetricGroup: record.MetricGroup,
			Candidates:  record.Candidates,
			Scaling:     record.Scaling,
		}
	}
	return result
}
