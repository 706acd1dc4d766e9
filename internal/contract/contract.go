// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/qa4sm/qa4sm-reader/schema"
)

// DatasetSource gives access to one validation results file.
// This allows the catalog to be built without a real file on disk.
type DatasetSource interface {
	// Name returns the base name of the results file.
	Name() string

	// Attributes returns the flat global attribute dictionary.
	Attributes() map[string]string

	// VariableNames lists every variable in the file, in file order.
	VariableNames() []string

	// Series returns the values of a variable along the location index.
	Series(varname string) (schema.Series, error)

	// Close releases the underlying file.
	Close() error
}

// HistoryManager defines the interface for managing history stores.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording catalog loads.
type HistoryStore interface {
	// BeginLoad creates a new load record and returns its unique ID
	BeginLoad(filePath string, startTime time.Time, configParams map[string]any) (int64, error)

	// RecordVariable stores one parsed metric variable of a load
	RecordVariable(loadID int64, record schema.LoadVariableRecord) error

	// EndLoad updates the load record with completion data
	EndLoad(loadID int64, endTime time.Time, summary LoadSummary) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllLoads returns every load record
	GetAllLoads() ([]schema.LoadRecord, error)

	// GetAllVariables returns every recorded variable
	GetAllVariables() ([]schema.LoadVariableRecord, error)

	// Close closes the underlying connection
	Close() error
}

// LoadSummary is the completion data of a catalog load.
type LoadSummary struct {
	VariableCount   int
	DiagnosticCount int
	RefShortName    string
	RefShortVersion string
}
