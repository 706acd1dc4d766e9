package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the load history.
	DatabaseBackend string

	// DiagnosticKind represents which fallback tier produced a value.
	DiagnosticKind string

	// IdentityField names one resolvable field of a DatasetIdentity.
	IdentityField string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All diagnostic kinds emitted by the name resolver.
const (
	FallbackStaticTable DiagnosticKind = "static_table"
	FallbackRawName     DiagnosticKind = "raw_name"
)

// Resolvable identity fields.
const (
	FieldShortName     IdentityField = "short_name"
	FieldPrettyName    IdentityField = "pretty_name"
	FieldShortVersion  IdentityField = "short_version"
	FieldPrettyVersion IdentityField = "pretty_version"
)

// Attribute keys of a results file. The %d verb is the zero-based attribute index.
const (
	RefDatasetAttr         = "val_ref"
	DatasetShortNameAttr   = "val_dc_dataset%d"
	DatasetPrettyNameAttr  = "val_dc_dataset_pretty_name%d"
	VersionShortNameAttr   = "val_dc_version%d"
	VersionPrettyNameAttr  = "val_dc_version_pretty_name%d"
	DatasetShortNamePrefix = "val_dc_dataset"
)

// File name grammar literals.
const (
	FilenameSeparator = "_with_"
	FilenameExtension = ".nc"
	ParquetExtension  = ".parquet"
	CommonObsMetric   = "n_obs"
)

// Index columns of a metric frame.
var IndexNames = []string{"lat", "lon"}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
