// Package source reads validation results files for the metric catalog.
package source

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// Key/value metadata layout of a results parquet file.
const (
	attrKeyPrefix   = "attr:"     // one entry per global attribute
	filenameKey     = "file:name" // name of the results file the table was converted from
	rowReadBatch    = 1024
	parquetSchemaID = "qa4sm"
)

// ParquetSource is a results file stored as a parquet table: one row per
// location with lat and lon columns plus one double column per variable.
// Global attributes live in the key/value metadata of the file.
type ParquetSource struct {
	name    string
	attrs   map[string]string
	names   []string
	index   []schema.Point
	columns map[string][]float64
}

var _ contract.DatasetSource = &ParquetSource{}

// OpenParquet reads the whole results table at path into memory.
func OpenParquet(path string) (*ParquetSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat results file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet footer of %s: %w", path, err)
	}

	src := &ParquetSource{
		name:    filepath.Base(path),
		attrs:   make(map[string]string),
		columns: make(map[string][]float64),
	}
	for _, kv := range pf.Metadata().KeyValueMetadata {
		if key, ok := strings.CutPrefix(kv.Key, attrKeyPrefix); ok {
			src.attrs[key] = kv.Value
		}
	}
	if name, ok := pf.Lookup(filenameKey); ok && name != "" {
		src.name = name
	}

	columnNames := make([]string, 0)
	for _, path := range pf.Schema().Columns() {
		columnNames = append(columnNames, strings.Join(path, "."))
	}
	lat, lon := slices.Index(columnNames, schema.IndexNames[0]), slices.Index(columnNames, schema.IndexNames[1])
	if lat < 0 || lon < 0 {
		return nil, fmt.Errorf("results file %s has no %s/%s columns", path, schema.IndexNames[0], schema.IndexNames[1])
	}

	values := make([][]float64, len(columnNames))
	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, values); err != nil {
			return nil, fmt.Errorf("failed to read rows of %s: %w", path, err)
		}
	}

	for i := range values[lat] {
		src.index = append(src.index, schema.Point{Lat: values[lat][i], Lon: values[lon][i]})
	}
	for i, name := range columnNames {
		if i == lat || i == lon {
			continue
		}
		src.names = append(src.names, name)
		src.columns[name] = values[i]
	}
	return src, nil
}

// readRowGroup appends every column value of rg to values, indexed by column.
func readRowGroup(rg parquet.RowGroup, values [][]float64) error {
	rows := rg.Rows()
	defer func() { _ = rows.Close() }()

	buf := make([]parquet.Row, rowReadBatch)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			for _, v := range row {
				col := v.Column()
				if col < 0 || col >= len(values) {
					continue
				}
				if v.IsNull() {
					values[col] = append(values[col], math.NaN())
				} else {
					values[col] = append(values[col], v.Double())
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Name returns the results file name.
func (p *ParquetSource) Name() string { return p.name }

// Attributes returns a copy of the global attributes.
func (p *ParquetSource) Attributes() map[string]string { return maps.Clone(p.attrs) }

// VariableNames returns every non-index column.
func (p *ParquetSource) VariableNames() []string { return slices.Clone(p.names) }

// Series returns the values of varname along the location index.
func (p *ParquetSource) Series(varname string) (schema.Series, error) {
	values, ok := p.columns[varname]
	if !ok {
		return schema.Series{}, fmt.Errorf("%w: %s", schema.ErrUnknownVariable, varname)
	}
	return schema.Series{Name: varname, Index: slices.Clone(p.index), Values: slices.Clone(values)}, nil
}

// Close releases the table. The file itself is closed once loaded.
func (p *ParquetSource) Close() error {
	p.columns = nil
	p.index = nil
	return nil
}

// WriteParquet writes attrs and the columns of f as a results parquet file.
// name is stored as the original results file name when not empty.
func WriteParquet(path, name string, attrs map[string]string, f schema.Frame) error {
	group := parquet.Group{
		schema.IndexNames[0]: parquet.Leaf(parquet.DoubleType),
		schema.IndexNames[1]: parquet.Leaf(parquet.DoubleType),
	}
	for _, c := range f.Columns {
		if slices.Contains(schema.IndexNames, c.Name) {
			return fmt.Errorf("variable %s clashes with an index column", c.Name)
		}
		group[c.Name] = parquet.Leaf(parquet.DoubleType)
	}
	sch := parquet.NewSchema(parquetSchemaID, group)

	colIndex := make(map[string]int)
	for i, path := range sch.Columns() {
		colIndex[strings.Join(path, ".")] = i
	}

	options := []parquet.WriterOption{sch}
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		options = append(options, parquet.KeyValueMetadata(attrKeyPrefix+key, attrs[key]))
	}
	if name != "" {
		options = append(options, parquet.KeyValueMetadata(filenameKey, name))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewWriter(file, options...)

	rows := make([]parquet.Row, 0, f.Len())
	for i, p := range f.Index {
		row := make(parquet.Row, len(colIndex))
		row[colIndex[schema.IndexNames[0]]] = parquet.DoubleValue(p.Lat).Level(0, 0, colIndex[schema.IndexNames[0]])
		row[colIndex[schema.IndexNames[1]]] = parquet.DoubleValue(p.Lon).Level(0, 0, colIndex[schema.IndexNames[1]])
		for _, c := range f.Columns {
			v := math.NaN()
			if i < len(c.Values) {
				v = c.Values[i]
			}
			row[colIndex[c.Name]] = parquet.DoubleValue(v).Level(0, 0, colIndex[c.Name])
		}
		rows = append(rows, row)
	}

	if _, err := writer.WriteRows(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// Open opens a results file, choosing the reader by extension.
func Open(path string) (contract.DatasetSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case schema.ParquetExtension:
		return OpenParquet(path)
	default:
		return nil, fmt.Errorf("unsupported results file %s: convert it to %s first", filepath.Base(path), schema.ParquetExtension)
	}
}
