package source

import (
	"fmt"
	"maps"
	"slices"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// MemorySource is a results file held in memory. Variables without values
// return an empty series.
type MemorySource struct {
	name   string
	attrs  map[string]string
	names  []string
	series map[string]schema.Series
}

var _ contract.DatasetSource = &MemorySource{}

// NewMemorySource creates a source with the given attributes and variables.
func NewMemorySource(name string, attrs map[string]string, varnames ...string) *MemorySource {
	return &MemorySource{
		name:   name,
		attrs:  maps.Clone(attrs),
		names:  slices.Clone(varnames),
		series: make(map[string]schema.Series),
	}
}

// NewMemorySourceFromFrame creates a source whose variables are the columns of f.
func NewMemorySourceFromFrame(name string, attrs map[string]string, f schema.Frame) *MemorySource {
	src := NewMemorySource(name, attrs)
	for _, c := range f.Columns {
		src.Set(schema.Series{Name: c.Name, Index: f.Index, Values: c.Values})
	}
	return src
}

// Set adds or replaces the values of a variable.
func (m *MemorySource) Set(s schema.Series) {
	if !slices.Contains(m.names, s.Name) {
		m.names = append(m.names, s.Name)
	}
	m.series[s.Name] = schema.Series{
		Name:   s.Name,
		Index:  slices.Clone(s.Index),
		Values: slices.Clone(s.Values),
	}
}

// Name returns the file name the source was created with.
func (m *MemorySource) Name() string { return m.name }

// Attributes returns a copy of the global attributes.
func (m *MemorySource) Attributes() map[string]string { return maps.Clone(m.attrs) }

// VariableNames returns the variables in insertion order.
func (m *MemorySource) VariableNames() []string { return slices.Clone(m.names) }

// Series returns the values of varname.
func (m *MemorySource) Series(varname string) (schema.Series, error) {
	if !slices.Contains(m.names, varname) {
		return schema.Series{}, fmt.Errorf("%w: %s", schema.ErrUnknownVariable, varname)
	}
	s, ok := m.series[varname]
	if !ok {
		return schema.Series{Name: varname}, nil
	}
	return s, nil
}

// Close is a no-op.
func (m *MemorySource) Close() error { return nil }
