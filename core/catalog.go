package core

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/qa4sm/qa4sm-reader/core/attrs"
	"github.com/qa4sm/qa4sm-reader/core/grammar"
	"github.com/qa4sm/qa4sm-reader/core/resolve"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// MetricCatalog indexes every metric variable of one results file by metric
// group and by metric name.
type MetricCatalog struct {
	name     string
	tables   schema.Tables
	idx      *attrs.AttributeIndex
	grammar  *grammar.VariableNameGrammar
	resolver *resolve.NameResolver

	groups map[schema.MetricGroup]map[string][]*MetricVariable
	vars   map[string]*MetricVariable
	order  []string // metric variables in file order
	others []string // variables matching no name template
	empty  []string // metric variables holding only NaN
}

// NewMetricCatalog loads every variable of src. Variables whose names match no
// template are skipped and listed by Others. A dataset that cannot be resolved
// or a reference that differs between variables fails the whole load.
func NewMetricCatalog(src contract.DatasetSource, tables schema.Tables) (*MetricCatalog, error) {
	idx, err := attrs.NewAttributeIndex(src.Attributes())
	if err != nil {
		return nil, fmt.Errorf("reading attributes of %s: %w", src.Name(), err)
	}

	c := &MetricCatalog{
		name:     src.Name(),
		tables:   tables,
		idx:      idx,
		grammar:  grammar.NewVariableNameGrammar(tables),
		resolver: resolve.NewNameResolver(idx, tables),
		groups:   make(map[schema.MetricGroup]map[string][]*MetricVariable),
		vars:     make(map[string]*MetricVariable),
	}

	for _, name := range src.VariableNames() {
		v, err := NewMetricVariable(name, c.grammar, c.resolver)
		if errors.Is(err, schema.ErrNameGrammarMismatch) {
			c.others = append(c.others, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", src.Name(), err)
		}

		series, err := src.Series(name)
		if err != nil {
			return nil, fmt.Errorf("reading values of %s: %w", name, err)
		}
		if series.Len() > 0 {
			v = v.WithValues(series)
			if v.IsEmpty() {
				c.empty = append(c.empty, name)
				continue
			}
		}
		c.add(v)
	}

	if _, err := c.checkReference(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", src.Name(), err)
	}
	return c, nil
}

func (c *MetricCatalog) add(v *MetricVariable) {
	byMetric, ok := c.groups[v.Group()]
	if !ok {
		byMetric = make(map[string][]*MetricVariable)
		c.groups[v.Group()] = byMetric
	}
	byMetric[v.Metric()] = append(byMetric[v.Metric()], v)
	c.vars[v.Varname] = v
	c.order = append(c.order, v.Varname)
}

// checkReference returns the reference shared by all variables. Without any
// metric variable the reference named by val_ref is used.
func (c *MetricCatalog) checkReference() (schema.DatasetIdentity, error) {
	if len(c.order) == 0 {
		res, err := c.resolver.ReferenceNames()
		if err != nil {
			return schema.DatasetIdentity{}, err
		}
		return res.Identity, nil
	}

	first := c.vars[c.order[0]]
	for _, name := range c.order[1:] {
		v := c.vars[name]
		if !v.Ref.Same(first.Ref) {
			return schema.DatasetIdentity{}, &schema.InconsistentReferenceError{
				Varnames:   []string{first.Varname, v.Varname},
				Identities: []schema.DatasetIdentity{first.Ref, v.Ref},
			}
		}
	}
	return first.Ref, nil
}

// Name returns the name of the loaded results file.
func (c *MetricCatalog) Name() string { return c.name }

// Index returns the attribute index of the file.
func (c *MetricCatalog) Index() *attrs.AttributeIndex { return c.idx }

// Resolver returns the name resolver of the file.
func (c *MetricCatalog) Resolver() *resolve.NameResolver { return c.resolver }

// Metrics returns the metrics present in the file, sorted.
func (c *MetricCatalog) Metrics() []string {
	var out []string
	for _, byMetric := range c.groups {
		out = append(out, slices.Collect(maps.Keys(byMetric))...)
	}
	slices.Sort(out)
	return out
}

// GroupedMetrics returns the metrics present per group, in registry order.
func (c *MetricCatalog) GroupedMetrics() map[schema.MetricGroup][]string {
	out := make(map[schema.MetricGroup][]string, len(schema.MetricGroups))
	for _, g := range schema.MetricGroups {
		metrics := []string{}
		for _, m := range c.tables.MetricGroups[g] {
			if len(c.groups[g][m]) > 0 {
				metrics = append(metrics, m)
			}
		}
		out[g] = metrics
	}
	return out
}

// Variables returns the metric variable names present in the file, sorted.
func (c *MetricCatalog) Variables() []string {
	return slices.Sorted(slices.Values(c.order))
}

// GroupedVariables returns the metric variable names per group, in file order.
func (c *MetricCatalog) GroupedVariables() map[schema.MetricGroup][]string {
	out := make(map[schema.MetricGroup][]string, len(schema.MetricGroups))
	for _, g := range schema.MetricGroups {
		out[g] = []string{}
	}
	for _, name := range c.order {
		g := c.vars[name].Group()
		out[g] = append(out[g], name)
	}
	return out
}

// FindGroup returns the group owning key, which is either a metric name or a
// metric variable name.
func (c *MetricCatalog) FindGroup(key string) (schema.MetricGroup, error) {
	if v, ok := c.vars[key]; ok {
		return v.Group(), nil
	}
	for _, g := range schema.MetricGroups {
		if len(c.groups[g][key]) > 0 {
			return g, nil
		}
	}
	if _, err := c.tables.GroupOf(key); err == nil {
		return schema.GroupOther, fmt.Errorf("%w: metric %s has no variables in %s", schema.ErrUnknownVariable, key, c.name)
	}
	return schema.GroupOther, fmt.Errorf("%w: %s is neither a metric nor a metric variable of %s", schema.ErrUnknownVariable, key, c.name)
}

// Variable returns the metric variable called varname.
func (c *MetricCatalog) Variable(varname string) (*MetricVariable, error) {
	v, ok := c.vars[varname]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", schema.ErrUnknownVariable, varname, c.name)
	}
	return v, nil
}

// VariablesOf returns the variables describing metric, in file order.
func (c *MetricCatalog) VariablesOf(metric string) ([]*MetricVariable, error) {
	g, err := c.tables.GroupOf(metric)
	if err != nil {
		return nil, err
	}
	vars := c.groups[g][metric]
	if len(vars) == 0 {
		return nil, fmt.Errorf("%w: metric %s has no variables in %s", schema.ErrUnknownVariable, metric, c.name)
	}
	return slices.Clone(vars), nil
}

// MetricMeta returns the resolved identities of every variable describing metric.
func (c *MetricCatalog) MetricMeta(metric string) (map[string]schema.VarMeta, error) {
	vars, err := c.VariablesOf(metric)
	if err != nil {
		return nil, err
	}
	out := make(map[string]schema.VarMeta, len(vars))
	for _, v := range vars {
		out[v.Varname] = v.VarMeta()
	}
	return out, nil
}

// VarMeta returns the resolved identities of a single variable.
func (c *MetricCatalog) VarMeta(varname string) (schema.VarMeta, error) {
	if _, err := c.FindGroup(varname); err != nil {
		return schema.VarMeta{}, err
	}
	v, err := c.Variable(varname)
	if err != nil {
		return schema.VarMeta{}, err
	}
	return v.VarMeta(), nil
}

// RefIdentity returns the reference dataset shared by the whole file.
func (c *MetricCatalog) RefIdentity() (schema.DatasetIdentity, error) {
	return c.checkReference()
}

// MetricFrame builds the frames of the selected variables. Triple collocation
// variables are split into one partition per scaling dataset, in order of
// first appearance. Rows where every selected variable is NaN are dropped.
func (c *MetricCatalog) MetricFrame(sel Selector) ([]schema.FramePartition, error) {
	vars, err := c.selectVariables(sel)
	if err != nil {
		return nil, err
	}

	var parts []*partition
	byScaling := make(map[string]*partition)
	for _, v := range vars {
		key := ""
		if v.Group() == schema.GroupTriple && v.Scaling != nil {
			key = fmt.Sprintf("%d/%s/%s", v.Scaling.AttrID, v.Scaling.ShortName, v.Scaling.ShortVersion)
		}
		p, ok := byScaling[key]
		if !ok {
			p = &partition{}
			if key != "" {
				scaling := *v.Scaling
				p.scaling = &scaling
			}
			byScaling[key] = p
			parts = append(parts, p)
		}
		p.vars = append(p.vars, v)
	}

	out := make([]schema.FramePartition, 0, len(parts))
	for _, p := range parts {
		out = append(out, p.build())
	}
	return out, nil
}

func (c *MetricCatalog) selectVariables(sel Selector) ([]*MetricVariable, error) {
	if metric, ok := sel.Metric(); ok {
		return c.VariablesOf(metric)
	}
	names, ok := sel.Variables()
	if !ok {
		return nil, fmt.Errorf("%w: no metric or variables selected", schema.ErrUnknownVariable)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty variable selection", schema.ErrUnknownVariable)
	}
	out := make([]*MetricVariable, 0, len(names))
	for _, name := range names {
		v, err := c.Variable(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type partition struct {
	scaling *schema.DatasetIdentity
	vars    []*MetricVariable
}

func (p *partition) build() schema.FramePartition {
	series := make([]schema.Series, 0, len(p.vars))
	names := make([]string, 0, len(p.vars))
	meta := make(map[string]schema.VarMeta, len(p.vars))
	for _, v := range p.vars {
		names = append(names, v.Varname)
		meta[v.Varname] = v.VarMeta()
		if v.Values != nil {
			s := *v.Values
			s.Name = v.Varname
			series = append(series, s)
		} else {
			series = append(series, schema.Series{Name: v.Varname})
		}
	}
	return schema.FramePartition{
		Scaling:   p.scaling,
		Variables: names,
		Meta:      meta,
		Frame:     DropNaN(ConcatSeries(series)),
	}
}

// Diagnostics returns every fallback used while resolving the file's datasets.
func (c *MetricCatalog) Diagnostics() []schema.Diagnostic {
	return c.resolver.Diagnostics()
}

// Others returns the variables that match no name template, e.g. coordinates.
func (c *MetricCatalog) Others() []string { return slices.Clone(c.others) }

// Empty returns the metric variables left out because they hold only NaN.
func (c *MetricCatalog) Empty() []string { return slices.Clone(c.empty) }

// Filename parses the name of the loaded file. A parquet copy of a results
// file is parsed as if it had the original extension.
func (c *MetricCatalog) Filename() (schema.ParsedFilename, error) {
	base := c.name
	if stem, ok := strings.CutSuffix(base, schema.ParquetExtension); ok {
		base = stem + schema.FilenameExtension
	}
	return grammar.ParseFilename(base)
}

// Info summarizes the file: reference, datasets, metrics and variable counts.
func (c *MetricCatalog) Info() (schema.CatalogInfo, error) {
	ref, others, err := c.resolver.AllNames()
	if err != nil {
		return schema.CatalogInfo{}, err
	}

	datasets := []schema.DatasetIdentity{ref}
	for _, id := range slices.Sorted(maps.Keys(others)) {
		datasets = append(datasets, others[id])
	}

	counts := make(map[string]int, len(schema.MetricGroups))
	metrics := make(map[string][]string, len(schema.MetricGroups))
	grouped := c.GroupedMetrics()
	for g, names := range c.GroupedVariables() {
		counts[g.String()] = len(names)
		metrics[g.String()] = grouped[g]
	}

	refIdentity, err := c.RefIdentity()
	if err != nil {
		return schema.CatalogInfo{}, err
	}

	return schema.CatalogInfo{
		Source:      c.name,
		Reference:   refIdentity,
		Datasets:    datasets,
		Offset:      c.idx.Offset(),
		Counts:      counts,
		Metrics:     metrics,
		Others:      c.Others(),
		Diagnostics: c.Diagnostics(),
	}, nil
}
