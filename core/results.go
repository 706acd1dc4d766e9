package core

import (
	"errors"

	"github.com/qa4sm/qa4sm-reader/core/agg"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// errNoSelection is returned when a command needs --metric or --vars.
var errNoSelection = errors.New("either --metric or --vars is required")

// GetMetricEntries lists the metrics of cat. Grouped entries follow the
// metric registry, group by group; otherwise entries are sorted by name.
func GetMetricEntries(cat *MetricCatalog, grouped bool) []schema.MetricEntry {
	var names []string
	if grouped {
		byGroup := cat.GroupedMetrics()
		for _, g := range schema.MetricGroups {
			names = append(names, byGroup[g]...)
		}
	} else {
		names = cat.Metrics()
	}

	entries := make([]schema.MetricEntry, 0, len(names))
	for _, m := range names {
		g, err := cat.FindGroup(m)
		if err != nil {
			continue
		}
		vars, _ := cat.VariablesOf(m)
		e := schema.MetricEntry{
			Metric:     m,
			Group:      g,
			PrettyName: cat.Resolver().MetricPrettyName(m),
			Variables:  len(vars),
		}
		if vr, ok := cat.Resolver().MetricRange(m); ok {
			e.Range = &vr
		}
		entries = append(entries, e)
	}
	return entries
}

// GetVariableEntries lists the metric variables of cat. Grouped entries are
// ordered by group and then by file order; otherwise they are sorted by name.
func GetVariableEntries(cat *MetricCatalog, grouped bool) []schema.VariableEntry {
	var names []string
	if grouped {
		byGroup := cat.GroupedVariables()
		for _, g := range schema.MetricGroups {
			names = append(names, byGroup[g]...)
		}
	} else {
		names = cat.Variables()
	}

	entries := make([]schema.VariableEntry, 0, len(names))
	for _, name := range names {
		v, err := cat.Variable(name)
		if err != nil {
			continue
		}
		e := schema.VariableEntry{
			Varname:    name,
			Metric:     v.Metric(),
			Group:      v.Group(),
			Candidates: make([]string, len(v.Candidates)),
		}
		for i, c := range v.Candidates {
			e.Candidates[i] = c.ShortName
		}
		// scaled values carry the unit of the scaling dataset
		unitsOf := v.Ref.ShortName
		if v.Scaling != nil {
			e.Scaling = v.Scaling.ShortName
			unitsOf = v.Scaling.ShortName
		}
		e.Units = cat.Resolver().Units(v.Metric(), unitsOf)
		entries = append(entries, e)
	}
	return entries
}

// GetMetaResults resolves the dataset identities of the selected variables.
func GetMetaResults(cat *MetricCatalog, cfg *contract.Config) (map[string]schema.VarMeta, error) {
	if cfg.Metric != "" {
		return cat.MetricMeta(cfg.Metric)
	}
	if len(cfg.Vars) == 0 {
		return nil, errNoSelection
	}
	out := make(map[string]schema.VarMeta, len(cfg.Vars))
	for _, name := range cfg.Vars {
		meta, err := cat.VarMeta(name)
		if err != nil {
			return nil, err
		}
		out[name] = meta
	}
	return out, nil
}

// selectorFor builds the frame selector named by cfg.
func selectorFor(cfg *contract.Config) (Selector, error) {
	if cfg.Metric != "" {
		return ByMetric(cfg.Metric), nil
	}
	if len(cfg.Vars) == 0 {
		return Selector{}, errNoSelection
	}
	return ByVariables(cfg.Vars...), nil
}

// GetFrameResults builds the frame partitions of the selected variables,
// restricted to the configured extent.
func GetFrameResults(cat *MetricCatalog, cfg *contract.Config) ([]schema.FramePartition, error) {
	sel, err := selectorFor(cfg)
	if err != nil {
		return nil, err
	}
	parts, err := cat.MetricFrame(sel)
	if err != nil {
		return nil, err
	}
	if cfg.Extent != nil {
		for i := range parts {
			parts[i].Frame = SubsetExtent(parts[i].Frame, *cfg.Extent)
		}
	}
	return parts, nil
}

// GetSummaryResults computes descriptive statistics of every selected variable.
func GetSummaryResults(cat *MetricCatalog, cfg *contract.Config) ([]schema.ColumnSummary, error) {
	parts, err := GetFrameResults(cat, cfg)
	if err != nil {
		return nil, err
	}
	return agg.SummarizePartitions(parts)
}
