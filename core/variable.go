package core

import (
	"fmt"
	"slices"

	"github.com/qa4sm/qa4sm-reader/core/grammar"
	"github.com/qa4sm/qa4sm-reader/core/resolve"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// MetricVariable is a parsed metric variable name bound to the resolved
// identities of its reference, candidate and scaling datasets.
type MetricVariable struct {
	Varname    string
	Parsed     schema.ParsedVariable
	Ref        schema.DatasetIdentity
	Candidates []schema.DatasetIdentity
	Scaling    *schema.DatasetIdentity
	Values     *schema.Series

	diagnostics []schema.Diagnostic
}

// NewMetricVariable parses name and resolves every dataset it refers to.
// Common metrics carry no dataset ids: the reference comes from the val_ref
// attribute and the candidates are all other datasets of the file.
func NewMetricVariable(name string, g *grammar.VariableNameGrammar, r *resolve.NameResolver) (*MetricVariable, error) {
	parsed, err := g.Parse(name)
	if err != nil {
		return nil, err
	}

	v := &MetricVariable{Varname: name, Parsed: parsed}
	collect := func(res resolve.Result) schema.DatasetIdentity {
		v.diagnostics = append(v.diagnostics, res.Diagnostics...)
		return res.Identity
	}

	if parsed.Group == schema.GroupCommon {
		ref, err := r.ReferenceNames()
		if err != nil {
			return nil, fmt.Errorf("resolving reference of %s: %w", name, err)
		}
		v.Ref = collect(ref)

		idx := r.Index()
		seen := make(map[string]struct{})
		for _, id := range idx.OtherAttrIDs() {
			res, err := r.Resolve(id)
			if err != nil {
				return nil, fmt.Errorf("resolving dataset %d of %s: %w", id, name, err)
			}
			v.Candidates = append(v.Candidates, collect(res))

			// candidates sharing a short name must agree on what they are called
			short := res.Identity.ShortName
			if _, ok := seen[short]; ok {
				continue
			}
			seen[short] = struct{}{}
			if _, err := r.ResolveOtherShortName(short); err != nil {
				return nil, fmt.Errorf("resolving %s for %s: %w", short, name, err)
			}
		}
		return v, nil
	}

	ref, err := r.ResolveRef(*parsed.Ref)
	if err != nil {
		return nil, fmt.Errorf("resolving reference %s of %s: %w", parsed.Ref, name, err)
	}
	v.Ref = collect(ref)

	for _, c := range parsed.Candidates {
		res, err := r.ResolveRef(c)
		if err != nil {
			return nil, fmt.Errorf("resolving candidate %s of %s: %w", c, name, err)
		}
		v.Candidates = append(v.Candidates, collect(res))
	}

	if parsed.Scaling != nil {
		res, err := r.ResolveRef(*parsed.Scaling)
		if err != nil {
			return nil, fmt.Errorf("resolving scaling dataset %s of %s: %w", parsed.Scaling, name, err)
		}
		scaling := collect(res)
		v.Scaling = &scaling
	}

	return v, nil
}

// Metric returns the metric the variable describes.
func (v *MetricVariable) Metric() string { return v.Parsed.Metric }

// Group returns the metric group of the variable.
func (v *MetricVariable) Group() schema.MetricGroup { return v.Parsed.Group }

// IsMetricVariable reports whether the variable was parsed as a registered metric.
func (v *MetricVariable) IsMetricVariable() bool {
	return v.Parsed.Metric != "" && v.Parsed.Group != schema.GroupOther
}

// IsEmpty reports whether no values remain once NaNs are dropped.
func (v *MetricVariable) IsEmpty() bool {
	return v.Values == nil || validCount(*v.Values) == 0
}

// WithValues returns a copy of v carrying the given series.
func (v *MetricVariable) WithValues(values schema.Series) *MetricVariable {
	out := *v
	out.Candidates = slices.Clone(v.Candidates)
	out.diagnostics = slices.Clone(v.diagnostics)
	out.Values = &values
	return &out
}

// VarMeta returns the resolved identities keyed by role.
func (v *MetricVariable) VarMeta() schema.VarMeta {
	return schema.VarMeta{
		Reference:  v.Ref,
		Candidates: slices.Clone(v.Candidates),
		Scaling:    v.Scaling,
	}
}

// Diagnostics returns the fallbacks used while resolving this variable's datasets.
func (v *MetricVariable) Diagnostics() []schema.Diagnostic {
	return slices.Clone(v.diagnostics)
}

// Equal reports whether both variables refer to the same datasets and versions
// in every role.
func (v *MetricVariable) Equal(other *MetricVariable) bool {
	if other == nil {
		return false
	}
	if !v.Ref.Same(other.Ref) || len(v.Candidates) != len(other.Candidates) {
		return false
	}
	for i := range v.Candidates {
		if !v.Candidates[i].Same(other.Candidates[i]) {
			return false
		}
	}
	switch {
	case v.Scaling == nil && other.Scaling == nil:
		return true
	case v.Scaling == nil || other.Scaling == nil:
		return false
	default:
		return v.Scaling.Same(*other.Scaling)
	}
}
