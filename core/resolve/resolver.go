// Package resolve turns attribute ids into fully named dataset identities.
package resolve

import (
	"fmt"
	"slices"

	"github.com/qa4sm/qa4sm-reader/core/attrs"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// Result is a resolved identity together with the fallbacks used to build it.
type Result struct {
	Identity    schema.DatasetIdentity
	Diagnostics []schema.Diagnostic
}

// NameResolver resolves dataset identities of one results file. Each field is
// taken from the file attributes, then from the static tables, then from the
// raw short name or version. Results are memoized per attribute id.
//
// A NameResolver belongs to a single catalog and is not safe for concurrent use.
type NameResolver struct {
	idx         *attrs.AttributeIndex
	tables      schema.Tables
	cache       map[int]Result
	diagnostics []schema.Diagnostic
}

// NewNameResolver creates a resolver over idx using tables for the fallback tier.
func NewNameResolver(idx *attrs.AttributeIndex, tables schema.Tables) *NameResolver {
	return &NameResolver{
		idx:    idx,
		tables: tables,
		cache:  make(map[int]Result),
	}
}

// Index returns the attribute index the resolver reads from.
func (r *NameResolver) Index() *attrs.AttributeIndex { return r.idx }

// Resolve returns the identity of the dataset with the given attribute id.
// Resolving the same id twice returns the cached result.
func (r *NameResolver) Resolve(attrID int) (Result, error) {
	if res, ok := r.cache[attrID]; ok {
		return res, nil
	}

	shortName, ok := r.idx.ShortName(attrID)
	if !ok {
		return Result{}, fmt.Errorf("%w: no dataset with attribute id %d", schema.ErrMissingAttribute, attrID)
	}

	var diags []schema.Diagnostic
	field := func(f schema.IdentityField, attrTemplate string, table map[string]string, key string) string {
		if v, ok := r.idx.Lookup(attrTemplate, attrID); ok {
			return v
		}
		if v, ok := table[key]; ok {
			diags = append(diags, schema.NewFallbackDiagnostic(schema.FallbackStaticTable, attrID, f, key, v))
			return v
		}
		diags = append(diags, schema.NewFallbackDiagnostic(schema.FallbackRawName, attrID, f, key, key))
		return key
	}

	prettyName := field(schema.FieldPrettyName, schema.DatasetPrettyNameAttr, r.tables.DatasetPrettyNames, shortName)
	// there is no static table for short versions
	shortVersion := field(schema.FieldShortVersion, schema.VersionShortNameAttr, nil, shortName)
	prettyVersion := field(schema.FieldPrettyVersion, schema.VersionPrettyNameAttr, r.tables.VersionPrettyNames, shortVersion)

	res := Result{
		Identity: schema.DatasetIdentity{
			AttrID:        attrID,
			ShortName:     shortName,
			PrettyName:    prettyName,
			ShortVersion:  shortVersion,
			PrettyVersion: prettyVersion,
		},
		Diagnostics: diags,
	}
	r.cache[attrID] = res
	r.diagnostics = append(r.diagnostics, diags...)
	return res, nil
}

// ResolveRef resolves a dataset ref taken from a variable or file name.
func (r *NameResolver) ResolveRef(ref schema.DatasetRef) (Result, error) {
	attrID, err := r.idx.Check(ref)
	if err != nil {
		return Result{}, err
	}
	return r.Resolve(attrID)
}

// ResolveShortName resolves the dataset shared by every attribute id carrying
// shortName. The pretty names stored in the file must agree across those ids.
// Versions are only filled in when they agree as well.
func (r *NameResolver) ResolveShortName(shortName string) (Result, error) {
	return r.resolveShared(shortName, r.idx.AttrIDsFor(shortName))
}

// ResolveOtherShortName is ResolveShortName restricted to the non-reference
// datasets. The reference may share a short name with a candidate when the
// same dataset is compared at two versions.
func (r *NameResolver) ResolveOtherShortName(shortName string) (Result, error) {
	refID := r.idx.RefAttrID()
	ids := slices.DeleteFunc(r.idx.AttrIDsFor(shortName), func(id int) bool { return id == refID })
	return r.resolveShared(shortName, ids)
}

func (r *NameResolver) resolveShared(shortName string, ids []int) (Result, error) {
	if len(ids) == 0 {
		return Result{}, fmt.Errorf("%w: no dataset with short name %q", schema.ErrMissingAttribute, shortName)
	}
	if err := r.checkAgreement(shortName, ids, schema.FieldPrettyName, schema.DatasetPrettyNameAttr); err != nil {
		return Result{}, err
	}

	var out Result
	for i, id := range ids {
		res, err := r.Resolve(id)
		if err != nil {
			return Result{}, err
		}
		out.Diagnostics = append(out.Diagnostics, res.Diagnostics...)
		if i == 0 {
			out.Identity = res.Identity
			continue
		}
		if res.Identity.ShortVersion != out.Identity.ShortVersion {
			out.Identity.ShortVersion = ""
			out.Identity.PrettyVersion = ""
		}
	}
	return out, nil
}

// checkAgreement compares the values stored in the file for field across ids.
// Ids without a stored value are not compared.
func (r *NameResolver) checkAgreement(key string, ids []int, field schema.IdentityField, attrTemplate string) error {
	var seenIDs []int
	var values []string
	for _, id := range ids {
		v, ok := r.idx.Lookup(attrTemplate, id)
		if !ok {
			continue
		}
		seenIDs = append(seenIDs, id)
		values = append(values, v)
	}
	if len(slices.Compact(slices.Sorted(slices.Values(values)))) > 1 {
		return &schema.InconsistentAttributeError{Key: key, Field: field, AttrIDs: seenIDs, Values: values}
	}
	return nil
}

// ReferenceNames resolves the reference dataset of the file.
func (r *NameResolver) ReferenceNames() (Result, error) {
	return r.Resolve(r.idx.RefAttrID())
}

// OtherNames resolves every non-reference dataset, keyed by attribute id.
func (r *NameResolver) OtherNames() (map[int]schema.DatasetIdentity, []schema.Diagnostic, error) {
	out := make(map[int]schema.DatasetIdentity)
	var diags []schema.Diagnostic
	for _, id := range r.idx.OtherAttrIDs() {
		res, err := r.Resolve(id)
		if err != nil {
			return nil, nil, err
		}
		out[id] = res.Identity
		diags = append(diags, res.Diagnostics...)
	}
	return out, diags, nil
}

// AllNames resolves the reference and every other dataset.
func (r *NameResolver) AllNames() (schema.DatasetIdentity, map[int]schema.DatasetIdentity, error) {
	ref, err := r.ReferenceNames()
	if err != nil {
		return schema.DatasetIdentity{}, nil, err
	}
	others, _, err := r.OtherNames()
	if err != nil {
		return schema.DatasetIdentity{}, nil, err
	}
	return ref.Identity, others, nil
}

// Diagnostics returns every diagnostic emitted so far, in emission order.
func (r *NameResolver) Diagnostics() []schema.Diagnostic {
	return slices.Clone(r.diagnostics)
}

// MetricPrettyName returns the display name of a metric, or the metric itself.
func (r *NameResolver) MetricPrettyName(metric string) string {
	if v, ok := r.tables.MetricPrettyNames[metric]; ok {
		return v
	}
	return metric
}

// MetricRange returns the plausible value range of metric, if one is known.
func (r *NameResolver) MetricRange(metric string) (schema.ValueRange, bool) {
	vr, ok := r.tables.MetricValueRanges[metric]
	return vr, ok
}

// Units returns the unit label of metric for values of the given dataset.
// Dimensionless metrics and datasets without a known unit return "".
func (r *NameResolver) Units(metric, shortName string) string {
	format, ok := r.tables.UnitScaledMetrics[metric]
	if !ok {
		return ""
	}
	unit, ok := r.tables.DatasetUnits[shortName]
	if !ok || unit == "" {
		return ""
	}
	return fmt.Sprintf(format, unit)
}
