// Package grammar parses the compact names used in validation results files:
// metric variable names and results file names.
package grammar

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/qa4sm/qa4sm-reader/schema"
)

// Variable name templates, one per metric group.
const (
	pairwiseTemplate       = "%s_between_%d-%s_and_%d-%s"
	pairwiseLegacyTemplate = "%s_between_%d-%s_%d-%s"
	tripleTemplate         = "%s_%d-%s_between_%d-%s_and_%d-%s_and_%d-%s"
)

var (
	tripleRegex = regexp.MustCompile(
		`^(?P<metric>.+?)_(?P<mds_id>\d+)-(?P<mds>.+?)_between_(?P<ref_id>\d+)-(?P<ref>.+?)` +
			`_and_(?P<cand0_id>\d+)-(?P<cand0>.+?)_and_(?P<cand1_id>\d+)-(?P<cand1>.+)$`)
	pairwiseRegex = regexp.MustCompile(
		`^(?P<metric>.+?)_between_(?P<ref_id>\d+)-(?P<ref>.+?)_and_(?P<cand0_id>\d+)-(?P<cand0>.+)$`)
	pairwiseLegacyRegex = regexp.MustCompile(
		`^(?P<metric>.+?)_between_(?P<ref_id>\d+)-(?P<ref>.+?)_(?P<cand0_id>\d+)-(?P<cand0>.+)$`)
)

// VariableNameGrammar classifies metric variable names into metric groups.
type VariableNameGrammar struct {
	tables schema.Tables
}

// NewVariableNameGrammar creates a grammar that accepts the metrics registered in tables.
func NewVariableNameGrammar(tables schema.Tables) *VariableNameGrammar {
	return &VariableNameGrammar{tables: tables}
}

// Parse matches name against the triple, pairwise and common templates in that
// order. A template only matches when its metric token is registered for the
// template's group.
func (g *VariableNameGrammar) Parse(name string) (schema.ParsedVariable, error) {
	if name == schema.CommonObsMetric {
		return schema.ParsedVariable{Varname: name, Metric: name, Group: schema.GroupCommon}, nil
	}

	for _, group := range schema.MetricGroups {
		parsed, ok := g.match(group, name)
		if ok {
			return parsed, nil
		}
	}
	return schema.ParsedVariable{}, &schema.NameGrammarMismatchError{Input: name}
}

// IsMetricVariable reports whether name is a metric variable of a registered metric.
func (g *VariableNameGrammar) IsMetricVariable(name string) bool {
	_, err := g.Parse(name)
	return err == nil
}

// GroupOf returns the group a metric name is registered for.
func (g *VariableNameGrammar) GroupOf(metric string) (schema.MetricGroup, error) {
	return g.tables.GroupOf(metric)
}

// Format rebuilds the variable name from its parsed parts.
func (g *VariableNameGrammar) Format(p schema.ParsedVariable) (string, error) {
	switch p.Group {
	case schema.GroupCommon:
		return p.Metric, nil
	case schema.GroupPairwise:
		if p.Ref == nil || len(p.Candidates) != 1 {
			return "", fmt.Errorf("pairwise variable needs a reference and one candidate")
		}
		templ := pairwiseTemplate
		if p.Legacy {
			templ = pairwiseLegacyTemplate
		}
		c := p.Candidates[0]
		return fmt.Sprintf(templ, p.Metric, p.Ref.NameID, p.Ref.ShortName, c.NameID, c.ShortName), nil
	case schema.GroupTriple:
		if p.Ref == nil || p.Scaling == nil || len(p.Candidates) != 2 {
			return "", fmt.Errorf("triple variable needs a reference, a scaling dataset and two candidates")
		}
		c0, c1 := p.Candidates[0], p.Candidates[1]
		return fmt.Sprintf(tripleTemplate, p.Metric, p.Scaling.NameID, p.Scaling.ShortName,
			p.Ref.NameID, p.Ref.ShortName, c0.NameID, c0.ShortName, c1.NameID, c1.ShortName), nil
	default:
		return "", fmt.Errorf("cannot format variable of group %s", p.Group)
	}
}

func (g *VariableNameGrammar) match(group schema.MetricGroup, name string) (schema.ParsedVariable, bool) {
	switch group {
	case schema.GroupTriple:
		parts := namedGroups(tripleRegex, name)
		if parts == nil || !g.tables.InGroup(group, parts["metric"]) {
			return schema.ParsedVariable{}, false
		}
		mds, ok := datasetRef(parts, "mds")
		if !ok {
			return schema.ParsedVariable{}, false
		}
		return buildParsed(name, group, parts, []string{"cand0", "cand1"}, &mds, false)

	case schema.GroupPairwise:
		legacy := false
		parts := namedGroups(pairwiseRegex, name)
		if parts == nil {
			parts = namedGroups(pairwiseLegacyRegex, name)
			legacy = true
		}
		if parts == nil || !g.tables.InGroup(group, parts["metric"]) {
			return schema.ParsedVariable{}, false
		}
		return buildParsed(name, group, parts, []string{"cand0"}, nil, legacy)

	case schema.GroupCommon:
		if !g.tables.InGroup(group, name) {
			return schema.ParsedVariable{}, false
		}
		return schema.ParsedVariable{Varname: name, Metric: name, Group: group}, true
	}
	return schema.ParsedVariable{}, false
}

func buildParsed(name string, group schema.MetricGroup, parts map[string]string, cands []string,
	scaling *schema.DatasetRef, legacy bool,
) (schema.ParsedVariable, bool) {
	ref, ok := datasetRef(parts, "ref")
	if !ok {
		return schema.ParsedVariable{}, false
	}
	candidates := make([]schema.DatasetRef, 0, len(cands))
	for _, key := range cands {
		c, ok := datasetRef(parts, key)
		if !ok {
			return schema.ParsedVariable{}, false
		}
		candidates = append(candidates, c)
	}
	return schema.ParsedVariable{
		Varname:    name,
		Metric:     parts["metric"],
		Group:      group,
		Ref:        &ref,
		Candidates: candidates,
		Scaling:    scaling,
		Legacy:     legacy,
	}, true
}

func datasetRef(parts map[string]string, key string) (schema.DatasetRef, bool) {
	id, err := strconv.Atoi(parts[key+"_id"])
	if err != nil {
		return schema.DatasetRef{}, false
	}
	return schema.DatasetRef{NameID: id, ShortName: parts[key]}, true
}

// namedGroups returns the named submatches of re in s, or nil if s does not match.
func namedGroups(re *regexp.Regexp, s string) map[string]string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" {
			out[name] = m[i]
		}
	}
	return out
}
