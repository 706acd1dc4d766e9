// Package schema has models, constants, errors and lookup tables for all parts of qa4sm-reader.
package schema

import "fmt"

// MetricGroup is the number of datasets a metric compares.
// The numeric values follow the results-file convention.
type MetricGroup int

// All metric groups supported.
const (
	GroupCommon   MetricGroup = 0 // reference only, e.g. n_obs
	GroupPairwise MetricGroup = 2 // reference + one candidate
	GroupTriple   MetricGroup = 3 // reference + two candidates + scaling dataset
	GroupOther    MetricGroup = -1
)

// MetricGroups lists the metric groups in the order names are matched.
var MetricGroups = []MetricGroup{GroupTriple, GroupPairwise, GroupCommon}

// String returns the lowercase group name.
func (g MetricGroup) String() string {
	switch g {
	case GroupCommon:
		return "common"
	case GroupPairwise:
		return "pairwise"
	case GroupTriple:
		return "triple"
	default:
		return "other"
	}
}

// MarshalText renders the group by name in JSON.
func (g MetricGroup) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText accepts the group name or its numeric value.
func (g *MetricGroup) UnmarshalText(text []byte) error {
	if string(text) == "other" {
		*g = GroupOther
		return nil
	}
	parsed, err := ParseMetricGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseMetricGroup converts a group name or its numeric value into a MetricGroup.
func ParseMetricGroup(s string) (MetricGroup, error) {
	switch s {
	case "common", "0":
		return GroupCommon, nil
	case "pairwise", "2":
		return GroupPairwise, nil
	case "triple", "3":
		return GroupTriple, nil
	}
	return GroupOther, fmt.Errorf("invalid metric group %q. must be common, pairwise, triple", s)
}

// DatasetRef is a dataset identity as it appears inside a variable or file name.
type DatasetRef struct {
	NameID    int    `json:"name_id"`
	ShortName string `json:"short_name"`
}

// String renders the ref the way it is embedded in names.
func (r DatasetRef) String() string {
	return fmt.Sprintf("%d-%s", r.NameID, r.ShortName)
}

// DatasetIdentity is the fully resolved naming of one dataset in a results file.
type DatasetIdentity struct {
	AttrID        int    `json:"attr_id"`
	ShortName     string `json:"short_name"`
	PrettyName    string `json:"pretty_name"`
	ShortVersion  string `json:"short_version"`
	PrettyVersion string `json:"pretty_version"`
}

// Same reports whether both identities denote the same dataset and version.
func (d DatasetIdentity) Same(other DatasetIdentity) bool {
	return d.ShortName == other.ShortName && d.ShortVersion == other.ShortVersion
}

// Label returns "<pretty name> (<pretty version>)".
func (d DatasetIdentity) Label() string {
	return fmt.Sprintf("%s (%s)", d.PrettyName, d.PrettyVersion)
}

// ParsedVariable is the result of matching a variable name against the name grammar.
type ParsedVariable struct {
	Varname    string       `json:"varname"`
	Metric     string       `json:"metric"`
	Group      MetricGroup  `json:"group"`
	Ref        *DatasetRef  `json:"ref,omitempty"`        // nil for common metrics
	Candidates []DatasetRef `json:"candidates,omitempty"` // 1 for pairwise, 2 for triple
	Scaling    *DatasetRef  `json:"scaling,omitempty"`    // triple only
	Legacy     bool         `json:"legacy,omitempty"`     // pairwise name without "_and_"
}

// FilenameSegment is one "{id}-{dataset}.{variable}" part of a results file name.
type FilenameSegment struct {
	ID        int    `json:"id"`
	ShortName string `json:"short_name"`
	Variable  string `json:"variable"`
}

// ParsedFilename holds the segments of a results file name. The first one is the reference.
type ParsedFilename struct {
	Reference  FilenameSegment   `json:"reference"`
	Candidates []FilenameSegment `json:"candidates"`
}

// Segments returns the reference followed by all candidates.
func (p ParsedFilename) Segments() []FilenameSegment {
	return append([]FilenameSegment{p.Reference}, p.Candidates...)
}

// VarMeta holds the resolved identities of a metric variable, keyed by role.
type VarMeta struct {
	Reference  DatasetIdentity   `json:"reference"`
	Candidates []DatasetIdentity `json:"candidates,omitempty"`
	Scaling    *DatasetIdentity  `json:"scaling,omitempty"`
}

// CatalogInfo is a summary of a loaded results file.
type CatalogInfo struct {
	Source      string              `json:"source"`
	Reference   DatasetIdentity     `json:"reference"`
	Datasets    []DatasetIdentity   `json:"datasets"`
	Offset      int                 `json:"offset"`
	Counts      map[string]int      `json:"counts"`
	Metrics     map[string][]string `json:"metrics"`
	Others      []string            `json:"others"`
	Diagnostics []Diagnostic        `json:"diagnostics"`
}
