package core

import (
	"fmt"
	"slices"
	"strings"
)

type selectorKind int

const (
	selectUnset selectorKind = iota
	selectMetric
	selectVariables
)

// Selector chooses the variables of a metric frame: either every variable
// describing one metric, or an explicit list of variable names. The zero
// Selector selects nothing.
type Selector struct {
	kind      selectorKind
	metric    string
	variables []string
}

// ByMetric selects every variable describing metric.
func ByMetric(metric string) Selector {
	return Selector{kind: selectMetric, metric: metric}
}

// ByVariables selects the given variables, in the given order.
func ByVariables(varnames ...string) Selector {
	return Selector{kind: selectVariables, variables: slices.Clone(varnames)}
}

// Metric returns the selected metric when the selector was built with ByMetric.
func (s Selector) Metric() (string, bool) {
	return s.metric, s.kind == selectMetric
}

// Variables returns the selected names when the selector was built with ByVariables.
func (s Selector) Variables() ([]string, bool) {
	return slices.Clone(s.variables), s.kind == selectVariables
}

func (s Selector) String() string {
	switch s.kind {
	case selectMetric:
		return fmt.Sprintf("metric %s", s.metric)
	case selectVariables:
		return fmt.Sprintf("variables %s", strings.Join(s.variables, ","))
	default:
		return "no selection"
	}
}
