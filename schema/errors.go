package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the naming and identity-resolution core.
var (
	ErrNameGrammarMismatch   = errors.New("name grammar mismatch")
	ErrUnknownMetric         = errors.New("unknown metric")
	ErrUnknownVariable       = errors.New("unknown variable")
	ErrMissingAttribute      = errors.New("missing attribute")
	ErrInconsistentAttribute = errors.New("inconsistent attribute")
	ErrInconsistentReference = errors.New("inconsistent reference")
)

// NameGrammarMismatchError is returned when a string matches no registered template.
type NameGrammarMismatchError struct {
	Input  string
	Reason string
}

func (e *NameGrammarMismatchError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%q matches no name template", e.Input)
	}
	return fmt.Sprintf("%q matches no name template: %s", e.Input, e.Reason)
}

// Unwrap lets errors.Is match ErrNameGrammarMismatch.
func (e *NameGrammarMismatchError) Unwrap() error { return ErrNameGrammarMismatch }

// UnknownMetricError is returned when a metric is not in any group's registry.
type UnknownMetricError struct {
	Metric string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("metric %q is not registered in any metric group", e.Metric)
}

// Unwrap lets errors.Is match ErrUnknownMetric.
func (e *UnknownMetricError) Unwrap() error { return ErrUnknownMetric }

// InconsistentAttributeError is returned when attribute values disagree across
// attribute ids that are expected to denote the same dataset.
type InconsistentAttributeError struct {
	Key     string
	Field   IdentityField
	AttrIDs []int
	Values  []string
}

func (e *InconsistentAttributeError) Error() string {
	return fmt.Sprintf("%s of %q differs across attribute ids %v: %s",
		e.Field, e.Key, e.AttrIDs, strings.Join(e.Values, ", "))
}

// Unwrap lets errors.Is match ErrInconsistentAttribute.
func (e *InconsistentAttributeError) Unwrap() error { return ErrInconsistentAttribute }

// InconsistentReferenceError is returned when variables of one file resolve to
// different reference datasets.
type InconsistentReferenceError struct {
	Varnames   []string
	Identities []DatasetIdentity
}

func (e *InconsistentReferenceError) Error() string {
	parts := make([]string, 0, len(e.Varnames))
	for i, name := range e.Varnames {
		if i < len(e.Identities) {
			parts = append(parts, fmt.Sprintf("%s -> %s/%s", name, e.Identities[i].ShortName, e.Identities[i].ShortVersion))
		}
	}
	return fmt.Sprintf("variables disagree on the reference dataset: %s", strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInconsistentReference.
func (e *InconsistentReferenceError) Unwrap() error { return ErrInconsistentReference }
