package schema

import "fmt"

// Diagnostic is a non-fatal note emitted when a name was not found in the
// file attributes and a fallback tier was used instead.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	AttrID  int            `json:"attr_id"`
	Field   IdentityField  `json:"field"`
	Key     string         `json:"key"`   // short name or short version that was looked up
	Value   string         `json:"value"` // the value that was used
	Message string         `json:"message"`
}

// NewFallbackDiagnostic builds the diagnostic for a fallback of the given kind.
func NewFallbackDiagnostic(kind DiagnosticKind, attrID int, field IdentityField, key, value string) Diagnostic {
	var msg string
	switch kind {
	case FallbackStaticTable:
		msg = fmt.Sprintf("%s for dataset %d not in file attributes, fell back to static table (%q -> %q)", field, attrID, key, value)
	default:
		msg = fmt.Sprintf("%s for dataset %d not in file attributes or static table, fell back to raw name %q", field, attrID, value)
	}
	return Diagnostic{Kind: kind, AttrID: attrID, Field: field, Key: key, Value: value, Message: msg}
}

func (d Diagnostic) String() string {
	return d.Message
}
