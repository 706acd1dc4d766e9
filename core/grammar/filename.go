package grammar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/qa4sm/qa4sm-reader/schema"
)

var segmentRegex = regexp.MustCompile(`^(\d+)-([^.]+)\.(.+)$`)

// FilenameTemplate builds the positional template for a results file name with n segments.
func FilenameTemplate(n int) string {
	parts := []string{"{i_ref}-{ref}.{ref_var}"}
	for i := 1; i < n; i++ {
		parts = append(parts, fmt.Sprintf("{i_ds%d}-{ds%d}.{var%d}", i, i, i))
	}
	return strings.Join(parts, schema.FilenameSeparator) + schema.FilenameExtension
}

// ParseFilename parses a results file base name such as
// "3-GLDAS.sm_with_1-C3S.sm.nc". The first segment is the reference.
func ParseFilename(base string) (schema.ParsedFilename, error) {
	stem, ok := strings.CutSuffix(base, schema.FilenameExtension)
	if !ok {
		return schema.ParsedFilename{}, &schema.NameGrammarMismatchError{
			Input: base, Reason: fmt.Sprintf("missing %q extension", schema.FilenameExtension),
		}
	}

	parts := strings.Split(stem, schema.FilenameSeparator)
	if len(parts) < 2 {
		return schema.ParsedFilename{}, &schema.NameGrammarMismatchError{
			Input:  base,
			Reason: fmt.Sprintf("found %d segment, template %q needs at least 2", len(parts), FilenameTemplate(2)),
		}
	}

	segments := make([]schema.FilenameSegment, 0, len(parts))
	for i, part := range parts {
		m := segmentRegex.FindStringSubmatch(part)
		if m == nil {
			return schema.ParsedFilename{}, &schema.NameGrammarMismatchError{
				Input: base, Reason: fmt.Sprintf("segment %d %q is not {id}-{dataset}.{variable}", i, part),
			}
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return schema.ParsedFilename{}, &schema.NameGrammarMismatchError{Input: base, Reason: err.Error()}
		}
		segments = append(segments, schema.FilenameSegment{ID: id, ShortName: m[2], Variable: m[3]})
	}

	return schema.ParsedFilename{Reference: segments[0], Candidates: segments[1:]}, nil
}

// FormatFilename rebuilds the results file name from its segments.
func FormatFilename(p schema.ParsedFilename) string {
	segments := p.Segments()
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, fmt.Sprintf("%d-%s.%s", s.ID, s.ShortName, s.Variable))
	}
	return strings.Join(parts, schema.FilenameSeparator) + schema.FilenameExtension
}
