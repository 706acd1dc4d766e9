package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// PrintParsedVariable outputs the parts of a variable name in the configured format.
func PrintParsedVariable(p schema.ParsedVariable, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteParsedVariable(w, p, cfg)
	}, "Wrote parsed variable")
}

// WriteParsedVariable writes the parts of a variable name to w.
func WriteParsedVariable(w io.Writer, p schema.ParsedVariable, cfg *contract.Config) error {
	refs := func(rs []schema.DatasetRef, sep string) string {
		parts := make([]string, len(rs))
		for i, r := range rs {
			parts[i] = r.String()
		}
		return strings.Join(parts, sep)
	}
	optional := func(r *schema.DatasetRef) string {
		if r == nil {
			return ""
		}
		return r.String()
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, p)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"varname", "metric", "group", "ref", "candidates", "scaling", "legacy"}, func(cw *csv.Writer) error {
			return cw.Write([]string{
				p.Varname, p.Metric, contract.GetPlainLabel(p.Group), optional(p.Ref),
				refs(p.Candidates, "|"), optional(p.Scaling), strconv.FormatBool(p.Legacy),
			})
		})
	default:
		lines := []string{
			fmt.Sprintf("Variable:   %s", p.Varname),
			fmt.Sprintf("Metric:     %s", p.Metric),
			fmt.Sprintf("Group:      %s", groupLabel(p.Group, cfg)),
		}
		if p.Ref != nil {
			lines = append(lines, fmt.Sprintf("Reference:  %s", p.Ref))
		}
		if len(p.Candidates) > 0 {
			lines = append(lines, fmt.Sprintf("Candidates: %s", refs(p.Candidates, ", ")))
		}
		if p.Scaling != nil {
			lines = append(lines, fmt.Sprintf("Scaling:    %s", p.Scaling))
		}
		if p.Legacy {
			lines = append(lines, "Legacy:     true")
		}
		_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
		return err
	}
}

// PrintParsedFilename outputs the segments of a results file name in the configured format.
func PrintParsedFilename(p schema.ParsedFilename, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteParsedFilename(w, p, cfg)
	}, "Wrote parsed filename")
}

// WriteParsedFilename writes the segments of a results file name to w, reference first.
func WriteParsedFilename(w io.Writer, p schema.ParsedFilename, cfg *contract.Config) error {
	role := func(i int) string {
		if i == 0 {
			return "reference"
		}
		return "candidate"
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, p)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"role", "id", "short_name", "variable"}, func(cw *csv.Writer) error {
			for i, s := range p.Segments() {
				if err := cw.Write([]string{role(i), strconv.Itoa(s.ID), s.ShortName, s.Variable}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		for i, s := range p.Segments() {
			if _, err := fmt.Fprintf(w, "%-10s %d-%s.%s\n", role(i), s.ID, s.ShortName, s.Variable); err != nil {
				return err
			}
		}
		return nil
	}
}
