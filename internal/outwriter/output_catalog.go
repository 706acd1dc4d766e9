package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// PrintCatalogInfo outputs the summary of a results file in the configured format.
func PrintCatalogInfo(info schema.CatalogInfo, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCatalogInfo(w, info, cfg)
	}, "Wrote catalog info")
}

// WriteCatalogInfo writes the summary of a results file to w.
func WriteCatalogInfo(w io.Writer, info schema.CatalogInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, info)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"attr_id", "role", "short_name", "pretty_name", "short_version", "pretty_version"}, func(cw *csv.Writer) error {
			for _, d := range info.Datasets {
				if err := cw.Write(datasetRecord(d, info.Reference)); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return writeCatalogInfoTable(w, info, cfg)
	}
}

func datasetRecord(d, ref schema.DatasetIdentity) []string {
	role := "candidate"
	if d.AttrID == ref.AttrID {
		role = "reference"
	}
	return []string{strconv.Itoa(d.AttrID), role, d.ShortName, d.PrettyName, d.ShortVersion, d.PrettyVersion}
}

func writeCatalogInfoTable(w io.Writer, info schema.CatalogInfo, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Source: %s\nReference: %s\nOffset: %d\n\n", info.Source, info.Reference.Label(), info.Offset); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Attr", "Role", "Dataset", "Pretty Name", "Version", "Pretty Version"})
	var data [][]string
	for _, d := range info.Datasets {
		data = append(data, datasetRecord(d, info.Reference))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, g := range schema.MetricGroups {
		key := g.String()
		if _, err := fmt.Fprintf(w, "%s: %d variables, metrics %s\n", groupLabel(g, cfg), info.Counts[key], strings.Join(info.Metrics[key], ", ")); err != nil {
			return err
		}
	}
	if len(info.Others) > 0 {
		if _, err := fmt.Fprintf(w, "other variables: %s\n", strings.Join(info.Others, ", ")); err != nil {
			return err
		}
	}
	for _, d := range info.Diagnostics {
		if _, err := fmt.Fprintf(w, "%s: %s\n", contract.GetDiagnosticLabel(d.Kind, cfg.UseColors), d.Message); err != nil {
			return err
		}
	}
	return nil
}

// PrintMetrics outputs the metric listing of a catalog in the configured format.
func PrintMetrics(entries []schema.MetricEntry, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteMetrics(w, entries, cfg)
	}, "Wrote metrics")
}

// WriteMetrics writes the metric listing of a catalog to w.
func WriteMetrics(w io.Writer, entries []schema.MetricEntry, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, entries)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"metric", "group", "pretty_name", "variables", "range"}, func(cw *csv.Writer) error {
			for _, e := range entries {
				if err := cw.Write([]string{e.Metric, contract.GetPlainLabel(e.Group), e.PrettyName, strconv.Itoa(e.Variables), rangeLabel(e.Range)}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Metric", "Group", "Pretty Name", "Variables", "Range"})
		var data [][]string
		for _, e := range entries {
			data = append(data, []string{e.Metric, groupLabel(e.Group, cfg), e.PrettyName, strconv.Itoa(e.Variables), rangeLabel(e.Range)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	}
}

// PrintVariables outputs the variable listing of a catalog in the configured format.
func PrintVariables(entries []schema.VariableEntry, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteVariables(w, entries, cfg)
	}, "Wrote variables")
}

// WriteVariables writes the variable listing of a catalog to w.
func WriteVariables(w io.Writer, entries []schema.VariableEntry, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, entries)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"varname", "metric", "group", "candidates", "scaling", "units"}, func(cw *csv.Writer) error {
			for _, e := range entries {
				rec := []string{e.Varname, e.Metric, contract.GetPlainLabel(e.Group), strings.Join(e.Candidates, "|"), e.Scaling, e.Units}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		nameWidth := GetMaxNameWidth(cfg, 45)
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Variable", "Metric", "Group", "Candidates", "Scaling", "Units"})
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignLeft
		})
		var data [][]string
		for _, e := range entries {
			data = append(data, []string{
				contract.TruncateText(e.Varname, nameWidth),
				e.Metric,
				groupLabel(e.Group, cfg),
				strings.Join(e.Candidates, ", "),
				e.Scaling,
				e.Units,
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	}
}

// PrintVarMeta outputs resolved dataset identities per variable in the configured format.
func PrintVarMeta(meta map[string]schema.VarMeta, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteVarMeta(w, meta, cfg)
	}, "Wrote variable metadata")
}

// WriteVarMeta writes resolved dataset identities per variable to w, ordered by variable name.
func WriteVarMeta(w io.Writer, meta map[string]schema.VarMeta, cfg *contract.Config) error {
	names := slices.Sorted(maps.Keys(meta))

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, meta)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"varname", "role", "attr_id", "short_name", "pretty_name", "short_version", "pretty_version"}, func(cw *csv.Writer) error {
			for _, name := range names {
				for _, row := range metaRows(meta[name]) {
					if err := cw.Write(append([]string{name}, row...)); err != nil {
						return err
					}
				}
			}
			return nil
		})
	default:
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "%s\n", name); err != nil {
				return err
			}
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Role", "Attr", "Dataset", "Pretty Name", "Version", "Pretty Version"})
			if err := table.Bulk(metaRows(meta[name])); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
		}
		return nil
	}
}

// metaRows flattens a VarMeta into role, attr id and identity fields.
func metaRows(m schema.VarMeta) [][]string {
	row := func(role string, d schema.DatasetIdentity) []string {
		return []string{role, strconv.Itoa(d.AttrID), d.ShortName, d.PrettyName, d.ShortVersion, d.PrettyVersion}
	}
	rows := [][]string{row("reference", m.Reference)}
	for _, c := range m.Candidates {
		rows = append(rows, row("candidate", c))
	}
	if m.Scaling != nil {
		rows = append(rows, row("scaling", *m.Scaling))
	}
	return rows
}
