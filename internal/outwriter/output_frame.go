package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// frameColumnWidth caps the header width of value columns in tables.
const frameColumnWidth = 24

// PrintFrame outputs metric frame partitions in the configured format.
func PrintFrame(parts []schema.FramePartition, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteFrame(w, parts, cfg)
	}, "Wrote frame")
}

// WriteFrame writes metric frame partitions to w.
func WriteFrame(w io.Writer, parts []schema.FramePartition, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, buildFrameRenderModel(parts))
	case schema.CSVOut:
		return writeFrameCSV(w, parts, fmtFloat)
	case schema.TextOut:
		return writeFrameTable(w, parts, cfg, fmtFloat)
	default:
		return fmt.Errorf("output %s is not supported for frames here", cfg.Output)
	}
}

type jsonColumn struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

type jsonPartition struct {
	Scaling   *schema.DatasetIdentity   `json:"scaling,omitempty"`
	Variables []string                  `json:"variables"`
	Meta      map[string]schema.VarMeta `json:"meta"`
	Index     []schema.Point            `json:"index"`
	Columns   []jsonColumn              `json:"columns"`
}

// buildFrameRenderModel replaces NaN with null for JSON.
func buildFrameRenderModel(parts []schema.FramePartition) []jsonPartition {
	out := make([]jsonPartition, len(parts))
	for i, p := range parts {
		cols := make([]jsonColumn, len(p.Frame.Columns))
		for j, c := range p.Frame.Columns {
			cols[j] = jsonColumn{Name: c.Name, Values: nullables(c.Values)}
		}
		out[i] = jsonPartition{
			Scaling:   p.Scaling,
			Variables: p.Variables,
			Meta:      p.Meta,
			Index:     p.Frame.Index,
			Columns:   cols,
		}
	}
	return out
}

// writeFrameCSV writes all partitions into one table. Columns are the union
// of all partitions, so cells of other partitions stay empty.
func writeFrameCSV(w io.Writer, parts []schema.FramePartition, fmtFloat func(float64) string) error {
	header := append([]string{}, schema.IndexNames...)
	header = append(header, "scaling")
	position := make(map[string]int)
	for _, p := range parts {
		for _, name := range p.Frame.ColumnNames() {
			if _, ok := position[name]; !ok {
				position[name] = len(header)
				header = append(header, name)
			}
		}
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range parts {
			scaling := ""
			if p.Scaling != nil {
				scaling = p.Scaling.ShortName
			}
			for row, pt := range p.Frame.Index {
				rec := make([]string, len(header))
				rec[0] = strconv.FormatFloat(pt.Lat, 'f', -1, 64)
				rec[1] = strconv.FormatFloat(pt.Lon, 'f', -1, 64)
				rec[2] = scaling
				for _, c := range p.Frame.Columns {
					rec[position[c.Name]] = fmtFloat(c.Values[row])
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeFrameTable(w io.Writer, parts []schema.FramePartition, cfg *contract.Config, fmtFloat func(float64) string) error {
	for _, p := range parts {
		if _, err := fmt.Fprintf(w, "Scaling: %s, %d variables\n", scalingLabel(p.Scaling), len(p.Variables)); err != nil {
			return err
		}

		headers := []string{"Lat", "Lon"}
		for _, name := range p.Frame.ColumnNames() {
			headers = append(headers, contract.TruncateText(name, frameColumnWidth))
		}

		table := tablewriter.NewWriter(w)
		table.Header(headers)
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignRight
		})

		shown := p.Frame.Len()
		if cfg.Limit > 0 && shown > cfg.Limit {
			shown = cfg.Limit
		}
		var data [][]string
		for row := range shown {
			pt := p.Frame.Index[row]
			rec := []string{fmtFloat(pt.Lat), fmtFloat(pt.Lon)}
			for _, c := range p.Frame.Columns {
				rec = append(rec, fmtFloat(c.Values[row]))
			}
			data = append(data, rec)
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Showing %d of %d rows\n\n", shown, p.Frame.Len()); err != nil {
			return err
		}
	}
	return nil
}

// PrintSummary outputs column statistics in the configured format.
func PrintSummary(summaries []schema.ColumnSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSummary(w, summaries, cfg)
	}, "Wrote summary")
}

type jsonSummary struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"q25"`
	Median *float64 `json:"median"`
	Q75    *float64 `json:"q75"`
	Max    *float64 `json:"max"`
}

// WriteSummary writes column statistics to w.
func WriteSummary(w io.Writer, summaries []schema.ColumnSummary, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		out := make([]jsonSummary, len(summaries))
		for i, s := range summaries {
			out[i] = jsonSummary{
				Name: s.Name, Count: s.Count,
				Mean: nullable(s.Mean), Std: nullable(s.Std), Min: nullable(s.Min),
				Q25: nullable(s.Q25), Median: nullable(s.Median), Q75: nullable(s.Q75), Max: nullable(s.Max),
			}
		}
		return writeJSON(w, out)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"name", "count", "mean", "std", "min", "q25", "median", "q75", "max"}, func(cw *csv.Writer) error {
			for _, s := range summaries {
				if err := cw.Write(summaryRecord(s, fmtFloat, s.Name)); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		nameWidth := GetMaxNameWidth(cfg, 80)
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Variable", "N", "Mean", "Std", "Min", "Q25", "Median", "Q75", "Max"})
		var data [][]string
		for _, s := range summaries {
			data = append(data, summaryRecord(s, fmtFloat, contract.TruncateText(s.Name, nameWidth)))
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	}
}

func summaryRecord(s schema.ColumnSummary, fmtFloat func(float64) string, name string) []string {
	return []string{
		name,
		strconv.Itoa(s.Count),
		fmtFloat(s.Mean),
		fmtFloat(s.Std),
		fmtFloat(s.Min),
		fmtFloat(s.Q25),
		fmtFloat(s.Median),
		fmtFloat(s.Q75),
		fmtFloat(s.Max),
	}
}
