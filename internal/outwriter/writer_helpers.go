// Package outwriter renders catalog query results as text tables, JSON or CSV.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatter creates the float formatter used across output types.
// NaN is rendered as an empty cell.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// nullable maps NaN to nil since JSON has no NaN.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// nullables applies nullable to every value.
func nullables(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = nullable(v)
	}
	return out
}

// groupLabel returns the metric group label, colored for tables when enabled.
func groupLabel(g schema.MetricGroup, cfg *contract.Config) string {
	if cfg.UseColors && cfg.Output == schema.TextOut {
		return contract.GetColorLabel(g)
	}
	return contract.GetPlainLabel(g)
}

// scalingLabel names the scaling dataset of a partition, or "-" if there is none.
func scalingLabel(id *schema.DatasetIdentity) string {
	if id == nil {
		return "-"
	}
	return id.ShortName
}

func rangeLabel(vr *schema.ValueRange) string {
	if vr == nil {
		return ""
	}
	return vr.String()
}
