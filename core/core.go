// Package core has the metric catalog of QA4SM results files and the entry
// points of every CLI mode.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qa4sm/qa4sm-reader/core/grammar"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/internal/outwriter"
	"github.com/qa4sm/qa4sm-reader/internal/source"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// ExecutorFunc defines the function signature for executing the file-based modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// errParquetFrameOnly is returned when parquet output is requested for a listing.
var errParquetFrameOnly = errors.New("parquet output is only supported by the frame command")

// ExecuteInfo prints the reference, datasets and variable counts of a results file.
func ExecuteInfo(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetFrameOnly
	}
	cat, err := LoadCatalog(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	info, err := cat.Info()
	if err != nil {
		return err
	}
	return outwriter.PrintCatalogInfo(info, cfg)
}

// ExecuteMetrics prints the metrics of a results file.
func ExecuteMetrics(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetFrameOnly
	}
	cat, err := LoadCatalog(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintMetrics(GetMetricEntries(cat, cfg.Grouped), cfg)
}

// ExecuteVariables prints the metric variables of a results file.
func ExecuteVariables(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetFrameOnly
	}
	cat, err := LoadCatalog(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintVariables(GetVariableEntries(cat, cfg.Grouped), cfg)
}

// ExecuteMeta prints the resolved dataset identities of a metric or of single variables.
func ExecuteMeta(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetFrameOnly
	}
	if cfg.Metric == "" && len(cfg.Vars) == 0 {
		return errNoSelection
	}
	cat, err := LoadCatalog(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	meta, err := GetMetaResults(cat, cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintVarMeta(meta, cfg)
}

// ExecuteFrame prints or writes the metric frame of the selected variables.
// Parquet output writes one file per partition.
func ExecuteFrame(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if cfg.Metric == "" && len(cfg.Vars) == 0 {
		return errNoSelection
	}
	cat, err := LoadCatalog(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	parts, err := GetFrameResults(cat, cfg)
	if err != nil {
		return err
	}
	if cfg.Output == schema.ParquetOut {
		return writeFrameParquet(cat, parts, cfg.OutputFile)
	}
	return outwriter.PrintFrame(parts, cfg)
}

// ExecuteSummary prints descriptive statistics of the selected variables.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetFrameOnly
	}
	if cfg.Metric == "" && len(cfg.Vars) == 0 {
		return errNoSelection
	}
	cat, err := LoadCatalog(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	summaries, err := GetSummaryResults(cat, cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintSummary(summaries, cfg)
}

// ExecuteParseVariable prints the parts of a single variable name.
// No file is read.
func ExecuteParseVariable(_ context.Context, cfg *contract.Config, varname string) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetFrameOnly
	}
	parsed, err := grammar.NewVariableNameGrammar(cfg.Tables).Parse(varname)
	if err != nil {
		return err
	}
	return outwriter.PrintParsedVariable(parsed, cfg)
}

// ExecuteParseFilename prints the dataset segments of a results file name.
// Only the base name is parsed and no file is read.
func ExecuteParseFilename(_ context.Context, cfg *contract.Config, name string) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetFrameOnly
	}
	parsed, err := grammar.ParseFilename(filepath.Base(name))
	if err != nil {
		return err
	}
	return outwriter.PrintParsedFilename(parsed, cfg)
}

// writeFrameParquet writes every partition as a results parquet file that
// carries the attributes of the source. Multiple partitions get the scaling
// dataset appended to the file name.
func writeFrameParquet(cat *MetricCatalog, parts []schema.FramePartition, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	for _, p := range parts {
		path := outputFile
		if len(parts) > 1 {
			stem := strings.TrimSuffix(outputFile, filepath.Ext(outputFile))
			path = fmt.Sprintf("%s_%s%s", stem, partitionSuffix(cat, p), schema.ParquetExtension)
		}
		if err := source.WriteParquet(path, cat.Name(), cat.Index().Attributes(), p.Frame); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote frame to %s\n", path)
	}
	return nil
}

// partitionSuffix names a partition by its scaling dataset as it appears in variable names.
func partitionSuffix(cat *MetricCatalog, p schema.FramePartition) string {
	if p.Scaling == nil {
		return "unscaled"
	}
	return fmt.Sprintf("scaled_%d-%s", cat.Index().NameIDFor(p.Scaling.AttrID), p.Scaling.ShortName)
}
