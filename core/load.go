package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/internal/source"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// LoadCatalog opens the results file named by cfg and builds its catalog.
// The load and every metric variable are recorded in the history store when
// one is configured. History failures are reported but never fail the load.
func LoadCatalog(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (*MetricCatalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.SourcePath == "" {
		return nil, errors.New("a results file is required")
	}

	// --- 0. Begin Load Tracking (if configured) ---
	var store contract.HistoryStore
	if mgr != nil {
		store = mgr.GetHistoryStore()
	}
	var loadID int64
	if store != nil {
		var err error
		loadID, err = store.BeginLoad(cfg.SourcePath, time.Now(), loadParams(cfg))
		if err != nil {
			contract.LogWarn("Load tracking initialization failed", err)
			loadID = 0
		}
	}

	// --- 1. Read and index the file ---
	cat, err := openCatalog(cfg)
	if err != nil {
		if store != nil && loadID > 0 {
			// a failed load is closed with an empty summary
			if endErr := store.EndLoad(loadID, time.Now(), contract.LoadSummary{}); endErr != nil {
				contract.LogWarn("Failed to finalize load tracking", endErr)
			}
		}
		return nil, err
	}

	if cfg.Verbose && !isQuiet(ctx) {
		contract.LogDiagnostics(cat.Diagnostics())
	}

	// --- 2. End Load Tracking ---
	if store != nil && loadID > 0 {
		recordLoad(store, loadID, cat)
	}
	return cat, nil
}

func openCatalog(cfg *contract.Config) (*MetricCatalog, error) {
	src, err := source.Open(cfg.SourcePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return NewMetricCatalog(src, cfg.Tables)
}

// loadParams collects the options of a load stored alongside it.
func loadParams(cfg *contract.Config) map[string]any {
	params := map[string]any{
		"output":    string(cfg.Output),
		"precision": cfg.Precision,
	}
	if cfg.Metric != "" {
		params["metric"] = cfg.Metric
	}
	if len(cfg.Vars) > 0 {
		params["vars"] = cfg.Vars
	}
	if cfg.Extent != nil {
		params["extent"] = *cfg.Extent
	}
	return params
}

// recordLoad stores every metric variable of cat and completes the load record.
func recordLoad(store contract.HistoryStore, loadID int64, cat *MetricCatalog) {
	names := cat.Variables()
	for _, name := range names {
		v, err := cat.Variable(name)
		if err != nil {
			continue
		}
		if err := store.RecordVariable(loadID, variableRecord(loadID, v)); err != nil {
			contract.LogWarn(fmt.Sprintf("Load tracking failed for %s", name), err)
		}
	}

	summary := contract.LoadSummary{
		VariableCount:   len(names),
		DiagnosticCount: len(cat.Diagnostics()),
	}
	if ref, err := cat.RefIdentity(); err == nil {
		summary.RefShortName = ref.ShortName
		summary.RefShortVersion = ref.ShortVersion
	}
	if err := store.EndLoad(loadID, time.Now(), summary); err != nil {
		contract.LogWarn("Failed to finalize load tracking", err)
	}
}

func variableRecord(loadID int64, v *MetricVariable) schema.LoadVariableRecord {
	candidates := make([]string, len(v.Candidates))
	for i, c := range v.Candidates {
		candidates[i] = c.ShortName
	}
	rec := schema.LoadVariableRecord{
		LoadID:      loadID,
		Varname:     v.Varname,
		Metric:      v.Metric(),
		MetricGroup: v.Group().String(),
		Candidates:  strings.Join(candidates, ","),
	}
	if v.Scaling != nil {
		scaling := v.Scaling.ShortName
		rec.Scaling = &scaling
	}
	return rec
}
