package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/internal/iocache"
	"github.com/qa4sm/qa4sm-reader/internal/source"
	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// writeResultsFile stores the results fixture as a parquet file and returns its path.
func writeResultsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), strings.TrimSuffix(resultsName, schema.FilenameExtension)+schema.ParquetExtension)
	require.NoError(t, source.WriteParquet(path, resultsName, resultsAttrs(), resultsFrame()))
	return path
}

// testConfig returns a JSON config writing to a file in a temp dir.
func testConfig(t *testing.T, sourcePath string) *contract.Config {
	t.Helper()
	return &contract.Config{
		SourcePath: sourcePath,
		Output:     schema.JSONOut,
		OutputFile: filepath.Join(t.TempDir(), "out.json"),
		Precision:  contract.DefaultPrecision,
		Limit:      contract.DefaultLimit,
		Tables:     schema.DefaultTables(),
	}
}

// noHistory returns a manager without a history store.
func noHistory() *iocache.MockHistoryManager {
	mgr := &iocache.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestExecuteInfo(t *testing.T) {
	cfg := testConfig(t, writeResultsFile(t))
	mgr := noHistory()

	require.NoError(t, ExecuteInfo(context.Background(), cfg, mgr))

	var info schema.CatalogInfo
	readJSON(t, cfg.OutputFile, &info)
	assert.Equal(t, resultsName, info.Source)
	assert.Equal(t, "ISMN", info.Reference.ShortName)
	assert.Equal(t, -1, info.Offset)
	assert.Len(t, info.Datasets, 3)
	assert.Equal(t, 3, info.Counts["triple"])
	assert.Equal(t, []string{"snr", "beta"}, info.Metrics["triple"])
	mgr.AssertExpectations(t)
}

func TestExecuteMetrics(t *testing.T) {
	path := writeResultsFile(t)

	t.Run("sorted", func(t *testing.T) {
		cfg := testConfig(t, path)
		require.NoError(t, ExecuteMetrics(context.Background(), cfg, noHistory()))

		var entries []schema.MetricEntry
		readJSON(t, cfg.OutputFile, &entries)
		require.Len(t, entries, 5)
		assert.Equal(t, "R", entries[0].Metric)
		assert.Equal(t, schema.GroupPairwise, entries[0].Group)
		assert.Equal(t, "Pearson's r", entries[0].PrettyName)
		assert.Equal(t, 2, entries[0].Variables)
	})

	t.Run("grouped", func(t *testing.T) {
		cfg := testConfig(t, path)
		cfg.Grouped = true
		require.NoError(t, ExecuteMetrics(context.Background(), cfg, noHistory()))

		var entries []schema.MetricEntry
		readJSON(t, cfg.OutputFile, &entries)
		var names []string
		for _, e := range entries {
			names = append(names, e.Metric)
		}
		assert.Equal(t, []string{"snr", "beta", "R", "p_R", "n_obs"}, names)
	})
}

func TestExecuteVariables(t *testing.T) {
	cfg := testConfig(t, writeResultsFile(t))
	cfg.Grouped = true
	require.NoError(t, ExecuteVariables(context.Background(), cfg, noHistory()))

	var entries []schema.VariableEntry
	readJSON(t, cfg.OutputFile, &entries)
	require.Len(t, entries, 7)
	assert.Equal(t, schema.GroupTriple, entries[0].Group)
	assert.Equal(t, "n_obs", entries[6].Varname)
	assert.Equal(t, []string{"C3S", "SMAP"}, entries[6].Candidates)

	for _, e := range entries {
		if e.Varname == varSnr_SMAP {
			assert.Equal(t, "SMAP", e.Scaling)
		}
	}
}

func TestExecuteMeta(t *testing.T) {
	path := writeResultsFile(t)

	t.Run("by metric", func(t *testing.T) {
		cfg := testConfig(t, path)
		cfg.Metric = "R"
		require.NoError(t, ExecuteMeta(context.Background(), cfg, noHistory()))

		var meta map[string]schema.VarMeta
		readJSON(t, cfg.OutputFile, &meta)
		assert.Len(t, meta, 2)
		assert.Equal(t, "SMAP L3", meta[varR_SMAP].Candidates[0].PrettyName)
	})

	t.Run("by variable", func(t *testing.T) {
		cfg := testConfig(t, path)
		cfg.Vars = []string{varSnr_C3S}
		require.NoError(t, ExecuteMeta(context.Background(), cfg, noHistory()))

		var meta map[string]schema.VarMeta
		readJSON(t, cfg.OutputFile, &meta)
		require.NotNil(t, meta[varSnr_C3S].Scaling)
		assert.Equal(t, "C3S", meta[varSnr_C3S].Scaling.ShortName)
	})

	t.Run("no selection", func(t *testing.T) {
		cfg := testConfig(t, path)
		assert.ErrorIs(t, ExecuteMeta(context.Background(), cfg, noHistory()), errNoSelection)
	})

	t.Run("unknown variable", func(t *testing.T) {
		cfg := testConfig(t, path)
		cfg.Vars = []string{"gpi"}
		assert.ErrorIs(t, ExecuteMeta(context.Background(), cfg, noHistory()), schema.ErrUnknownVariable)
	})
}

func TestExecuteFrame(t *testing.T) {
	path := writeResultsFile(t)

	t.Run("json partitions by scaling", func(t *testing.T) {
		cfg := testConfig(t, path)
		cfg.Metric = "snr"
		require.NoError(t, ExecuteFrame(context.Background(), cfg, noHistory()))

		var parts []struct {
			Scaling *schema.DatasetIdentity `json:"scaling"`
			Index   []schema.Point          `json:"index"`
		}
		readJSON(t, cfg.OutputFile, &parts)
		require.Len(t, parts, 2)
		assert.Equal(t, "C3S", parts[0].Scaling.ShortName)
		assert.Equal(t, "SMAP", parts[1].Scaling.ShortName)
		assert.Len(t, parts[0].Index, 2)
	})

	t.Run("extent", func(t *testing.T) {
		cfg := testConfig(t, path)
		cfg.Vars = []string{varR_SMAP}
		cfg.Extent = &schema.Extent{MinLon: 16.35, MaxLon: 17, MinLat: 48, MaxLat: 49}
		require.NoError(t, ExecuteFrame(context.Background(), cfg, noHistory()))

		var parts []struct {
			Index []schema.Point `json:"index"`
		}
		readJSON(t, cfg.OutputFile, &parts)
		require.Len(t, parts, 1)
		assert.Equal(t, []schema.Point{{Lat: 48.3, Lon: 16.4}}, parts[0].Index)
	})

	t.Run("parquet writes one file per partition", func(t *testing.T) {
		cfg := testConfig(t, path)
		cfg.Metric = "snr"
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "snr.parquet")
		require.NoError(t, ExecuteFrame(context.Background(), cfg, noHistory()))

		dir := filepath.Dir(cfg.OutputFile)
		for _, name := range []string{"snr_scaled_1-C3S.parquet", "snr_scaled_2-SMAP.parquet"} {
			src, err := source.OpenParquet(filepath.Join(dir, name))
			require.NoError(t, err, name)
			assert.Equal(t, resultsName, src.Name())
			assert.Equal(t, "val_dc_dataset2", src.Attributes()["val_ref"])
			assert.Len(t, src.VariableNames(), 1)
			require.NoError(t, src.Close())
		}
	})

	t.Run("parquet single partition keeps the name", func(t *testing.T) {
		cfg := testConfig(t, path)
		cfg.Metric = "R"
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "r.parquet")
		require.NoError(t, ExecuteFrame(context.Background(), cfg, noHistory()))

		src, err := source.OpenParquet(cfg.OutputFile)
		require.NoError(t, err)
		assert.Equal(t, []string{varR_C3S, varR_SMAP}, src.VariableNames())
	})

	t.Run("no selection", func(t *testing.T) {
		assert.ErrorIs(t, ExecuteFrame(context.Background(), testConfig(t, path), noHistory()), errNoSelection)
	})
}

func TestExecuteSummary(t *testing.T) {
	cfg := testConfig(t, writeResultsFile(t))
	cfg.Metric = "R"
	require.NoError(t, ExecuteSummary(context.Background(), cfg, noHistory()))

	var summaries []map[string]any
	readJSON(t, cfg.OutputFile, &summaries)
	require.Len(t, summaries, 2)
	assert.Equal(t, varR_C3S, summaries[0]["name"])
	assert.Equal(t, float64(1), summaries[0]["count"])
	assert.InDelta(t, 0.55, summaries[1]["mean"], 1e-9)
}

func TestExecuteParquetOutputOnlyForFrames(t *testing.T) {
	cfg := testConfig(t, writeResultsFile(t))
	cfg.Output = schema.ParquetOut
	cfg.Metric = "R"
	ctx := context.Background()

	executors := map[string]ExecutorFunc{
		"info":    ExecuteInfo,
		"metrics": ExecuteMetrics,
		"vars":    ExecuteVariables,
		"meta":    ExecuteMeta,
		"summary": ExecuteSummary,
	}
	for name, exec := range executors {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, exec(ctx, cfg, noHistory()), errParquetFrameOnly)
		})
	}
	assert.ErrorIs(t, ExecuteParseVariable(ctx, cfg, "n_obs"), errParquetFrameOnly)
	assert.ErrorIs(t, ExecuteParseFilename(ctx, cfg, resultsName), errParquetFrameOnly)
}

func TestExecuteParse(t *testing.T) {
	ctx := context.Background()

	t.Run("variable", func(t *testing.T) {
		cfg := testConfig(t, "")
		require.NoError(t, ExecuteParseVariable(ctx, cfg, varSnr_SMAP))

		var parsed schema.ParsedVariable
		readJSON(t, cfg.OutputFile, &parsed)
		assert.Equal(t, "snr", parsed.Metric)
		assert.Equal(t, schema.GroupTriple, parsed.Group)
		require.NotNil(t, parsed.Scaling)
		assert.Equal(t, schema.DatasetRef{NameID: 2, ShortName: "SMAP"}, *parsed.Scaling)
	})

	t.Run("variable mismatch", func(t *testing.T) {
		cfg := testConfig(t, "")
		assert.ErrorIs(t, ExecuteParseVariable(ctx, cfg, "gpi"), schema.ErrNameGrammarMismatch)
	})

	t.Run("filename uses the base name", func(t *testing.T) {
		cfg := testConfig(t, "")
		require.NoError(t, ExecuteParseFilename(ctx, cfg, filepath.Join("/data", resultsName)))

		var parsed schema.ParsedFilename
		readJSON(t, cfg.OutputFile, &parsed)
		assert.Equal(t, "ISMN", parsed.Reference.ShortName)
		assert.Equal(t, 3, parsed.Reference.ID)
		assert.Len(t, parsed.Candidates, 2)
	})
}

func TestLoadCatalogErrors(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		_, err := LoadCatalog(context.Background(), testConfig(t, ""), noHistory())
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		cfg := testConfig(t, filepath.Join(t.TempDir(), resultsName))
		_, err := LoadCatalog(context.Background(), cfg, nil)
		assert.ErrorContains(t, err, "unsupported results file")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := LoadCatalog(ctx, testConfig(t, writeResultsFile(t)), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoadCatalogRecordsHistory(t *testing.T) {
	path := writeResultsFile(t)
	cfg := testConfig(t, path)
	cfg.Metric = "R"

	store := &iocache.MockHistoryStore{}
	store.On("BeginLoad", path, mock.Anything, mock.MatchedBy(func(params map[string]any) bool {
		return params["metric"] == "R" && params["output"] == "json"
	})).Return(int64(7), nil)
	store.On("RecordVariable", int64(7), mock.AnythingOfType("schema.LoadVariableRecord")).Return(nil).Times(7)
	store.On("EndLoad", int64(7), mock.Anything, mock.MatchedBy(func(s contract.LoadSummary) bool {
		// C3S carries no pretty names in the attributes
		return s.VariableCount == 7 && s.DiagnosticCount > 0 &&
			s.RefShortName == "ISMN" && s.RefShortVersion == "ISMN_V20180712_MINI"
	})).Return(nil)

	mgr := &iocache.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	cat, err := LoadCatalog(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Len(t, cat.Variables(), 7)

	store.AssertExpectations(t)
	mgr.AssertExpectations(t)

	var scaled *schema.LoadVariableRecord
	for _, call := range store.Calls {
		if call.Method != "RecordVariable" {
			continue
		}
		rec := call.Arguments.Get(1).(schema.LoadVariableRecord)
		if rec.Varname == varSnr_SMAP {
			scaled = &rec
		}
	}
	require.NotNil(t, scaled)
	assert.Equal(t, "triple", scaled.MetricGroup)
	assert.Equal(t, "C3S,SMAP", scaled.Candidates)
	require.NotNil(t, scaled.Scaling)
	assert.Equal(t, "SMAP", *scaled.Scaling)
}

func TestLoadCatalogHistoryFailures(t *testing.T) {
	cfg := testConfig(t, writeResultsFile(t))

	t.Run("begin fails", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		store.On("BeginLoad", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), assert.AnError)
		mgr := &iocache.MockHistoryManager{}
		mgr.On("GetHistoryStore").Return(store)

		_, err := LoadCatalog(context.Background(), cfg, mgr)
		require.NoError(t, err)
		store.AssertNotCalled(t, "RecordVariable", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "EndLoad", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("record and end fail", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		store.On("BeginLoad", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
		store.On("RecordVariable", int64(1), mock.Anything).Return(assert.AnError)
		store.On("EndLoad", int64(1), mock.Anything, mock.Anything).Return(assert.AnError)
		mgr := &iocache.MockHistoryManager{}
		mgr.On("GetHistoryStore").Return(store)

		_, err := LoadCatalog(context.Background(), cfg, mgr)
		require.NoError(t, err)
		store.AssertNumberOfCalls(t, "RecordVariable", 7)
	})
}

func TestLoadCatalogFailureEndsLoad(t *testing.T) {
	noRef := resultsAttrs()
	delete(noRef, "val_ref")
	badAttrsPath := filepath.Join(t.TempDir(), "no_ref"+schema.ParquetExtension)
	require.NoError(t, source.WriteParquet(badAttrsPath, resultsName, noRef, resultsFrame()))

	tests := []struct {
		name string
		path string
	}{
		{"open fails", filepath.Join(t.TempDir(), resultsName)},
		{"catalog fails", badAttrsPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockHistoryStore{}
			store.On("BeginLoad", tt.path, mock.Anything, mock.Anything).Return(int64(3), nil)
			store.On("EndLoad", int64(3), mock.Anything, contract.LoadSummary{}).Return(assert.AnError)
			mgr := &iocache.MockHistoryManager{}
			mgr.On("GetHistoryStore").Return(store)

			_, err := LoadCatalog(context.Background(), testConfig(t, tt.path), mgr)
			require.Error(t, err)
			assert.NotErrorIs(t, err, assert.AnError)
			store.AssertExpectations(t)
			store.AssertNotCalled(t, "RecordVariable", mock.Anything, mock.Anything)
		})
	}
}
