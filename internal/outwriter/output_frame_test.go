package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"testing"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPartitions() []schema.FramePartition {
	nan := math.NaN()
	return []schema.FramePartition{
		{
			Scaling:   &c3s,
			Variables: []string{"snr_1-C3S"},
			Frame: schema.Frame{
				Index:   []schema.Point{{Lat: 48.2, Lon: 16.3}, {Lat: 47.1, Lon: 15.4}},
				Columns: []schema.Column{{Name: "snr_1-C3S", Values: []float64{4.1, nan}}},
			},
		},
		{
			Scaling:   &smap,
			Variables: []string{"snr_2-SMAP"},
			Frame: schema.Frame{
				Index:   []schema.Point{{Lat: 48.2, Lon: 16.3}},
				Columns: []schema.Column{{Name: "snr_2-SMAP", Values: []float64{7.9}}},
			},
		},
	}
}

func TestWriteFrameCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, testPartitions(), &contract.Config{Output: schema.CSVOut, Precision: 2}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"lat", "lon", "scaling", "snr_1-C3S", "snr_2-SMAP"}, records[0])
	assert.Equal(t, []string{"48.2", "16.3", "C3S", "4.10", ""}, records[1])
	assert.Equal(t, []string{"47.1", "15.4", "C3S", "", ""}, records[2])
	assert.Equal(t, []string{"48.2", "16.3", "SMAP", "", "7.90"}, records[3])
}

func TestWriteFrameJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, testPartitions(), &contract.Config{Output: schema.JSONOut}))

	var got []struct {
		Scaling *schema.DatasetIdentity `json:"scaling"`
		Index   []schema.Point          `json:"index"`
		Columns []struct {
			Name   string     `json:"name"`
			Values []*float64 `json:"values"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "C3S", got[0].Scaling.ShortName)
	require.Len(t, got[0].Columns[0].Values, 2)
	assert.Equal(t, 4.1, *got[0].Columns[0].Values[0])
	assert.Nil(t, got[0].Columns[0].Values[1])
}

func TestWriteFrameTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := &contract.Config{Output: schema.TextOut, Precision: 1, Limit: 1}
	require.NoError(t, WriteFrame(&buf, testPartitions(), cfg))

	out := buf.String()
	assert.Contains(t, out, "Scaling: C3S, 1 variables")
	assert.Contains(t, out, "Showing 1 of 2 rows")
	assert.Contains(t, out, "Scaling: SMAP, 1 variables")
	assert.Contains(t, out, "7.9")
}

func TestWriteFrameUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFrame(&buf, testPartitions(), &contract.Config{Output: schema.ParquetOut})
	assert.Error(t, err)
}

func TestWriteSummary(t *testing.T) {
	nan := math.NaN()
	summaries := []schema.ColumnSummary{
		{Name: "snr", Count: 4, Mean: 5, Std: 2.5311, Min: 2, Q25: 2, Median: 5.05, Q75: 6, Max: 7.9},
		{Name: "empty", Count: 0, Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan},
	}

	t.Run("json has null for NaN", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, summaries, &contract.Config{Output: schema.JSONOut}))

		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, 5.05, got[0]["median"])
		assert.Nil(t, got[1]["mean"])
		assert.Equal(t, float64(0), got[1]["count"])
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, summaries, &contract.Config{Output: schema.CSVOut, Precision: 2}))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"snr", "4", "5.00", "2.53", "2.00", "2.00", "5.05", "6.00", "7.90"}, records[1])
		assert.Equal(t, []string{"empty", "0", "", "", "", "", "", "", ""}, records[2])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, summaries, &contract.Config{Output: schema.TextOut, Precision: 3}))
		assert.Contains(t, buf.String(), "2.531")
	})
}
