package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesGroupOf(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		metric string
		want   MetricGroup
	}{
		{"n_obs", GroupCommon},
		{"R", GroupPairwise},
		{"urmsd", GroupPairwise},
		{"snr", GroupTriple},
		{"beta", GroupTriple},
	}
	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			g, err := tables.GroupOf(tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}

	_, err := tables.GroupOf("nope")
	assert.True(t, errors.Is(err, ErrUnknownMetric))
}

func TestTablesMerge(t *testing.T) {
	base := DefaultTables()
	merged := base.Merge(Tables{
		MetricGroups:       map[MetricGroup][]string{GroupTriple: {"snr"}},
		DatasetPrettyNames: map[string]string{"SMAP": "SMAP L3", "NEW": "New Dataset"},
		MetricValueRanges:  map[string]ValueRange{"snr": {Min: bound(-50)}},
	})

	assert.Equal(t, []string{"snr"}, merged.MetricGroups[GroupTriple])
	assert.True(t, merged.InGroup(GroupPairwise, "R"))
	assert.Equal(t, "SMAP L3", merged.DatasetPrettyNames["SMAP"])
	assert.Equal(t, "New Dataset", merged.DatasetPrettyNames["NEW"])
	assert.Equal(t, "ISMN", merged.DatasetPrettyNames["ISMN"])
	require.NotNil(t, merged.MetricValueRanges["snr"].Min)
	assert.Equal(t, -50.0, *merged.MetricValueRanges["snr"].Min)

	// The base tables are untouched
	assert.True(t, base.InGroup(GroupTriple, "beta"))
	assert.Equal(t, "SMAP level 3", base.DatasetPrettyNames["SMAP"])
	_, ok := base.DatasetPrettyNames["NEW"]
	assert.False(t, ok)
}

func TestTablesClone(t *testing.T) {
	base := DefaultTables()
	clone := base.Clone()
	clone.MetricGroups[GroupCommon] = append(clone.MetricGroups[GroupCommon], "extra")
	clone.MetricPrettyNames["R"] = "changed"

	assert.Equal(t, []string{CommonObsMetric}, base.MetricGroups[GroupCommon])
	assert.NotEqual(t, "changed", base.MetricPrettyNames["R"])
}

func TestExtentContains(t *testing.T) {
	e := Extent{MinLon: 16, MaxLon: 17, MinLat: 48, MaxLat: 49}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{Lat: 48.5, Lon: 16.5}, true},
		{"on lower bound", Point{Lat: 48, Lon: 16}, true},
		{"on upper bound", Point{Lat: 49, Lon: 17}, true},
		{"west", Point{Lat: 48.5, Lon: 15.9}, false},
		{"north", Point{Lat: 49.1, Lon: 16.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Contains(tt.p))
		})
	}
}

func TestFrameColumnNames(t *testing.T) {
	f := Frame{
		Index:   []Point{{Lat: 1, Lon: 2}},
		Columns: []Column{{Name: "a", Values: []float64{1}}, {Name: "b", Values: []float64{2}}},
	}
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, []string{"a", "b"}, f.ColumnNames())
}
