// Package agg has descriptive statistics over metric frames.
package agg

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// Summarize computes the statistics of every value column of f.
func Summarize(f schema.Frame) ([]schema.ColumnSummary, error) {
	out := make([]schema.ColumnSummary, 0, len(f.Columns))
	for _, c := range f.Columns {
		s, err := SummarizeValues(c.Name, c.Values)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SummarizePartitions summarizes every partition of a metric frame in order.
func SummarizePartitions(parts []schema.FramePartition) ([]schema.ColumnSummary, error) {
	var out []schema.ColumnSummary
	for _, p := range parts {
		s, err := Summarize(p.Frame)
		if err != nil {
			return nil, err
		}
		out = append(out, s...)
	}
	return out, nil
}

// SummarizeValues computes the statistics of values, skipping NaNs.
func SummarizeValues(name string, values []float64) (schema.ColumnSummary, error) {
	data := finite(values)
	s := schema.ColumnSummary{Name: name, Count: len(data)}
	if len(data) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s, nil
	}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, fmt.Errorf("mean of %s: %w", name, err)
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, fmt.Errorf("min of %s: %w", name, err)
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, fmt.Errorf("max of %s: %w", name, err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, fmt.Errorf("median of %s: %w", name, err)
	}

	// a single value has no spread and is its own quartile
	if len(data) == 1 {
		s.Std, s.Q25, s.Q75 = math.NaN(), data[0], data[0]
		return s, nil
	}
	if s.Std, err = stats.StandardDeviationSample(data); err != nil {
		return s, fmt.Errorf("standard deviation of %s: %w", name, err)
	}
	if s.Q25, err = quartile(data, 25); err != nil {
		return s, fmt.Errorf("25th percentile of %s: %w", name, err)
	}
	if s.Q75, err = quartile(data, 75); err != nil {
		return s, fmt.Errorf("75th percentile of %s: %w", name, err)
	}
	return s, nil
}

// quartile falls back to the minimum when the sample is too small for the
// nearest-rank percentile.
func quartile(data stats.Float64Data, percent float64) (float64, error) {
	v, err := stats.Percentile(data, percent)
	if err == nil {
		return v, nil
	}
	if len(data) > 0 {
		return stats.Min(data)
	}
	return v, err
}

func finite(values []float64) stats.Float64Data {
	out := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
