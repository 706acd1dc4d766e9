package core

import (
	"math"

	"github.com/qa4sm/qa4sm-reader/schema"
)

// ConcatSeries joins series column-wise on their location index. Locations
// missing from a series are filled with NaN. Row order follows first appearance.
func ConcatSeries(series []schema.Series) schema.Frame {
	rowOf := make(map[schema.Point]int)
	var index []schema.Point
	for _, s := range series {
		for _, p := range s.Index {
			if _, ok := rowOf[p]; !ok {
				rowOf[p] = len(index)
				index = append(index, p)
			}
		}
	}

	frame := schema.Frame{Index: index, Columns: make([]schema.Column, 0, len(series))}
	for _, s := range series {
		values := make([]float64, len(index))
		for i := range values {
			values[i] = math.NaN()
		}
		for i, p := range s.Index {
			if i < len(s.Values) {
				values[rowOf[p]] = s.Values[i]
			}
		}
		frame.Columns = append(frame.Columns, schema.Column{Name: s.Name, Values: values})
	}
	return frame
}

// DropNaN removes the rows of f where every value column is NaN.
func DropNaN(f schema.Frame) schema.Frame {
	keep := make([]int, 0, len(f.Index))
	for row := range f.Index {
		for _, c := range f.Columns {
			if row < len(c.Values) && !math.IsNaN(c.Values[row]) {
				keep = append(keep, row)
				break
			}
		}
	}

	out := schema.Frame{
		Index:   make([]schema.Point, 0, len(keep)),
		Columns: make([]schema.Column, len(f.Columns)),
	}
	for _, row := range keep {
		out.Index = append(out.Index, f.Index[row])
	}
	for i, c := range f.Columns {
		values := make([]float64, 0, len(keep))
		for _, row := range keep {
			values = append(values, c.Values[row])
		}
		out.Columns[i] = schema.Column{Name: c.Name, Values: values}
	}
	return out
}

// validCount returns the number of non-NaN values in s.
func validCount(s schema.Series) int {
	n := 0
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// SubsetExtent keeps the rows of f located inside e.
func SubsetExtent(f schema.Frame, e schema.Extent) schema.Frame {
	out := schema.Frame{Columns: make([]schema.Column, len(f.Columns))}
	for i, c := range f.Columns {
		out.Columns[i] = schema.Column{Name: c.Name, Values: []float64{}}
	}
	out.Index = []schema.Point{}
	for row, p := range f.Index {
		if !e.Contains(p) {
			continue
		}
		out.Index = append(out.Index, p)
		for i, c := range f.Columns {
			out.Columns[i].Values = append(out.Columns[i].Values, c.Values[row])
		}
	}
	return out
}
