package schema

// Point is one location of the results grid.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Series holds the values of one variable along its location index.
// Missing values are NaN.
type Series struct {
	Name   string    `json:"name"`
	Index  []Point   `json:"index"`
	Values []float64 `json:"values"`
}

// Len returns the number of rows.
func (s Series) Len() int { return len(s.Values) }

// Column is one named value column of a Frame.
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Frame is a column-oriented table indexed by location.
type Frame struct {
	Index   []Point  `json:"index"`
	Columns []Column `json:"columns"`
}

// Len returns the number of rows.
func (f Frame) Len() int { return len(f.Index) }

// ColumnNames returns the names of all value columns.
func (f Frame) ColumnNames() []string {
	names := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Extent is a geographic bounding box, bounds included.
type Extent struct {
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
}

// Contains reports whether p lies inside the box.
func (e Extent) Contains(p Point) bool {
	return p.Lon >= e.MinLon && p.Lon <= e.MaxLon && p.Lat >= e.MinLat && p.Lat <= e.MaxLat
}

// FramePartition is the frame of one group of metric variables. Triple
// collocation metrics get one partition per scaling dataset, all other
// metrics a single partition with a nil Scaling.
type FramePartition struct {
	Scaling   *DatasetIdentity   `json:"scaling,omitempty"`
	Variables []string           `json:"variables"`
	Meta      map[string]VarMeta `json:"meta"`
	Frame     Frame              `json:"frame"`
}

// ColumnSummary holds descriptive statistics of one frame column. NaNs are
// not counted; statistics of a column without values are NaN.
type ColumnSummary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}
