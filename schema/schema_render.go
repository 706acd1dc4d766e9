package schema

// MetricEntry is one row of the metric listing of a catalog.
type MetricEntry struct {
	Metric     string      `json:"metric"`
	Group      MetricGroup `json:"group"`
	PrettyName string      `json:"pretty_name"`
	Variables  int         `json:"variables"`
	Range      *ValueRange `json:"range,omitempty"`
}

// VariableEntry is one row of the variable listing of a catalog.
type VariableEntry struct {
	Varname    string      `json:"varname"`
	Metric     string      `json:"metric"`
	Group      MetricGroup `json:"group"`
	Candidates []string    `json:"candidates"`
	Scaling    string      `json:"scaling,omitempty"`
	Units      string      `json:"units,omitempty"`
}
