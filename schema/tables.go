package schema

import (
	"maps"
	"slices"
	"strconv"
)

// ValueRange is the plausible range of a metric. A nil bound is open.
type ValueRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// String renders the range in interval notation, e.g. "[-1, 1]" or "[0, inf)".
func (r ValueRange) String() string {
	lo, hi := "(-inf", "inf)"
	if r.Min != nil {
		lo = "[" + strconv.FormatFloat(*r.Min, 'g', -1, 64)
	}
	if r.Max != nil {
		hi = strconv.FormatFloat(*r.Max, 'g', -1, 64) + "]"
	}
	return lo + ", " + hi
}

// Tables holds every lookup table used to parse names and resolve identities.
// A Tables value is treated as immutable: Merge and Clone return new values.
type Tables struct {
	MetricGroups       map[MetricGroup][]string
	DatasetPrettyNames map[string]string
	VersionPrettyNames map[string]string
	MetricPrettyNames  map[string]string
	DatasetUnits       map[string]string
	MetricValueRanges  map[string]ValueRange
	UnitScaledMetrics  map[string]string // metric -> unit format, "%s" or "(%s)²"
}

func bound(v float64) *float64 { return &v }

// DefaultTables returns a fresh copy of the built-in lookup tables.
func DefaultTables() Tables {
	return Tables{
		MetricGroups: map[MetricGroup][]string{
			GroupCommon: {CommonObsMetric},
			GroupPairwise: {
				"R", "p_R", "rho", "p_rho", "tau", "p_tau", "rmsd", "bias", "ubRMSD",
				"RSS", "mse", "mse_corr", "mse_bias", "mse_var", "urmsd", "BIAS", "RMSD",
			},
			GroupTriple: {"snr", "err_std", "beta"},
		},
		DatasetPrettyNames: map[string]string{
			"ISMN":                "ISMN",
			"C3S":                 "C3S",
			"GLDAS":               "GLDAS",
			"ASCAT":               "H-SAF ASCAT SSM CDR",
			"SMAP":                "SMAP level 3",
			"ERA5":                "ERA5",
			"ERA":                 "ERA5", // the dataset was called like this for some time
			"ESA_CCI_SM_combined": "ESA CCI SM combined",
			"SMOS":                "SMOS IC",
		},
		VersionPrettyNames: map[string]string{
			"C3S_V201706":           "v201706",
			"SMAP_V5_PM":            "v5 PM/ascending",
			"ASCAT_H113":            "H113",
			"ISMN_V20180712_TEST":   "20180712 testset",
			"ISMN_V20180712_MINI":   "20180712 mini testset",
			"ISMN_V20180830_GLOBAL": "20180830 global",
			"GLDAS_NOAH025_3H_2_1":  "NOAH025 3H.2.1",
			"GLDAS_TEST":            "TEST",
			"C3S_V201812":           "v201812",
			"ISMN_V20190222":        "20190222 global",
			"ESA_CCI_SM_C_V04_4":    "v04.4",
			"SMOS_105_ASC":          "V.105 Ascending",
			"ERA5_test":             "ERA5 test",
			"ERA5":                  "ERA5",
		},
		MetricPrettyNames: map[string]string{
			"R":        "Pearson's r",
			"p_R":      "Pearson's r p-value",
			"rho":      "Spearman's rho",
			"p_rho":    "Spearman's rho p-value",
			"tau":      "Kendall rank correlation",
			"p_tau":    "Kendall tau p-value",
			"rmsd":     "Root-mean-square deviation",
			"RMSD":     "Root-mean-square deviation",
			"bias":     "Bias (difference of means)",
			"BIAS":     "Bias (difference of means)",
			"n_obs":    "# observations",
			"ubRMSD":   "Unbiased root-mean-square deviation",
			"urmsd":    "Unbiased root-mean-square deviation",
			"RSS":      "Residual sum of squares",
			"mse":      "Mean square error",
			"mse_corr": "Mean square error correlation",
			"mse_bias": "Mean square error bias",
			"mse_var":  "Mean square error variance",
			"snr":      "Signal-to-noise ratio",
			"err_std":  "Error standard deviation",
			"beta":     "TC scaling coefficient",
		},
		DatasetUnits: map[string]string{
			"ISMN":                "m³/m³",
			"C3S":                 "m³/m³",
			"GLDAS":               "m³/m³",
			"ASCAT":               "percentage of saturation",
			"SMAP":                "m³/m³",
			"ERA5":                "m³/m³",
			"ERA":                 "m³/m³",
			"ESA_CCI_SM_combined": "",
			"SMOS":                "",
		},
		MetricValueRanges: map[string]ValueRange{
			"R":        {Min: bound(-1), Max: bound(1)},
			"p_R":      {Min: bound(0), Max: bound(1)},
			"rho":      {Min: bound(-1), Max: bound(1)},
			"p_rho":    {Min: bound(0), Max: bound(1)},
			"tau":      {Min: bound(-1), Max: bound(1)},
			"p_tau":    {Min: bound(0), Max: bound(1)},
			"rmsd":     {Min: bound(0)},
			"bias":     {},
			"n_obs":    {Min: bound(0)},
			"ubRMSD":   {Min: bound(0)},
			"RSS":      {Min: bound(0)},
			"mse":      {Min: bound(0)},
			"mse_corr": {Min: bound(0)},
			"mse_bias": {Min: bound(0)},
			"mse_var":  {Min: bound(0)},
		},
		UnitScaledMetrics: map[string]string{
			"rmsd":     "%s",
			"bias":     "%s",
			"ubRMSD":   "%s",
			"err_std":  "%s",
			"RSS":      "(%s)²",
			"mse":      "(%s)²",
			"mse_corr": "(%s)²",
			"mse_bias": "(%s)²",
			"mse_var":  "(%s)²",
		},
	}
}

// Clone returns a deep copy of the tables.
func (t Tables) Clone() Tables {
	groups := make(map[MetricGroup][]string, len(t.MetricGroups))
	for g, metrics := range t.MetricGroups {
		groups[g] = slices.Clone(metrics)
	}
	return Tables{
		MetricGroups:       groups,
		DatasetPrettyNames: maps.Clone(t.DatasetPrettyNames),
		VersionPrettyNames: maps.Clone(t.VersionPrettyNames),
		MetricPrettyNames:  maps.Clone(t.MetricPrettyNames),
		DatasetUnits:       maps.Clone(t.DatasetUnits),
		MetricValueRanges:  maps.Clone(t.MetricValueRanges),
		UnitScaledMetrics:  maps.Clone(t.UnitScaledMetrics),
	}
}

// Merge returns a copy of t with the entries of overrides added on top.
// Metric groups present in overrides replace the group's registry.
func (t Tables) Merge(overrides Tables) Tables {
	out := t.Clone()
	for g, metrics := range overrides.MetricGroups {
		out.MetricGroups[g] = slices.Clone(metrics)
	}
	mergeInto := func(dst *map[string]string, src map[string]string) {
		if *dst == nil {
			*dst = make(map[string]string, len(src))
		}
		maps.Copy(*dst, src)
	}
	mergeInto(&out.DatasetPrettyNames, overrides.DatasetPrettyNames)
	mergeInto(&out.VersionPrettyNames, overrides.VersionPrettyNames)
	mergeInto(&out.MetricPrettyNames, overrides.MetricPrettyNames)
	mergeInto(&out.DatasetUnits, overrides.DatasetUnits)
	mergeInto(&out.UnitScaledMetrics, overrides.UnitScaledMetrics)
	if out.MetricValueRanges == nil {
		out.MetricValueRanges = make(map[string]ValueRange)
	}
	maps.Copy(out.MetricValueRanges, overrides.MetricValueRanges)
	return out
}

// InGroup reports whether metric is registered for group g.
func (t Tables) InGroup(g MetricGroup, metric string) bool {
	return slices.Contains(t.MetricGroups[g], metric)
}

// GroupOf returns the group a metric is registered for.
func (t Tables) GroupOf(metric string) (MetricGroup, error) {
	for _, g := range MetricGroups {
		if t.InGroup(g, metric) {
			return g, nil
		}
	}
	return GroupOther, &UnknownMetricError{Metric: metric}
}
