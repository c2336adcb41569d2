package entities

// MetricGroup tags a quality indicator with its reporting category.
type MetricGroup string

const (
	MetricGroupOutcomes    MetricGroup = "outcomes"
	MetricGroupSafety      MetricGroup = "safety"
	MetricGroupProcess     MetricGroup = "process"
	MetricGroupUtilization MetricGroup = "utilization"
)

// MetricDefinition describes one quality indicator in the static catalog.
// HistoricalKey is always set; CurrentKey is empty for metrics that only
// exist in historical extracts.
type MetricDefinition struct {
	Label          string      `json:"label"`
	CurrentKey     string      `json:"current_key,omitempty"`
	HistoricalKey  string      `json:"historical_key"`
	HigherIsBetter bool        `json:"higher_is_better"`
	Unit           string      `json:"unit"`
	Group          MetricGroup `json:"group"`
}

// ValueSource identifies where a resolved metric value came from.
type ValueSource string

const (
	SourceCurrent    ValueSource = "current"
	SourceHistorical ValueSource = "historical"
	SourceNone       ValueSource = "none"
)

// ResolvedMetricValue is the derived current-or-historical view of one metric.
type ResolvedMetricValue struct {
	Value                *float64     `json:"value"`
	Source               ValueSource  `json:"source"`
	LatestHistoricalYear *int         `json:"latest_historical_year,omitempty"`
	Trend                *MetricTrend `json:"trend,omitempty"`
}

// MetricTrend describes the change between the earliest and latest years a
// metric was reported. DirectionIsGood compares the delta sign against the
// metric's direction flag.
type MetricTrend struct {
	Delta           float64 `json:"delta"`
	DirectionIsGood bool    `json:"direction_is_good"`
	YearSpan        int     `json:"year_span"`
}
