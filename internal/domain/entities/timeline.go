package entities

// QualityTimeline holds the merged year-by-year quality metrics for one
// facility, joined across yearly extract tables by normalized CCN.
type QualityTimeline struct {
	CCN     string                     `json:"ccn"`
	Name    string                     `json:"name,omitempty"`
	Address Address                    `json:"address,omitempty"`
	Years   map[int]map[string]float64 `json:"years"`
}

// YearCount returns the number of years with at least one metric.
func (t *QualityTimeline) YearCount() int {
	return len(t.Years)
}

// CitationSeverity buckets a deficiency by its scope-severity code.
type CitationSeverity string

const (
	SeverityImmediateJeopardy CitationSeverity = "immediate_jeopardy"
	SeverityActualHarm        CitationSeverity = "actual_harm"
	SeverityPotentialHarm     CitationSeverity = "potential_harm"
	SeverityMinimalHarm       CitationSeverity = "minimal_harm"
	SeverityUnknown           CitationSeverity = "unknown"
)

// CitationSummary aggregates one facility-year of citations.
type CitationSummary struct {
	Total             int `json:"total"`
	ImmediateJeopardy int `json:"immediate_jeopardy"`
	ActualHarm        int `json:"actual_harm"`
	PotentialHarm     int `json:"potential_harm"`
	MinimalHarm       int `json:"minimal_harm"`
	Unknown           int `json:"unknown"`
	InfectionControl  int `json:"infection_control"`
}

// PenaltySummary aggregates one facility-year of penalties.
type PenaltySummary struct {
	FineCount      int     `json:"fine_count"`
	FineTotal      float64 `json:"fine_total"`
	PaymentDenials int     `json:"payment_denials"`
}

// RegulatoryYear is one year of a facility's regulatory timeline.
type RegulatoryYear struct {
	Citations CitationSummary `json:"citations"`
	Penalties PenaltySummary  `json:"penalties"`
}

// RegulatoryTimeline is the regulatory analogue of QualityTimeline.
type RegulatoryTimeline struct {
	CCN   string                  `json:"ccn"`
	Years map[int]*RegulatoryYear `json:"years"`
}
