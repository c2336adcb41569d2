package entities

// SortField is a resolved sort key for the ranking engine.
type SortField string

const (
	SortByDistance  SortField = "distance"
	SortByComposite SortField = "composite"
	SortByRating    SortField = "rating"
	SortByName      SortField = "name"
)

// SortOrder is the resolved sort direction.
type SortOrder string

const (
	OrderAscending  SortOrder = "asc"
	OrderDescending SortOrder = "desc"
)

// AnalysisOptions are the caller-supplied ranking parameters. Zero values
// fall back to configured defaults (radius 50 miles, limit 5).
type AnalysisOptions struct {
	Mode        string  `json:"mode,omitempty"`
	RadiusMiles float64 `json:"radiusMiles,omitempty"`
	Limit       int     `json:"limit,omitempty"`
	SortBy      string  `json:"sortBy,omitempty"`
	Order       string  `json:"order,omitempty"`
}

// ResolvedSort echoes the sort the engine actually applied.
type ResolvedSort struct {
	By    SortField `json:"by"`
	Order SortOrder `json:"order"`
}

// AnalysisResult is the full ranked-and-enriched response for one hospital.
type AnalysisResult struct {
	Hospital          HospitalSummary   `json:"hospital"`
	Facilities        []*RankedFacility `json:"facilities"`
	TotalWithinRadius int               `json:"totalWithinRadius"`
	Sort              ResolvedSort      `json:"sort"`
}
