package entities

import (
	"github.com/carepath/snf-navigator/pkg/geo"
)

// Facility represents a skilled nursing facility. CCN is the canonical
// 6-character zero-padded certification number; facilities without one carry
// a key synthesized from their name instead.
type Facility struct {
	CCN                string           `json:"ccn" db:"ccn"`
	Name               string           `json:"name" db:"name"`
	Address            Address          `json:"address" db:"-"`
	Location           *geo.Coordinates `json:"location,omitempty" db:"-"`
	PlaceID            string           `json:"place_id,omitempty" db:"place_id"`
	OverallRating      *float64         `json:"overall_rating,omitempty" db:"overall_rating"`
	HealthInspection   *float64         `json:"health_inspection_rating,omitempty" db:"health_inspection_rating"`
	StaffingRating     *float64         `json:"staffing_rating,omitempty" db:"staffing_rating"`
	QualityMeasure     *float64         `json:"quality_measure_rating,omitempty" db:"quality_measure_rating"`
	OwnershipType      string           `json:"ownership_type,omitempty" db:"ownership_type"`
	CertifiedBeds      *int             `json:"certified_beds,omitempty" db:"certified_beds"`
	IsActive           bool             `json:"is_active" db:"is_active"`
}

// CompositeScore averages the present star ratings and scales them to 0-100.
// Returns nil when no rating is present.
func (f *Facility) CompositeScore() *float64 {
	ratings := []*float64{f.OverallRating, f.HealthInspection, f.StaffingRating, f.QualityMeasure}
	sum := 0.0
	n := 0
	for _, r := range ratings {
		if r != nil {
			sum += *r
			n++
		}
	}
	if n == 0 {
		return nil
	}
	score := sum / float64(n) * 20
	return &score
}

// RankedFacility is a facility enriched by the analysis engine. Enrichment
// fields degrade to nil/empty when their collaborator fails.
type RankedFacility struct {
	Facility
	Distance                 float64                    `json:"distance"`
	LocalRank                int                        `json:"Local_Rank"`
	LiveMetrics              map[string]float64         `json:"live_metrics"`
	HistoricalMetrics        map[int]map[string]float64 `json:"historical_metrics"`
	HistoricalYearsAvailable int                        `json:"historical_years_available"`
	RegulatoryHistory        map[int]*RegulatoryYear    `json:"regulatory_history"`
	ReviewEnrichment         *ReviewSnapshot            `json:"review_enrichment"`
}
