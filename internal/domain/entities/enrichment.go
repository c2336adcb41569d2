package entities

import (
	"time"

	"github.com/carepath/snf-navigator/pkg/geo"
)

// GeocodeEntry is a persisted geocoding result. Geocoding is treated as
// immutable once resolved, so entries carry no expiry.
type GeocodeEntry struct {
	Key              string          `json:"key" db:"key"`
	Coordinates      geo.Coordinates `json:"coordinates" db:"-"`
	FormattedAddress string          `json:"formatted_address,omitempty" db:"formatted_address"`
	Provider         string          `json:"provider" db:"provider"`
	ResolvedAt       time.Time       `json:"resolved_at" db:"resolved_at"`
}

// PlaceIDEntry is a persisted place-id resolution for a facility.
type PlaceIDEntry struct {
	Key        string    `json:"key" db:"key"`
	PlaceID    string    `json:"place_id" db:"place_id"`
	ResolvedAt time.Time `json:"resolved_at" db:"resolved_at"`
}

// Review is one third-party review excerpt.
type Review struct {
	Author string    `json:"author"`
	Rating float64   `json:"rating"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
}

// ReviewSnapshot captures a facility's third-party review state at fetch time.
// Rating is averaged over the returned reviews, capped at five excerpts.
type ReviewSnapshot struct {
	PlaceID     string    `json:"place_id"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Reviews     []Review  `json:"reviews"`
	FetchedAt   time.Time `json:"fetched_at"`
}
