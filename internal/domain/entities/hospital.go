package entities

import (
	"strings"

	"github.com/carepath/snf-navigator/pkg/geo"
)

// Hospital represents a hospital loaded from the canonical catalog.
// Location stays nil until the hospital is geocoded on first use.
type Hospital struct {
	ID        string           `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	MatchKey  string           `json:"-" db:"match_key"`
	Address   Address          `json:"address" db:"-"`
	Location  *geo.Coordinates `json:"location,omitempty" db:"-"`
	CreatedAt int64            `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt int64            `json:"updated_at,omitempty" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
}

// HospitalMatchKey normalizes a hospital name for case-insensitive exact matching.
func HospitalMatchKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HospitalSummary is the hospital portion of an analysis response.
type HospitalSummary struct {
	Name      string  `json:"name"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
