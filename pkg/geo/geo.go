// Package geo provides great-circle distance math.
package geo

import "math"

const earthRadiusMiles = 3958.8

// Coordinates represents a lat/lon pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceMiles returns the haversine distance between two points in miles.
// Callers must pass valid coordinates; there is no error path.
func DistanceMiles(from, to Coordinates) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	deltaLat := toRadians(to.Latitude - from.Latitude)
	deltaLon := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
