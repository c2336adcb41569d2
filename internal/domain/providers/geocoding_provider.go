package providers

import (
	"context"

	"github.com/carepath/snf-navigator/pkg/geo"
)

// GeocodeRequest carries the structured address to resolve. Providers build
// their own query strings from it; the open geocoder tries several variants.
type GeocodeRequest struct {
	Name    string
	Street  string
	City    string
	State   string
	ZipCode string
}

// GeocodeResult is a successful geocoder response.
type GeocodeResult struct {
	Coordinates      geo.Coordinates
	FormattedAddress string
}

// Geocoder resolves an address to coordinates. Implementations return an
// error both for transport failures and for zero-result responses; the chain
// moves on to the next provider either way.
type Geocoder interface {
	// Name identifies the provider in logs and persisted entries.
	Name() string

	// Geocode resolves the request to coordinates.
	Geocode(ctx context.Context, req GeocodeRequest) (*GeocodeResult, error)
}
