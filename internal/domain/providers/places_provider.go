package providers

import (
	"context"
	"errors"

	"github.com/carepath/snf-navigator/internal/domain/entities"
)

// ErrNoAPIKey signals that a live place lookup was skipped because no API
// key is configured. Callers fall back to stale cache entries on this error.
var ErrNoAPIKey = errors.New("places api key not configured")

// PlacesProvider resolves facilities against a third-party place directory.
type PlacesProvider interface {
	// FindPlaceID looks up the place id for a facility by name and address.
	FindPlaceID(ctx context.Context, name, address string) (string, error)

	// FetchReviews fetches place details with up to five recent review
	// excerpts for the given place id.
	FetchReviews(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error)
}
