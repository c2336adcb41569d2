package repositories

import (
	"context"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/pkg/geo"
)

// HospitalRepository defines persistence operations for hospitals
type HospitalRepository interface {
	// GetByMatchKey retrieves a hospital by its normalized name key.
	// Returns a NOT_FOUND AppError when no hospital matches.
	GetByMatchKey(ctx context.Context, matchKey string) (*entities.Hospital, error)

	// List retrieves all hospitals
	List(ctx context.Context) ([]*entities.Hospital, error)

	// Upsert inserts or updates a hospital by match key
	Upsert(ctx context.Context, hospital *entities.Hospital) error

	// UpdateLocation persists lazily-resolved coordinates
	UpdateLocation(ctx context.Context, id string, location geo.Coordinates) error
}
