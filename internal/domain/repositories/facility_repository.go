package repositories

import (
	"context"

	"github.com/carepath/snf-navigator/internal/domain/entities"
)

// FacilityRepository defines persistence operations for skilled nursing facilities
type FacilityRepository interface {
	// GetByCCN retrieves a facility by normalized CCN
	GetByCCN(ctx context.Context, ccn string) (*entities.Facility, error)

	// List retrieves all active facilities
	List(ctx context.Context) ([]*entities.Facility, error)

	// Upsert inserts or updates a facility by CCN
	Upsert(ctx context.Context, facility *entities.Facility) error
}

// FacilitySearchRepository defines the search-index surface for facilities
type FacilitySearchRepository interface {
	// Index indexes a facility document
	Index(ctx context.Context, facility *entities.Facility) error

	// Search performs a name search and returns matching facilities
	Search(ctx context.Context, query string, limit int) ([]*entities.Facility, error)
}
