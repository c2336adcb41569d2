package repositories

import (
	"context"

	"github.com/carepath/snf-navigator/internal/domain/entities"
)

// The enrichment stores are persistent key-value caches with upsert
// semantics. A miss returns (nil, nil); the store itself never expires
// entries. Freshness is a policy applied by callers.

// GeocodeStore persists geocoding results keyed by the normalized
// name|address|city|state|zip string.
type GeocodeStore interface {
	Get(ctx context.Context, key string) (*entities.GeocodeEntry, error)
	Put(ctx context.Context, entry *entities.GeocodeEntry) error
}

// PlaceIDStore persists resolved place ids keyed by facility key.
type PlaceIDStore interface {
	Get(ctx context.Context, key string) (*entities.PlaceIDEntry, error)
	Put(ctx context.Context, entry *entities.PlaceIDEntry) error
}

// ReviewStore persists review snapshots keyed by place id.
type ReviewStore interface {
	Get(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error)
	Put(ctx context.Context, snapshot *entities.ReviewSnapshot) error
}
