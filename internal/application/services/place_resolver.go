package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/providers"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
)

// PlaceResolver resolves a facility's place id. Resolution order: the
// explicit id on the facility record, the curated seed table, a fresh cache
// entry, then a live directory lookup. When the live lookup is unavailable
// a stale cache entry is better than nothing.
type PlaceResolver struct {
	seeds    repositories.PlaceIDSeedRepository
	cache    repositories.PlaceIDStore
	provider providers.PlacesProvider
	maxAge   time.Duration
	group    singleflight.Group
	now      func() time.Time
}

// NewPlaceResolver creates a new place resolver
func NewPlaceResolver(seeds repositories.PlaceIDSeedRepository, cache repositories.PlaceIDStore, provider providers.PlacesProvider, maxAgeDays int) *PlaceResolver {
	if maxAgeDays <= 0 {
		maxAgeDays = 30
	}
	return &PlaceResolver{
		seeds:    seeds,
		cache:    cache,
		provider: provider,
		maxAge:   time.Duration(maxAgeDays) * 24 * time.Hour,
		now:      time.Now,
	}
}

// Resolve returns the place id for a facility, or "" when none can be found.
// Resolution failures are not fatal to callers; an empty id simply means no
// review enrichment.
func (r *PlaceResolver) Resolve(ctx context.Context, facility *entities.Facility) (string, error) {
	if facility.PlaceID != "" {
		return facility.PlaceID, nil
	}

	if r.seeds != nil {
		seeded, err := r.seeds.GetByCCN(ctx, facility.CCN)
		if err != nil {
			return "", err
		}
		if seeded != "" {
			return seeded, nil
		}
	}

	v, err, _ := r.group.Do(facility.CCN, func() (interface{}, error) {
		return r.resolveCached(ctx, facility)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *PlaceResolver) resolveCached(ctx context.Context, facility *entities.Facility) (string, error) {
	logger := observability.LoggerFromContext(ctx)

	entry, err := r.cache.Get(ctx, facility.CCN)
	if err != nil {
		logger.Warn().Err(err).Str("ccn", facility.CCN).Msg("place id cache read failed")
	}
	if entry != nil && r.now().Sub(entry.ResolvedAt) <= r.maxAge {
		return entry.PlaceID, nil
	}

	address := fmt.Sprintf("%s, %s, %s %s",
		facility.Address.Street, facility.Address.City, facility.Address.State, facility.Address.ZipCode)
	placeID, err := r.provider.FindPlaceID(ctx, facility.Name, address)
	if err != nil {
		// Stale beats nothing when the live lookup is unavailable.
		if entry != nil {
			if !errors.Is(err, providers.ErrNoAPIKey) {
				logger.Warn().Err(err).Str("ccn", facility.CCN).Msg("live place lookup failed, using stale entry")
			}
			return entry.PlaceID, nil
		}
		if errors.Is(err, providers.ErrNoAPIKey) {
			return "", nil
		}
		return "", err
	}

	if putErr := r.cache.Put(ctx, &entities.PlaceIDEntry{
		Key:        facility.CCN,
		PlaceID:    placeID,
		ResolvedAt: r.now(),
	}); putErr != nil {
		logger.Warn().Err(putErr).Str("ccn", facility.CCN).Msg("failed to persist place id")
	}
	return placeID, nil
}
