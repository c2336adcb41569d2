package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/providers"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
)

const (
	facilityCacheTTLSeconds = 300
	facilityListCacheKey    = "facilities:active"
)

// CachedFacilityAdapter wraps a FacilityRepository with a shared cache. The
// full active-facility list is what every analysis request reads, so it is
// the hot key; single-facility reads ride along. Cache failures fall through
// to the database.
type CachedFacilityAdapter struct {
	inner repositories.FacilityRepository
	cache providers.CacheProvider
}

// NewCachedFacilityAdapter creates a caching facility repository
func NewCachedFacilityAdapter(inner repositories.FacilityRepository, cache providers.CacheProvider) repositories.FacilityRepository {
	return &CachedFacilityAdapter{inner: inner, cache: cache}
}

// GetByCCN retrieves a facility, preferring the cache
func (a *CachedFacilityAdapter) GetByCCN(ctx context.Context, ccn string) (*entities.Facility, error) {
	key := facilityCacheKey(ccn)

	if data, err := a.cache.Get(ctx, key); err == nil && data != nil {
		var facility entities.Facility
		if err := json.Unmarshal(data, &facility); err == nil {
			return &facility, nil
		}
	}

	facility, err := a.inner.GetByCCN(ctx, ccn)
	if err != nil {
		return nil, err
	}

	a.store(ctx, key, facility)
	return facility, nil
}

// List retrieves all active facilities, preferring the cache
func (a *CachedFacilityAdapter) List(ctx context.Context) ([]*entities.Facility, error) {
	if data, err := a.cache.Get(ctx, facilityListCacheKey); err == nil && data != nil {
		var facilities []*entities.Facility
		if err := json.Unmarshal(data, &facilities); err == nil {
			return facilities, nil
		}
	}

	facilities, err := a.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	a.store(ctx, facilityListCacheKey, facilities)
	return facilities, nil
}

// Upsert writes through and invalidates affected cache entries
func (a *CachedFacilityAdapter) Upsert(ctx context.Context, facility *entities.Facility) error {
	if err := a.inner.Upsert(ctx, facility); err != nil {
		return err
	}

	if err := a.cache.Delete(ctx, facilityCacheKey(facility.CCN)); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("ccn", facility.CCN).
			Msg("failed to invalidate facility cache entry")
	}
	if err := a.cache.Delete(ctx, facilityListCacheKey); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Msg("failed to invalidate facility list cache")
	}
	return nil
}

func (a *CachedFacilityAdapter) store(ctx context.Context, key string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, facilityCacheTTLSeconds); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).
			Msg("failed to write facility cache entry")
	}
}

func facilityCacheKey(ccn string) string {
	return fmt.Sprintf("facility:%s", ccn)
}
