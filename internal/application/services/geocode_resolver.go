package services

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/providers"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
	"github.com/carepath/snf-navigator/pkg/ccn"
	"github.com/carepath/snf-navigator/pkg/geo"
)

// GeocoderChain resolves an address through an ordered provider list and
// reports which provider produced the result.
type GeocoderChain interface {
	Resolve(ctx context.Context, req providers.GeocodeRequest) (*providers.GeocodeResult, string, error)
}

// GeocodeResolver resolves coordinates through the persistent geocode store
// first and falls back to the live provider chain. Store entries never
// expire; a resolved address is considered immutable. Concurrent requests
// for the same key collapse into a single provider call.
type GeocodeResolver struct {
	store repositories.GeocodeStore
	chain GeocoderChain
	group singleflight.Group
	now   func() time.Time
}

// NewGeocodeResolver creates a new geocode resolver
func NewGeocodeResolver(store repositories.GeocodeStore, chain GeocoderChain) *GeocodeResolver {
	return &GeocodeResolver{
		store: store,
		chain: chain,
		now:   time.Now,
	}
}

// Resolve returns coordinates for the address, from the store when present.
func (r *GeocodeResolver) Resolve(ctx context.Context, req providers.GeocodeRequest) (*geo.Coordinates, error) {
	key := ccn.GeocodeKey(req.Name, req.Street, req.City, req.State, req.ZipCode)

	entry, err := r.store.Get(ctx, key)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).
			Msg("geocode store read failed, resolving live")
	}
	if entry != nil {
		return &entry.Coordinates, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.resolveLive(ctx, key, req)
	})
	if err != nil {
		return nil, err
	}
	coords := v.(geo.Coordinates)
	return &coords, nil
}

func (r *GeocodeResolver) resolveLive(ctx context.Context, key string, req providers.GeocodeRequest) (geo.Coordinates, error) {
	result, providerName, err := r.chain.Resolve(ctx, req)
	if err != nil {
		return geo.Coordinates{}, err
	}

	entry := &entities.GeocodeEntry{
		Key:              key,
		Coordinates:      result.Coordinates,
		FormattedAddress: result.FormattedAddress,
		Provider:         providerName,
		ResolvedAt:       r.now(),
	}
	if err := r.store.Put(ctx, entry); err != nil {
		// A failed write costs a repeat lookup next time, nothing more.
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).
			Msg("failed to persist geocode entry")
	}
	return result.Coordinates, nil
}

// EnsureLocation fills in a hospital's coordinates if absent, persisting the
// result. Returns a GEOCODING_FAILED error when the hospital cannot be
// placed on the map at all.
func (r *GeocodeResolver) EnsureLocation(ctx context.Context, hospitals repositories.HospitalRepository, hospital *entities.Hospital) error {
	if hospital.Location != nil {
		return nil
	}

	coords, err := r.Resolve(ctx, providers.GeocodeRequest{
		Name:    hospital.Name,
		Street:  hospital.Address.Street,
		City:    hospital.Address.City,
		State:   hospital.Address.State,
		ZipCode: hospital.Address.ZipCode,
	})
	if err != nil {
		return err
	}

	hospital.Location = coords
	if err := hospitals.UpdateLocation(ctx, hospital.ID, *coords); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("hospital_id", hospital.ID).
			Msg("failed to persist hospital location")
	}
	return nil
}
