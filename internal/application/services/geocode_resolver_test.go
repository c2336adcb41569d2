package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/providers"
	apperrors "github.com/carepath/snf-navigator/pkg/errors"
	"github.com/carepath/snf-navigator/pkg/geo"
)

type fakeGeocodeStore struct {
	entries map[string]*entities.GeocodeEntry
	puts    int
}

func (f *fakeGeocodeStore) Get(ctx context.Context, key string) (*entities.GeocodeEntry, error) {
	return f.entries[key], nil
}

func (f *fakeGeocodeStore) Put(ctx context.Context, entry *entities.GeocodeEntry) error {
	if f.entries == nil {
		f.entries = make(map[string]*entities.GeocodeEntry)
	}
	f.entries[entry.Key] = entry
	f.puts++
	return nil
}

type fakeChain struct {
	result *providers.GeocodeResult
	err    error
	calls  int
}

func (f *fakeChain) Resolve(ctx context.Context, req providers.GeocodeRequest) (*providers.GeocodeResult, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	return f.result, "nominatim", nil
}

func TestGeocodeResolver_StoreHitSkipsProviders(t *testing.T) {
	store := &fakeGeocodeStore{entries: map[string]*entities.GeocodeEntry{
		"mercy general|500 main st|dayton|oh|45402": {
			Key:         "mercy general|500 main st|dayton|oh|45402",
			Coordinates: geo.Coordinates{Latitude: 39.76, Longitude: -84.19},
		},
	}}
	chain := &fakeChain{}

	resolver := NewGeocodeResolver(store, chain)
	coords, err := resolver.Resolve(context.Background(), providers.GeocodeRequest{
		Name: "Mercy General", Street: "500 Main St", City: "Dayton", State: "OH", ZipCode: "45402",
	})

	require.NoError(t, err)
	assert.Equal(t, 39.76, coords.Latitude)
	assert.Equal(t, 0, chain.calls)
}

func TestGeocodeResolver_MissResolvesAndPersists(t *testing.T) {
	store := &fakeGeocodeStore{}
	chain := &fakeChain{result: &providers.GeocodeResult{
		Coordinates:      geo.Coordinates{Latitude: 41.88, Longitude: -87.63},
		FormattedAddress: "100 W Monroe St, Chicago, IL 60603",
	}}

	resolver := NewGeocodeResolver(store, chain)
	coords, err := resolver.Resolve(context.Background(), providers.GeocodeRequest{
		Name: "Lakeview Hospital", Street: "100 W Monroe St", City: "Chicago", State: "IL", ZipCode: "60603",
	})

	require.NoError(t, err)
	assert.Equal(t, 41.88, coords.Latitude)
	assert.Equal(t, 1, chain.calls)
	require.Equal(t, 1, store.puts)

	stored := store.entries["lakeview hospital|100 w monroe st|chicago|il|60603"]
	require.NotNil(t, stored)
	assert.Equal(t, "nominatim", stored.Provider)
}

func TestGeocodeResolver_ChainExhaustionSurfacesError(t *testing.T) {
	chain := &fakeChain{err: apperrors.NewGeocodingError("all geocoding providers failed", nil)}
	resolver := NewGeocodeResolver(&fakeGeocodeStore{}, chain)

	_, err := resolver.Resolve(context.Background(), providers.GeocodeRequest{Name: "Nowhere"})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGeocoding))
}

func TestEnsureLocation_SkipsWhenAlreadyLocated(t *testing.T) {
	chain := &fakeChain{}
	resolver := NewGeocodeResolver(&fakeGeocodeStore{}, chain)

	hospital := &entities.Hospital{
		ID:       "h1",
		Location: &geo.Coordinates{Latitude: 1, Longitude: 2},
	}

	require.NoError(t, resolver.EnsureLocation(context.Background(), nil, hospital))
	assert.Equal(t, 0, chain.calls)
}
