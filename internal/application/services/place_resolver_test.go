package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/providers"
)

type fakeSeedRepo struct {
	seeds map[string]string
}

func (f *fakeSeedRepo) GetByCCN(ctx context.Context, ccn string) (string, error) {
	return f.seeds[ccn], nil
}

type fakePlaceIDStore struct {
	entries map[string]*entities.PlaceIDEntry
	puts    int
}

func (f *fakePlaceIDStore) Get(ctx context.Context, key string) (*entities.PlaceIDEntry, error) {
	return f.entries[key], nil
}

func (f *fakePlaceIDStore) Put(ctx context.Context, entry *entities.PlaceIDEntry) error {
	if f.entries == nil {
		f.entries = make(map[string]*entities.PlaceIDEntry)
	}
	f.entries[entry.Key] = entry
	f.puts++
	return nil
}

type fakePlacesProvider struct {
	placeID     string
	findErr     error
	findCalls   int
	snapshot    *entities.ReviewSnapshot
	reviewsErr  error
	fetchCalls  int
}

func (f *fakePlacesProvider) FindPlaceID(ctx context.Context, name, address string) (string, error) {
	f.findCalls++
	return f.placeID, f.findErr
}

func (f *fakePlacesProvider) FetchReviews(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error) {
	f.fetchCalls++
	return f.snapshot, f.reviewsErr
}

func testFacility() *entities.Facility {
	return &entities.Facility{
		CCN:  "015009",
		Name: "Oak Ridge Care Center",
		Address: entities.Address{
			Street: "200 Elm St", City: "Oak Ridge", State: "TN", ZipCode: "37830",
		},
	}
}

func TestPlaceResolver_ExplicitIDWins(t *testing.T) {
	provider := &fakePlacesProvider{}
	resolver := NewPlaceResolver(&fakeSeedRepo{}, &fakePlaceIDStore{}, provider, 30)

	facility := testFacility()
	facility.PlaceID = "ChIJexplicit"

	placeID, err := resolver.Resolve(context.Background(), facility)
	require.NoError(t, err)
	assert.Equal(t, "ChIJexplicit", placeID)
	assert.Equal(t, 0, provider.findCalls)
}

func TestPlaceResolver_SeedBeatsCacheAndLive(t *testing.T) {
	provider := &fakePlacesProvider{placeID: "ChIJlive"}
	seeds := &fakeSeedRepo{seeds: map[string]string{"015009": "ChIJseeded"}}
	cache := &fakePlaceIDStore{entries: map[string]*entities.PlaceIDEntry{
		"015009": {Key: "015009", PlaceID: "ChIJcached", ResolvedAt: time.Now()},
	}}
	resolver := NewPlaceResolver(seeds, cache, provider, 30)

	placeID, err := resolver.Resolve(context.Background(), testFacility())
	require.NoError(t, err)
	assert.Equal(t, "ChIJseeded", placeID)
	assert.Equal(t, 0, provider.findCalls)
}

func TestPlaceResolver_FreshCacheHit(t *testing.T) {
	provider := &fakePlacesProvider{placeID: "ChIJlive"}
	cache := &fakePlaceIDStore{entries: map[string]*entities.PlaceIDEntry{
		"015009": {Key: "015009", PlaceID: "ChIJcached", ResolvedAt: time.Now().Add(-24 * time.Hour)},
	}}
	resolver := NewPlaceResolver(&fakeSeedRepo{}, cache, provider, 30)

	placeID, err := resolver.Resolve(context.Background(), testFacility())
	require.NoError(t, err)
	assert.Equal(t, "ChIJcached", placeID)
	assert.Equal(t, 0, provider.findCalls)
}

func TestPlaceResolver_ExpiredCacheTriggersLiveLookup(t *testing.T) {
	provider := &fakePlacesProvider{placeID: "ChIJlive"}
	cache := &fakePlaceIDStore{entries: map[string]*entities.PlaceIDEntry{
		"015009": {Key: "015009", PlaceID: "ChIJcached", ResolvedAt: time.Now().Add(-45 * 24 * time.Hour)},
	}}
	resolver := NewPlaceResolver(&fakeSeedRepo{}, cache, provider, 30)

	placeID, err := resolver.Resolve(context.Background(), testFacility())
	require.NoError(t, err)
	assert.Equal(t, "ChIJlive", placeID)
	assert.Equal(t, 1, provider.findCalls)
	assert.Equal(t, 1, cache.puts)
}

func TestPlaceResolver_NoAPIKeyFallsBackToStale(t *testing.T) {
	provider := &fakePlacesProvider{findErr: providers.ErrNoAPIKey}
	cache := &fakePlaceIDStore{entries: map[string]*entities.PlaceIDEntry{
		"015009": {Key: "015009", PlaceID: "ChIJstale", ResolvedAt: time.Now().Add(-90 * 24 * time.Hour)},
	}}
	resolver := NewPlaceResolver(&fakeSeedRepo{}, cache, provider, 30)

	placeID, err := resolver.Resolve(context.Background(), testFacility())
	require.NoError(t, err)
	assert.Equal(t, "ChIJstale", placeID)
}

func TestPlaceResolver_NoAPIKeyNoCacheResolvesEmpty(t *testing.T) {
	provider := &fakePlacesProvider{findErr: providers.ErrNoAPIKey}
	resolver := NewPlaceResolver(&fakeSeedRepo{}, &fakePlaceIDStore{}, provider, 30)

	placeID, err := resolver.Resolve(context.Background(), testFacility())
	require.NoError(t, err)
	assert.Empty(t, placeID)
}

func TestPlaceResolver_LiveFailureNoCacheSurfacesError(t *testing.T) {
	provider := &fakePlacesProvider{findErr: errors.New("quota exceeded")}
	resolver := NewPlaceResolver(&fakeSeedRepo{}, &fakePlaceIDStore{}, provider, 30)

	_, err := resolver.Resolve(context.Background(), testFacility())
	assert.Error(t, err)
}
