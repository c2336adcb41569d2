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

type fakeHospitalRepo struct {
	hospitals map[string]*entities.Hospital
	located   map[string]geo.Coordinates
}

func (f *fakeHospitalRepo) GetByMatchKey(ctx context.Context, matchKey string) (*entities.Hospital, error) {
	h, ok := f.hospitals[matchKey]
	if !ok {
		return nil, apperrors.NewNotFoundError("hospital not found")
	}
	return h, nil
}

func (f *fakeHospitalRepo) List(ctx context.Context) ([]*entities.Hospital, error) { return nil, nil }

func (f *fakeHospitalRepo) Upsert(ctx context.Context, hospital *entities.Hospital) error {
	return nil
}

func (f *fakeHospitalRepo) UpdateLocation(ctx context.Context, id string, location geo.Coordinates) error {
	if f.located == nil {
		f.located = make(map[string]geo.Coordinates)
	}
	f.located[id] = location
	return nil
}

type fakeFacilityRepo struct {
	facilities []*entities.Facility
}

func (f *fakeFacilityRepo) GetByCCN(ctx context.Context, ccn string) (*entities.Facility, error) {
	return nil, nil
}

func (f *fakeFacilityRepo) List(ctx context.Context) ([]*entities.Facility, error) {
	return f.facilities, nil
}

func (f *fakeFacilityRepo) Upsert(ctx context.Context, facility *entities.Facility) error {
	return nil
}

type fakeMetricsProvider struct {
	metrics map[string]map[string]float64
	err     error
}

func (f *fakeMetricsProvider) FetchMetrics(ctx context.Context, ccn string) (map[string]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics[ccn], nil
}

func floatPtr(v float64) *float64 { return &v }

func locatedFacility(ccn, name string, lat float64, overall *float64) *entities.Facility {
	return &entities.Facility{
		CCN:           ccn,
		Name:          name,
		Location:      &geo.Coordinates{Latitude: lat, Longitude: 0},
		OverallRating: overall,
		IsActive:      true,
	}
}

type analysisFixture struct {
	svc        *AnalysisService
	hospitals  *fakeHospitalRepo
	facilities *fakeFacilityRepo
	chain      *fakeChain
	metrics    *fakeMetricsProvider
}

func newAnalysisFixture(facilities []*entities.Facility) *analysisFixture {
	hospitals := &fakeHospitalRepo{hospitals: map[string]*entities.Hospital{
		"mercy general": {
			ID:       "h1",
			Name:     "Mercy General",
			Address:  entities.Address{City: "Dayton", State: "OH"},
			Location: &geo.Coordinates{Latitude: 0, Longitude: 0},
		},
		"unplaced clinic": {
			ID:      "h2",
			Name:    "Unplaced Clinic",
			Address: entities.Address{City: "Nowhere", State: "KS"},
		},
	}}
	facilityRepo := &fakeFacilityRepo{facilities: facilities}
	chain := &fakeChain{err: apperrors.NewGeocodingError("all geocoding providers failed", nil)}
	metricsProvider := &fakeMetricsProvider{metrics: map[string]map[string]float64{}}

	timelines := NewTimelineService(&fakeExtractRepo{})
	svc := NewAnalysisService(
		hospitals,
		facilityRepo,
		NewGeocodeResolver(&fakeGeocodeStore{}, chain),
		timelines,
		metricsProvider,
		NewPlaceResolver(&fakeSeedRepo{}, &fakePlaceIDStore{}, &fakePlacesProvider{findErr: providers.ErrNoAPIKey}, 30),
		NewReviewService(&fakeReviewStore{}, &fakePlacesProvider{}, 7),
		nil,
		50,
		5,
	)

	return &analysisFixture{
		svc:        svc,
		hospitals:  hospitals,
		facilities: facilityRepo,
		chain:      chain,
		metrics:    metricsProvider,
	}
}

func TestAnalyze_UnknownHospitalIsNotFound(t *testing.T) {
	fx := newAnalysisFixture(nil)

	_, err := fx.svc.Analyze(context.Background(), "No Such Hospital", entities.AnalysisOptions{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestAnalyze_EmptyNameIsValidationError(t *testing.T) {
	fx := newAnalysisFixture(nil)

	_, err := fx.svc.Analyze(context.Background(), "   ", entities.AnalysisOptions{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestAnalyze_GeocodingFailureIsFatal(t *testing.T) {
	fx := newAnalysisFixture(nil)

	_, err := fx.svc.Analyze(context.Background(), "Unplaced Clinic", entities.AnalysisOptions{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGeocoding))
}

func TestAnalyze_NoFacilitiesInRadiusIsEmptyNotError(t *testing.T) {
	fx := newAnalysisFixture([]*entities.Facility{
		locatedFacility("000001", "Far Away SNF", 10, nil), // well outside 50 miles
	})

	result, err := fx.svc.Analyze(context.Background(), "Mercy General", entities.AnalysisOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.Facilities)
	assert.Equal(t, 0, result.TotalWithinRadius)
}

func TestAnalyze_DistanceAscendingWithLocalRanks(t *testing.T) {
	fx := newAnalysisFixture([]*entities.Facility{
		locatedFacility("000002", "Mid SNF", 0.2, nil),
		locatedFacility("000001", "Near SNF", 0.1, nil),
		locatedFacility("000003", "Edge SNF", 0.5, nil),
		{CCN: "000004", Name: "Unlocated SNF", IsActive: true},
	})

	result, err := fx.svc.Analyze(context.Background(), "Mercy General", entities.AnalysisOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalWithinRadius)
	require.Len(t, result.Facilities, 3)

	assert.Equal(t, entities.SortByDistance, result.Sort.By)
	assert.Equal(t, entities.OrderAscending, result.Sort.Order)

	assert.Equal(t, "Near SNF", result.Facilities[0].Name)
	assert.Equal(t, "Mid SNF", result.Facilities[1].Name)
	assert.Equal(t, "Edge SNF", result.Facilities[2].Name)

	for i, facility := range result.Facilities {
		assert.Equal(t, i+1, facility.LocalRank)
		assert.LessOrEqual(t, facility.Distance, 50.0)
	}
}

func TestAnalyze_BestModeSortsCompositeDescendingNilsSink(t *testing.T) {
	fx := newAnalysisFixture([]*entities.Facility{
		locatedFacility("000001", "Three Star", 0.1, floatPtr(3)),
		locatedFacility("000002", "Unrated", 0.2, nil),
		locatedFacility("000003", "Five Star", 0.3, floatPtr(5)),
	})

	result, err := fx.svc.Analyze(context.Background(), "Mercy General", entities.AnalysisOptions{Mode: "best"})

	require.NoError(t, err)
	assert.Equal(t, entities.SortByComposite, result.Sort.By)
	assert.Equal(t, entities.OrderDescending, result.Sort.Order)

	require.Len(t, result.Facilities, 3)
	assert.Equal(t, "Five Star", result.Facilities[0].Name)
	assert.Equal(t, "Three Star", result.Facilities[1].Name)
	assert.Equal(t, "Unrated", result.Facilities[2].Name, "missing sort key must sink")
}

func TestAnalyze_NilSortKeySinksEvenAscending(t *testing.T) {
	fx := newAnalysisFixture([]*entities.Facility{
		locatedFacility("000001", "Unrated", 0.1, nil),
		locatedFacility("000002", "Rated", 0.2, floatPtr(4)),
	})

	result, err := fx.svc.Analyze(context.Background(), "Mercy General",
		entities.AnalysisOptions{SortBy: "rating", Order: "asc"})

	require.NoError(t, err)
	require.Len(t, result.Facilities, 2)
	assert.Equal(t, "Rated", result.Facilities[0].Name)
	assert.Equal(t, "Unrated", result.Facilities[1].Name)
}

func TestAnalyze_NameSortIsCaseInsensitive(t *testing.T) {
	fx := newAnalysisFixture([]*entities.Facility{
		locatedFacility("000001", "zeta care", 0.1, nil),
		locatedFacility("000002", "Alpha Care", 0.2, nil),
	})

	result, err := fx.svc.Analyze(context.Background(), "Mercy General",
		entities.AnalysisOptions{SortBy: "name"})

	require.NoError(t, err)
	require.Len(t, result.Facilities, 2)
	assert.Equal(t, "Alpha Care", result.Facilities[0].Name)
}

func TestAnalyze_LimitTruncatesButTotalCounts(t *testing.T) {
	fx := newAnalysisFixture([]*entities.Facility{
		locatedFacility("000001", "A", 0.1, nil),
		locatedFacility("000002", "B", 0.2, nil),
		locatedFacility("000003", "C", 0.3, nil),
	})

	result, err := fx.svc.Analyze(context.Background(), "Mercy General",
		entities.AnalysisOptions{Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalWithinRadius)
	assert.Len(t, result.Facilities, 2)
}

func TestAnalyze_LiveMetricFailureDegrades(t *testing.T) {
	fx := newAnalysisFixture([]*entities.Facility{
		locatedFacility("000001", "Near SNF", 0.1, nil),
	})
	fx.metrics.err = assert.AnError

	result, err := fx.svc.Analyze(context.Background(), "Mercy General", entities.AnalysisOptions{})

	require.NoError(t, err)
	require.Len(t, result.Facilities, 1)
	facility := result.Facilities[0]
	assert.NotNil(t, facility.LiveMetrics)
	assert.Empty(t, facility.LiveMetrics)
	assert.NotNil(t, facility.HistoricalMetrics)
	assert.NotNil(t, facility.RegulatoryHistory)
	assert.Nil(t, facility.ReviewEnrichment)
}

func TestInferSortIntent(t *testing.T) {
	cases := []struct {
		text     string
		by       entities.SortField
		order    entities.SortOrder
		explicit bool
	}{
		{"show me the closest facilities", entities.SortByDistance, entities.OrderAscending, true},
		{"which are nearest?", entities.SortByDistance, entities.OrderAscending, true},
		{"find the best options", entities.SortByComposite, entities.OrderDescending, true},
		{"highest rated places", entities.SortByRating, entities.OrderDescending, true},
		{"what are the worst ones", entities.SortByComposite, entities.OrderAscending, true},
		{"list them by name", entities.SortByName, entities.OrderAscending, true},
		{"tell me about nursing homes", entities.SortByDistance, entities.OrderAscending, false},
	}

	for _, tc := range cases {
		intent := InferSortIntent(tc.text)
		assert.Equal(t, tc.by, intent.By, tc.text)
		assert.Equal(t, tc.order, intent.Order, tc.text)
		assert.Equal(t, tc.explicit, intent.Explicit, tc.text)
	}
}
