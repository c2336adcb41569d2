package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carepath/snf-navigator/internal/application/services"
	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/domain/providers"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	apperrors "github.com/carepath/snf-navigator/pkg/errors"
	"github.com/carepath/snf-navigator/pkg/geo"
)

type stubHospitalRepo struct {
	hospital *entities.Hospital
}

func (s *stubHospitalRepo) GetByMatchKey(ctx context.Context, matchKey string) (*entities.Hospital, error) {
	if s.hospital == nil || s.hospital.MatchKey != matchKey {
		return nil, apperrors.NewNotFoundError("hospital not found")
	}
	return s.hospital, nil
}

func (s *stubHospitalRepo) List(ctx context.Context) ([]*entities.Hospital, error) { return nil, nil }
func (s *stubHospitalRepo) Upsert(ctx context.Context, h *entities.Hospital) error { return nil }
func (s *stubHospitalRepo) UpdateLocation(ctx context.Context, id string, loc geo.Coordinates) error {
	return nil
}

type stubFacilityRepo struct {
	facilities []*entities.Facility
}

func (s *stubFacilityRepo) GetByCCN(ctx context.Context, ccn string) (*entities.Facility, error) {
	for _, f := range s.facilities {
		if f.CCN == ccn {
			return f, nil
		}
	}
	return nil, apperrors.NewNotFoundError("facility not found")
}

func (s *stubFacilityRepo) List(ctx context.Context) ([]*entities.Facility, error) {
	return s.facilities, nil
}

func (s *stubFacilityRepo) Upsert(ctx context.Context, f *entities.Facility) error { return nil }

type stubExtractRepo struct{}

func (stubExtractRepo) Years(ctx context.Context) ([]int, error) { return nil, nil }
func (stubExtractRepo) MDSRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return nil, nil
}
func (stubExtractRepo) ClaimsRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return nil, nil
}
func (stubExtractRepo) DirectoryRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return nil, nil
}
func (stubExtractRepo) CitationRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return nil, nil
}
func (stubExtractRepo) PenaltyRows(ctx context.Context, year int) ([]repositories.ExtractRow, error) {
	return nil, nil
}

type stubGeocodeStore struct{}

func (stubGeocodeStore) Get(ctx context.Context, key string) (*entities.GeocodeEntry, error) {
	return nil, nil
}
func (stubGeocodeStore) Put(ctx context.Context, entry *entities.GeocodeEntry) error { return nil }

type stubChain struct{}

func (stubChain) Resolve(ctx context.Context, req providers.GeocodeRequest) (*providers.GeocodeResult, string, error) {
	return nil, "", apperrors.NewGeocodingError("all geocoding providers failed", nil)
}

type stubSeedRepo struct{}

func (stubSeedRepo) GetByCCN(ctx context.Context, ccn string) (string, error) { return "", nil }

type stubPlaceIDStore struct{}

func (stubPlaceIDStore) Get(ctx context.Context, key string) (*entities.PlaceIDEntry, error) {
	return nil, nil
}
func (stubPlaceIDStore) Put(ctx context.Context, entry *entities.PlaceIDEntry) error { return nil }

type stubReviewStore struct{}

func (stubReviewStore) Get(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error) {
	return nil, nil
}
func (stubReviewStore) Put(ctx context.Context, snapshot *entities.ReviewSnapshot) error { return nil }

type stubPlacesProvider struct{}

func (stubPlacesProvider) FindPlaceID(ctx context.Context, name, address string) (string, error) {
	return "", providers.ErrNoAPIKey
}
func (stubPlacesProvider) FetchReviews(ctx context.Context, placeID string) (*entities.ReviewSnapshot, error) {
	return nil, providers.ErrNoAPIKey
}

type stubMetricsProvider struct{}

func (stubMetricsProvider) FetchMetrics(ctx context.Context, ccn string) (map[string]float64, error) {
	return map[string]float64{}, nil
}

func newTestAnalysisHandler(hospital *entities.Hospital, facilities []*entities.Facility) *AnalysisHandler {
	svc := services.NewAnalysisService(
		&stubHospitalRepo{hospital: hospital},
		&stubFacilityRepo{facilities: facilities},
		services.NewGeocodeResolver(stubGeocodeStore{}, stubChain{}),
		services.NewTimelineService(stubExtractRepo{}),
		stubMetricsProvider{},
		services.NewPlaceResolver(stubSeedRepo{}, stubPlaceIDStore{}, stubPlacesProvider{}, 30),
		services.NewReviewService(stubReviewStore{}, stubPlacesProvider{}, 7),
		nil,
		50,
		5,
	)
	return NewAnalysisHandler(svc)
}

func postAnalysis(t *testing.T, handler *AnalysisHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/analyze", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.Analyze(rec, req)
	return rec
}

func TestAnalyzeEndpoint_RanksFacilities(t *testing.T) {
	hospital := &entities.Hospital{
		ID:       "h1",
		Name:     "Mercy General",
		MatchKey: entities.HospitalMatchKey("Mercy General"),
		Address:  entities.Address{City: "Dayton", State: "OH"},
		Location: &geo.Coordinates{Latitude: 0, Longitude: 0},
	}
	facilities := []*entities.Facility{
		{CCN: "000001", Name: "Near SNF", Location: &geo.Coordinates{Latitude: 0.1, Longitude: 0}, IsActive: true},
		{CCN: "000002", Name: "Mid SNF", Location: &geo.Coordinates{Latitude: 0.2, Longitude: 0}, IsActive: true},
	}

	handler := newTestAnalysisHandler(hospital, facilities)
	rec := postAnalysis(t, handler, map[string]interface{}{"hospitalName": "mercy general"})

	require.Equal(t, http.StatusOK, rec.Code)

	var result entities.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Mercy General", result.Hospital.Name)
	assert.Equal(t, 2, result.TotalWithinRadius)
	require.Len(t, result.Facilities, 2)
	assert.Equal(t, "Near SNF", result.Facilities[0].Name)
	assert.Equal(t, 1, result.Facilities[0].LocalRank)
}

func TestAnalyzeEndpoint_UnknownHospitalIs404(t *testing.T) {
	handler := newTestAnalysisHandler(nil, nil)
	rec := postAnalysis(t, handler, map[string]interface{}{"hospitalName": "No Such Hospital"})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "hospital not found", body["error"])
}

func TestAnalyzeEndpoint_UnplaceableHospitalIs502(t *testing.T) {
	hospital := &entities.Hospital{
		ID:       "h2",
		Name:     "Unplaced Clinic",
		MatchKey: entities.HospitalMatchKey("Unplaced Clinic"),
	}

	handler := newTestAnalysisHandler(hospital, nil)
	rec := postAnalysis(t, handler, map[string]interface{}{"hospitalName": "Unplaced Clinic"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAnalyzeEndpoint_MissingNameIs400(t *testing.T) {
	handler := newTestAnalysisHandler(nil, nil)
	rec := postAnalysis(t, handler, map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpoint_BadBodyIs400(t *testing.T) {
	handler := newTestAnalysisHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/analyze", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
