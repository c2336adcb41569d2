package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carepath/snf-navigator/internal/domain/entities"
)

type stubSearchRepo struct {
	results []*entities.Facility
	err     error
	query   string
	limit   int
}

func (s *stubSearchRepo) Index(ctx context.Context, facility *entities.Facility) error { return nil }

func (s *stubSearchRepo) Search(ctx context.Context, query string, limit int) ([]*entities.Facility, error) {
	s.query = query
	s.limit = limit
	return s.results, s.err
}

func TestGetFacility_NormalizesCCN(t *testing.T) {
	repo := &stubFacilityRepo{facilities: []*entities.Facility{
		{CCN: "015009", Name: "Oak Ridge Care Center"},
	}}
	handler := NewFacilityHandler(repo, &stubSearchRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/15009", nil)
	req.SetPathValue("ccn", "15009")
	rec := httptest.NewRecorder()
	handler.GetFacility(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var facility entities.Facility
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &facility))
	assert.Equal(t, "015009", facility.CCN)
}

func TestGetFacility_UnknownIs404(t *testing.T) {
	handler := NewFacilityHandler(&stubFacilityRepo{}, &stubSearchRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/999999", nil)
	req.SetPathValue("ccn", "999999")
	rec := httptest.NewRecorder()
	handler.GetFacility(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchFacilities(t *testing.T) {
	search := &stubSearchRepo{results: []*entities.Facility{
		{CCN: "015009", Name: "Oak Ridge Care Center"},
	}}
	handler := NewFacilityHandler(&stubFacilityRepo{}, search)

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/search?q=oak+ridge&limit=3", nil)
	rec := httptest.NewRecorder()
	handler.SearchFacilities(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "oak ridge", search.query)
	assert.Equal(t, 3, search.limit)

	var body struct {
		Query      string               `json:"query"`
		Facilities []*entities.Facility `json:"facilities"`
		Count      int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestSearchFacilities_MissingQueryIs400(t *testing.T) {
	handler := NewFacilityHandler(&stubFacilityRepo{}, &stubSearchRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/search", nil)
	rec := httptest.NewRecorder()
	handler.SearchFacilities(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
