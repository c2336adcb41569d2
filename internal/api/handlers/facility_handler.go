package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
	"github.com/carepath/snf-navigator/pkg/ccn"
)

// FacilityHandler handles facility lookup and search endpoints.
type FacilityHandler struct {
	facilities repositories.FacilityRepository
	search     repositories.FacilitySearchRepository
}

// NewFacilityHandler creates a new facility handler.
func NewFacilityHandler(facilities repositories.FacilityRepository, search repositories.FacilitySearchRepository) *FacilityHandler {
	return &FacilityHandler{facilities: facilities, search: search}
}

// GetFacility handles GET /api/facilities/{ccn}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	normalized := ccn.Normalize(r.PathValue("ccn"))
	if normalized == "" {
		respondWithError(w, http.StatusBadRequest, "facility CCN is required")
		return
	}

	facility, err := h.facilities.GetByCCN(r.Context(), normalized)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}

// SearchFacilities handles GET /api/facilities/search?q=...&limit=...
func (h *FacilityHandler) SearchFacilities(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		respondWithError(w, http.StatusServiceUnavailable, "facility search is not available")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	results, err := h.search.Search(r.Context(), query, limit)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("query", query).Msg("facility search failed")
		respondWithError(w, http.StatusInternalServerError, "failed to search facilities")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query":      query,
		"facilities": results,
		"count":      len(results),
	})
}
