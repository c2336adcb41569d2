package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/carepath/snf-navigator/internal/application/services"
	"github.com/carepath/snf-navigator/internal/domain/entities"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
)

// AnalysisHandler handles facility ranking endpoints.
type AnalysisHandler struct {
	analysis *services.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(analysis *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

type analysisRequest struct {
	HospitalName string `json:"hospitalName"`
	entities.AnalysisOptions
}

// Analyze handles POST /api/analysis/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r)
}

// View handles POST /api/analysis/view. Same engine as Analyze; the request
// carries explicit sortBy/order and the response echoes what was applied.
func (h *AnalysisHandler) View(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r)
}

func (h *AnalysisHandler) serve(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.analysis.Analyze(r.Context(), req.HospitalName, req.AnalysisOptions)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).
			Str("hospital", req.HospitalName).Msg("analysis request failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
