package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
	apperrors "github.com/carepath/snf-navigator/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.GetLogger().Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// respondWithAppError maps the error taxonomy to HTTP statuses. Unknown
// errors never leak their message to the caller.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeGeocoding:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
