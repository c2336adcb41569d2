package routes

import (
	"net/http"

	"github.com/carepath/snf-navigator/internal/api/handlers"
	"github.com/carepath/snf-navigator/internal/api/middleware"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	analysisHandler *handlers.AnalysisHandler
	facilityHandler *handlers.FacilityHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	analysisHandler *handlers.AnalysisHandler,
	facilityHandler *handlers.FacilityHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		analysisHandler: analysisHandler,
		facilityHandler: facilityHandler,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Analysis endpoints
	r.mux.HandleFunc("POST /api/analysis/analyze", r.analysisHandler.Analyze)
	r.mux.HandleFunc("POST /api/analysis/view", r.analysisHandler.View)

	// Facility endpoints
	r.mux.HandleFunc("GET /api/facilities/search", r.facilityHandler.SearchFacilities)
	r.mux.HandleFunc("GET /api/facilities/{ccn}", r.facilityHandler.GetFacility)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so every response carries its headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
