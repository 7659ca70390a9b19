package routes

import (
	"net/http"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/api/handlers"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/api/middleware"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	extractionHandler *handlers.ExtractionHandler
	summaryHandler    *handlers.SummaryHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	extractionHandler *handlers.ExtractionHandler,
	summaryHandler *handlers.SummaryHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		extractionHandler: extractionHandler,
		summaryHandler:    summaryHandler,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Extraction endpoint
	r.mux.HandleFunc("POST /api/extractions", r.extractionHandler.SubmitExtraction)

	// Summary read endpoints
	r.mux.HandleFunc("GET /api/summaries/clinical/{hospitalizationId}", r.summaryHandler.GetClinicalSummary)
	r.mux.HandleFunc("GET /api/summaries/hospital/{hospitalizationId}", r.summaryHandler.GetHospitalSummary)
	r.mux.HandleFunc("GET /api/summaries/hospital", r.summaryHandler.ListHospitalSummaries)
	r.mux.HandleFunc("GET /api/summaries/search", r.summaryHandler.SearchSummaries)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Compression and ETag headers for the summary read endpoints
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so error responses also get CORS headers
	handler = middleware.CORSMiddleware(handler)

	return handler
}
