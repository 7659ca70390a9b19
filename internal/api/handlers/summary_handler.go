package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/errors"
)

const summaryCacheTTLSeconds = 300

// SummaryHandler handles summary read requests
type SummaryHandler struct {
	clinicalRepo repositories.ClinicalSummaryRepository
	hospitalRepo repositories.HospitalSummaryRepository
	searchRepo   repositories.SummarySearchRepository
	cache        providers.CacheProvider
	metrics      *observability.Metrics
}

// NewSummaryHandler creates a new summary handler. cache and searchRepo
// may be nil; the handler degrades to direct repository reads.
func NewSummaryHandler(
	clinicalRepo repositories.ClinicalSummaryRepository,
	hospitalRepo repositories.HospitalSummaryRepository,
	searchRepo repositories.SummarySearchRepository,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
) *SummaryHandler {
	return &SummaryHandler{
		clinicalRepo: clinicalRepo,
		hospitalRepo: hospitalRepo,
		searchRepo:   searchRepo,
		cache:        cache,
		metrics:      metrics,
	}
}

// GetClinicalSummary handles GET /api/summaries/clinical/{hospitalizationId}
func (h *SummaryHandler) GetClinicalSummary(w http.ResponseWriter, r *http.Request) {
	hospitalizationID := r.PathValue("hospitalizationId")
	if hospitalizationID == "" {
		respondWithError(w, http.StatusBadRequest, "hospitalization ID is required")
		return
	}

	cacheKey := providers.ClinicalSummaryCacheKey(hospitalizationID)
	if h.serveFromCache(w, r, cacheKey) {
		return
	}

	summary, err := h.clinicalRepo.GetByHospitalizationID(r.Context(), hospitalizationID)
	if err != nil {
		h.respondRepoError(w, err)
		return
	}

	h.storeInCache(r, cacheKey, summary)
	respondWithJSON(w, http.StatusOK, summary)
}

// GetHospitalSummary handles GET /api/summaries/hospital/{hospitalizationId}
func (h *SummaryHandler) GetHospitalSummary(w http.ResponseWriter, r *http.Request) {
	hospitalizationID := r.PathValue("hospitalizationId")
	if hospitalizationID == "" {
		respondWithError(w, http.StatusBadRequest, "hospitalization ID is required")
		return
	}

	cacheKey := providers.HospitalSummaryCacheKey(hospitalizationID)
	if h.serveFromCache(w, r, cacheKey) {
		return
	}

	summary, err := h.hospitalRepo.GetByHospitalizationID(r.Context(), hospitalizationID)
	if err != nil {
		h.respondRepoError(w, err)
		return
	}

	h.storeInCache(r, cacheKey, summary)
	respondWithJSON(w, http.StatusOK, summary)
}

// ListHospitalSummaries handles GET /api/summaries/hospital
func (h *SummaryHandler) ListHospitalSummaries(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 20)
	offset := parseIntParam(r, "offset", 0)

	summaries, err := h.hospitalRepo.List(r.Context(), limit, offset)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list hospital summaries")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": summaries,
		"count":     len(summaries),
	})
}

// SearchSummaries handles GET /api/summaries/search
func (h *SummaryHandler) SearchSummaries(w http.ResponseWriter, r *http.Request) {
	if h.searchRepo == nil {
		respondWithError(w, http.StatusServiceUnavailable, "search is not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit := parseIntParam(r, "limit", 20)

	results, err := h.searchRepo.Search(r.Context(), query, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

func (h *SummaryHandler) serveFromCache(w http.ResponseWriter, r *http.Request, key string) bool {
	if h.cache == nil {
		return false
	}
	cached, err := h.cache.Get(r.Context(), key)
	if err != nil || len(cached) == 0 {
		observability.RecordCacheMiss(r.Context(), h.metrics, key)
		return false
	}
	observability.RecordCacheHit(r.Context(), h.metrics, key)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(http.StatusOK)
	w.Write(cached)
	return true
}

func (h *SummaryHandler) storeInCache(r *http.Request, key string, payload interface{}) {
	if h.cache == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = h.cache.Set(r.Context(), key, data, summaryCacheTTLSeconds)
}

func (h *SummaryHandler) respondRepoError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
