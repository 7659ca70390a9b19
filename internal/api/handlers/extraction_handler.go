package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/application/services"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
)

// ExtractionHandler handles extraction submission requests
type ExtractionHandler struct {
	extractionService *services.ExtractionService
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(extractionService *services.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{
		extractionService: extractionService,
	}
}

// extractionResponse is the wire shape of one extraction run.
type extractionResponse struct {
	HospitalizationID string                    `json:"hospitalization_id"`
	PatientID         string                    `json:"patient_id,omitempty"`
	Status            string                    `json:"status"`
	Outcomes          []*entities.EntityOutcome `json:"outcomes"`
	Clinical          *aggregateStatus          `json:"clinical_summary"`
	Hospital          *aggregateStatus          `json:"hospital_summary"`
}

type aggregateStatus struct {
	Persisted bool   `json:"persisted"`
	RecordID  string `json:"record_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SubmitExtraction handles POST /api/extractions
func (h *ExtractionHandler) SubmitExtraction(w http.ResponseWriter, r *http.Request) {
	var req services.ExtractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondWithError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.extractionService.Process(r.Context(), &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "extraction pipeline failed")
		return
	}

	respondWithJSON(w, statusCodeFor(result), buildExtractionResponse(result))
}

// statusCodeFor maps a run to its HTTP status: 200 when everything
// succeeded, 422 when nothing was persisted, 207 for partial results.
func statusCodeFor(result *services.ExtractionResult) int {
	if result.Complete() {
		return http.StatusOK
	}
	clinicalPersisted := result.Persistence.Clinical.Attempted && result.Persistence.Clinical.Err == nil
	hospitalPersisted := result.Persistence.Hospital.Attempted && result.Persistence.Hospital.Err == nil
	if !clinicalPersisted && !hospitalPersisted {
		return http.StatusUnprocessableEntity
	}
	return http.StatusMultiStatus
}

func buildExtractionResponse(result *services.ExtractionResult) *extractionResponse {
	resp := &extractionResponse{
		HospitalizationID: result.HospitalizationID,
		PatientID:         result.PatientID,
		Status:            "partial",
	}
	if result.Complete() {
		resp.Status = "complete"
	}

	// Stable outcome order for clients.
	for _, kind := range entities.AllEntityKinds() {
		if outcome, ok := result.Outcomes[kind]; ok {
			resp.Outcomes = append(resp.Outcomes, outcome)
		}
	}

	resp.Clinical = &aggregateStatus{
		Persisted: result.Persistence.Clinical.Attempted && result.Persistence.Clinical.Err == nil,
		RecordID:  result.Persistence.Clinical.RecordID,
	}
	if result.Persistence.Clinical.Err != nil {
		resp.Clinical.Error = result.Persistence.Clinical.Err.Error()
	}

	resp.Hospital = &aggregateStatus{
		Persisted: result.Persistence.Hospital.Attempted && result.Persistence.Hospital.Err == nil,
		RecordID:  result.Persistence.Hospital.RecordID,
	}
	if result.HospitalAssemblyErr != nil {
		resp.Hospital.Error = result.HospitalAssemblyErr.Error()
	} else if result.Persistence.Hospital.Err != nil {
		resp.Hospital.Error = result.Persistence.Hospital.Err.Error()
	}

	if !resp.Clinical.Persisted && !resp.Hospital.Persisted {
		resp.Status = "failed"
	}
	return resp
}
