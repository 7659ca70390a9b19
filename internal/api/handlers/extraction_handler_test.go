package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/application/services"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
)

// scriptedExtractor succeeds or fails per kind.
type scriptedExtractor struct {
	kind entities.EntityKind
	fail bool
}

func (e *scriptedExtractor) Kind() entities.EntityKind { return e.kind }

func (e *scriptedExtractor) Extract(ctx context.Context, doc *entities.Document) (any, error) {
	if e.fail {
		return nil, assert.AnError
	}
	switch e.kind {
	case entities.EntityKindPresentation:
		return &entities.PresentationData{Symptoms: []string{"dyspnea"}}, nil
	case entities.EntityKindHistory:
		return &entities.HistoryData{}, nil
	case entities.EntityKindFindings:
		return &entities.FindingsData{}, nil
	case entities.EntityKindAssessment:
		return &entities.AssessmentData{}, nil
	case entities.EntityKindCourse:
		return &entities.CourseData{}, nil
	case entities.EntityKindFollowUp:
		return &entities.FollowUpData{}, nil
	case entities.EntityKindTreatments:
		return &entities.TreatmentsData{}, nil
	case entities.EntityKindLabs:
		return &entities.LabsData{}, nil
	case entities.EntityKindFacilityTiming:
		return &entities.FacilityTimingData{
			Facility: entities.FacilityData{FacilityName: "General Hospital", FacilityType: entities.FacilityTypeAcuteCare},
			Timing:   entities.TimingData{AdmissionDate: "2025-01-01", DischargeDate: "2025-01-03"},
		}, nil
	case entities.EntityKindDiagnosis:
		return &entities.DiagnosisData{PrimaryDiagnosis: "CHF exacerbation", DiagnosisCategory: "cardiovascular"}, nil
	case entities.EntityKindMedicationRisk:
		return &entities.RiskAssessment{RiskLevel: entities.RiskLevelLow, AssessedAt: "2025-01-03T09:00:00Z"}, nil
	}
	return nil, assert.AnError
}

// memClinicalRepo and memHospitalRepo are in-memory repositories.
type memClinicalRepo struct{ fail bool }

func (r *memClinicalRepo) Upsert(ctx context.Context, s *entities.ClinicalSummary) (string, error) {
	if r.fail {
		return "", assert.AnError
	}
	return "clinical-1", nil
}
func (r *memClinicalRepo) GetByHospitalizationID(ctx context.Context, id string) (*entities.ClinicalSummary, error) {
	return nil, nil
}
func (r *memClinicalRepo) List(ctx context.Context, limit, offset int) ([]*entities.ClinicalSummary, error) {
	return nil, nil
}

type memHospitalRepo struct{ fail bool }

func (r *memHospitalRepo) Upsert(ctx context.Context, s *entities.HospitalSummary) (string, error) {
	if r.fail {
		return "", assert.AnError
	}
	return "hospital-1", nil
}
func (r *memHospitalRepo) GetByHospitalizationID(ctx context.Context, id string) (*entities.HospitalSummary, error) {
	return nil, nil
}
func (r *memHospitalRepo) List(ctx context.Context, limit, offset int) ([]*entities.HospitalSummary, error) {
	return nil, nil
}

func newHandler(t *testing.T, failing map[entities.EntityKind]bool, clinicalRepo *memClinicalRepo, hospitalRepo *memHospitalRepo) *ExtractionHandler {
	t.Helper()
	set := make(providers.ExtractorSet)
	for _, kind := range entities.AllEntityKinds() {
		set[kind] = &scriptedExtractor{kind: kind, fail: failing[kind]}
	}
	registry, err := services.NewExtractionRegistry(set)
	require.NoError(t, err)

	service := services.NewExtractionService(
		services.NewExtractionOrchestrator(registry, time.Second, nil),
		services.NewSummaryAssembler("gpt-4o-mini"),
		services.NewPersistenceCoordinator(clinicalRepo, hospitalRepo, nil),
		nil,
		nil,
	)
	return NewExtractionHandler(service)
}

func postExtraction(t *testing.T, handler *ExtractionHandler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/extractions", bytes.NewReader(raw))
	recorder := httptest.NewRecorder()
	handler.SubmitExtraction(recorder, req)
	return recorder
}

func TestSubmitExtraction_FullSuccess(t *testing.T) {
	handler := newHandler(t, nil, &memClinicalRepo{}, &memHospitalRepo{})

	recorder := postExtraction(t, handler, map[string]string{
		"patient_id":         "patient-1",
		"hospitalization_id": "hosp-1",
		"text":               "Admitted with dyspnea.",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp extractionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "complete", resp.Status)
	assert.Equal(t, "hosp-1", resp.HospitalizationID)
	assert.Len(t, resp.Outcomes, len(entities.AllEntityKinds()))
	assert.True(t, resp.Clinical.Persisted)
	assert.True(t, resp.Hospital.Persisted)
}

func TestSubmitExtraction_PartialIs207(t *testing.T) {
	handler := newHandler(t, map[entities.EntityKind]bool{
		entities.EntityKindDiagnosis: true,
	}, &memClinicalRepo{}, &memHospitalRepo{})

	recorder := postExtraction(t, handler, map[string]string{
		"patient_id": "patient-1",
		"text":       "Admitted with dyspnea.",
	})

	assert.Equal(t, http.StatusMultiStatus, recorder.Code)

	var resp extractionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "partial", resp.Status)
	assert.True(t, resp.Clinical.Persisted)
	assert.False(t, resp.Hospital.Persisted)
	assert.NotEmpty(t, resp.Hospital.Error)
}

func TestSubmitExtraction_NothingPersistedIs422(t *testing.T) {
	handler := newHandler(t, map[entities.EntityKind]bool{
		entities.EntityKindDiagnosis: true,
	}, &memClinicalRepo{fail: true}, &memHospitalRepo{})

	recorder := postExtraction(t, handler, map[string]string{
		"patient_id": "patient-1",
		"text":       "Admitted with dyspnea.",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var resp extractionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp.Status)
}

func TestSubmitExtraction_MissingText(t *testing.T) {
	handler := newHandler(t, nil, &memClinicalRepo{}, &memHospitalRepo{})

	recorder := postExtraction(t, handler, map[string]string{"patient_id": "patient-1"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSubmitExtraction_InvalidBody(t *testing.T) {
	handler := newHandler(t, nil, &memClinicalRepo{}, &memHospitalRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/extractions", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	handler.SubmitExtraction(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
