package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/errors"
)

func setupMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientFromDB(db), mock
}

func sampleClinicalSummary() *entities.ClinicalSummary {
	details := "Presented with bradycardia"
	return &entities.ClinicalSummary{
		PatientID:         "patient-1",
		HospitalizationID: "hosp-1",
		PatientPresentation: &entities.PresentationData{
			Symptoms:            []string{"bradycardia"},
			PresentationDetails: &details,
		},
		FailedSections:      []string{"lab_results"},
		ParsedAt:            time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC),
		ParsingModelVersion: "gpt-4o-mini",
	}
}

func sampleHospitalSummary() *entities.HospitalSummary {
	return &entities.HospitalSummary{
		PatientID:         "patient-1",
		HospitalizationID: "hosp-1",
		Facility: entities.FacilityData{
			FacilityName: "General Hospital",
			FacilityType: entities.FacilityTypeAcuteCare,
		},
		Timing: entities.TimingData{
			AdmissionDate: "2025-01-01",
			DischargeDate: "2025-01-05",
		},
		Diagnosis: entities.DiagnosisData{
			PrimaryDiagnosis:         "Digoxin toxicity",
			PrimaryDiagnosisEvidence: "Assessment",
			DiagnosisCategory:        "cardiovascular",
		},
		MedicationRiskAssessment: entities.RiskAssessment{
			RiskLevel:        entities.RiskLevelHigh,
			AssessmentMethod: entities.AssessmentMethodAIAnalysis,
			AssessedAt:       "2025-01-05T11:00:00Z",
		},
		LengthOfStayDays: 4,
	}
}

func TestClinicalSummaryAdapter_Upsert(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewClinicalSummaryAdapter(client)

	mock.ExpectQuery(`INSERT INTO clinical_summaries`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("row-id-1"))

	id, err := adapter.Upsert(context.Background(), sampleClinicalSummary())
	require.NoError(t, err)
	assert.Equal(t, "row-id-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicalSummaryAdapter_Upsert_SecondWriteReturnsSameRow(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewClinicalSummaryAdapter(client)

	mock.ExpectQuery(`INSERT INTO clinical_summaries`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("row-id-1"))
	mock.ExpectQuery(`INSERT INTO clinical_summaries`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("row-id-1"))

	first, err := adapter.Upsert(context.Background(), sampleClinicalSummary())
	require.NoError(t, err)

	second, err := adapter.Upsert(context.Background(), sampleClinicalSummary())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicalSummaryAdapter_Upsert_Validation(t *testing.T) {
	client, _ := setupMockClient(t)
	adapter := NewClinicalSummaryAdapter(client)

	_, err := adapter.Upsert(context.Background(), nil)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	_, err = adapter.Upsert(context.Background(), &entities.ClinicalSummary{PatientID: "patient-1"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}

func TestClinicalSummaryAdapter_GetByHospitalizationID(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewClinicalSummaryAdapter(client)

	parsedAt := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "patient_id", "hospitalization_id",
		"patient_presentation", "relevant_history", "clinical_findings", "clinical_assessment",
		"hospital_course", "follow_up_plan", "treatments_procedures", "lab_results",
		"failed_sections", "parsed_at", "parsing_model_version",
	}).AddRow(
		"row-id-1", "patient-1", "hosp-1",
		[]byte(`{"symptoms":["bradycardia"],"severity_indicators":[]}`), nil, nil, nil,
		nil, nil, nil, nil,
		[]byte(`["lab_results"]`), parsedAt, "gpt-4o-mini",
	)
	mock.ExpectQuery(`SELECT .+ FROM "clinical_summaries"`).WillReturnRows(rows)

	summary, err := adapter.GetByHospitalizationID(context.Background(), "hosp-1")
	require.NoError(t, err)

	assert.Equal(t, "hosp-1", summary.HospitalizationID)
	require.NotNil(t, summary.PatientPresentation)
	assert.Equal(t, []string{"bradycardia"}, summary.PatientPresentation.Symptoms)
	assert.Nil(t, summary.LabResults)
	assert.Equal(t, []string{"lab_results"}, summary.FailedSections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicalSummaryAdapter_GetByHospitalizationID_NotFound(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewClinicalSummaryAdapter(client)

	mock.ExpectQuery(`SELECT .+ FROM "clinical_summaries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := adapter.GetByHospitalizationID(context.Background(), "missing")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestHospitalSummaryAdapter_Upsert(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewHospitalSummaryAdapter(client)

	mock.ExpectQuery(`INSERT INTO hospital_summaries`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("row-id-2"))

	id, err := adapter.Upsert(context.Background(), sampleHospitalSummary())
	require.NoError(t, err)
	assert.Equal(t, "row-id-2", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHospitalSummaryAdapter_Upsert_Validation(t *testing.T) {
	client, _ := setupMockClient(t)
	adapter := NewHospitalSummaryAdapter(client)

	_, err := adapter.Upsert(context.Background(), &entities.HospitalSummary{PatientID: "patient-1"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}

func TestHospitalSummaryAdapter_GetByHospitalizationID(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewHospitalSummaryAdapter(client)

	createdAt := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "patient_id", "hospitalization_id",
		"facility", "timing", "diagnosis", "medication_risk_assessment",
		"length_of_stay_days", "created_at",
	}).AddRow(
		"row-id-2", "patient-1", "hosp-1",
		[]byte(`{"facility_name":"General Hospital","facility_type":"acute_care"}`),
		[]byte(`{"admission_date":"2025-01-01","discharge_date":"2025-01-05"}`),
		[]byte(`{"primary_diagnosis":"Digoxin toxicity","primary_diagnosis_evidence":"Assessment","diagnosis_category":"cardiovascular","secondary_diagnoses":[]}`),
		[]byte(`{"risk_level":"high","assessment_method":"ai_analysis","assessed_at":"2025-01-05T11:00:00Z"}`),
		4, createdAt,
	)
	mock.ExpectQuery(`SELECT .+ FROM "hospital_summaries"`).WillReturnRows(rows)

	summary, err := adapter.GetByHospitalizationID(context.Background(), "hosp-1")
	require.NoError(t, err)

	assert.Equal(t, "General Hospital", summary.Facility.FacilityName)
	assert.Equal(t, 4, summary.LengthOfStayDays)
	assert.Equal(t, entities.RiskLevelHigh, summary.MedicationRiskAssessment.RiskLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHospitalSummaryAdapter_List(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewHospitalSummaryAdapter(client)

	createdAt := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "patient_id", "hospitalization_id",
		"facility", "timing", "diagnosis", "medication_risk_assessment",
		"length_of_stay_days", "created_at",
	}).AddRow(
		"row-id-2", "patient-1", "hosp-1",
		[]byte(`{"facility_name":"General Hospital","facility_type":"acute_care"}`),
		[]byte(`{"admission_date":"2025-01-01","discharge_date":"2025-01-05"}`),
		[]byte(`{"primary_diagnosis":"Digoxin toxicity","primary_diagnosis_evidence":"Assessment","diagnosis_category":"cardiovascular","secondary_diagnoses":[]}`),
		[]byte(`{"risk_level":"high","assessment_method":"ai_analysis","assessed_at":"2025-01-05T11:00:00Z"}`),
		4, createdAt,
	)
	mock.ExpectQuery(`SELECT .+ FROM "hospital_summaries"`).WillReturnRows(rows)

	summaries, err := adapter.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "hosp-1", summaries[0].HospitalizationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
