package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/errors"
)

// HospitalSummaryAdapter implements HospitalSummaryRepository on Postgres.
// All four sections are NOT NULL; a partial hospital summary is never
// written.
type HospitalSummaryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHospitalSummaryAdapter creates a new adapter.
func NewHospitalSummaryAdapter(client *postgres.Client) repositories.HospitalSummaryRepository {
	return &HospitalSummaryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var hospitalSummaryColumns = []any{
	"id",
	"patient_id",
	"hospitalization_id",
	"facility",
	"timing",
	"diagnosis",
	"medication_risk_assessment",
	"length_of_stay_days",
	"created_at",
}

// Upsert inserts or replaces the hospital summary for a hospitalization.
func (a *HospitalSummaryAdapter) Upsert(ctx context.Context, summary *entities.HospitalSummary) (string, error) {
	if summary == nil {
		return "", apperrors.NewValidationError("hospital summary is required")
	}
	if summary.HospitalizationID == "" {
		return "", apperrors.NewValidationError("hospitalization id is required")
	}
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}

	facilityBytes, err := json.Marshal(summary.Facility)
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to encode facility", err)
	}
	timingBytes, err := json.Marshal(summary.Timing)
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to encode timing", err)
	}
	diagnosisBytes, err := json.Marshal(summary.Diagnosis)
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to encode diagnosis", err)
	}
	riskBytes, err := json.Marshal(summary.MedicationRiskAssessment)
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to encode medication risk assessment", err)
	}

	query := `
		INSERT INTO hospital_summaries
			(id, patient_id, hospitalization_id, facility, timing, diagnosis,
			 medication_risk_assessment, length_of_stay_days, created_at)
		VALUES
			($1, $2, $3, $4::jsonb, $5::jsonb, $6::jsonb, $7::jsonb, $8, $9)
		ON CONFLICT (hospitalization_id)
		DO UPDATE SET
			patient_id = EXCLUDED.patient_id,
			facility = EXCLUDED.facility,
			timing = EXCLUDED.timing,
			diagnosis = EXCLUDED.diagnosis,
			medication_risk_assessment = EXCLUDED.medication_risk_assessment,
			length_of_stay_days = EXCLUDED.length_of_stay_days,
			created_at = EXCLUDED.created_at
		RETURNING id
	`

	var id string
	err = a.client.DB().QueryRowContext(ctx, query,
		summary.ID,
		summary.PatientID,
		summary.HospitalizationID,
		facilityBytes,
		timingBytes,
		diagnosisBytes,
		riskBytes,
		summary.LengthOfStayDays,
		summary.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to upsert hospital summary", err)
	}
	summary.ID = id
	return id, nil
}

// GetByHospitalizationID retrieves the hospital summary for a hospitalization.
func (a *HospitalSummaryAdapter) GetByHospitalizationID(ctx context.Context, hospitalizationID string) (*entities.HospitalSummary, error) {
	query, queryArgs, err := a.db.Select(hospitalSummaryColumns...).
		From("hospital_summaries").
		Where(goqu.Ex{"hospitalization_id": hospitalizationID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build hospital summary query", err)
	}

	summary, err := a.scanHospitalSummary(a.client.DB().QueryRowContext(ctx, query, queryArgs...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital summary for hospitalization %s not found", hospitalizationID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get hospital summary", err)
	}
	return summary, nil
}

// List returns hospital summaries, newest first.
func (a *HospitalSummaryAdapter) List(ctx context.Context, limit, offset int) ([]*entities.HospitalSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query, queryArgs, err := a.db.Select(hospitalSummaryColumns...).
		From("hospital_summaries").
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build hospital summary list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list hospital summaries", err)
	}
	defer rows.Close()

	var summaries []*entities.HospitalSummary
	for rows.Next() {
		summary, err := a.scanHospitalSummary(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hospital summary", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (a *HospitalSummaryAdapter) scanHospitalSummary(row rowScanner) (*entities.HospitalSummary, error) {
	summary := &entities.HospitalSummary{}
	var facilityRaw, timingRaw, diagnosisRaw, riskRaw []byte

	err := row.Scan(
		&summary.ID,
		&summary.PatientID,
		&summary.HospitalizationID,
		&facilityRaw,
		&timingRaw,
		&diagnosisRaw,
		&riskRaw,
		&summary.LengthOfStayDays,
		&summary.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(facilityRaw, &summary.Facility); err != nil {
		return nil, fmt.Errorf("decoding facility: %w", err)
	}
	if err := json.Unmarshal(timingRaw, &summary.Timing); err != nil {
		return nil, fmt.Errorf("decoding timing: %w", err)
	}
	if err := json.Unmarshal(diagnosisRaw, &summary.Diagnosis); err != nil {
		return nil, fmt.Errorf("decoding diagnosis: %w", err)
	}
	if err := json.Unmarshal(riskRaw, &summary.MedicationRiskAssessment); err != nil {
		return nil, fmt.Errorf("decoding medication risk assessment: %w", err)
	}
	return summary, nil
}
