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

// ClinicalSummaryAdapter implements ClinicalSummaryRepository on Postgres.
// Each section is stored as its own jsonb column so that a null column
// means the section's extractor failed for that document.
type ClinicalSummaryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewClinicalSummaryAdapter creates a new adapter.
func NewClinicalSummaryAdapter(client *postgres.Client) repositories.ClinicalSummaryRepository {
	return &ClinicalSummaryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var clinicalSummaryColumns = []any{
	"id",
	"patient_id",
	"hospitalization_id",
	"patient_presentation",
	"relevant_history",
	"clinical_findings",
	"clinical_assessment",
	"hospital_course",
	"follow_up_plan",
	"treatments_procedures",
	"lab_results",
	"failed_sections",
	"parsed_at",
	"parsing_model_version",
}

// marshalSection keeps a nil section as SQL NULL instead of the jsonb
// literal "null".
func marshalSection(section any) (any, error) {
	if section == nil {
		return nil, nil
	}
	raw, err := json.Marshal(section)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return raw, nil
}

// Upsert inserts or replaces the clinical summary for a hospitalization.
func (a *ClinicalSummaryAdapter) Upsert(ctx context.Context, summary *entities.ClinicalSummary) (string, error) {
	if summary == nil {
		return "", apperrors.NewValidationError("clinical summary is required")
	}
	if summary.HospitalizationID == "" {
		return "", apperrors.NewValidationError("hospitalization id is required")
	}
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.ParsedAt.IsZero() {
		summary.ParsedAt = time.Now().UTC()
	}

	sections := []any{
		summary.PatientPresentation,
		summary.RelevantHistory,
		summary.ClinicalFindings,
		summary.ClinicalAssessment,
		summary.HospitalCourse,
		summary.FollowUpPlan,
		summary.TreatmentsProcedures,
		summary.LabResults,
	}
	sectionArgs := make([]any, 0, len(sections))
	for _, section := range sections {
		arg, err := marshalSection(section)
		if err != nil {
			return "", apperrors.NewPersistenceError("failed to encode clinical section", err)
		}
		sectionArgs = append(sectionArgs, arg)
	}

	failedBytes, err := json.Marshal(summary.FailedSections)
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to encode failed sections", err)
	}

	query := `
		INSERT INTO clinical_summaries
			(id, patient_id, hospitalization_id,
			 patient_presentation, relevant_history, clinical_findings, clinical_assessment,
			 hospital_course, follow_up_plan, treatments_procedures, lab_results,
			 failed_sections, parsed_at, parsing_model_version)
		VALUES
			($1, $2, $3, $4::jsonb, $5::jsonb, $6::jsonb, $7::jsonb,
			 $8::jsonb, $9::jsonb, $10::jsonb, $11::jsonb, $12::jsonb, $13, $14)
		ON CONFLICT (hospitalization_id)
		DO UPDATE SET
			patient_id = EXCLUDED.patient_id,
			patient_presentation = EXCLUDED.patient_presentation,
			relevant_history = EXCLUDED.relevant_history,
			clinical_findings = EXCLUDED.clinical_findings,
			clinical_assessment = EXCLUDED.clinical_assessment,
			hospital_course = EXCLUDED.hospital_course,
			follow_up_plan = EXCLUDED.follow_up_plan,
			treatments_procedures = EXCLUDED.treatments_procedures,
			lab_results = EXCLUDED.lab_results,
			failed_sections = EXCLUDED.failed_sections,
			parsed_at = EXCLUDED.parsed_at,
			parsing_model_version = EXCLUDED.parsing_model_version
		RETURNING id
	`

	args := make([]any, 0, 14)
	args = append(args, summary.ID, summary.PatientID, summary.HospitalizationID)
	args = append(args, sectionArgs...)
	args = append(args, failedBytes, summary.ParsedAt, summary.ParsingModelVersion)

	var id string
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return "", apperrors.NewPersistenceError("failed to upsert clinical summary", err)
	}
	summary.ID = id
	return id, nil
}

// GetByHospitalizationID retrieves the clinical summary for a hospitalization.
func (a *ClinicalSummaryAdapter) GetByHospitalizationID(ctx context.Context, hospitalizationID string) (*entities.ClinicalSummary, error) {
	query, queryArgs, err := a.db.Select(clinicalSummaryColumns...).
		From("clinical_summaries").
		Where(goqu.Ex{"hospitalization_id": hospitalizationID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build clinical summary query", err)
	}

	summary, err := a.scanClinicalSummary(a.client.DB().QueryRowContext(ctx, query, queryArgs...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("clinical summary for hospitalization %s not found", hospitalizationID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get clinical summary", err)
	}
	return summary, nil
}

// List returns clinical summaries, newest first.
func (a *ClinicalSummaryAdapter) List(ctx context.Context, limit, offset int) ([]*entities.ClinicalSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query, queryArgs, err := a.db.Select(clinicalSummaryColumns...).
		From("clinical_summaries").
		Order(goqu.I("parsed_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build clinical summary list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list clinical summaries", err)
	}
	defer rows.Close()

	var summaries []*entities.ClinicalSummary
	for rows.Next() {
		summary, err := a.scanClinicalSummary(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan clinical summary", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (a *ClinicalSummaryAdapter) scanClinicalSummary(row rowScanner) (*entities.ClinicalSummary, error) {
	summary := &entities.ClinicalSummary{}
	var presentationRaw, historyRaw, findingsRaw, assessmentRaw []byte
	var courseRaw, followUpRaw, treatmentsRaw, labsRaw, failedRaw []byte

	err := row.Scan(
		&summary.ID,
		&summary.PatientID,
		&summary.HospitalizationID,
		&presentationRaw,
		&historyRaw,
		&findingsRaw,
		&assessmentRaw,
		&courseRaw,
		&followUpRaw,
		&treatmentsRaw,
		&labsRaw,
		&failedRaw,
		&summary.ParsedAt,
		&summary.ParsingModelVersion,
	)
	if err != nil {
		return nil, err
	}

	unmarshalTargets := []struct {
		raw  []byte
		dest any
	}{
		{presentationRaw, &summary.PatientPresentation},
		{historyRaw, &summary.RelevantHistory},
		{findingsRaw, &summary.ClinicalFindings},
		{assessmentRaw, &summary.ClinicalAssessment},
		{courseRaw, &summary.HospitalCourse},
		{followUpRaw, &summary.FollowUpPlan},
		{treatmentsRaw, &summary.TreatmentsProcedures},
		{labsRaw, &summary.LabResults},
	}
	for _, target := range unmarshalTargets {
		if len(target.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(target.raw, target.dest); err != nil {
			return nil, fmt.Errorf("decoding stored section: %w", err)
		}
	}
	if len(failedRaw) > 0 {
		if err := json.Unmarshal(failedRaw, &summary.FailedSections); err != nil {
			return nil, fmt.Errorf("decoding failed sections: %w", err)
		}
	}
	return summary, nil
}
