package repositories

import (
	"context"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
)

// ClinicalSummaryRepository defines the interface for clinical summary persistence.
type ClinicalSummaryRepository interface {
	// Upsert writes the summary, replacing any existing row with the same
	// hospitalization id, and returns the persisted row id.
	Upsert(ctx context.Context, summary *entities.ClinicalSummary) (string, error)

	// GetByHospitalizationID fetches the summary for a hospitalization.
	GetByHospitalizationID(ctx context.Context, hospitalizationID string) (*entities.ClinicalSummary, error)

	// List returns summaries ordered by parse time, newest first.
	List(ctx context.Context, limit, offset int) ([]*entities.ClinicalSummary, error)
}
