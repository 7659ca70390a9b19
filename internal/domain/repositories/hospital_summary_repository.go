package repositories

import (
	"context"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
)

// HospitalSummaryRepository defines the interface for hospital summary persistence.
type HospitalSummaryRepository interface {
	// Upsert writes the summary, replacing any existing row with the same
	// hospitalization id, and returns the persisted row id.
	Upsert(ctx context.Context, summary *entities.HospitalSummary) (string, error)

	// GetByHospitalizationID fetches the summary for a hospitalization.
	GetByHospitalizationID(ctx context.Context, hospitalizationID string) (*entities.HospitalSummary, error)

	// List returns summaries ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*entities.HospitalSummary, error)
}
