package repositories

import (
	"context"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
)

// SummarySearchRepository defines the interface for the summaries search index.
type SummarySearchRepository interface {
	// IndexSummary upserts one summary into the search index.
	IndexSummary(ctx context.Context, doc *entities.SummarySearchDocument) error

	// Search runs a free-text query over indexed summaries.
	Search(ctx context.Context, query string, limit int) ([]*entities.SummarySearchDocument, error)
}
