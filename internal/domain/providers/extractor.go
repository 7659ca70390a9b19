package providers

import (
	"context"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
)

// EntityExtractor is the black-box extraction capability for a single
// entity kind: given a document, produce the kind-specific payload or
// fail. Implementations must be safe for concurrent use and must not
// share mutable state between invocations.
type EntityExtractor interface {
	// Kind returns the entity kind this extractor produces.
	Kind() entities.EntityKind

	// Extract derives the entity payload from the document. The returned
	// payload is one of the entities payload structs for the extractor's
	// kind (e.g. *entities.DiagnosisData for the diagnosis kind).
	Extract(ctx context.Context, doc *entities.Document) (any, error)
}

// ExtractorSet maps every registered entity kind to its extractor.
type ExtractorSet map[entities.EntityKind]EntityExtractor
