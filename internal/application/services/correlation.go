package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
)

// AllocateCorrelationID resolves the hospitalization id used to
// correlate all artifacts of one extraction run. A caller-supplied id
// wins so re-running the same document replaces rather than duplicates.
// Otherwise an id embedded in the note text is honored, and a fresh
// GUID is minted as the last resort.
func AllocateCorrelationID(doc *entities.Document) string {
	if id := strings.TrimSpace(doc.HospitalizationID); id != "" {
		return id
	}
	if id := doc.EmbeddedHospitalizationID(); id != "" {
		return id
	}
	return uuid.New().String()
}
