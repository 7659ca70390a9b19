package services

import (
	"fmt"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
)

// ExtractionRegistry holds the validated extractor set. Construction
// fails unless every entity kind has exactly one extractor whose Kind()
// matches its registration key, so a half-configured pipeline cannot
// start serving.
type ExtractionRegistry struct {
	set providers.ExtractorSet
}

// NewExtractionRegistry validates the set covers all entity kinds.
func NewExtractionRegistry(set providers.ExtractorSet) (*ExtractionRegistry, error) {
	for _, kind := range entities.AllEntityKinds() {
		extractor, ok := set[kind]
		if !ok || extractor == nil {
			return nil, fmt.Errorf("extraction registry: missing extractor for kind %q", kind)
		}
		if extractor.Kind() != kind {
			return nil, fmt.Errorf("extraction registry: extractor registered under %q reports kind %q", kind, extractor.Kind())
		}
	}
	if len(set) != len(entities.AllEntityKinds()) {
		return nil, fmt.Errorf("extraction registry: expected %d extractors, got %d", len(entities.AllEntityKinds()), len(set))
	}
	return &ExtractionRegistry{set: set}, nil
}

// Get returns the extractor for a kind.
func (r *ExtractionRegistry) Get(kind entities.EntityKind) (providers.EntityExtractor, bool) {
	extractor, ok := r.set[kind]
	return extractor, ok
}

// Kinds returns all registered kinds in canonical order.
func (r *ExtractionRegistry) Kinds() []entities.EntityKind {
	return entities.AllEntityKinds()
}
