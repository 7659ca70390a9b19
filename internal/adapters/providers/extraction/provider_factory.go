package extraction

import (
	"fmt"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/openai"
)

// ExtractorSetConfig configures which backend powers the extractor set.
type ExtractorSetConfig struct {
	Provider     string // "openai" or "mock"
	OpenAIClient *openai.Client
}

// NewExtractorSet builds one extractor per entity kind.
//
// With no API key configured the mock set keeps local development
// working end to end, mirroring how the scheduling and geolocation
// providers degrade.
func NewExtractorSet(cfg ExtractorSetConfig) (providers.ExtractorSet, error) {
	set := make(providers.ExtractorSet, len(entities.AllEntityKinds()))

	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIClient == nil {
			return nil, fmt.Errorf("openai extraction provider requires a configured client")
		}
		for _, kind := range entities.AllEntityKinds() {
			extractor, err := NewOpenAIExtractor(cfg.OpenAIClient, kind)
			if err != nil {
				return nil, err
			}
			set[kind] = extractor
		}
	case "mock", "":
		for _, kind := range entities.AllEntityKinds() {
			set[kind] = NewMockExtractor(kind)
		}
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", cfg.Provider)
	}

	return set, nil
}
