package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ExtractionConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("EXTRACTION_PROVIDER", "openai")
	os.Setenv("EXTRACTOR_TIMEOUT", "45s")
	defer func() {
		os.Unsetenv("EXTRACTION_PROVIDER")
		os.Unsetenv("EXTRACTOR_TIMEOUT")
	}()

	// Load config
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify extraction config
	assert.Equal(t, "openai", cfg.Extraction.Provider)
	assert.Equal(t, 45*time.Second, cfg.Extraction.ExtractorTimeout)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("EXTRACTION_PROVIDER")
	os.Unsetenv("EXTRACTOR_TIMEOUT")
	os.Unsetenv("DB_NAME")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, "mock", cfg.Extraction.Provider)
	assert.Equal(t, 90*time.Second, cfg.Extraction.ExtractorTimeout)
	assert.Equal(t, "clinical_extraction", cfg.Database.Database)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestLoad_InvalidExtractorTimeoutFallsBack(t *testing.T) {
	os.Setenv("EXTRACTOR_TIMEOUT", "not-a-duration")
	defer os.Unsetenv("EXTRACTOR_TIMEOUT")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Extraction.ExtractorTimeout)
}
