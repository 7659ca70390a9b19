package providers

import (
	"context"
)

// ClinicalSummaryCacheKey is the cache key for a clinical summary read.
func ClinicalSummaryCacheKey(hospitalizationID string) string {
	return "summary:clinical:" + hospitalizationID
}

// HospitalSummaryCacheKey is the cache key for a hospital summary read.
func HospitalSummaryCacheKey(hospitalizationID string) string {
	return "summary:hospital:" + hospitalizationID
}

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
