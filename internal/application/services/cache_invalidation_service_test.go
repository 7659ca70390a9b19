package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
)

// channelEventBus delivers published events to a single subscriber.
type channelEventBus struct {
	events chan *entities.ExtractionEvent
}

func newChannelEventBus() *channelEventBus {
	return &channelEventBus{events: make(chan *entities.ExtractionEvent, 16)}
}

func (b *channelEventBus) Publish(ctx context.Context, channel string, event *entities.ExtractionEvent) error {
	b.events <- event
	return nil
}

func (b *channelEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ExtractionEvent, error) {
	return b.events, nil
}

func (b *channelEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }
func (b *channelEventBus) Close() error                                          { return nil }

// recordingCache tracks deleted keys.
type recordingCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, error) { return nil, nil }
func (c *recordingCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *recordingCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func (c *recordingCache) deletedKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.deleted...)
}

func waitForDeletes(t *testing.T, cache *recordingCache, want int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		keys := cache.deletedKeys()
		if len(keys) >= want {
			return keys
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d cache deletes, got %v", want, cache.deletedKeys())
	return nil
}

func TestCacheInvalidationService_DropsPersistedAggregates(t *testing.T) {
	bus := newChannelEventBus()
	cache := &recordingCache{}

	service := NewCacheInvalidationService(cache, bus)
	require.NoError(t, service.Start())
	defer service.Stop()

	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelExtractions, &entities.ExtractionEvent{
		ID:                "evt-1",
		Type:              entities.EventTypeSummaryPersisted,
		HospitalizationID: "hosp-42",
		Aggregate:         entities.AggregateGroupClinical,
	}))
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelExtractions, &entities.ExtractionEvent{
		ID:                "evt-2",
		Type:              entities.EventTypeSummaryPersisted,
		HospitalizationID: "hosp-42",
		Aggregate:         entities.AggregateGroupHospital,
	}))

	keys := waitForDeletes(t, cache, 2)
	assert.ElementsMatch(t, []string{
		providers.ClinicalSummaryCacheKey("hosp-42"),
		providers.HospitalSummaryCacheKey("hosp-42"),
	}, keys)
}

func TestCacheInvalidationService_IgnoresProgressEvents(t *testing.T) {
	bus := newChannelEventBus()
	cache := &recordingCache{}

	service := NewCacheInvalidationService(cache, bus)
	require.NoError(t, service.Start())
	defer service.Stop()

	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelExtractions, &entities.ExtractionEvent{
		ID:                "evt-3",
		Type:              entities.EventTypeExtractionCompleted,
		HospitalizationID: "hosp-42",
	}))
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelExtractions, &entities.ExtractionEvent{
		ID:                "evt-4",
		Type:              entities.EventTypeSummaryPersisted,
		HospitalizationID: "hosp-42",
		Aggregate:         entities.AggregateGroupClinical,
	}))

	keys := waitForDeletes(t, cache, 1)
	assert.Equal(t, []string{providers.ClinicalSummaryCacheKey("hosp-42")}, keys)
}
