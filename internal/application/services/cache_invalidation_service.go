package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
)

// CacheInvalidationService drops cached summary reads when a summary is
// rewritten. Re-running extraction for a hospitalization upserts the
// stored row, so a cached copy from before the rerun would serve stale
// sections until its TTL expired.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for pipeline events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelExtractions)
	if err != nil {
		return fmt.Errorf("failed to subscribe to extraction events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Println("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ExtractionEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent invalidates the cached read for the aggregate that was
// just persisted. Other event types only signal progress and leave the
// cache alone.
func (s *CacheInvalidationService) handleEvent(event *entities.ExtractionEvent) {
	if event.Type != entities.EventTypeSummaryPersisted || event.HospitalizationID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var key string
	switch event.Aggregate {
	case entities.AggregateGroupClinical:
		key = providers.ClinicalSummaryCacheKey(event.HospitalizationID)
	case entities.AggregateGroupHospital:
		key = providers.HospitalSummaryCacheKey(event.HospitalizationID)
	default:
		return
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("Failed to invalidate cache key %s: %v", key, err)
		return
	}
	log.Printf("Invalidated cache key %s for event %s", key, event.ID)
}
