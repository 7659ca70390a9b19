package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/errors"
)

// ExtractionOrchestrator fans one document out to every registered
// extractor concurrently and gathers an outcome per kind. One slow or
// failing extractor never blocks or poisons the others; the aggregate
// result always covers all kinds.
type ExtractionOrchestrator struct {
	registry *ExtractionRegistry
	timeout  time.Duration
	metrics  *observability.Metrics
}

// NewExtractionOrchestrator creates an orchestrator. A non-positive
// timeout falls back to 90 seconds per extractor.
func NewExtractionOrchestrator(registry *ExtractionRegistry, timeout time.Duration, metrics *observability.Metrics) *ExtractionOrchestrator {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &ExtractionOrchestrator{
		registry: registry,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// ExtractAll runs every extractor against the document and returns one
// outcome per entity kind. It returns only after all extractors have
// completed, timed out, or panicked. An empty document is still
// dispatched; extractors decide what an empty note yields.
func (o *ExtractionOrchestrator) ExtractAll(ctx context.Context, doc *entities.Document) map[entities.EntityKind]*entities.EntityOutcome {
	kinds := o.registry.Kinds()
	outcomes := make(map[entities.EntityKind]*entities.EntityOutcome, len(kinds))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, kind := range kinds {
		extractor, ok := o.registry.Get(kind)
		if !ok {
			// Registry construction guarantees coverage; guard anyway.
			outcomes[kind] = entities.FailedOutcome(kind, fmt.Errorf("no extractor registered for %s", kind))
			continue
		}

		wg.Add(1)
		go func(kind entities.EntityKind) {
			defer wg.Done()

			outcome := o.runExtractor(ctx, extractor.Extract, kind, doc)

			mu.Lock()
			outcomes[kind] = outcome
			mu.Unlock()
		}(kind)
	}

	wg.Wait()
	return outcomes
}

type extractFunc func(ctx context.Context, doc *entities.Document) (any, error)

// runExtractor executes one extractor under its own deadline, turning
// panics and timeouts into failed outcomes.
func (o *ExtractionOrchestrator) runExtractor(ctx context.Context, extract extractFunc, kind entities.EntityKind, doc *entities.Document) (outcome *entities.EntityOutcome) {
	extractCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Extractor %s panicked: %v", kind, r)
			outcome = entities.FailedOutcome(kind, apperrors.NewExtractionError(
				fmt.Sprintf("%s extractor panicked", kind), fmt.Errorf("%v", r)))
		}
		observability.RecordExtractionMetric(ctx, o.metrics, string(kind), string(outcome.Status), time.Since(start))
	}()

	payload, err := extract(extractCtx, doc)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || extractCtx.Err() == context.DeadlineExceeded {
			return entities.TimedOutOutcome(kind, apperrors.NewTimeoutError(
				fmt.Sprintf("%s extraction exceeded %s", kind, o.timeout)))
		}
		return entities.FailedOutcome(kind, apperrors.NewExtractionError(
			fmt.Sprintf("%s extraction failed", kind), err))
	}
	if payload == nil {
		return entities.FailedOutcome(kind, apperrors.NewExtractionError(
			fmt.Sprintf("%s extraction returned no payload", kind), nil))
	}
	return entities.SuccessOutcome(kind, payload)
}
