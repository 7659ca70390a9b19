package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/observability"
)

// PersistenceOutcome reports one aggregate's write.
type PersistenceOutcome struct {
	Attempted bool
	RecordID  string
	Err       error
}

// PersistenceResult reports both aggregate writes of one run.
type PersistenceResult struct {
	Clinical PersistenceOutcome
	Hospital PersistenceOutcome
}

// PersistenceCoordinator writes the two aggregates concurrently and
// independently. A failed clinical write never blocks or rolls back the
// hospital write, and vice versa.
type PersistenceCoordinator struct {
	clinicalRepo repositories.ClinicalSummaryRepository
	hospitalRepo repositories.HospitalSummaryRepository
	metrics      *observability.Metrics
}

// NewPersistenceCoordinator creates a coordinator.
func NewPersistenceCoordinator(
	clinicalRepo repositories.ClinicalSummaryRepository,
	hospitalRepo repositories.HospitalSummaryRepository,
	metrics *observability.Metrics,
) *PersistenceCoordinator {
	return &PersistenceCoordinator{
		clinicalRepo: clinicalRepo,
		hospitalRepo: hospitalRepo,
		metrics:      metrics,
	}
}

// Persist writes both aggregates. A nil hospital summary means hospital
// assembly failed upstream; its write is skipped entirely, not
// attempted and failed.
func (c *PersistenceCoordinator) Persist(ctx context.Context, clinical *entities.ClinicalSummary, hospital *entities.HospitalSummary) *PersistenceResult {
	result := &PersistenceResult{}

	var wg sync.WaitGroup

	if clinical != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			id, err := c.clinicalRepo.Upsert(ctx, clinical)
			observability.RecordPersistenceMetric(ctx, c.metrics, "clinical_summary", time.Since(start))
			result.Clinical = PersistenceOutcome{Attempted: true, RecordID: id, Err: err}
			if err != nil {
				log.Printf("Failed to persist clinical summary for hospitalization %s: %v", clinical.HospitalizationID, err)
			}
		}()
	}

	if hospital != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			id, err := c.hospitalRepo.Upsert(ctx, hospital)
			observability.RecordPersistenceMetric(ctx, c.metrics, "hospital_summary", time.Since(start))
			result.Hospital = PersistenceOutcome{Attempted: true, RecordID: id, Err: err}
			if err != nil {
				log.Printf("Failed to persist hospital summary for hospitalization %s: %v", hospital.HospitalizationID, err)
			}
		}()
	}

	wg.Wait()
	return result
}
