package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/observability"
)

// ExtractionRequest is one document submitted for extraction.
type ExtractionRequest struct {
	PatientID         string `json:"patient_id"`
	HospitalizationID string `json:"hospitalization_id,omitempty"`
	Text              string `json:"text"`
}

// ExtractionResult is everything one run produced.
type ExtractionResult struct {
	HospitalizationID   string
	PatientID           string
	Outcomes            map[entities.EntityKind]*entities.EntityOutcome
	Clinical            *entities.ClinicalSummary
	Hospital            *entities.HospitalSummary
	HospitalAssemblyErr error
	Persistence         *PersistenceResult
}

// Complete reports whether every extractor succeeded and both
// aggregates were written.
func (r *ExtractionResult) Complete() bool {
	for _, outcome := range r.Outcomes {
		if !outcome.Succeeded() {
			return false
		}
	}
	if r.HospitalAssemblyErr != nil {
		return false
	}
	if r.Persistence == nil {
		return false
	}
	if r.Persistence.Clinical.Err != nil || r.Persistence.Hospital.Err != nil {
		return false
	}
	return true
}

// ExtractionService runs the full pipeline for one document: allocate
// the correlation id, fan out the extractors, assemble both aggregates,
// persist them, then publish events and refresh the search index best
// effort.
type ExtractionService struct {
	orchestrator *ExtractionOrchestrator
	assembler    *SummaryAssembler
	coordinator  *PersistenceCoordinator
	eventBus     providers.EventBus
	searchRepo   repositories.SummarySearchRepository
}

// NewExtractionService creates the pipeline facade. eventBus and
// searchRepo are optional; a nil value disables that side effect.
func NewExtractionService(
	orchestrator *ExtractionOrchestrator,
	assembler *SummaryAssembler,
	coordinator *PersistenceCoordinator,
	eventBus providers.EventBus,
	searchRepo repositories.SummarySearchRepository,
) *ExtractionService {
	return &ExtractionService{
		orchestrator: orchestrator,
		assembler:    assembler,
		coordinator:  coordinator,
		eventBus:     eventBus,
		searchRepo:   searchRepo,
	}
}

// Process runs the pipeline for one document.
func (s *ExtractionService) Process(ctx context.Context, req *ExtractionRequest) (*ExtractionResult, error) {
	doc := &entities.Document{
		PatientID:         req.PatientID,
		HospitalizationID: req.HospitalizationID,
		Text:              req.Text,
	}

	hospitalizationID := AllocateCorrelationID(doc)
	patientID := doc.ResolvePatientID()

	outcomes := s.orchestrator.ExtractAll(ctx, doc)

	s.publishEvent(ctx, entities.EventTypeExtractionCompleted, hospitalizationID, patientID, "")

	clinical := s.assembler.AssembleClinical(hospitalizationID, patientID, outcomes)
	hospital, hospitalErr := s.assembler.AssembleHospital(hospitalizationID, patientID, outcomes)
	if hospitalErr != nil {
		log.Printf("Hospital summary assembly failed for hospitalization %s: %v", hospitalizationID, hospitalErr)
	}

	persistence := s.coordinator.Persist(ctx, clinical, hospital)

	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			succeeded++
		}
	}
	observability.LoggerFromContext(ctx).Info().
		Str("hospitalization_id", hospitalizationID).
		Str("patient_id", patientID).
		Int("extractors_succeeded", succeeded).
		Int("extractors_total", len(outcomes)).
		Bool("hospital_assembled", hospitalErr == nil).
		Msg("extraction pipeline finished")

	if persistence.Clinical.Attempted && persistence.Clinical.Err == nil {
		s.publishEvent(ctx, entities.EventTypeSummaryPersisted, hospitalizationID, patientID, entities.AggregateGroupClinical)
	}
	if persistence.Hospital.Attempted && persistence.Hospital.Err == nil {
		s.publishEvent(ctx, entities.EventTypeSummaryPersisted, hospitalizationID, patientID, entities.AggregateGroupHospital)
		s.indexHospitalSummary(ctx, hospital)
	}

	return &ExtractionResult{
		HospitalizationID:   hospitalizationID,
		PatientID:           patientID,
		Outcomes:            outcomes,
		Clinical:            clinical,
		Hospital:            hospital,
		HospitalAssemblyErr: hospitalErr,
		Persistence:         persistence,
	}, nil
}

func (s *ExtractionService) publishEvent(ctx context.Context, eventType entities.ExtractionEventType, hospitalizationID, patientID string, aggregate entities.AggregateGroup) {
	if s.eventBus == nil {
		return
	}
	event := &entities.ExtractionEvent{
		ID:                uuid.New().String(),
		Type:              eventType,
		HospitalizationID: hospitalizationID,
		PatientID:         patientID,
		Aggregate:         aggregate,
		Timestamp:         time.Now().UTC(),
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelExtractions, event); err != nil {
		log.Printf("Failed to publish %s event for hospitalization %s: %v", eventType, hospitalizationID, err)
	}
	if patientID != "" {
		if err := s.eventBus.Publish(ctx, providers.GetPatientChannel(patientID), event); err != nil {
			log.Printf("Failed to publish %s event to patient channel: %v", eventType, err)
		}
	}
}

func (s *ExtractionService) indexHospitalSummary(ctx context.Context, hospital *entities.HospitalSummary) {
	if s.searchRepo == nil || hospital == nil {
		return
	}
	if err := s.searchRepo.IndexSummary(ctx, entities.NewSummarySearchDocument(hospital)); err != nil {
		log.Printf("Failed to index hospital summary %s: %v", hospital.HospitalizationID, err)
	}
}
