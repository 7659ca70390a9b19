package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
)

// fakeExtractor scripts one extractor's behavior for a test.
type fakeExtractor struct {
	kind    entities.EntityKind
	payload any
	err     error
	delay   time.Duration
	panics  bool
}

func (f *fakeExtractor) Kind() entities.EntityKind { return f.kind }

func (f *fakeExtractor) Extract(ctx context.Context, doc *entities.Document) (any, error) {
	if f.panics {
		panic("scripted panic")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

// healthySet builds a full extractor set where every kind succeeds,
// then applies overrides.
func healthySet(overrides ...*fakeExtractor) providers.ExtractorSet {
	set := make(providers.ExtractorSet)
	for _, kind := range entities.AllEntityKinds() {
		set[kind] = &fakeExtractor{kind: kind, payload: samplePayload(kind)}
	}
	for _, override := range overrides {
		set[override.kind] = override
	}
	return set
}

func samplePayload(kind entities.EntityKind) any {
	switch kind {
	case entities.EntityKindPresentation:
		return &entities.PresentationData{Symptoms: []string{"chest pain"}}
	case entities.EntityKindHistory:
		return &entities.HistoryData{}
	case entities.EntityKindFindings:
		return &entities.FindingsData{}
	case entities.EntityKindAssessment:
		return &entities.AssessmentData{}
	case entities.EntityKindCourse:
		return &entities.CourseData{}
	case entities.EntityKindFollowUp:
		return &entities.FollowUpData{}
	case entities.EntityKindTreatments:
		return &entities.TreatmentsData{}
	case entities.EntityKindLabs:
		labs := &entities.LabsData{LabResults: []entities.LabTest{
			{ID: "lab_001", TestName: "Creatinine", Value: "2.4", Status: entities.LabStatusAbnormalHigh},
		}}
		labs.LabSummary = labs.Recount()
		return labs
	case entities.EntityKindFacilityTiming:
		return &entities.FacilityTimingData{
			Facility: entities.FacilityData{FacilityName: "General Hospital", FacilityType: entities.FacilityTypeAcuteCare},
			Timing:   entities.TimingData{AdmissionDate: "2025-01-01", DischargeDate: "2025-01-05"},
		}
	case entities.EntityKindDiagnosis:
		return &entities.DiagnosisData{PrimaryDiagnosis: "Digoxin toxicity", DiagnosisCategory: "cardiovascular"}
	case entities.EntityKindMedicationRisk:
		return &entities.RiskAssessment{RiskLevel: entities.RiskLevelHigh, AssessedAt: "2025-01-05T11:00:00Z"}
	}
	return nil
}

func newTestOrchestrator(t *testing.T, set providers.ExtractorSet, timeout time.Duration) *ExtractionOrchestrator {
	t.Helper()
	registry, err := NewExtractionRegistry(set)
	require.NoError(t, err)
	return NewExtractionOrchestrator(registry, timeout, nil)
}

func TestExtractAll_AllSucceed(t *testing.T) {
	orchestrator := newTestOrchestrator(t, healthySet(), time.Second)

	outcomes := orchestrator.ExtractAll(context.Background(), &entities.Document{Text: "note"})

	require.Len(t, outcomes, len(entities.AllEntityKinds()))
	for kind, outcome := range outcomes {
		assert.Equal(t, entities.OutcomeStatusSuccess, outcome.Status, "kind %s", kind)
		assert.NotNil(t, outcome.Payload, "kind %s", kind)
	}
}

func TestExtractAll_OneFailureDoesNotPoisonOthers(t *testing.T) {
	orchestrator := newTestOrchestrator(t, healthySet(
		&fakeExtractor{kind: entities.EntityKindLabs, err: errors.New("model refused")},
	), time.Second)

	outcomes := orchestrator.ExtractAll(context.Background(), &entities.Document{Text: "note"})

	require.Len(t, outcomes, len(entities.AllEntityKinds()))
	assert.Equal(t, entities.OutcomeStatusFailed, outcomes[entities.EntityKindLabs].Status)
	assert.Nil(t, outcomes[entities.EntityKindLabs].Payload)
	assert.NotEmpty(t, outcomes[entities.EntityKindLabs].Error)

	for _, kind := range entities.AllEntityKinds() {
		if kind == entities.EntityKindLabs {
			continue
		}
		assert.Equal(t, entities.OutcomeStatusSuccess, outcomes[kind].Status, "kind %s", kind)
	}
}

func TestExtractAll_SlowExtractorTimesOut(t *testing.T) {
	orchestrator := newTestOrchestrator(t, healthySet(
		&fakeExtractor{kind: entities.EntityKindDiagnosis, delay: 500 * time.Millisecond, payload: samplePayload(entities.EntityKindDiagnosis)},
	), 50*time.Millisecond)

	start := time.Now()
	outcomes := orchestrator.ExtractAll(context.Background(), &entities.Document{Text: "note"})
	elapsed := time.Since(start)

	assert.Equal(t, entities.OutcomeStatusTimedOut, outcomes[entities.EntityKindDiagnosis].Status)
	assert.Less(t, elapsed, 400*time.Millisecond, "timeout should cut the slow extractor short")

	// The slow extractor must not drag down the healthy ones.
	assert.Equal(t, entities.OutcomeStatusSuccess, outcomes[entities.EntityKindPresentation].Status)
}

func TestExtractAll_PanicBecomesFailedOutcome(t *testing.T) {
	orchestrator := newTestOrchestrator(t, healthySet(
		&fakeExtractor{kind: entities.EntityKindHistory, panics: true},
	), time.Second)

	outcomes := orchestrator.ExtractAll(context.Background(), &entities.Document{Text: "note"})

	require.Len(t, outcomes, len(entities.AllEntityKinds()))
	assert.Equal(t, entities.OutcomeStatusFailed, outcomes[entities.EntityKindHistory].Status)
	assert.Contains(t, outcomes[entities.EntityKindHistory].Error, "panicked")
}

func TestExtractAll_EmptyDocumentStillDispatched(t *testing.T) {
	orchestrator := newTestOrchestrator(t, healthySet(), time.Second)

	outcomes := orchestrator.ExtractAll(context.Background(), &entities.Document{Text: ""})

	require.Len(t, outcomes, len(entities.AllEntityKinds()))
}

func TestExtractAll_NilPayloadIsFailure(t *testing.T) {
	orchestrator := newTestOrchestrator(t, healthySet(
		&fakeExtractor{kind: entities.EntityKindCourse, payload: nil},
	), time.Second)

	outcomes := orchestrator.ExtractAll(context.Background(), &entities.Document{Text: "note"})

	assert.Equal(t, entities.OutcomeStatusFailed, outcomes[entities.EntityKindCourse].Status)
}

func TestNewExtractionRegistry_MissingKind(t *testing.T) {
	set := healthySet()
	delete(set, entities.EntityKindDiagnosis)

	_, err := NewExtractionRegistry(set)
	assert.Error(t, err)
}

func TestNewExtractionRegistry_MismatchedKind(t *testing.T) {
	set := healthySet()
	set[entities.EntityKindDiagnosis] = &fakeExtractor{kind: entities.EntityKindLabs}

	_, err := NewExtractionRegistry(set)
	assert.Error(t, err)
}
