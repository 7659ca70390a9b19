package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
)

// fakeClinicalRepo scripts the clinical summary repository.
type fakeClinicalRepo struct {
	upsertErr error
	delay     time.Duration
	calls     int64
	last      *entities.ClinicalSummary
}

func (r *fakeClinicalRepo) Upsert(ctx context.Context, summary *entities.ClinicalSummary) (string, error) {
	atomic.AddInt64(&r.calls, 1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.last = summary
	if r.upsertErr != nil {
		return "", r.upsertErr
	}
	return "clinical-row-1", nil
}

func (r *fakeClinicalRepo) GetByHospitalizationID(ctx context.Context, hospitalizationID string) (*entities.ClinicalSummary, error) {
	return r.last, nil
}

func (r *fakeClinicalRepo) List(ctx context.Context, limit, offset int) ([]*entities.ClinicalSummary, error) {
	return nil, nil
}

// fakeHospitalRepo scripts the hospital summary repository.
type fakeHospitalRepo struct {
	upsertErr error
	calls     int64
	last      *entities.HospitalSummary
}

func (r *fakeHospitalRepo) Upsert(ctx context.Context, summary *entities.HospitalSummary) (string, error) {
	atomic.AddInt64(&r.calls, 1)
	r.last = summary
	if r.upsertErr != nil {
		return "", r.upsertErr
	}
	return "hospital-row-1", nil
}

func (r *fakeHospitalRepo) GetByHospitalizationID(ctx context.Context, hospitalizationID string) (*entities.HospitalSummary, error) {
	return r.last, nil
}

func (r *fakeHospitalRepo) List(ctx context.Context, limit, offset int) ([]*entities.HospitalSummary, error) {
	return nil, nil
}

func TestPersist_BothAggregatesWritten(t *testing.T) {
	clinicalRepo := &fakeClinicalRepo{}
	hospitalRepo := &fakeHospitalRepo{}
	coordinator := NewPersistenceCoordinator(clinicalRepo, hospitalRepo, nil)

	result := coordinator.Persist(context.Background(),
		&entities.ClinicalSummary{HospitalizationID: "hosp-1"},
		&entities.HospitalSummary{HospitalizationID: "hosp-1"},
	)

	assert.True(t, result.Clinical.Attempted)
	assert.NoError(t, result.Clinical.Err)
	assert.Equal(t, "clinical-row-1", result.Clinical.RecordID)

	assert.True(t, result.Hospital.Attempted)
	assert.NoError(t, result.Hospital.Err)
	assert.Equal(t, "hospital-row-1", result.Hospital.RecordID)
}

func TestPersist_ClinicalFailureDoesNotBlockHospital(t *testing.T) {
	clinicalRepo := &fakeClinicalRepo{upsertErr: errors.New("connection reset")}
	hospitalRepo := &fakeHospitalRepo{}
	coordinator := NewPersistenceCoordinator(clinicalRepo, hospitalRepo, nil)

	result := coordinator.Persist(context.Background(),
		&entities.ClinicalSummary{HospitalizationID: "hosp-1"},
		&entities.HospitalSummary{HospitalizationID: "hosp-1"},
	)

	assert.True(t, result.Clinical.Attempted)
	assert.Error(t, result.Clinical.Err)

	assert.True(t, result.Hospital.Attempted)
	assert.NoError(t, result.Hospital.Err)
	assert.EqualValues(t, 1, atomic.LoadInt64(&hospitalRepo.calls))
}

func TestPersist_NilHospitalSkipsWriteEntirely(t *testing.T) {
	clinicalRepo := &fakeClinicalRepo{}
	hospitalRepo := &fakeHospitalRepo{}
	coordinator := NewPersistenceCoordinator(clinicalRepo, hospitalRepo, nil)

	result := coordinator.Persist(context.Background(),
		&entities.ClinicalSummary{HospitalizationID: "hosp-1"},
		nil,
	)

	assert.True(t, result.Clinical.Attempted)
	assert.False(t, result.Hospital.Attempted)
	assert.NoError(t, result.Hospital.Err)
	assert.EqualValues(t, 0, atomic.LoadInt64(&hospitalRepo.calls))
}

func TestPersist_WritesRunConcurrently(t *testing.T) {
	clinicalRepo := &fakeClinicalRepo{delay: 100 * time.Millisecond}
	hospitalRepo := &fakeHospitalRepo{}
	coordinator := NewPersistenceCoordinator(clinicalRepo, hospitalRepo, nil)

	start := time.Now()
	result := coordinator.Persist(context.Background(),
		&entities.ClinicalSummary{HospitalizationID: "hosp-1"},
		&entities.HospitalSummary{HospitalizationID: "hosp-1"},
	)
	elapsed := time.Since(start)

	require.True(t, result.Clinical.Attempted)
	require.True(t, result.Hospital.Attempted)
	// Serial execution would take the sum of both writes.
	assert.Less(t, elapsed, 190*time.Millisecond)
}
