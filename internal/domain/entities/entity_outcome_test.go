package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityKindGroups(t *testing.T) {
	assert.Len(t, ClinicalEntityKinds(), 8)
	assert.Len(t, HospitalEntityKinds(), 3)
	assert.Len(t, AllEntityKinds(), 11)

	for _, kind := range ClinicalEntityKinds() {
		assert.Equal(t, AggregateGroupClinical, kind.Group(), "kind %s", kind)
	}
	for _, kind := range HospitalEntityKinds() {
		assert.Equal(t, AggregateGroupHospital, kind.Group(), "kind %s", kind)
	}
}

func TestEntityOutcome_PayloadPresentIffSuccess(t *testing.T) {
	success := SuccessOutcome(EntityKindDiagnosis, &DiagnosisData{PrimaryDiagnosis: "Acute kidney injury"})
	assert.True(t, success.Succeeded())
	assert.NotNil(t, success.Payload)

	failed := FailedOutcome(EntityKindDiagnosis, errors.New("model refused"))
	assert.False(t, failed.Succeeded())
	assert.Nil(t, failed.Payload)
	assert.Equal(t, "model refused", failed.Error)

	timedOut := TimedOutOutcome(EntityKindLabs, errors.New("context deadline exceeded"))
	assert.Equal(t, OutcomeStatusTimedOut, timedOut.Status)
	assert.False(t, timedOut.Succeeded())
}

func TestDocument_ResolveIdentifiers(t *testing.T) {
	doc := &Document{Text: "Patient ID: P-027\nDOC_ID:8f14e45f-ea2a-4c3b-9d6e-1a2b3c4d5e6f\n..."}
	assert.Equal(t, "P-027", doc.ResolvePatientID())
	assert.Equal(t, "8f14e45f-ea2a-4c3b-9d6e-1a2b3c4d5e6f", doc.EmbeddedHospitalizationID())

	doc = &Document{PatientID: "explicit", Text: "Patient ID: P-027"}
	assert.Equal(t, "explicit", doc.ResolvePatientID())

	doc = &Document{Text: "MRN: 123456\nEncounter ID: ENC-9"}
	assert.Equal(t, "123456", doc.ResolvePatientID())
	assert.Equal(t, "ENC-9", doc.EmbeddedHospitalizationID())

	doc = &Document{Text: "no identifiers here"}
	assert.Empty(t, doc.ResolvePatientID())
	assert.Empty(t, doc.EmbeddedHospitalizationID())
}
