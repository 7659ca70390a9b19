package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/errors"
)

// healthyOutcomes builds a full set of successful outcomes.
func healthyOutcomes() map[entities.EntityKind]*entities.EntityOutcome {
	outcomes := make(map[entities.EntityKind]*entities.EntityOutcome)
	for _, kind := range entities.AllEntityKinds() {
		outcomes[kind] = entities.SuccessOutcome(kind, samplePayload(kind))
	}
	return outcomes
}

func TestAssembleClinical_AllSectionsPresent(t *testing.T) {
	assembler := NewSummaryAssembler("gpt-4o-mini")

	summary := assembler.AssembleClinical("hosp-1", "patient-1", healthyOutcomes())

	assert.Equal(t, "hosp-1", summary.HospitalizationID)
	assert.Equal(t, "patient-1", summary.PatientID)
	assert.Equal(t, "gpt-4o-mini", summary.ParsingModelVersion)
	assert.Empty(t, summary.FailedSections)
	assert.NotNil(t, summary.PatientPresentation)
	assert.NotNil(t, summary.RelevantHistory)
	assert.NotNil(t, summary.ClinicalFindings)
	assert.NotNil(t, summary.ClinicalAssessment)
	assert.NotNil(t, summary.HospitalCourse)
	assert.NotNil(t, summary.FollowUpPlan)
	assert.NotNil(t, summary.TreatmentsProcedures)
	assert.NotNil(t, summary.LabResults)
	assert.False(t, summary.ParsedAt.IsZero())
}

func TestAssembleClinical_FailedSectionDegradesToNil(t *testing.T) {
	assembler := NewSummaryAssembler("gpt-4o-mini")
	outcomes := healthyOutcomes()
	outcomes[entities.EntityKindLabs] = entities.FailedOutcome(entities.EntityKindLabs, assert.AnError)
	outcomes[entities.EntityKindHistory] = entities.TimedOutOutcome(entities.EntityKindHistory, nil)

	summary := assembler.AssembleClinical("hosp-1", "patient-1", outcomes)

	assert.Nil(t, summary.LabResults)
	assert.Nil(t, summary.RelevantHistory)
	assert.NotNil(t, summary.PatientPresentation)
	assert.ElementsMatch(t, []string{"labs", "history"}, summary.FailedSections)
}

func TestAssembleClinical_AllSectionsFailedStillAssembles(t *testing.T) {
	assembler := NewSummaryAssembler("gpt-4o-mini")
	outcomes := make(map[entities.EntityKind]*entities.EntityOutcome)
	for _, kind := range entities.AllEntityKinds() {
		outcomes[kind] = entities.FailedOutcome(kind, assert.AnError)
	}

	summary := assembler.AssembleClinical("hosp-1", "patient-1", outcomes)

	require.NotNil(t, summary)
	assert.Len(t, summary.FailedSections, len(entities.ClinicalEntityKinds()))
	assert.Nil(t, summary.PatientPresentation)
}

func TestAssembleClinical_LabCountMismatchRecounted(t *testing.T) {
	assembler := NewSummaryAssembler("gpt-4o-mini")
	outcomes := healthyOutcomes()
	labs := &entities.LabsData{
		LabResults: []entities.LabTest{
			{ID: "lab_001", TestName: "Troponin", Value: "0.9", Status: entities.LabStatusCritical},
			{ID: "lab_002", TestName: "Sodium", Value: "139", Status: entities.LabStatusNormal},
		},
		LabSummary: entities.LabSummary{TotalTests: 7},
	}
	outcomes[entities.EntityKindLabs] = entities.SuccessOutcome(entities.EntityKindLabs, labs)

	summary := assembler.AssembleClinical("hosp-1", "patient-1", outcomes)

	require.NotNil(t, summary.LabResults)
	assert.Equal(t, 2, summary.LabResults.LabSummary.TotalTests)
	assert.Equal(t, 1, summary.LabResults.LabSummary.CriticalCount)
	assert.Equal(t, 1, summary.LabResults.LabSummary.NormalCount)
}

func TestAssembleHospital_AllSectionsPresent(t *testing.T) {
	assembler := NewSummaryAssembler("gpt-4o-mini")

	summary, err := assembler.AssembleHospital("hosp-1", "patient-1", healthyOutcomes())
	require.NoError(t, err)

	assert.Equal(t, "hosp-1", summary.HospitalizationID)
	assert.Equal(t, "General Hospital", summary.Facility.FacilityName)
	assert.Equal(t, 4, summary.LengthOfStayDays)
	assert.Equal(t, entities.RiskLevelHigh, summary.MedicationRiskAssessment.RiskLevel)
	assert.False(t, summary.CreatedAt.IsZero())
}

func TestAssembleHospital_AnyFailedSectionFailsWhole(t *testing.T) {
	assembler := NewSummaryAssembler("gpt-4o-mini")
	outcomes := healthyOutcomes()
	outcomes[entities.EntityKindMedicationRisk] = entities.FailedOutcome(entities.EntityKindMedicationRisk, assert.AnError)

	summary, err := assembler.AssembleHospital("hosp-1", "patient-1", outcomes)

	assert.Nil(t, summary)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeAssembly))
	assert.Contains(t, err.Error(), "medication_risk")
}

func TestAssembleHospital_MalformedDatesFailAssembly(t *testing.T) {
	assembler := NewSummaryAssembler("gpt-4o-mini")
	outcomes := healthyOutcomes()
	outcomes[entities.EntityKindFacilityTiming] = entities.SuccessOutcome(entities.EntityKindFacilityTiming, &entities.FacilityTimingData{
		Facility: entities.FacilityData{FacilityName: "General Hospital", FacilityType: entities.FacilityTypeAcuteCare},
		Timing:   entities.TimingData{AdmissionDate: "January 1st", DischargeDate: "2025-01-05"},
	})

	summary, err := assembler.AssembleHospital("hosp-1", "patient-1", outcomes)

	assert.Nil(t, summary)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeAssembly))
}

func TestAssembleHospital_DischargeBeforeAdmissionClampsToZero(t *testing.T) {
	assembler := NewSummaryAssembler("gpt-4o-mini")
	outcomes := healthyOutcomes()
	outcomes[entities.EntityKindFacilityTiming] = entities.SuccessOutcome(entities.EntityKindFacilityTiming, &entities.FacilityTimingData{
		Facility: entities.FacilityData{FacilityName: "General Hospital", FacilityType: entities.FacilityTypeAcuteCare},
		Timing:   entities.TimingData{AdmissionDate: "2025-01-05", DischargeDate: "2025-01-01"},
	})

	summary, err := assembler.AssembleHospital("hosp-1", "patient-1", outcomes)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.LengthOfStayDays)
}

func TestAssembleHospital_DefaultsAssessedAt(t *testing.T) {
	assembler := NewSummaryAssembler("gpt-4o-mini")
	outcomes := healthyOutcomes()
	outcomes[entities.EntityKindMedicationRisk] = entities.SuccessOutcome(entities.EntityKindMedicationRisk, &entities.RiskAssessment{
		RiskLevel: entities.RiskLevelLow,
	})

	summary, err := assembler.AssembleHospital("hosp-1", "patient-1", outcomes)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.MedicationRiskAssessment.AssessedAt)
	assert.Equal(t, entities.AssessmentMethodAIAnalysis, summary.MedicationRiskAssessment.AssessmentMethod)
}
