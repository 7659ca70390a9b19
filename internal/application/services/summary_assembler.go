package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/errors"
)

// SummaryAssembler folds per-kind outcomes into the two persisted
// aggregates. The clinical summary degrades section by section; the
// hospital summary is all or nothing.
type SummaryAssembler struct {
	modelVersion string
}

// NewSummaryAssembler creates an assembler that stamps summaries with
// the extraction model version.
func NewSummaryAssembler(modelVersion string) *SummaryAssembler {
	return &SummaryAssembler{modelVersion: modelVersion}
}

// AssembleClinical builds the clinical summary from the clinical
// outcomes. Failed sections become nil fields and are listed in
// FailedSections; the summary itself always assembles, even when every
// section failed.
func (a *SummaryAssembler) AssembleClinical(hospitalizationID, patientID string, outcomes map[entities.EntityKind]*entities.EntityOutcome) *entities.ClinicalSummary {
	summary := &entities.ClinicalSummary{
		PatientID:           patientID,
		HospitalizationID:   hospitalizationID,
		ParsedAt:            time.Now().UTC(),
		ParsingModelVersion: a.modelVersion,
	}

	for _, kind := range entities.ClinicalEntityKinds() {
		outcome, ok := outcomes[kind]
		if !ok || !outcome.Succeeded() {
			summary.FailedSections = append(summary.FailedSections, string(kind))
			continue
		}
		if err := a.assignClinicalSection(summary, kind, outcome.Payload); err != nil {
			summary.FailedSections = append(summary.FailedSections, string(kind))
		}
	}

	return summary
}

func (a *SummaryAssembler) assignClinicalSection(summary *entities.ClinicalSummary, kind entities.EntityKind, payload any) error {
	switch kind {
	case entities.EntityKindPresentation:
		data, ok := payload.(*entities.PresentationData)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", payload, kind)
		}
		summary.PatientPresentation = data
	case entities.EntityKindHistory:
		data, ok := payload.(*entities.HistoryData)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", payload, kind)
		}
		summary.RelevantHistory = data
	case entities.EntityKindFindings:
		data, ok := payload.(*entities.FindingsData)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", payload, kind)
		}
		summary.ClinicalFindings = data
	case entities.EntityKindAssessment:
		data, ok := payload.(*entities.AssessmentData)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", payload, kind)
		}
		summary.ClinicalAssessment = data
	case entities.EntityKindCourse:
		data, ok := payload.(*entities.CourseData)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", payload, kind)
		}
		summary.HospitalCourse = data
	case entities.EntityKindFollowUp:
		data, ok := payload.(*entities.FollowUpData)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", payload, kind)
		}
		summary.FollowUpPlan = data
	case entities.EntityKindTreatments:
		data, ok := payload.(*entities.TreatmentsData)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", payload, kind)
		}
		summary.TreatmentsProcedures = data
	case entities.EntityKindLabs:
		data, ok := payload.(*entities.LabsData)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", payload, kind)
		}
		if len(data.LabResults) > 0 && data.LabSummary.TotalTests != len(data.LabResults) {
			data.LabSummary = data.Recount()
		}
		summary.LabResults = data
	default:
		return fmt.Errorf("%s is not a clinical section", kind)
	}
	return nil
}

// AssembleHospital builds the hospital summary from the hospital
// outcomes. Any failed or missing section, and any malformed admission
// or discharge date, fails the whole aggregate.
func (a *SummaryAssembler) AssembleHospital(hospitalizationID, patientID string, outcomes map[entities.EntityKind]*entities.EntityOutcome) (*entities.HospitalSummary, error) {
	var failed []string
	for _, kind := range entities.HospitalEntityKinds() {
		outcome, ok := outcomes[kind]
		if !ok || !outcome.Succeeded() {
			failed = append(failed, string(kind))
		}
	}
	if len(failed) > 0 {
		return nil, apperrors.NewAssemblyError(
			fmt.Sprintf("hospital summary requires all sections; failed: %s", strings.Join(failed, ", ")))
	}

	facilityTiming, ok := outcomes[entities.EntityKindFacilityTiming].Payload.(*entities.FacilityTimingData)
	if !ok {
		return nil, apperrors.NewAssemblyError("facility_timing payload has unexpected type")
	}
	diagnosis, ok := outcomes[entities.EntityKindDiagnosis].Payload.(*entities.DiagnosisData)
	if !ok {
		return nil, apperrors.NewAssemblyError("diagnosis payload has unexpected type")
	}
	risk, ok := outcomes[entities.EntityKindMedicationRisk].Payload.(*entities.RiskAssessment)
	if !ok {
		return nil, apperrors.NewAssemblyError("medication_risk payload has unexpected type")
	}

	lengthOfStay, err := facilityTiming.Timing.LengthOfStayDays()
	if err != nil {
		return nil, apperrors.NewAssemblyError(
			fmt.Sprintf("cannot derive length of stay: %v", err))
	}

	if risk.AssessedAt == "" {
		risk.AssessedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if risk.AssessmentMethod == "" {
		risk.AssessmentMethod = entities.AssessmentMethodAIAnalysis
	}

	return &entities.HospitalSummary{
		PatientID:                patientID,
		HospitalizationID:        hospitalizationID,
		Facility:                 facilityTiming.Facility,
		Timing:                   facilityTiming.Timing,
		Diagnosis:                *diagnosis,
		MedicationRiskAssessment: *risk,
		LengthOfStayDays:         lengthOfStay,
		CreatedAt:                time.Now().UTC(),
	}, nil
}
