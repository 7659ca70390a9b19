package entities

// EntityKind identifies one of the 11 categories of structured facts
// extracted from a clinical note.
type EntityKind string

const (
	// Clinical summary kinds
	EntityKindPresentation EntityKind = "presentation"
	EntityKindHistory      EntityKind = "history"
	EntityKindFindings     EntityKind = "findings"
	EntityKindAssessment   EntityKind = "assessment"
	EntityKindCourse       EntityKind = "course"
	EntityKindFollowUp     EntityKind = "follow_up"
	EntityKindTreatments   EntityKind = "treatments"
	EntityKindLabs         EntityKind = "labs"

	// Hospital admission summary kinds
	EntityKindFacilityTiming EntityKind = "facility_timing"
	EntityKindDiagnosis      EntityKind = "diagnosis"
	EntityKindMedicationRisk EntityKind = "medication_risk"
)

// AggregateGroup names the composite record an entity kind belongs to.
type AggregateGroup string

const (
	AggregateGroupClinical AggregateGroup = "clinical"
	AggregateGroupHospital AggregateGroup = "hospital"
)

// ClinicalEntityKinds returns the 8 kinds grouped into the clinical summary.
func ClinicalEntityKinds() []EntityKind {
	return []EntityKind{
		EntityKindPresentation,
		EntityKindHistory,
		EntityKindFindings,
		EntityKindAssessment,
		EntityKindCourse,
		EntityKindFollowUp,
		EntityKindTreatments,
		EntityKindLabs,
	}
}

// HospitalEntityKinds returns the 3 kinds grouped into the hospital summary.
func HospitalEntityKinds() []EntityKind {
	return []EntityKind{
		EntityKindFacilityTiming,
		EntityKindDiagnosis,
		EntityKindMedicationRisk,
	}
}

// AllEntityKinds returns every registered entity kind.
func AllEntityKinds() []EntityKind {
	return append(ClinicalEntityKinds(), HospitalEntityKinds()...)
}

// Group returns the aggregate group the kind belongs to.
func (k EntityKind) Group() AggregateGroup {
	switch k {
	case EntityKindFacilityTiming, EntityKindDiagnosis, EntityKindMedicationRisk:
		return AggregateGroupHospital
	default:
		return AggregateGroupClinical
	}
}

// OutcomeStatus classifies the result of one extractor invocation.
type OutcomeStatus string

const (
	OutcomeStatusSuccess  OutcomeStatus = "success"
	OutcomeStatusFailed   OutcomeStatus = "failed"
	OutcomeStatusTimedOut OutcomeStatus = "timed_out"
)

// EntityOutcome is the result of one extractor run. Payload is the
// kind-specific structured record and is non-nil exactly when Status is
// success.
type EntityOutcome struct {
	Kind    EntityKind    `json:"kind"`
	Status  OutcomeStatus `json:"status"`
	Payload any           `json:"payload,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Succeeded reports whether the extractor produced a usable payload.
func (o *EntityOutcome) Succeeded() bool {
	return o != nil && o.Status == OutcomeStatusSuccess && o.Payload != nil
}

// SuccessOutcome builds a successful outcome for kind.
func SuccessOutcome(kind EntityKind, payload any) *EntityOutcome {
	return &EntityOutcome{Kind: kind, Status: OutcomeStatusSuccess, Payload: payload}
}

// FailedOutcome builds a failed outcome for kind.
func FailedOutcome(kind EntityKind, err error) *EntityOutcome {
	outcome := &EntityOutcome{Kind: kind, Status: OutcomeStatusFailed}
	if err != nil {
		outcome.Error = err.Error()
	}
	return outcome
}

// TimedOutOutcome builds a timed-out outcome for kind.
func TimedOutOutcome(kind EntityKind, err error) *EntityOutcome {
	outcome := &EntityOutcome{Kind: kind, Status: OutcomeStatusTimedOut}
	if err != nil {
		outcome.Error = err.Error()
	}
	return outcome
}
