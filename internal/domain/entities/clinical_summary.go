package entities

import "time"

// PresentationData captures how and why the patient presented.
type PresentationData struct {
	Symptoms             []string `json:"symptoms"`
	SymptomSource        *string  `json:"symptom_source,omitempty"`
	PresentationMethod   *string  `json:"presentation_method,omitempty"`
	PresentationDetails  *string  `json:"presentation_details,omitempty"`
	PresentationTimeline *string  `json:"presentation_timeline,omitempty"`
	SeverityIndicators   []string `json:"severity_indicators"`
}

// MedicalCondition is a pre-existing condition or comorbidity with
// documentation provenance.
type MedicalCondition struct {
	ConditionName       string  `json:"condition_name"`
	ICD10Code           *string `json:"icd10_code,omitempty"`
	ICD10Source         *string `json:"icd10_source,omitempty"`
	Severity            *string `json:"severity,omitempty"`
	Status              string  `json:"status"`
	StatusRationale     string  `json:"status_rationale"`
	Location            *string `json:"location,omitempty"`
	Notes               *string `json:"notes,omitempty"`
	DocumentedInSection string  `json:"documented_in_section"`
}

// HistoryData lists the patient's relevant medical history.
type HistoryData struct {
	Conditions []MedicalCondition `json:"conditions"`
}

// VitalSignMeasurement is a single vital sign reading.
type VitalSignMeasurement struct {
	Measurement          string  `json:"measurement"`
	Value                string  `json:"value"`
	Unit                 *string `json:"unit,omitempty"`
	Status               *string `json:"status,omitempty"`
	ClinicalSignificance *string `json:"clinical_significance,omitempty"`
}

// PhysicalExamFinding is one exam finding for a body system.
type PhysicalExamFinding struct {
	System  string  `json:"system"`
	Finding string  `json:"finding"`
	Status  *string `json:"status,omitempty"`
}

// ImagingStudy summarizes one imaging study and its findings.
type ImagingStudy struct {
	Study      string   `json:"study"`
	Date       *string  `json:"date,omitempty"`
	Findings   []string `json:"findings"`
	Impression *string  `json:"impression,omitempty"`
}

// AnthropometricMeasurement is a height/weight/BMI style measurement.
type AnthropometricMeasurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Notes *string `json:"notes,omitempty"`
}

// AnthropometricData groups body measurements.
type AnthropometricData struct {
	Height *AnthropometricMeasurement `json:"height,omitempty"`
	Weight *AnthropometricMeasurement `json:"weight,omitempty"`
	BMI    *AnthropometricMeasurement `json:"bmi,omitempty"`
}

// FindingsData captures objective clinical findings.
type FindingsData struct {
	VitalSigns      []VitalSignMeasurement `json:"vital_signs"`
	PhysicalExam    []PhysicalExamFinding  `json:"physical_exam"`
	ImagingStudies  []ImagingStudy         `json:"imaging_studies"`
	Anthropometrics *AnthropometricData    `json:"anthropometrics,omitempty"`
}

// MedicationRelationship describes medications implicated in the presentation.
type MedicationRelationship struct {
	ImplicatedMedications []string `json:"implicated_medications"`
	Mechanism             *string  `json:"mechanism,omitempty"`
	MechanismEvidence     *string  `json:"mechanism_evidence,omitempty"`
	Confidence            string   `json:"confidence"`
	ConfidenceRationale   *string  `json:"confidence_rationale,omitempty"`
	TemporalRelationship  *string  `json:"temporal_relationship,omitempty"`
	AdditionalFactors     []string `json:"additional_factors"`
}

// CauseDetermination is the identified precipitating cause.
type CauseDetermination struct {
	Cause              string   `json:"cause"`
	SupportingEvidence []string `json:"supporting_evidence"`
	EvidenceSource     *string  `json:"evidence_source,omitempty"`
	Confidence         string   `json:"confidence"`
}

// AssessmentData captures the clinical assessment.
type AssessmentData struct {
	PrimaryAssessment      *string                 `json:"primary_assessment,omitempty"`
	CauseDetermination     *CauseDetermination     `json:"cause_determination,omitempty"`
	MedicationRelationship *MedicationRelationship `json:"medication_relationship,omitempty"`
	DifferentialDiagnoses  []string                `json:"differential_diagnoses"`
	ClinicalImpression     *string                 `json:"clinical_impression,omitempty"`
}

// CourseEvent is one entry in the hospital course timeline.
type CourseEvent struct {
	Event   string  `json:"event"`
	Time    *string `json:"time,omitempty"`
	Details *string `json:"details,omitempty"`
}

// CourseData is the chronological hospital course.
type CourseData struct {
	Timeline         []CourseEvent `json:"timeline"`
	NarrativeSummary *string       `json:"narrative_summary,omitempty"`
	Disposition      *string       `json:"disposition,omitempty"`
	LengthOfStay     *string       `json:"length_of_stay,omitempty"`
	PatientResponse  *string       `json:"patient_response,omitempty"`
	AdmissionDate    *string       `json:"admission_date,omitempty"`
	DischargeDate    *string       `json:"discharge_date,omitempty"`
	FollowUpPlans    []string      `json:"follow_up_plans"`
}

// FollowUpAppointment is a scheduled or recommended follow-up.
type FollowUpAppointment struct {
	Specialty string  `json:"specialty"`
	Urgency   string  `json:"urgency"`
	Timeframe *string `json:"timeframe,omitempty"`
	Provider  *string `json:"provider,omitempty"`
	Location  *string `json:"location,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// CareCoordination describes external services arranged at discharge.
type CareCoordination struct {
	Services        []string `json:"services"`
	ResponsibleTeam *string  `json:"responsible_team,omitempty"`
	Instructions    *string  `json:"instructions,omitempty"`
}

// FollowUpData is the discharge follow-up plan.
type FollowUpData struct {
	Appointments          []FollowUpAppointment `json:"appointments"`
	DischargeInstructions []string              `json:"discharge_instructions"`
	Recommendations       []string              `json:"recommendations"`
	PatientEducation      []string              `json:"patient_education"`
	CareTransitions       []string              `json:"care_transitions"`
	CareCoordination      *CareCoordination     `json:"care_coordination,omitempty"`
}

// Treatment is one treatment or procedure administered during the encounter.
type Treatment struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Indication *string `json:"indication,omitempty"`
	Dose       *string `json:"dose,omitempty"`
	Route      *string `json:"route,omitempty"`
	Frequency  *string `json:"frequency,omitempty"`
	Outcome    *string `json:"outcome,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// TreatmentsData lists treatments and procedures.
type TreatmentsData struct {
	TreatmentsProcedures []Treatment `json:"treatments_procedures"`
}

// LabStatus classifies a lab result against its reference range.
type LabStatus string

const (
	LabStatusCritical     LabStatus = "critical"
	LabStatusAbnormalHigh LabStatus = "abnormal_high"
	LabStatusAbnormalLow  LabStatus = "abnormal_low"
	LabStatusNormal       LabStatus = "normal"
)

// LabTest is one laboratory result.
type LabTest struct {
	ID                   string    `json:"id"`
	TestName             string    `json:"test_name"`
	TestCategory         *string   `json:"test_category,omitempty"`
	Value                string    `json:"value"`
	Unit                 *string   `json:"unit,omitempty"`
	Status               LabStatus `json:"status"`
	ReferenceRange       *string   `json:"reference_range,omitempty"`
	BaselineValue        *string   `json:"baseline_value,omitempty"`
	ClinicalSignificance *string   `json:"clinical_significance,omitempty"`
}

// LabSummary holds aggregate counts over the lab results.
type LabSummary struct {
	TotalTests    int `json:"total_tests"`
	CriticalCount int `json:"critical_count"`
	AbnormalCount int `json:"abnormal_count"`
	NormalCount   int `json:"normal_count"`
}

// LabsData groups lab results with their summary counts.
type LabsData struct {
	LabResults []LabTest  `json:"lab_results"`
	LabSummary LabSummary `json:"lab_summary"`
}

// Recount recomputes the summary counts from the lab results. Used when
// the extractor returned zero counts alongside non-empty results.
func (l *LabsData) Recount() LabSummary {
	summary := LabSummary{TotalTests: len(l.LabResults)}
	for _, lab := range l.LabResults {
		switch lab.Status {
		case LabStatusCritical:
			summary.CriticalCount++
		case LabStatusAbnormalHigh, LabStatusAbnormalLow:
			summary.AbnormalCount++
		}
	}
	summary.NormalCount = summary.TotalTests - summary.CriticalCount - summary.AbnormalCount
	return summary
}

// ClinicalSummary is the best-effort narrative composite over the 8
// clinical entity kinds. Every section key is always present; a section
// is nil when its extraction failed.
type ClinicalSummary struct {
	ID                  string            `json:"id" db:"id"`
	PatientID           string            `json:"patient_id" db:"patient_id"`
	HospitalizationID   string            `json:"hospitalization_id" db:"hospitalization_id"`
	PatientPresentation *PresentationData `json:"patient_presentation" db:"patient_presentation"`
	RelevantHistory     *HistoryData      `json:"relevant_history" db:"relevant_history"`
	ClinicalFindings    *FindingsData     `json:"clinical_findings" db:"clinical_findings"`
	ClinicalAssessment  *AssessmentData   `json:"clinical_assessment" db:"clinical_assessment"`
	HospitalCourse      *CourseData       `json:"hospital_course" db:"hospital_course"`
	FollowUpPlan        *FollowUpData     `json:"follow_up_plan" db:"follow_up_plan"`
	TreatmentsProcedures *TreatmentsData  `json:"treatments_procedures" db:"treatments_procedures"`
	LabResults          *LabsData         `json:"lab_results" db:"lab_results"`
	FailedSections      []string          `json:"failed_sections,omitempty" db:"failed_sections"`
	ParsedAt            time.Time         `json:"parsed_at" db:"parsed_at"`
	ParsingModelVersion string            `json:"parsing_model_version" db:"parsing_model_version"`
}
