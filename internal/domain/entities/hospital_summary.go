package entities

import (
	"fmt"
	"time"
)

// FacilityType classifies the care facility.
type FacilityType string

const (
	FacilityTypeAcuteCare      FacilityType = "acute_care"
	FacilityTypePsychiatric    FacilityType = "psychiatric"
	FacilityTypeRehabilitation FacilityType = "rehabilitation"
	FacilityTypeLTAC           FacilityType = "ltac"
)

// Address is the facility's physical address.
type Address struct {
	Street *string `json:"street,omitempty"`
	City   string  `json:"city"`
	State  string  `json:"state"`
	Zip    *string `json:"zip,omitempty"`
}

// FacilityData identifies the facility where care was provided.
type FacilityData struct {
	FacilityName string       `json:"facility_name"`
	FacilityID   *string      `json:"facility_id,omitempty"`
	FacilityType FacilityType `json:"facility_type"`
	Address      *Address     `json:"address,omitempty"`
}

// AdmissionSource describes how the patient arrived.
type AdmissionSource string

const (
	AdmissionSourceEmergencyDept   AdmissionSource = "emergency_dept"
	AdmissionSourceDirectAdmission AdmissionSource = "direct_admission"
	AdmissionSourceTransfer        AdmissionSource = "transfer"
	AdmissionSourceScheduled       AdmissionSource = "scheduled"
)

// DischargeDisposition describes where the patient went after discharge.
type DischargeDisposition string

const (
	DischargeDispositionHome       DischargeDisposition = "home"
	DischargeDispositionSNF        DischargeDisposition = "snf"
	DischargeDispositionHomeHealth DischargeDisposition = "home_health"
	DischargeDispositionRehab      DischargeDisposition = "rehab"
	DischargeDispositionTransfer   DischargeDisposition = "transfer"
	DischargeDispositionExpired    DischargeDisposition = "expired"
)

// TimingData holds admission and discharge timing.
type TimingData struct {
	AdmissionDate        string                `json:"admission_date"`
	AdmissionTime        *string               `json:"admission_time,omitempty"`
	DischargeDate        string                `json:"discharge_date"`
	DischargeTime        *string               `json:"discharge_time,omitempty"`
	AdmissionSource      *AdmissionSource      `json:"admission_source,omitempty"`
	DischargeDisposition *DischargeDisposition `json:"discharge_disposition,omitempty"`
}

// timingDateLayouts are tried in order when parsing admission and
// discharge dates. Notes carry either full ISO timestamps or bare dates.
var timingDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimingDate(value string) (time.Time, error) {
	for _, layout := range timingDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// LengthOfStayDays computes the day difference between discharge and
// admission. The value is recomputed here, never taken from the
// extractor. Spans that come out negative clamp to zero; unparseable
// dates are an error so the caller can fail hospital assembly.
func (t *TimingData) LengthOfStayDays() (int, error) {
	admission, err := parseTimingDate(t.AdmissionDate)
	if err != nil {
		return 0, fmt.Errorf("admission_date: %w", err)
	}
	discharge, err := parseTimingDate(t.DischargeDate)
	if err != nil {
		return 0, fmt.Errorf("discharge_date: %w", err)
	}

	days := int(discharge.Sub(admission).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, nil
}

// FacilityTimingData is the joint payload of the facility_timing
// extractor: one extractor, two aggregate sections. A failure there
// fails both sections together.
type FacilityTimingData struct {
	Facility FacilityData `json:"facility"`
	Timing   TimingData   `json:"timing"`
}

// SecondaryDiagnosis is one secondary diagnosis with provenance.
type SecondaryDiagnosis struct {
	Diagnosis             string  `json:"diagnosis"`
	ICD10Code             *string `json:"icd10_code,omitempty"`
	Evidence              string  `json:"evidence"`
	RelationshipToPrimary *string `json:"relationship_to_primary,omitempty"`
}

// DiagnosisData holds the primary and secondary diagnoses.
type DiagnosisData struct {
	PrimaryDiagnosis         string               `json:"primary_diagnosis"`
	PrimaryDiagnosisICD10    *string              `json:"primary_diagnosis_icd10,omitempty"`
	PrimaryDiagnosisEvidence string               `json:"primary_diagnosis_evidence"`
	DiagnosisCategory        string               `json:"diagnosis_category"`
	SecondaryDiagnoses       []SecondaryDiagnosis `json:"secondary_diagnoses"`
}

// RiskLevel buckets the medication risk likelihood.
type RiskLevel string

const (
	RiskLevelHigh   RiskLevel = "high"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelLow    RiskLevel = "low"
)

// AssessmentMethod records how the risk assessment was produced.
type AssessmentMethod string

const (
	AssessmentMethodAIAnalysis              AssessmentMethod = "ai_analysis"
	AssessmentMethodPharmacistDetermination AssessmentMethod = "pharmacist_determination"
	AssessmentMethodCombined                AssessmentMethod = "combined"
)

// RiskMetadata describes the note and what the analysis covered.
type RiskMetadata struct {
	NoteType              string   `json:"note_type"`
	SectionsReviewed      []string `json:"sections_reviewed"`
	MissingInformation    []string `json:"missing_information"`
	ModelUncertaintyNotes []string `json:"model_uncertainty_notes"`
}

// ClinicalContext classifies the presentation relative to medications.
type ClinicalContext struct {
	PresentationType                 string   `json:"presentation_type"`
	PresentationTypeRationale        string   `json:"presentation_type_rationale"`
	PrimaryReasonForPresentation     string   `json:"primary_reason_for_presentation"`
	IsMedicationRelated              bool     `json:"is_medication_related"`
	MedicationRelationshipExplanation string  `json:"medication_relationship_explanation"`
	PatientClinicalStatus            string   `json:"patient_clinical_status"`
	OrganDysfunction                 []string `json:"organ_dysfunction"`
}

// RiskScoring is the evidence-based scoring breakdown.
type RiskScoring struct {
	PositiveEvidencePoints int    `json:"positive_evidence_points"`
	NegativeEvidencePoints int    `json:"negative_evidence_points"`
	NetScore               int    `json:"net_score"`
	ScoreBreakdown         string `json:"score_breakdown"`
}

// LikelihoodPercentage is the 0-100 likelihood with supporting evidence.
type LikelihoodPercentage struct {
	Percentage        int    `json:"percentage"`
	Evidence          string `json:"evidence"`
	CalculationMethod string `json:"calculation_method"`
}

// RiskFactor is one identified medication risk factor.
type RiskFactor struct {
	Factor                string   `json:"factor"`
	Evidence              string   `json:"evidence"`
	Severity              string   `json:"severity"`
	SeverityRationale     string   `json:"severity_rationale"`
	ImplicatedMedications []string `json:"implicated_medications"`
	Mechanism             string   `json:"mechanism"`
	TemporalRelationship  string   `json:"temporal_relationship"`
}

// AlternativeExplanation is a non-medication explanation considered.
type AlternativeExplanation struct {
	Explanation                    string `json:"explanation"`
	Likelihood                     string `json:"likelihood"`
	SupportingEvidence             string `json:"supporting_evidence"`
	ImpactOnMedicationAssessment   string `json:"impact_on_medication_assessment"`
}

// RiskAssessment is the complete medication-related risk assessment.
type RiskAssessment struct {
	Metadata                RiskMetadata             `json:"metadata"`
	ClinicalContext         ClinicalContext          `json:"clinical_context"`
	RiskScoring             RiskScoring              `json:"risk_scoring"`
	LikelihoodPercentage    LikelihoodPercentage     `json:"likelihood_percentage"`
	RiskLevel               RiskLevel                `json:"risk_level"`
	RiskFactors             []RiskFactor             `json:"risk_factors"`
	AlternativeExplanations []AlternativeExplanation `json:"alternative_explanations"`
	NegativeFindings        []string                 `json:"negative_findings"`
	ConfidenceScore         float64                  `json:"confidence_score"`
	ConfidenceRationale     string                   `json:"confidence_rationale"`
	AssessmentMethod        AssessmentMethod         `json:"assessment_method"`
	AssessedAt              string                   `json:"assessed_at"`
}

// HospitalSummary is the structured hospital admission record. All four
// sections are mandatory; a document whose hospital extraction is
// incomplete never produces one of these.
type HospitalSummary struct {
	ID                       string         `json:"id" db:"id"`
	PatientID                string         `json:"patient_id" db:"patient_id"`
	HospitalizationID        string         `json:"hospitalization_id" db:"hospitalization_id"`
	Facility                 FacilityData   `json:"facility" db:"facility"`
	Timing                   TimingData     `json:"timing" db:"timing"`
	Diagnosis                DiagnosisData  `json:"diagnosis" db:"diagnosis"`
	MedicationRiskAssessment RiskAssessment `json:"medication_risk_assessment" db:"medication_risk_assessment"`
	LengthOfStayDays         int            `json:"length_of_stay_days" db:"length_of_stay_days"`
	CreatedAt                time.Time      `json:"created_at" db:"created_at"`
}
