package entities

// SummarySearchDocument is the flattened projection of a persisted
// hospital summary kept in the search index for clinician lookup.
type SummarySearchDocument struct {
	HospitalizationID string `json:"hospitalization_id"`
	PatientID         string `json:"patient_id"`
	PrimaryDiagnosis  string `json:"primary_diagnosis"`
	DiagnosisCategory string `json:"diagnosis_category"`
	FacilityName      string `json:"facility_name"`
	RiskLevel         string `json:"risk_level"`
	AdmissionDate     string `json:"admission_date"`
	LengthOfStayDays  int    `json:"length_of_stay_days"`
	CreatedAt         int64  `json:"created_at"`
}

// NewSummarySearchDocument flattens a hospital summary for indexing.
func NewSummarySearchDocument(summary *HospitalSummary) *SummarySearchDocument {
	return &SummarySearchDocument{
		HospitalizationID: summary.HospitalizationID,
		PatientID:         summary.PatientID,
		PrimaryDiagnosis:  summary.Diagnosis.PrimaryDiagnosis,
		DiagnosisCategory: summary.Diagnosis.DiagnosisCategory,
		FacilityName:      summary.Facility.FacilityName,
		RiskLevel:         string(summary.MedicationRiskAssessment.RiskLevel),
		AdmissionDate:     summary.Timing.AdmissionDate,
		LengthOfStayDays:  summary.LengthOfStayDays,
		CreatedAt:         summary.CreatedAt.Unix(),
	}
}
