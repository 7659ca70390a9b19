package extraction

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
)

// MockExtractor returns deterministic payloads for local development
// and integration tests. No network calls, no latency.
type MockExtractor struct {
	kind entities.EntityKind
}

func NewMockExtractor(kind entities.EntityKind) *MockExtractor {
	return &MockExtractor{kind: kind}
}

func (e *MockExtractor) Kind() entities.EntityKind {
	return e.kind
}

func (e *MockExtractor) Extract(ctx context.Context, doc *entities.Document) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	switch e.kind {
	case entities.EntityKindPresentation:
		return mockPresentation(), nil
	case entities.EntityKindHistory:
		return mockHistory(), nil
	case entities.EntityKindFindings:
		return mockFindings(), nil
	case entities.EntityKindAssessment:
		return mockAssessment(), nil
	case entities.EntityKindCourse:
		return mockCourse(), nil
	case entities.EntityKindFollowUp:
		return mockFollowUp(), nil
	case entities.EntityKindTreatments:
		return mockTreatments(), nil
	case entities.EntityKindLabs:
		return mockLabs(), nil
	case entities.EntityKindFacilityTiming:
		return mockFacilityTiming(), nil
	case entities.EntityKindDiagnosis:
		return mockDiagnosis(), nil
	case entities.EntityKindMedicationRisk:
		return mockMedicationRisk(), nil
	default:
		return nil, fmt.Errorf("mock extractor: unknown entity kind %q", e.kind)
	}
}

func strPtr(s string) *string { return &s }

func mockPresentation() *entities.PresentationData {
	return &entities.PresentationData{
		Symptoms:             []string{"altered mental status", "bradycardia"},
		SymptomSource:        strPtr("Chief Complaint"),
		PresentationMethod:   strPtr("emergency_department"),
		PresentationDetails:  strPtr("Patient presented to the ED with confusion and a heart rate of 38 bpm."),
		PresentationTimeline: strPtr("Symptoms began approximately 6 hours prior to arrival"),
		SeverityIndicators:   []string{"HR 38 bpm", "GCS 13"},
	}
}

func mockHistory() *entities.HistoryData {
	return &entities.HistoryData{
		Conditions: []entities.MedicalCondition{
			{
				ConditionName:       "Chronic kidney disease",
				Severity:            strPtr("Stage 3"),
				Status:              "active",
				StatusRationale:     "Listed under active problems with current creatinine trend",
				DocumentedInSection: "Past Medical History",
			},
			{
				ConditionName:       "Atrial fibrillation",
				Status:              "active",
				StatusRationale:     "On rate control at home",
				DocumentedInSection: "Past Medical History",
			},
		},
	}
}

func mockFindings() *entities.FindingsData {
	return &entities.FindingsData{
		VitalSigns: []entities.VitalSignMeasurement{
			{Measurement: "Heart Rate", Value: "38", Unit: strPtr("bpm"), Status: strPtr("critical_low")},
			{Measurement: "Blood Pressure", Value: "92/58", Unit: strPtr("mmHg"), Status: strPtr("low")},
		},
		PhysicalExam: []entities.PhysicalExamFinding{
			{System: "cardiovascular", Finding: "Bradycardic, irregular rhythm", Status: strPtr("abnormal")},
			{System: "neurological", Finding: "Oriented x2, no focal deficits", Status: strPtr("abnormal")},
		},
		ImagingStudies: []entities.ImagingStudy{},
	}
}

func mockAssessment() *entities.AssessmentData {
	return &entities.AssessmentData{
		PrimaryAssessment: strPtr("Symptomatic bradycardia secondary to digoxin toxicity"),
		CauseDetermination: &entities.CauseDetermination{
			Cause:              "Digoxin toxicity in the setting of acute kidney injury",
			SupportingEvidence: []string{"Digoxin level 3.2 ng/mL", "Creatinine 2.4 mg/dL, baseline 1.3"},
			EvidenceSource:     strPtr("Assessment and Plan"),
			Confidence:         "probable",
		},
		DifferentialDiagnoses: []string{"Sick sinus syndrome", "Beta blocker toxicity"},
	}
}

func mockCourse() *entities.CourseData {
	return &entities.CourseData{
		Timeline: []entities.CourseEvent{
			{Event: "Arrival in ED, digoxin held", Time: strPtr("Day 1")},
			{Event: "Digoxin immune fab administered", Time: strPtr("Day 1")},
			{Event: "Heart rate normalized to 72 bpm", Time: strPtr("Day 2")},
		},
		NarrativeSummary: strPtr("Admitted for symptomatic bradycardia. Digoxin was held and immune fab given with resolution of bradycardia by hospital day 2. Renal function improved with fluids."),
		Disposition:      strPtr("discharged_home"),
		LengthOfStay:     strPtr("4 days"),
		AdmissionDate:    strPtr("2025-01-01"),
		DischargeDate:    strPtr("2025-01-05"),
		FollowUpPlans:    []string{"Cardiology follow-up in 1 week"},
	}
}

func mockFollowUp() *entities.FollowUpData {
	return &entities.FollowUpData{
		Appointments: []entities.FollowUpAppointment{
			{Specialty: "Cardiology", Urgency: "urgent", Timeframe: strPtr("within 1 week")},
			{Specialty: "Nephrology", Urgency: "routine", Timeframe: strPtr("within 4 weeks")},
		},
		DischargeInstructions: []string{"Hold digoxin until cardiology follow-up", "Daily weights"},
		Recommendations:       []string{"Repeat BMP and digoxin level in 72 hours"},
		PatientEducation:      []string{"Signs of digoxin toxicity reviewed with patient"},
		CareTransitions:       []string{},
	}
}

func mockTreatments() *entities.TreatmentsData {
	return &entities.TreatmentsData{
		TreatmentsProcedures: []entities.Treatment{
			{
				Name:       "Digoxin immune fab",
				Category:   "medication",
				Indication: strPtr("Digoxin toxicity with symptomatic bradycardia"),
				Dose:       strPtr("4 vials IV"),
				Route:      strPtr("IV"),
				Outcome:    strPtr("Heart rate normalized within 12 hours"),
			},
			{
				Name:       "Intravenous fluids",
				Category:   "supportive_care",
				Indication: strPtr("Acute kidney injury"),
			},
		},
	}
}

func mockLabs() *entities.LabsData {
	labs := &entities.LabsData{
		LabResults: []entities.LabTest{
			{ID: "lab_001", TestName: "Digoxin Level", TestCategory: strPtr("toxicology"), Value: "3.2", Unit: strPtr("ng/mL"), Status: entities.LabStatusCritical, ReferenceRange: strPtr("0.8-2.0")},
			{ID: "lab_002", TestName: "Creatinine", TestCategory: strPtr("renal"), Value: "2.4", Unit: strPtr("mg/dL"), Status: entities.LabStatusAbnormalHigh, ReferenceRange: strPtr("0.7-1.3"), BaselineValue: strPtr("1.3")},
			{ID: "lab_003", TestName: "Potassium", TestCategory: strPtr("electrolytes"), Value: "5.6", Unit: strPtr("mEq/L"), Status: entities.LabStatusAbnormalHigh, ReferenceRange: strPtr("3.5-5.0")},
			{ID: "lab_004", TestName: "Hemoglobin", TestCategory: strPtr("hematology"), Value: "13.1", Unit: strPtr("g/dL"), Status: entities.LabStatusNormal, ReferenceRange: strPtr("12.0-16.0")},
		},
	}
	labs.LabSummary = labs.Recount()
	return labs
}

func mockFacilityTiming() *entities.FacilityTimingData {
	source := entities.AdmissionSourceEmergencyDept
	disposition := entities.DischargeDispositionHome
	return &entities.FacilityTimingData{
		Facility: entities.FacilityData{
			FacilityName: "St. Mary's Medical Center",
			FacilityType: entities.FacilityTypeAcuteCare,
			Address: &entities.Address{
				City:  "Springfield",
				State: "IL",
			},
		},
		Timing: entities.TimingData{
			AdmissionDate:        "2025-01-01",
			AdmissionTime:        strPtr("14:30"),
			DischargeDate:        "2025-01-05",
			DischargeTime:        strPtr("11:00"),
			AdmissionSource:      &source,
			DischargeDisposition: &disposition,
		},
	}
}

func mockDiagnosis() *entities.DiagnosisData {
	return &entities.DiagnosisData{
		PrimaryDiagnosis:         "Digoxin toxicity",
		PrimaryDiagnosisEvidence: `Assessment: "Symptomatic bradycardia secondary to supratherapeutic digoxin level"`,
		DiagnosisCategory:        "cardiovascular",
		SecondaryDiagnoses: []entities.SecondaryDiagnosis{
			{
				Diagnosis:             "Acute kidney injury",
				Evidence:              `Labs: "Creatinine 2.4 mg/dL from baseline 1.3"`,
				RelationshipToPrimary: strPtr("Reduced digoxin clearance precipitated toxicity"),
			},
		},
	}
}

func mockMedicationRisk() *entities.RiskAssessment {
	return &entities.RiskAssessment{
		Metadata: entities.RiskMetadata{
			NoteType:         "discharge_summary",
			SectionsReviewed: []string{"HPI", "Medications", "Labs", "Assessment and Plan"},
		},
		ClinicalContext: entities.ClinicalContext{
			PresentationType:                 "A",
			PresentationTypeRationale:        "Presentation directly caused by supratherapeutic digoxin",
			PrimaryReasonForPresentation:     "Symptomatic bradycardia",
			IsMedicationRelated:              true,
			MedicationRelationshipExplanation: "Digoxin level 3.2 ng/mL with classic toxicity findings",
			PatientClinicalStatus:            "Stabilized after digoxin immune fab",
			OrganDysfunction:                 []string{"renal"},
		},
		RiskScoring: entities.RiskScoring{
			PositiveEvidencePoints: 9,
			NegativeEvidencePoints: 1,
			NetScore:               8,
			ScoreBreakdown:         "Supratherapeutic level (+4), temporal relationship (+3), organ dysfunction reducing clearance (+2), alternative rhythm disorder (-1)",
		},
		LikelihoodPercentage: entities.LikelihoodPercentage{
			Percentage:        85,
			Evidence:          "Digoxin level 3.2 ng/mL, bradycardia resolved after immune fab",
			CalculationMethod: "evidence_scoring_system",
		},
		RiskLevel: entities.RiskLevelHigh,
		RiskFactors: []entities.RiskFactor{
			{
				Factor:               "Supratherapeutic digoxin level",
				Evidence:             `Labs: "Digoxin level 3.2 ng/mL (reference 0.8-2.0)"`,
				Severity:             "critical",
				SeverityRationale:    "Life-threatening bradyarrhythmia",
				ImplicatedMedications: []string{"digoxin"},
				Mechanism:            "Na/K-ATPase inhibition with enhanced vagal tone",
				TemporalRelationship: "Level drawn at presentation, symptoms resolved after fab",
			},
		},
		AlternativeExplanations: []entities.AlternativeExplanation{
			{
				Explanation:                   "Intrinsic conduction disease",
				Likelihood:                    "low",
				SupportingEvidence:            "No prior documented conduction abnormality",
				ImpactOnMedicationAssessment:  "Does not change attribution given level and response to fab",
			},
		},
		NegativeFindings:    []string{"No concurrent beta blocker overdose"},
		ConfidenceScore:     0.9,
		ConfidenceRationale: "Documented level, mechanism, and dechallenge response all concordant",
		AssessmentMethod:    entities.AssessmentMethodAIAnalysis,
		AssessedAt:          time.Date(2025, 1, 5, 11, 0, 0, 0, time.UTC).Format(time.RFC3339),
	}
}

var _ providers.EntityExtractor = (*MockExtractor)(nil)
