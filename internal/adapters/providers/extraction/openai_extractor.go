package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/openai"
)

// decodeFunc unmarshals a model response envelope into the entity payload.
type decodeFunc func(raw []byte) (any, error)

// extractorSpec binds a kind to its decoder and output budget.
type extractorSpec struct {
	decode    decodeFunc
	maxTokens int
}

var extractorSpecs = map[entities.EntityKind]extractorSpec{
	entities.EntityKindPresentation:   {decodePresentation, 1500},
	entities.EntityKindHistory:        {decodeHistory, 2000},
	entities.EntityKindFindings:       {decodeFindings, 2500},
	entities.EntityKindAssessment:     {decodeAssessment, 2000},
	entities.EntityKindCourse:         {decodeCourse, 2500},
	entities.EntityKindFollowUp:       {decodeFollowUp, 2000},
	entities.EntityKindTreatments:     {decodeTreatments, 2000},
	entities.EntityKindLabs:           {decodeLabs, 3000},
	entities.EntityKindFacilityTiming: {decodeFacilityTiming, 1500},
	entities.EntityKindDiagnosis:      {decodeDiagnosis, 2000},
	entities.EntityKindMedicationRisk: {decodeMedicationRisk, 4000},
}

// OpenAIExtractor extracts one entity kind from clinical text via the
// OpenAI responses API.
type OpenAIExtractor struct {
	client       *openai.Client
	kind         entities.EntityKind
	systemPrompt string
	spec         extractorSpec
}

// NewOpenAIExtractor builds an extractor for the given kind.
func NewOpenAIExtractor(client *openai.Client, kind entities.EntityKind) (*OpenAIExtractor, error) {
	prompt, ok := openai.SystemPrompt(kind)
	if !ok {
		return nil, fmt.Errorf("no system prompt for entity kind %q", kind)
	}
	spec, ok := extractorSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("no extractor spec for entity kind %q", kind)
	}
	return &OpenAIExtractor{client: client, kind: kind, systemPrompt: prompt, spec: spec}, nil
}

func (e *OpenAIExtractor) Kind() entities.EntityKind {
	return e.kind
}

func (e *OpenAIExtractor) Extract(ctx context.Context, doc *entities.Document) (any, error) {
	raw, err := e.client.CompleteJSON(ctx, e.systemPrompt, openai.BuildUserPrompt(doc.Text), e.spec.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("%s extraction: %w", e.kind, err)
	}
	payload, err := e.spec.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s extraction: decoding response: %w", e.kind, err)
	}
	return payload, nil
}

func decodePresentation(raw []byte) (any, error) {
	var env struct {
		Presentation *entities.PresentationData `json:"patient_presentation"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Presentation == nil {
		return nil, fmt.Errorf("missing patient_presentation object")
	}
	return env.Presentation, nil
}

func decodeHistory(raw []byte) (any, error) {
	var env struct {
		History *entities.HistoryData `json:"relevant_history"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.History == nil {
		return nil, fmt.Errorf("missing relevant_history object")
	}
	return env.History, nil
}

func decodeFindings(raw []byte) (any, error) {
	var env struct {
		Findings *entities.FindingsData `json:"clinical_findings"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Findings == nil {
		return nil, fmt.Errorf("missing clinical_findings object")
	}
	return env.Findings, nil
}

func decodeAssessment(raw []byte) (any, error) {
	var env struct {
		Assessment *entities.AssessmentData `json:"clinical_assessment"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Assessment == nil {
		return nil, fmt.Errorf("missing clinical_assessment object")
	}
	return env.Assessment, nil
}

func decodeCourse(raw []byte) (any, error) {
	var env struct {
		Course *entities.CourseData `json:"hospital_course"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Course == nil {
		return nil, fmt.Errorf("missing hospital_course object")
	}
	return env.Course, nil
}

func decodeFollowUp(raw []byte) (any, error) {
	var env struct {
		FollowUp *entities.FollowUpData `json:"follow_up_plan"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.FollowUp == nil {
		return nil, fmt.Errorf("missing follow_up_plan object")
	}
	return env.FollowUp, nil
}

func decodeTreatments(raw []byte) (any, error) {
	var env entities.TreatmentsData
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.TreatmentsProcedures == nil {
		env.TreatmentsProcedures = []entities.Treatment{}
	}
	return &env, nil
}

func decodeLabs(raw []byte) (any, error) {
	var env entities.LabsData
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.LabResults == nil {
		env.LabResults = []entities.LabTest{}
	}
	// Models occasionally return results with zeroed counts. Recompute
	// rather than trust the model's arithmetic.
	if len(env.LabResults) > 0 && env.LabSummary.TotalTests == 0 {
		env.LabSummary = env.Recount()
	}
	return &env, nil
}

func decodeFacilityTiming(raw []byte) (any, error) {
	var env entities.FacilityTimingData
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Facility.FacilityName == "" {
		return nil, fmt.Errorf("missing facility object")
	}
	if env.Timing.AdmissionDate == "" || env.Timing.DischargeDate == "" {
		return nil, fmt.Errorf("missing admission or discharge date")
	}
	return &env, nil
}

func decodeDiagnosis(raw []byte) (any, error) {
	var env struct {
		Diagnosis *entities.DiagnosisData `json:"diagnosis"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Diagnosis == nil {
		return nil, fmt.Errorf("missing diagnosis object")
	}
	if env.Diagnosis.PrimaryDiagnosis == "" {
		return nil, fmt.Errorf("missing primary_diagnosis")
	}
	return env.Diagnosis, nil
}

func decodeMedicationRisk(raw []byte) (any, error) {
	var env struct {
		Assessment *entities.RiskAssessment `json:"medication_risk_assessment"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Assessment == nil {
		return nil, fmt.Errorf("missing medication_risk_assessment object")
	}
	return env.Assessment, nil
}

var _ providers.EntityExtractor = (*OpenAIExtractor)(nil)
