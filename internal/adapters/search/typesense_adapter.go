package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/repositories"
	typesenseclient "github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/typesense"
)

const collectionName = typesenseclient.SummariesCollection

// TypesenseAdapter implements summary search using Typesense
type TypesenseAdapter struct {
	client *typesenseclient.Client
}

// Ensure TypesenseAdapter implements SummarySearchRepository
var _ repositories.SummarySearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense search adapter
func NewTypesenseAdapter(client *typesenseclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the summaries collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// IndexSummary upserts one summary into the search index. The document
// id is the hospitalization id so reindexing stays idempotent.
func (a *TypesenseAdapter) IndexSummary(ctx context.Context, doc *entities.SummarySearchDocument) error {
	document := map[string]interface{}{
		"id":                  doc.HospitalizationID,
		"hospitalization_id":  doc.HospitalizationID,
		"patient_id":          doc.PatientID,
		"primary_diagnosis":   doc.PrimaryDiagnosis,
		"diagnosis_category":  doc.DiagnosisCategory,
		"facility_name":       doc.FacilityName,
		"risk_level":          doc.RiskLevel,
		"admission_date":      doc.AdmissionDate,
		"length_of_stay_days": doc.LengthOfStayDays,
		"created_at":          doc.CreatedAt,
	}

	if err := a.client.IndexSummary(ctx, document); err != nil {
		return fmt.Errorf("failed to index summary %s: %w", doc.HospitalizationID, err)
	}
	return nil
}

// Search runs a free-text query over diagnosis, facility and patient fields
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]*entities.SummarySearchDocument, error) {
	if limit <= 0 {
		limit = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("primary_diagnosis,facility_name,patient_id,diagnosis_category"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search summaries: %w", err)
	}

	docs := []*entities.SummarySearchDocument{}
	if result.Hits == nil {
		return docs, nil
	}

	for _, hit := range *result.Hits {
		raw := *hit.Document

		doc := &entities.SummarySearchDocument{}
		if val, ok := raw["hospitalization_id"].(string); ok {
			doc.HospitalizationID = val
		}
		if val, ok := raw["patient_id"].(string); ok {
			doc.PatientID = val
		}
		if val, ok := raw["primary_diagnosis"].(string); ok {
			doc.PrimaryDiagnosis = val
		}
		if val, ok := raw["diagnosis_category"].(string); ok {
			doc.DiagnosisCategory = val
		}
		if val, ok := raw["facility_name"].(string); ok {
			doc.FacilityName = val
		}
		if val, ok := raw["risk_level"].(string); ok {
			doc.RiskLevel = val
		}
		if val, ok := raw["admission_date"].(string); ok {
			doc.AdmissionDate = val
		}
		if val, ok := raw["length_of_stay_days"].(float64); ok {
			doc.LengthOfStayDays = int(val)
		}
		if val, ok := raw["created_at"].(float64); ok {
			doc.CreatedAt = int64(val)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}
