package entities

import "time"

// ExtractionEventType identifies the kind of pipeline event.
type ExtractionEventType string

const (
	// EventTypeExtractionCompleted fires once per document when all
	// extractor outcomes have been resolved.
	EventTypeExtractionCompleted ExtractionEventType = "extraction.completed"

	// EventTypeSummaryPersisted fires once per aggregate that was written.
	EventTypeSummaryPersisted ExtractionEventType = "summary.persisted"
)

// ExtractionEvent is published on the event bus as documents move
// through the pipeline.
type ExtractionEvent struct {
	ID                string              `json:"id"`
	Type              ExtractionEventType `json:"type"`
	HospitalizationID string              `json:"hospitalization_id"`
	PatientID         string              `json:"patient_id"`
	Aggregate         AggregateGroup      `json:"aggregate,omitempty"`
	Timestamp         time.Time           `json:"timestamp"`
}
