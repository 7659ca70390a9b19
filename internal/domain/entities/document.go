package entities

import (
	"regexp"
	"strings"
)

// Document is a free-text clinical note submitted for extraction.
// Immutable once submitted; every extractor receives a read-only view.
type Document struct {
	// PatientID is the opaque patient identifier supplied by the caller.
	PatientID string `json:"patient_id"`

	// HospitalizationID is an optional caller-supplied correlation
	// identifier. When present it is reused verbatim so re-runs stay
	// idempotent.
	HospitalizationID string `json:"hospitalization_id,omitempty"`

	// Text is the raw clinical note.
	Text string `json:"text"`
}

var (
	patientIDPattern   = regexp.MustCompile(`Patient ID:\s*(\S+)`)
	mrnPattern         = regexp.MustCompile(`(?i)MRN[:\s]+(\S+)`)
	docIDPattern       = regexp.MustCompile(`(?i)DOC_ID:([a-f0-9-]+)`)
	encounterIDPattern = regexp.MustCompile(`(?i)Encounter ID[:\s]+(\S+)`)
)

// ResolvePatientID returns the caller-supplied patient id, falling back
// to a "Patient ID:" or "MRN:" marker embedded in the note text.
func (d *Document) ResolvePatientID() string {
	if id := strings.TrimSpace(d.PatientID); id != "" {
		return id
	}
	if m := patientIDPattern.FindStringSubmatch(d.Text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := mrnPattern.FindStringSubmatch(d.Text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// EmbeddedHospitalizationID returns a hospitalization identifier found in
// the note text ("DOC_ID:" or "Encounter ID:" markers), or "".
func (d *Document) EmbeddedHospitalizationID() string {
	if m := docIDPattern.FindStringSubmatch(d.Text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := encounterIDPattern.FindStringSubmatch(d.Text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
