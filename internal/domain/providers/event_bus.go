package providers

import (
	"context"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// extraction pipeline events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ExtractionEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ExtractionEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelExtractions is the channel for all pipeline events
	EventChannelExtractions = "extractions:events"

	// EventChannelPatientPrefix is the prefix for per-patient channels
	EventChannelPatientPrefix = "patient:"
)

// GetPatientChannel returns the channel name for a specific patient
func GetPatientChannel(patientID string) string {
	return EventChannelPatientPrefix + patientID
}
