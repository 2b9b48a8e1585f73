package providers

import (
	"context"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// pharmacy change events (stock after sales, rating after reviews)
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.PharmacyEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.PharmacyEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelPharmacyUpdates is the firehose channel for all pharmacy updates
	EventChannelPharmacyUpdates = "pharmacy:updates"

	// EventChannelPharmacyPrefix is the prefix for pharmacy-specific channels
	EventChannelPharmacyPrefix = "pharmacy:"
)

// GetPharmacyChannel returns the channel name for a specific pharmacy
func GetPharmacyChannel(pharmacyID string) string {
	return EventChannelPharmacyPrefix + pharmacyID
}
