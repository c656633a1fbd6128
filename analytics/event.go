package analytics

import (
	"context"
	"time"
)

// Event is one analytics record, e.g. "feature_created".
type Event struct {
	Type       string         `json:"event"`
	Properties map[string]any `json:"properties"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Tracker records analytics events. Implementations must never block the
// caller on delivery or report delivery failures back to it.
type Tracker interface {
	TrackIfAllowed(ctx context.Context, event string, properties map[string]any)
}

// Sink delivers events to a backend.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
