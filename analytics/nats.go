package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSSink publishes events to NATS on subject "analytics.<event>".
// NewNATSSink fails when the server is unreachable at startup; reconnects
// only apply once a connection has been established.
type NATSSink struct {
	nc *nats.Conn
}

func NewNATSSink(url string) (*NATSSink, error) {
	nc, err := nats.Connect(url,
		nats.Name("kanban-analytics"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSSink{nc: nc}, nil
}

func Subject(eventType string) string {
	return Topic + "." + eventType
}

func (s *NATSSink) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := Subject(event.Type)
	if err := s.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}

	return s.nc.FlushWithContext(ctx)
}

func (s *NATSSink) Close() error {
	if s.nc == nil {
		return nil
	}
	return s.nc.Drain()
}
