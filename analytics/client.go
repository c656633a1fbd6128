package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultPublishTimeout = 5 * time.Second

var _ Tracker = (*Client)(nil)

// Client publishes events to a Sink on a background goroutine when analytics
// are enabled. Delivery errors and panics are logged and dropped.
type Client struct {
	enabled bool
	sink    Sink
	logger  *zap.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

func NewClient(enabled bool, sink Sink, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Client{
		enabled: enabled && sink != nil,
		sink:    sink,
		logger:  logger,
		timeout: timeout,
	}
}

// TrackIfAllowed returns immediately. The publish runs detached from ctx's
// cancellation, which ends as soon as the HTTP response is written.
func (c *Client) TrackIfAllowed(ctx context.Context, event string, properties map[string]any) {
	if c == nil || !c.enabled {
		return
	}

	ev := Event{
		Type:       event,
		Properties: properties,
		OccurredAt: time.Now().UTC(),
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("Analytics publish panicked", zap.String("event", event), zap.Any("panic", r))
			}
		}()

		publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		if err := c.sink.Publish(publishCtx, ev); err != nil {
			c.logger.Warn("Failed to publish analytics event", zap.String("event", event), zap.Error(err))
		}
	}()
}

// Close waits for in-flight publishes and closes the sink.
func (c *Client) Close() error {
	c.wg.Wait()
	if c.sink == nil {
		return nil
	}
	return c.sink.Close()
}
