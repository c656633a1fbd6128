package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// Topic is the watermill topic analytics events are published on.
const Topic = "analytics"

// ChannelSink publishes events on an in-process watermill pub/sub.
type ChannelSink struct {
	pubSub *gochannel.GoChannel
}

func NewChannelSink(logger *zap.Logger) *ChannelSink {
	return &ChannelSink{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, NewWatermillLogger(logger)),
	}
}

func (s *ChannelSink) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event", event.Type)
	msg.SetContext(ctx)

	if err := s.pubSub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

// Subscribe exposes the topic for consumers of the sink.
func (s *ChannelSink) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return s.pubSub.Subscribe(ctx, Topic)
}

func (s *ChannelSink) Close() error {
	return s.pubSub.Close()
}

// Consumer drains the analytics topic and writes every event to the log.
type Consumer struct {
	sink   *ChannelSink
	logger *zap.Logger
}

func NewConsumer(sink *ChannelSink, logger *zap.Logger) *Consumer {
	return &Consumer{sink: sink, logger: logger}
}

// Consume subscribes and processes messages on a goroutine until ctx is
// cancelled or the sink is closed.
func (c *Consumer) Consume(ctx context.Context) error {
	messages, err := c.sink.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", Topic, err)
	}

	go func() {
		for msg := range messages {
			c.process(msg)
		}
	}()

	return nil
}

func (c *Consumer) process(msg *message.Message) {
	// Ack malformed messages too, redelivery would not fix them.
	defer msg.Ack()

	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Warn("Dropping malformed analytics message", zap.String("message_uuid", msg.UUID), zap.Error(err))
		return
	}

	c.logger.Info("Analytics event",
		zap.String("event", event.Type),
		zap.Any("properties", event.Properties),
		zap.Time("occurred_at", event.OccurredAt))
}
