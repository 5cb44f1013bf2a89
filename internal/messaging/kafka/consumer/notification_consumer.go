package consumer

import (
	"context"
	"encoding/json"

	"github.com/techmajster/saas-leave-system/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_consumer.go -destination=mock/notification_consumer_mock.go -package=mock
type Notifier interface {
	NotifyCreated(ctx context.Context, e events.LeaveRequestCreatedEvent) error
	NotifyStatusChange(ctx context.Context, e events.LeaveRequestStatusChangedEvent) error
}

// NotificationConsumer fans leave request events out to the people who
// should hear about them. An event that keeps failing is logged and skipped.
type NotificationConsumer struct {
	notifier Notifier
	policy   RetryPolicy
	logger   *zap.Logger
}

func NewNotificationConsumer(notifier Notifier, policy RetryPolicy, logger *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{
		notifier: notifier,
		policy:   policy,
		logger:   logger.Named("kafka.consumer.notification"),
	}
}

func (c *NotificationConsumer) Run(ctx context.Context, reader MessageReader) {
	Run(ctx, reader, c.Handle, c.policy.withDefaults().Backoff, c.logger)
}

func (c *NotificationConsumer) Handle(ctx context.Context, msg kafkago.Message) error {
	eventType, err := events.TypeOf(msg.Value)
	if err != nil {
		c.logger.Error("decode event envelope failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}

	var send func(ctx context.Context) error
	switch eventType {
	case events.LeaveRequestCreated:
		var ev events.LeaveRequestCreatedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.logger.Error("decode created event failed", zap.Error(err))
			return nil
		}
		send = func(ctx context.Context) error { return c.notifier.NotifyCreated(ctx, ev) }
	case events.LeaveRequestStatusChanged:
		var ev events.LeaveRequestStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.logger.Error("decode status changed event failed", zap.Error(err))
			return nil
		}
		send = func(ctx context.Context) error { return c.notifier.NotifyStatusChange(ctx, ev) }
	default:
		return nil
	}

	attempts, err := c.policy.Do(ctx, send)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error("notification dropped",
			zap.String("event_type", eventType),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return nil
	}
	return nil
}
