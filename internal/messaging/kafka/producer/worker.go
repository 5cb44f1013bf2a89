package producer

import (
	"context"
	"time"

	"github.com/techmajster/saas-leave-system/internal/messaging/kafka"

	"go.uber.org/zap"
)

type Options struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 3 * time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 20
	}
	return o
}

// Dispatcher drains the outbox table into Kafka. It runs apart from the
// request path, so a broker outage delays delivery without failing writes.
type Dispatcher struct {
	repo   kafka.OutboxRepository
	writer MessageWriter
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

func NewDispatcher(repo kafka.OutboxRepository, writer MessageWriter, opts Options, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.L()
	}
	return &Dispatcher{
		repo:   repo,
		writer: writer,
		opts:   opts.withDefaults(),
		logger: logger.Named("kafka.producer.dispatcher"),
		now:    time.Now,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.opts.PollInterval)
	defer ticker.Stop()

	d.logger.Info("outbox dispatcher started",
		zap.Duration("poll_interval", d.opts.PollInterval),
		zap.Int("batch_size", d.opts.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := d.ProcessBatch(ctx); err != nil {
				d.logger.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes one batch of due events and returns how many were sent.
func (d *Dispatcher) ProcessBatch(ctx context.Context) (int, error) {
	events, err := d.repo.ListPending(ctx, d.opts.BatchSize, d.now())
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	d.logger.Debug("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		if err := publishEvent(ctx, d.writer, event); err != nil {
			status, markErr := d.repo.MarkFailed(ctx, event, err.Error(), d.opts.MaxRetries, d.now())
			fields := []zap.Field{
				zap.String("outbox_id", event.ID.String()),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Int("retry_count", event.RetryCount+1),
				zap.Error(err),
			}
			if status == kafka.OutboxStatusDead {
				d.logger.Error("outbox event moved to dead status", fields...)
			} else {
				d.logger.Warn("publish outbox event failed", fields...)
			}
			if markErr != nil {
				d.logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID.String()), zap.Error(markErr))
			}
			continue
		}

		if err := d.repo.MarkSent(ctx, event.ID, d.now()); err != nil {
			d.logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID.String()),
				zap.Error(err),
			)
			continue
		}

		sent++
		d.logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID.String()),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return sent, nil
}
