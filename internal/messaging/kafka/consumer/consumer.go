package consumer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
//
//go:generate mockgen -source=consumer.go -destination=mock/consumer_mock.go -package=mock
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// HandlerFunc processes one message. A nil error commits the message. An
// error makes Run handle the same message again: committing a later offset
// would also commit this one, so the loop never moves past it.
type HandlerFunc func(ctx context.Context, msg kafkago.Message) error

const defaultRedeliverDelay = time.Second

// Run fetches and dispatches messages until ctx is cancelled. A failing
// message is retried every redeliverAfter until it succeeds.
func Run(ctx context.Context, reader MessageReader, handle HandlerFunc, redeliverAfter time.Duration, log *zap.Logger) {
	if redeliverAfter <= 0 {
		redeliverAfter = defaultRedeliverDelay
	}
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if !handleUntilDone(ctx, msg, handle, redeliverAfter, log) {
			log.Info("consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// handleUntilDone reports false when ctx ended before msg was handled.
func handleUntilDone(ctx context.Context, msg kafkago.Message, handle HandlerFunc, delay time.Duration, log *zap.Logger) bool {
	for {
		err := handle(ctx, msg)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		log.Error("handle message failed, retrying",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}

// RetryPolicy bounds how often a handler retries one event. The delay
// doubles after every failed attempt.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	return p
}

// Do calls fn until it succeeds, fails permanently or the attempts run out.
// It returns the number of attempts made and the last error.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	p = p.withDefaults()
	delay := p.Backoff

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil || Permanent(err) || attempt >= p.Attempts {
			return attempt, err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

// Permanent reports whether retrying err cannot help: business rule
// rejections carry a client status below 500.
func Permanent(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus > 0 && appErr.HTTPStatus < http.StatusInternalServerError
}
