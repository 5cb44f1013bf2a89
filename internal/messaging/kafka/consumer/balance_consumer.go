package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/techmajster/saas-leave-system/internal/balance"
	"github.com/techmajster/saas-leave-system/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=balance_consumer.go -destination=mock/balance_consumer_mock.go -package=mock
type BalanceApplier interface {
	ApplyApproval(ctx context.Context, in balance.ApplyApprovalInput) (balance.ApplyResult, error)
	RecordFailure(ctx context.Context, in balance.ApplyApprovalInput, reason string) error
}

// BalanceConsumer charges approved leave requests to balances. Approvals
// that still fail after the retry policy is exhausted are recorded as
// reconciliation entries instead of being dropped.
type BalanceConsumer struct {
	balances BalanceApplier
	policy   RetryPolicy
	logger   *zap.Logger
}

func NewBalanceConsumer(balances BalanceApplier, policy RetryPolicy, logger *zap.Logger) *BalanceConsumer {
	return &BalanceConsumer{
		balances: balances,
		policy:   policy,
		logger:   logger.Named("kafka.consumer.balance"),
	}
}

func (c *BalanceConsumer) Run(ctx context.Context, reader MessageReader) {
	Run(ctx, reader, c.Handle, c.policy.withDefaults().Backoff, c.logger)
}

func (c *BalanceConsumer) Handle(ctx context.Context, msg kafkago.Message) error {
	eventType, err := events.TypeOf(msg.Value)
	if err != nil {
		c.logger.Error("decode event envelope failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}
	if eventType != events.LeaveRequestApproved {
		return nil
	}

	var ev events.LeaveRequestApprovedEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		c.logger.Error("decode approved event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}
	days, err := decimal.NewFromString(ev.Days)
	if err != nil {
		c.logger.Error("approved event has invalid days",
			zap.String("leave_request_id", ev.LeaveRequestID),
			zap.String("days", ev.Days),
		)
		return nil
	}

	in := balance.ApplyApprovalInput{
		RequestID:      ev.LeaveRequestID,
		UserID:         ev.UserID,
		LeaveTypeID:    ev.LeaveTypeID,
		OrganizationID: ev.OrganizationID,
		Days:           days,
		Year:           ev.Year,
		Enforce:        ev.Enforce,
	}

	var result balance.ApplyResult
	attempts, err := c.policy.Do(ctx, func(ctx context.Context) error {
		var applyErr error
		result, applyErr = c.balances.ApplyApproval(ctx, in)
		return applyErr
	})
	if err == nil {
		c.logger.Info("approval charged",
			zap.String("leave_request_id", ev.LeaveRequestID),
			zap.Bool("applied", result.Applied),
			zap.String("skipped", result.Skipped),
		)
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	reason := fmt.Sprintf("%s (after %d attempts)", err.Error(), attempts)
	if _, recErr := c.policy.Do(ctx, func(ctx context.Context) error {
		return c.balances.RecordFailure(ctx, in, reason)
	}); recErr != nil {
		return fmt.Errorf("record reconciliation for %s: %w", ev.LeaveRequestID, recErr)
	}
	c.logger.Warn("approval moved to reconciliation",
		zap.String("leave_request_id", ev.LeaveRequestID),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
	return nil
}
