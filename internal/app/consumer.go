package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/techmajster/saas-leave-system/internal/balance"
	"github.com/techmajster/saas-leave-system/internal/config"
	"github.com/techmajster/saas-leave-system/internal/events"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/membership"
	"github.com/techmajster/saas-leave-system/internal/messaging/kafka/consumer"
	"github.com/techmajster/saas-leave-system/internal/notification"
	"github.com/techmajster/saas-leave-system/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunConsumer runs the balance and notification consumers of the leave
// request topic. Each has its own consumer group so one falling behind never
// holds back the other.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	db, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	sender, err := newSender(cfg, zap.L())
	if err != nil {
		return err
	}

	membershipRepo := membership.NewRepository(db)
	membershipService := membership.NewService(membershipRepo)
	leaveTypeRepo := leavetype.NewRepository(db)
	balanceService := balance.NewService(db, balance.NewRepository(db), leaveTypeRepo, membershipService)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, nil, membershipService, balanceService)
	notificationService := notification.NewService(notification.NewRepository(db), membershipRepo, leaveTypeService, sender)

	policy := consumer.RetryPolicy{Attempts: cfg.DispatchAttempts, Backoff: cfg.DispatchBackoff}
	balanceConsumer := consumer.NewBalanceConsumer(balanceService, policy, zap.L())
	notificationConsumer := consumer.NewNotificationConsumer(notificationService, policy, zap.L())

	balanceReader := connection.NewKafkaReader(cfg.KafkaBroker, events.LeaveRequestsTopic, cfg.KafkaGroupPrefix+"-balance")
	defer balanceReader.Close()
	notificationReader := connection.NewKafkaReader(cfg.KafkaBroker, events.LeaveRequestsTopic, cfg.KafkaGroupPrefix+"-notification")
	defer notificationReader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, run := range []struct {
		reader *kafkago.Reader
		fn     func(context.Context, consumer.MessageReader)
	}{
		{balanceReader, balanceConsumer.Run},
		{notificationReader, notificationConsumer.Run},
	} {
		run := run
		g.Go(func() error {
			run.fn(gctx, run.reader)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("consumer shutting down")
	return err
}
