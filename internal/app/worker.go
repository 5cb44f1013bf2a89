package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/techmajster/saas-leave-system/internal/config"
	"github.com/techmajster/saas-leave-system/internal/messaging/kafka"
	"github.com/techmajster/saas-leave-system/internal/messaging/kafka/producer"
	"github.com/techmajster/saas-leave-system/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker drains the outbox into Kafka until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

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

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	dispatcher := producer.NewDispatcher(
		kafka.NewOutboxRepository(db),
		kafkaWriter,
		producer.Options{
			PollInterval: cfg.OutboxPollEvery,
			BatchSize:    cfg.OutboxBatchSize,
			MaxRetries:   cfg.OutboxMaxRetries,
		},
		zap.L(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher.Run(ctx)

	logger.Info("worker shutting down")
	return nil
}
