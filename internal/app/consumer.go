package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-attend/internal/bootstrap"
	"go-attend/internal/events"
	"go-attend/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	taskReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.TaskAssignedTopic,
		GroupID:        "go-attend-notifications",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer taskReader.Close()

	leaveReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.LeaveDecidedTopic,
		GroupID:        "go-attend-notifications",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer leaveReader.Close()

	audit := bootstrap.NewStdoutAuditLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeTaskAssigned(ctx, taskReader, audit, logger)
	go consumer.ConsumeLeaveDecided(ctx, leaveReader, audit, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
