// Command mail-worker consumes queued weekly summaries and emails them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fincheck/internal/config"
	"fincheck/internal/logger"
	"fincheck/internal/mailer"
	"fincheck/internal/queue"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Mail worker error: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required")
	}

	client, err := queue.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.Named("queue"))
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer client.Close()

	m := mailer.New(cfg, logger.Named("mailer"))
	err = client.ConsumeWeeklySummaries(ctx, func(ctx context.Context, msg *queue.SummaryMessage) error {
		email, err := mailer.WeeklySummaryMessage(msg.Report, cfg.AppBaseURL)
		if err != nil {
			return err
		}
		return m.Send(ctx, email)
	})
	if errors.Is(err, context.Canceled) {
		logger.Get().Info("Mail worker stopped")
		return nil
	}
	return err
}
