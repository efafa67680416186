// Command weekly-summary builds last week's summary for every opted-in user
// and either queues it for the mail worker or sends it directly.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"fincheck/internal/config"
	"fincheck/internal/database"
	"fincheck/internal/finance"
	"fincheck/internal/logger"
	"fincheck/internal/mailer"
	"fincheck/internal/queue"
	"fincheck/internal/router"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Weekly summary error: %v", err)
	}
}

func run() error {
	log := logger.Named("weekly-summary")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return err
	}
	defer dbManager.Close()

	reports, err := router.NewServices(dbManager.DB()).Summaries.BuildWeeklySummaries(time.Now())
	if err != nil {
		return fmt.Errorf("failed to build summaries: %w", err)
	}
	log.Infow("built weekly summaries", "count", len(reports))
	if len(reports) == 0 {
		return nil
	}

	if cfg.AMQPURL != "" {
		return publish(ctx, cfg, reports)
	}
	return sendDirect(ctx, cfg, reports)
}

// publish hands every report to the mail worker through the broker.
func publish(ctx context.Context, cfg *config.Config, reports []finance.WeeklyReport) error {
	log := logger.Named("weekly-summary")

	client, err := queue.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.Named("queue"))
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer client.Close()

	for _, report := range reports {
		if err := client.PublishWeeklySummary(ctx, report); err != nil {
			return fmt.Errorf("failed to queue summary for user %s: %w", report.UserID, err)
		}
	}
	log.Infow("queued weekly summaries", "count", len(reports))
	return nil
}

// sendDirect mails the reports with bounded concurrency. A failed email is
// logged and does not stop the others.
func sendDirect(ctx context.Context, cfg *config.Config, reports []finance.WeeklyReport) error {
	log := logger.Named("weekly-summary")
	m := mailer.New(cfg, logger.Named("mailer"))

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.SummaryConcurrency, 1))
	for _, report := range reports {
		g.Go(func() error {
			msg, err := mailer.WeeklySummaryMessage(report, cfg.AppBaseURL)
			if err == nil {
				err = m.Send(gctx, msg)
			}
			if err != nil {
				failed.Add(1)
				log.Errorw("failed to send weekly summary", "user_id", report.UserID, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Infow("sent weekly summaries", "sent", int64(len(reports))-failed.Load(), "failed", failed.Load())
	return ctx.Err()
}
