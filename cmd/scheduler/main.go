// The scheduler process runs the background side of the system: it
// dispatches due outbox records to the task queue, delivers them, and
// runs the hourly sweep for booking requests that have waited too long.
// It shares nothing with the API process except the database and Redis.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chauffeurtop_backend/internal/email"
	"chauffeurtop_backend/internal/notification"
	"chauffeurtop_backend/internal/scheduler"
	"chauffeurtop_backend/internal/sms"
	"chauffeurtop_backend/platform/config"
	"chauffeurtop_backend/platform/db"
	"chauffeurtop_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	sender := email.NewSenderFromConfig(cfg)
	smsClient := sms.NewClient(cfg, log)

	// The notification module is only used here for outbox delivery and
	// in-app digests; no event bus handlers are registered.
	notificationModule := notification.New(pool, sender, smsClient, cfg, log)
	defer notificationModule.Close()

	dispatcher, err := scheduler.NewOutboxDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to create outbox dispatcher", "error", err)
		panic("failed to create outbox dispatcher: " + err.Error())
	}
	defer dispatcher.Close()

	worker, err := scheduler.NewWorker(cfg, pool, notificationModule, notificationModule.InAppService(), log)
	if err != nil {
		log.Error("failed to create worker", "error", err)
		panic("failed to create worker: " + err.Error())
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dispatcher.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return worker.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("scheduler stopped with error", "error", err)
		panic("scheduler stopped with error: " + err.Error())
	}
	log.Info("scheduler shut down")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
