package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chauffeurtop_backend/internal/notification/inapp"
	"chauffeurtop_backend/internal/notification/outbox"
	quoterepo "chauffeurtop_backend/internal/quotes/repository"
	"chauffeurtop_backend/platform/config"
	"chauffeurtop_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxDeliveryAttempts = 5
	staleQuoteAge       = 48 * time.Hour
	staleSweepBatch     = 20
)

// OutboxDeliverer sends the email behind a claimed outbox record.
type OutboxDeliverer interface {
	DeliverOutboxRecord(ctx context.Context, rec outbox.Record) error
}

// InAppSender stores a notification for the dashboard.
type InAppSender interface {
	Send(ctx context.Context, p inapp.SendParams) error
}

// StaleQuoteLister finds quotes stuck in pending.
type StaleQuoteLister interface {
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]quoterepo.StaleQuote, error)
}

// Worker consumes asynq tasks: outbox email delivery and the stale-quote
// sweep. Delivery retries are driven by the outbox table, not asynq, so
// handlers return nil after recording the failure.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	outbox    *outbox.Repository
	deliverer OutboxDeliverer
	quotes    StaleQuoteLister
	inApp     InAppSender
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, deliverer OutboxDeliverer, inApp InAppSender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		outbox:    outbox.New(pool),
		deliverer: deliverer,
		quotes:    quoterepo.New(pool),
		inApp:     inApp,
		log:       log,
	}

	mux.HandleFunc(TaskNotificationOutboxDue, w.handleNotificationOutboxDue)
	mux.HandleFunc(TaskStaleQuoteSweep, w.handleStaleQuoteSweep)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
		return err
	}
	return nil
}

func (w *Worker) handleNotificationOutboxDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNotificationOutboxDuePayload(task)
	if err != nil {
		return err
	}

	outboxID, err := uuid.Parse(payload.OutboxID)
	if err != nil {
		return err
	}

	rec, err := w.outbox.GetByID(ctx, outboxID)
	if err != nil {
		return err
	}
	if rec.Status == outbox.StatusSucceeded || rec.Status == outbox.StatusFailed {
		return nil
	}

	if err := w.outbox.MarkProcessing(ctx, rec.ID); err != nil {
		return err
	}
	rec.Attempts++

	if err := w.deliverer.DeliverOutboxRecord(ctx, rec); err != nil {
		w.recordDeliveryFailure(ctx, rec, err)
		return nil
	}

	return w.outbox.MarkSucceeded(ctx, rec.ID)
}

// recordDeliveryFailure puts the record back to pending for another claim
// cycle, or parks it as failed once the attempt budget is spent.
func (w *Worker) recordDeliveryFailure(ctx context.Context, rec outbox.Record, deliveryErr error) {
	msg := deliveryErr.Error()
	if rec.Attempts >= maxDeliveryAttempts {
		w.log.Error("outbox delivery failed permanently",
			"outboxId", rec.ID, "template", rec.Template, "attempts", rec.Attempts, "error", deliveryErr)
		if err := w.outbox.MarkFailed(ctx, rec.ID, msg); err != nil {
			w.log.Error("failed to mark outbox record failed", "outboxId", rec.ID, "error", err)
		}
		return
	}

	w.log.Warn("outbox delivery failed, will retry",
		"outboxId", rec.ID, "template", rec.Template, "attempts", rec.Attempts, "error", deliveryErr)
	if err := w.outbox.MarkPending(ctx, rec.ID, &msg); err != nil {
		w.log.Error("failed to requeue outbox record", "outboxId", rec.ID, "error", err)
	}
}

func (w *Worker) handleStaleQuoteSweep(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().Add(-staleQuoteAge)
	stale, err := w.quotes.ListStalePending(ctx, cutoff, staleSweepBatch)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	names := make([]string, 0, len(stale))
	for _, s := range stale {
		names = append(names, s.Name)
	}

	oldest := &stale[0]
	return w.inApp.Send(ctx, inapp.SendParams{
		Title:        "Quotes waiting on a response",
		Content:      fmt.Sprintf("%d booking requests have waited over 48 hours: %s", len(stale), strings.Join(names, ", ")),
		ResourceID:   &oldest.ID,
		ResourceType: "quote",
		Category:     "warning",
	})
}
