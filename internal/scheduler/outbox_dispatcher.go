package scheduler

import (
	"context"
	"time"

	"chauffeurtop_backend/internal/notification/outbox"
	"chauffeurtop_backend/platform/config"
	"chauffeurtop_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	outboxPollInterval = 2 * time.Second
	staleSweepInterval = time.Hour
	outboxClaimBatch   = 50
)

// OutboxDispatcher moves due outbox rows onto the asynq queue and fires
// the hourly stale-quote sweep.
type OutboxDispatcher struct {
	client *Client
	repo   *outbox.Repository
	log    *logger.Logger
}

func NewOutboxDispatcher(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*OutboxDispatcher, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &OutboxDispatcher{
		client: client,
		repo:   outbox.New(pool),
		log:    log,
	}, nil
}

func (d *OutboxDispatcher) Close() error {
	return d.client.Close()
}

// Run polls until the context is cancelled. A claim failure is logged and
// retried on the next tick; records that fail to enqueue are put back to
// pending so a later tick picks them up again.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil || d.repo == nil {
		return
	}

	claimTicker := time.NewTicker(outboxPollInterval)
	defer claimTicker.Stop()
	sweepTicker := time.NewTicker(staleSweepInterval)
	defer sweepTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweepTicker.C:
			if err := d.client.EnqueueStaleQuoteSweep(ctx); err != nil {
				d.log.Warn("failed to enqueue stale quote sweep", "error", err)
			}
		case <-claimTicker.C:
			d.dispatchDue(ctx)
		}
	}
}

func (d *OutboxDispatcher) dispatchDue(ctx context.Context) {
	records, err := d.repo.ClaimPending(ctx, outboxClaimBatch)
	if err != nil {
		d.log.Warn("outbox claim failed", "error", err)
		return
	}

	for _, rec := range records {
		if err := d.client.EnqueueOutboxDue(ctx, rec.ID.String(), rec.RunAt); err != nil {
			msg := err.Error()
			_ = d.repo.MarkPending(ctx, rec.ID, &msg)
			d.log.Warn("failed to enqueue outbox record", "outboxId", rec.ID, "error", err)
		}
	}
}
