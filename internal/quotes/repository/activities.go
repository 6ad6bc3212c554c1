package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Activity is one entry in a quote's activity log.
type Activity struct {
	ID        uuid.UUID `db:"id"`
	QuoteID   uuid.UUID `db:"quote_id"`
	Kind      string    `db:"kind"`
	Detail    string    `db:"detail"`
	Actor     *string   `db:"actor"`
	CreatedAt time.Time `db:"created_at"`
}

// Activity kinds written by the service layer.
const (
	ActivityBookingReceived = "booking_received"
	ActivityStatusChanged   = "status_changed"
	ActivityResponseSent    = "response_sent"
	ActivityFollowUp        = "follow_up"
	ActivityConfirmed       = "confirmed"
	ActivityNotificationErr = "notification_error"
)

// InsertActivity appends an entry to the quote's activity log
func (r *Repository) InsertActivity(ctx context.Context, activity *Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO quote_activities (id, quote_id, kind, detail, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.pool.Exec(ctx, query,
		activity.ID, activity.QuoteID, activity.Kind, activity.Detail, activity.Actor, activity.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert quote activity: %w", err)
	}
	return nil
}

// ListActivities retrieves the activity log for a quote, newest first
func (r *Repository) ListActivities(ctx context.Context, quoteID uuid.UUID) ([]Activity, error) {
	query := `
		SELECT id, quote_id, kind, detail, actor, created_at
		FROM quote_activities
		WHERE quote_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.QuoteID, &a.Kind, &a.Detail, &a.Actor, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote activities: %w", err)
	}
	return activities, nil
}
