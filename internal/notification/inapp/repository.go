// Package inapp stores the dashboard's notification feed. Notifications
// are shared by the whole operations team, so read state is global rather
// than per user.
package inapp

import (
	"context"
	"time"

	"chauffeurtop_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate      = "notification.inapp.repository.create"
	opList        = "notification.inapp.repository.list"
	opCountUnread = "notification.inapp.repository.count_unread"
	opMarkRead    = "notification.inapp.repository.mark_read"
	opMarkAllRead = "notification.inapp.repository.mark_all_read"

	errRepoNotConfigured = "in-app notification repository not configured"
)

type Notification struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	ResourceID   *uuid.UUID `json:"resourceId,omitempty"`
	ResourceType *string    `json:"resourceType,omitempty"`
	Category     string     `json:"category"`
	IsRead       bool       `json:"isRead"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type CreateParams struct {
	Title        string
	Content      string
	ResourceID   *uuid.UUID
	ResourceType *string
	Category     string
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if r == nil || r.pool == nil {
		return Notification{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}
	if p.Title == "" || p.Content == "" {
		return Notification{}, apperr.Validation("title and content are required").WithOp(opCreate)
	}

	category := p.Category
	if category == "" {
		category = "info"
	}

	var n Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO inapp_notifications (title, content, resource_id, resource_type, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, content, resource_id, resource_type, category, is_read, created_at`,
		p.Title, p.Content, p.ResourceID, p.ResourceType, category,
	).Scan(&n.ID, &n.Title, &n.Content, &n.ResourceID, &n.ResourceType, &n.Category, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return Notification{}, apperr.Wrap(apperr.KindInternal, "failed to create notification", err).WithOp(opCreate)
	}
	return n, nil
}

func (r *Repository) List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, resource_id, resource_type, category, is_read, created_at
		FROM inapp_notifications
		WHERE (NOT $1 OR is_read = false)
		ORDER BY created_at DESC
		LIMIT $2`,
		unreadOnly, limit,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list notifications", err).WithOp(opList)
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.ResourceID, &n.ResourceType, &n.Category, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan notification", err).WithOp(opList)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to iterate notifications", err).WithOp(opList)
	}
	return items, nil
}

func (r *Repository) CountUnread(ctx context.Context) (int, error) {
	if r == nil || r.pool == nil {
		return 0, apperr.Internal(errRepoNotConfigured).WithOp(opCountUnread)
	}

	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM inapp_notifications WHERE is_read = false`,
	).Scan(&count)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to count unread notifications", err).WithOp(opCountUnread)
	}
	return count, nil
}

func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkRead)
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE inapp_notifications SET is_read = true WHERE id = $1`, id,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark notification read", err).WithOp(opMarkRead)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("notification not found").WithOp(opMarkRead)
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkAllRead)
	}

	if _, err := r.pool.Exec(ctx,
		`UPDATE inapp_notifications SET is_read = true WHERE is_read = false`,
	); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark all notifications read", err).WithOp(opMarkAllRead)
	}
	return nil
}
