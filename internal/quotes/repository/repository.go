package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chauffeurtop_backend/internal/quotes/domain"
	"chauffeurtop_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Quote is the database model for a quote request and everything that
// happens to it afterwards. Money is whole cents.
type Quote struct {
	ID                uuid.UUID              `db:"id"`
	Status            domain.Status          `db:"status"`
	Name              string                 `db:"name"`
	Email             string                 `db:"email"`
	Phone             string                 `db:"phone"`
	Passengers        int                    `db:"passengers"`
	Luggage           *string                `db:"luggage"`
	VehiclePreference *string                `db:"vehicle_preference"`
	Notes             *string                `db:"notes"`
	PickupLocation    string                 `db:"pickup_location"`
	Destinations      domain.Destinations    `db:"destinations"`
	TripDate          string                 `db:"trip_date"`
	TripTime          string                 `db:"trip_time"`
	City              string                 `db:"city"`
	Timezone          string                 `db:"timezone"`
	PickupAt          *time.Time             `db:"pickup_at"`
	PriceCents        *int64                 `db:"quoted_price_cents"`
	PriceBreakdown    *domain.PriceBreakdown `db:"price_breakdown"`
	ResponseMessage   *string                `db:"response_message"`
	ConfirmationToken *string                `db:"confirmation_token"`
	ConfirmedAt       *time.Time             `db:"confirmed_at"`
	ReminderCount     int                    `db:"reminder_count"`
	LastReminderSent  *time.Time             `db:"last_reminder_sent"`
	FollowUpCount     int                    `db:"follow_up_count"`
	LastFollowUpAt    *time.Time             `db:"last_follow_up_at"`
	RespondedAt       *time.Time             `db:"responded_at"`
	Source            *string                `db:"source"`
	UTMSource         *string                `db:"utm_source"`
	UTMMedium         *string                `db:"utm_medium"`
	UTMCampaign       *string                `db:"utm_campaign"`
	CreatedAt         time.Time              `db:"created_at"`
	UpdatedAt         time.Time              `db:"updated_at"`
}

// ListParams contains parameters for listing quotes
type ListParams struct {
	Bucket    *domain.Bucket
	Status    *domain.Status
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult contains the paginated result of listing quotes
type ListResult struct {
	Items      []Quote
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// UpdatePricingParams carries a re-priced quote back to storage. The
// confirmation token is always replaced so any previously mailed link
// stops working.
type UpdatePricingParams struct {
	ID                uuid.UUID
	Status            domain.Status
	PriceCents        int64
	Breakdown         domain.PriceBreakdown
	ResponseMessage   *string
	ConfirmationToken string
	RespondedAt       *time.Time // nil leaves the existing value untouched
}

// ── Repository ────────────────────────────────────────────────────────────────

const quoteNotFoundMsg = "quote not found"

const quoteColumns = `id, status, name, email, phone, passengers, luggage, vehicle_preference,
	notes, pickup_location, destinations, trip_date, trip_time, city, timezone, pickup_at,
	quoted_price_cents, price_breakdown, response_message, confirmation_token, confirmed_at,
	reminder_count, last_reminder_sent, follow_up_count, last_follow_up_at, responded_at,
	source, utm_source, utm_medium, utm_campaign, created_at, updated_at`

// Repository provides database operations for quotes
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	err := row.Scan(
		&q.ID, &q.Status, &q.Name, &q.Email, &q.Phone, &q.Passengers, &q.Luggage, &q.VehiclePreference,
		&q.Notes, &q.PickupLocation, &q.Destinations, &q.TripDate, &q.TripTime, &q.City, &q.Timezone, &q.PickupAt,
		&q.PriceCents, &q.PriceBreakdown, &q.ResponseMessage, &q.ConfirmationToken, &q.ConfirmedAt,
		&q.ReminderCount, &q.LastReminderSent, &q.FollowUpCount, &q.LastFollowUpAt, &q.RespondedAt,
		&q.Source, &q.UTMSource, &q.UTMMedium, &q.UTMCampaign, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserts a new quote request
func (r *Repository) Create(ctx context.Context, quote *Quote) error {
	query := `
		INSERT INTO quotes (
			id, status, name, email, phone, passengers, luggage, vehicle_preference,
			notes, pickup_location, destinations, trip_date, trip_time, city, timezone, pickup_at,
			source, utm_source, utm_medium, utm_campaign, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	if _, err := r.pool.Exec(ctx, query,
		quote.ID, quote.Status, quote.Name, quote.Email, quote.Phone,
		quote.Passengers, quote.Luggage, quote.VehiclePreference,
		quote.Notes, quote.PickupLocation, quote.Destinations,
		quote.TripDate, quote.TripTime, quote.City, quote.Timezone, quote.PickupAt,
		quote.Source, quote.UTMSource, quote.UTMMedium, quote.UTMCampaign,
		quote.CreatedAt, quote.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// GetByID retrieves a quote by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	q, err := scanQuote(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return q, nil
}

// GetByToken retrieves a quote by its confirmation token
func (r *Repository) GetByToken(ctx context.Context, token string) (*Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE confirmation_token = $1`
	q, err := scanQuote(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get quote by token: %w", err)
	}
	return q, nil
}

// UpdateStatus moves a quote to a new status
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	query := `UPDATE quotes SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// UpdatePricing stores a freshly composed price, response message, status
// and a new confirmation token in one statement.
func (r *Repository) UpdatePricing(ctx context.Context, params UpdatePricingParams) error {
	query := `
		UPDATE quotes SET
			status = $2, quoted_price_cents = $3, price_breakdown = $4,
			response_message = COALESCE($5, response_message),
			confirmation_token = $6, confirmed_at = NULL,
			responded_at = COALESCE($7, responded_at),
			updated_at = $8
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		params.ID, params.Status, params.PriceCents, params.Breakdown,
		params.ResponseMessage, params.ConfirmationToken, params.RespondedAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update quote pricing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// RecordFollowUp bumps the engagement counters after a follow-up was
// actually dispatched. Reminders bump both counters.
func (r *Repository) RecordFollowUp(ctx context.Context, id uuid.UUID, reminder bool, at time.Time) error {
	query := `
		UPDATE quotes SET
			follow_up_count = follow_up_count + 1,
			last_follow_up_at = $2,
			reminder_count = reminder_count + CASE WHEN $3 THEN 1 ELSE 0 END,
			last_reminder_sent = CASE WHEN $3 THEN $2 ELSE last_reminder_sent END,
			updated_at = $2
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, at, reminder)
	if err != nil {
		return fmt.Errorf("failed to record follow-up: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// MarkConfirmed records the customer's confirmation. Only unconfirmed
// quotes match, so a second click does not move the timestamp.
func (r *Repository) MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE quotes SET status = $2, confirmed_at = $3, updated_at = $3
		WHERE id = $1 AND confirmed_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id, domain.StatusConfirmed, at)
	if err != nil {
		return fmt.Errorf("failed to mark quote confirmed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("quote already confirmed")
	}
	return nil
}

// Delete removes a quote (cascade deletes activities)
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// List retrieves quotes with filtering and pagination
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	sortBy, err := resolveSortBy(params.SortBy)
	if err != nil {
		return nil, err
	}
	sortOrder, err := resolveSortOrder(params.SortOrder)
	if err != nil {
		return nil, err
	}

	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	var statusParam interface{}
	if params.Status != nil {
		statusParam = string(*params.Status)
	}

	var bucketParam interface{}
	if params.Bucket != nil {
		bucketParam = string(*params.Bucket)
	}

	baseQuery := `
		FROM quotes
		WHERE ($1::text IS NULL OR status::text = $1)
			AND ($2::text IS NULL
				OR ($2 = 'quotes' AND status IN ('pending', 'contacted', 'quoted'))
				OR ($2 = 'upcoming' AND status = 'confirmed' AND pickup_at >= now())
				OR ($2 = 'bookings' AND status = 'confirmed' AND (pickup_at IS NULL OR pickup_at < now()))
				OR ($2 = 'history' AND status IN ('completed', 'cancelled', 'lost')))
			AND ($3::text IS NULL OR name ILIKE $3 OR email ILIKE $3 OR phone ILIKE $3 OR pickup_location ILIKE $3)
	`
	args := []interface{}{statusParam, bucketParam, searchParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `SELECT ` + quoteColumns + baseQuery + `
		ORDER BY
			CASE WHEN $4 = 'name' AND $5 = 'asc' THEN name END ASC,
			CASE WHEN $4 = 'name' AND $5 = 'desc' THEN name END DESC,
			CASE WHEN $4 = 'status' AND $5 = 'asc' THEN status::text END ASC,
			CASE WHEN $4 = 'status' AND $5 = 'desc' THEN status::text END DESC,
			CASE WHEN $4 = 'total' AND $5 = 'asc' THEN quoted_price_cents END ASC,
			CASE WHEN $4 = 'total' AND $5 = 'desc' THEN quoted_price_cents END DESC,
			CASE WHEN $4 = 'pickupAt' AND $5 = 'asc' THEN pickup_at END ASC,
			CASE WHEN $4 = 'pickupAt' AND $5 = 'desc' THEN pickup_at END DESC,
			CASE WHEN $4 = 'createdAt' AND $5 = 'asc' THEN created_at END ASC,
			CASE WHEN $4 = 'createdAt' AND $5 = 'desc' THEN created_at END DESC,
			created_at DESC
		LIMIT $6 OFFSET $7`

	args = append(args, sortBy, sortOrder, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var items []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// StaleQuote is a slim projection of a quote that has sat in pending too
// long, used by the scheduler's sweep job.
type StaleQuote struct {
	ID        uuid.UUID
	Name      string
	City      string
	CreatedAt time.Time
}

// ListStalePending returns pending quotes created at or before the cutoff,
// oldest first.
func (r *Repository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]StaleQuote, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, city, created_at
		 FROM quotes
		 WHERE status = 'pending' AND created_at <= $1
		 ORDER BY created_at ASC
		 LIMIT $2`,
		cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale quotes: %w", err)
	}
	defer rows.Close()

	var results []StaleQuote
	for rows.Next() {
		var s StaleQuote
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stale quote: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stale quotes: %w", err)
	}
	return results, nil
}

func resolveSortBy(sortBy string) (string, error) {
	if sortBy == "" {
		return "createdAt", nil
	}
	switch sortBy {
	case "name", "status", "total", "pickupAt", "createdAt":
		return sortBy, nil
	default:
		return "", apperr.BadRequest("invalid sort field")
	}
}

func resolveSortOrder(sortOrder string) (string, error) {
	if sortOrder == "" {
		return "desc", nil
	}
	switch sortOrder {
	case "asc", "desc":
		return sortOrder, nil
	default:
		return "", apperr.BadRequest("invalid sort order")
	}
}
