// Package exports streams quote data as CSV for offline reporting.
package exports

import (
	"context"
	"fmt"
	"time"

	"chauffeurtop_backend/internal/quotes/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuoteExportRow is the flat projection written to the CSV.
type QuoteExportRow struct {
	ID             uuid.UUID
	Status         string
	Name           string
	Email          string
	Phone          string
	City           string
	PickupLocation string
	Destinations   domain.Destinations
	TripDate       string
	TripTime       string
	PickupAt       *time.Time
	Passengers     int
	PriceCents     *int64
	ConfirmedAt    *time.Time
	FollowUpCount  int
	ReminderCount  int
	Source         *string
	UTMSource      *string
	UTMCampaign    *string
	CreatedAt      time.Time
}

// ExportParams filters the export. Zero values mean no filter.
type ExportParams struct {
	Status   *domain.Status
	FromDate time.Time
	ToDate   time.Time
	Limit    int
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListForExport returns quotes in the created_at window, oldest first so
// re-runs with the same range produce identical files.
func (r *Repository) ListForExport(ctx context.Context, params ExportParams) ([]QuoteExportRow, error) {
	var statusParam interface{}
	if params.Status != nil {
		statusParam = string(*params.Status)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, status, name, email, phone, city, pickup_location, destinations,
		        trip_date, trip_time, pickup_at, passengers, quoted_price_cents,
		        confirmed_at, follow_up_count, reminder_count, source, utm_source,
		        utm_campaign, created_at
		 FROM quotes
		 WHERE ($1::text IS NULL OR status::text = $1)
		   AND created_at >= $2 AND created_at <= $3
		 ORDER BY created_at ASC
		 LIMIT $4`,
		statusParam, params.FromDate, params.ToDate, params.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes for export: %w", err)
	}
	defer rows.Close()

	var results []QuoteExportRow
	for rows.Next() {
		var row QuoteExportRow
		err := rows.Scan(
			&row.ID, &row.Status, &row.Name, &row.Email, &row.Phone, &row.City,
			&row.PickupLocation, &row.Destinations, &row.TripDate, &row.TripTime,
			&row.PickupAt, &row.Passengers, &row.PriceCents, &row.ConfirmedAt,
			&row.FollowUpCount, &row.ReminderCount, &row.Source, &row.UTMSource,
			&row.UTMCampaign, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate export rows: %w", err)
	}
	return results, nil
}
