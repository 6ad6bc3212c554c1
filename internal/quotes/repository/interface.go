package repository

import (
	"context"
	"time"

	"chauffeurtop_backend/internal/quotes/domain"

	"github.com/google/uuid"
)

// QuoteReader provides read access to quotes.
type QuoteReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	GetByToken(ctx context.Context, token string) (*Quote, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// QuoteWriter provides write access to quotes.
type QuoteWriter interface {
	Create(ctx context.Context, quote *Quote) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
	UpdatePricing(ctx context.Context, params UpdatePricingParams) error
	RecordFollowUp(ctx context.Context, id uuid.UUID, reminder bool, at time.Time) error
	MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityLogger records and reads the per-quote activity log.
type ActivityLogger interface {
	InsertActivity(ctx context.Context, activity *Activity) error
	ListActivities(ctx context.Context, quoteID uuid.UUID) ([]Activity, error)
}

// Store combines all quote persistence concerns.
type Store interface {
	QuoteReader
	QuoteWriter
	ActivityLogger
}
