package service

import (
	"context"
	"fmt"
	"time"

	"chauffeurtop_backend/internal/events"
	"chauffeurtop_backend/internal/quotes/domain"
	"chauffeurtop_backend/internal/quotes/repository"
	"chauffeurtop_backend/internal/quotes/transport"
	"chauffeurtop_backend/platform/apperr"
	"chauffeurtop_backend/platform/logger"
	"chauffeurtop_backend/platform/optimistic"

	"github.com/google/uuid"
)

// Notifier delivers customer-facing messages for quote lifecycle events.
// Implemented by the notification module; injected to avoid a cycle.
type Notifier interface {
	// SendQuoteResponse emails the customer their priced quote with the
	// confirmation link, plus a best-effort SMS when a number is present.
	SendQuoteResponse(ctx context.Context, quote *repository.Quote) error
	// SendFollowUp emails the customer a follow-up. previousPriceCents is
	// set for discount follow-ups so the template can show the old price.
	SendFollowUp(ctx context.Context, quote *repository.Quote, kind domain.FollowUpType, message string, previousPriceCents *int64) error
}

// Service implements quote management for the admin dashboard and the
// customer-facing confirmation flow.
type Service struct {
	repo     repository.Store
	notifier Notifier
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new quotes service
func New(repo repository.Store, notifier Notifier, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, bus: bus, log: log}
}

// Get returns a single quote by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return transport.ToQuoteResponse(quote, time.Now()), nil
}

// List returns a filtered, paginated page of quotes.
func (s *Service) List(ctx context.Context, req transport.ListQuotesRequest) (transport.QuoteListResponse, error) {
	params := repository.ListParams{
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 25
	}
	if req.Bucket != "" {
		b := domain.Bucket(req.Bucket)
		params.Bucket = &b
	}
	if req.Status != "" {
		st, err := domain.ParseStatus(req.Status)
		if err != nil {
			return transport.QuoteListResponse{}, apperr.Validation("invalid status filter")
		}
		params.Status = &st
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.QuoteListResponse{}, err
	}
	return transport.ToQuoteListResponse(result, time.Now()), nil
}

// Activities returns the activity log for a quote, newest first.
func (s *Service) Activities(ctx context.Context, id uuid.UUID) ([]transport.ActivityResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	activities, err := s.repo.ListActivities(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, transport.ToActivityResponse(a))
	}
	return out, nil
}

// UpdateStatus moves a quote to a new status. Any transition is allowed;
// staff use this to correct mistakes, so the status graph is not enforced.
// The update is applied optimistically: the caller gets the tentative
// quote back on success and the original state if the commit failed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req transport.UpdateStatusRequest) (transport.QuoteResponse, error) {
	newStatus, err := domain.ParseStatus(req.Status)
	if err != nil {
		return transport.QuoteResponse{}, apperr.Validation("invalid status")
	}

	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	fromStatus := quote.Status

	updated, err := optimistic.Update(ctx, *quote,
		func(q repository.Quote) repository.Quote {
			q.Status = newStatus
			q.UpdatedAt = time.Now()
			return q
		},
		func(ctx context.Context, q repository.Quote) error {
			return s.repo.UpdateStatus(ctx, q.ID, q.Status)
		},
	)
	if err != nil {
		return transport.ToQuoteResponse(&updated, time.Now()), err
	}

	s.logActivity(ctx, id, repository.ActivityStatusChanged,
		fmt.Sprintf("status changed from %s to %s", fromStatus, newStatus), &actorID)

	if s.bus != nil {
		s.bus.Publish(ctx, events.QuoteStatusChanged{
			BaseEvent:  events.NewBaseEvent(),
			QuoteID:    id,
			Name:       quote.Name,
			FromStatus: string(fromStatus),
			ToStatus:   string(newStatus),
			ActorID:    actorID,
		})
	}

	return transport.ToQuoteResponse(&updated, time.Now()), nil
}

// SendQuoteResponse composes a price from the request, persists it with a
// fresh confirmation token, then notifies the customer. The price commit
// and the email are sequential: an email failure leaves the quote priced
// and is reported back as a warning rather than rolled back.
func (s *Service) SendQuoteResponse(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req transport.QuoteResponseRequest) (transport.SendResponseResult, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.SendResponseResult{}, err
	}

	breakdown, err := ComputeBreakdown(req)
	if err != nil {
		return transport.SendResponseResult{}, err
	}

	now := time.Now()
	token := uuid.NewString()
	params := repository.UpdatePricingParams{
		ID:                id,
		Status:            domain.StatusContacted,
		PriceCents:        breakdown.TotalCents,
		Breakdown:         breakdown,
		ConfirmationToken: token,
		RespondedAt:       &now,
	}
	if req.Message != "" {
		params.ResponseMessage = &req.Message
	}
	if err := s.repo.UpdatePricing(ctx, params); err != nil {
		return transport.SendResponseResult{}, err
	}

	quote, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.SendResponseResult{}, err
	}

	s.logActivity(ctx, id, repository.ActivityResponseSent,
		fmt.Sprintf("quote response sent, total %d cents", breakdown.TotalCents), &actorID)

	result := transport.SendResponseResult{
		Quote:     transport.ToQuoteResponse(quote, time.Now()),
		EmailSent: true,
	}
	if err := s.notifier.SendQuoteResponse(ctx, quote); err != nil {
		result.EmailSent = false
		result.Warning = "quote saved but the customer email could not be sent"
		s.log.Error("quote response email failed", "quote_id", id, "error", err)
		s.logActivity(ctx, id, repository.ActivityNotificationErr,
			"quote response email failed: "+err.Error(), nil)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.QuoteResponseSent{
			BaseEvent:  events.NewBaseEvent(),
			QuoteID:    id,
			Name:       quote.Name,
			TotalCents: breakdown.TotalCents,
			EmailSent:  result.EmailSent,
			ActorID:    actorID,
		})
	}

	return result, nil
}

// Calculate runs the pricing composer without persisting anything.
func (s *Service) Calculate(req transport.CalculateRequest) (domain.PriceBreakdown, error) {
	return ComputeBreakdown(req)
}

// GetByToken returns the customer-facing view for a confirmation link.
func (s *Service) GetByToken(ctx context.Context, token string) (transport.PublicQuoteResponse, error) {
	quote, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return transport.PublicQuoteResponse{}, err
	}
	return transport.ToPublicQuoteResponse(quote), nil
}

// Confirm records the customer's acceptance of the quoted price. A second
// confirmation attempt returns a conflict so the page can show "already
// confirmed" instead of silently succeeding.
func (s *Service) Confirm(ctx context.Context, token string) (transport.PublicQuoteResponse, error) {
	quote, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return transport.PublicQuoteResponse{}, err
	}
	if quote.ConfirmedAt != nil {
		return transport.PublicQuoteResponse{}, apperr.Conflict("quote already confirmed")
	}
	if quote.PriceCents == nil {
		return transport.PublicQuoteResponse{}, apperr.Conflict("quote has no price to confirm")
	}

	now := time.Now()
	if err := s.repo.MarkConfirmed(ctx, quote.ID, now); err != nil {
		return transport.PublicQuoteResponse{}, err
	}

	s.logActivity(ctx, quote.ID, repository.ActivityConfirmed, "customer confirmed the booking", nil)

	quote, err = s.repo.GetByID(ctx, quote.ID)
	if err != nil {
		return transport.PublicQuoteResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.QuoteConfirmed{
			BaseEvent:  events.NewBaseEvent(),
			QuoteID:    quote.ID,
			Name:       quote.Name,
			Email:      quote.Email,
			TotalCents: *quote.PriceCents,
			PickupAt:   quote.PickupAt,
			City:       quote.City,
		})
	}

	return transport.ToPublicQuoteResponse(quote), nil
}

// Delete removes a quote and its activity log.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.QuoteDeleted{
			BaseEvent: events.NewBaseEvent(),
			QuoteID:   id,
			ActorID:   actorID,
		})
	}
	return nil
}

// logActivity writes a log entry, swallowing errors. The activity log is
// informational and must never fail the operation it describes.
func (s *Service) logActivity(ctx context.Context, quoteID uuid.UUID, kind, detail string, actorID *uuid.UUID) {
	var actor *string
	if actorID != nil {
		a := actorID.String()
		actor = &a
	}
	if err := s.repo.InsertActivity(ctx, &repository.Activity{
		QuoteID: quoteID,
		Kind:    kind,
		Detail:  detail,
		Actor:   actor,
	}); err != nil {
		s.log.Warn("failed to write quote activity", "quote_id", quoteID, "kind", kind, "error", err)
	}
}
