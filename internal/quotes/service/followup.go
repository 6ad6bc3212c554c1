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

	"github.com/google/uuid"
)

// FollowUp executes one of the follow-up actions on a quote. Counters,
// token rotation and status changes are only persisted after the customer
// email actually went out; a dispatch failure leaves the quote untouched
// so staff can simply retry.
func (s *Service) FollowUp(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req transport.FollowUpRequest) (transport.FollowUpResponse, error) {
	kind, err := domain.ParseFollowUpType(req.Type)
	if err != nil {
		return transport.FollowUpResponse{}, apperr.Validation("invalid follow-up type")
	}

	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.FollowUpResponse{}, err
	}

	switch kind {
	case domain.FollowUpCall:
		return s.followUpCall(ctx, quote, actorID, req)
	case domain.FollowUpLost:
		return s.followUpLost(ctx, quote, actorID, req)
	case domain.FollowUpDiscount:
		return s.followUpDiscount(ctx, quote, actorID, req)
	case domain.FollowUpPersonal:
		if req.Message == "" {
			return transport.FollowUpResponse{}, apperr.Validation("a personal follow-up needs a message")
		}
		return s.followUpEmail(ctx, quote, actorID, kind, req.Message)
	default: // reminder
		if quote.PriceCents == nil {
			return transport.FollowUpResponse{}, apperr.Conflict("cannot send a reminder before the quote is priced")
		}
		return s.followUpEmail(ctx, quote, actorID, kind, req.Message)
	}
}

// followUpCall logs the call. No email, no counters.
func (s *Service) followUpCall(ctx context.Context, quote *repository.Quote, actorID uuid.UUID, req transport.FollowUpRequest) (transport.FollowUpResponse, error) {
	detail := "customer called"
	if req.Note != "" {
		detail = "customer called: " + req.Note
	}
	s.logActivity(ctx, quote.ID, repository.ActivityFollowUp, detail, &actorID)
	s.publishFollowUp(ctx, quote, domain.FollowUpCall, false, actorID)
	return transport.FollowUpResponse{
		Quote:     transport.ToQuoteResponse(quote, time.Now()),
		EmailSent: false,
	}, nil
}

// followUpLost closes the quote out as lost. A courtesy email goes out
// only when the customer left an address; its failure does not undo the
// status change.
func (s *Service) followUpLost(ctx context.Context, quote *repository.Quote, actorID uuid.UUID, req transport.FollowUpRequest) (transport.FollowUpResponse, error) {
	if err := s.repo.UpdateStatus(ctx, quote.ID, domain.StatusLost); err != nil {
		return transport.FollowUpResponse{}, err
	}
	quote.Status = domain.StatusLost

	detail := "marked as lost"
	if req.Note != "" {
		detail = "marked as lost: " + req.Note
	}
	s.logActivity(ctx, quote.ID, repository.ActivityFollowUp, detail, &actorID)

	result := transport.FollowUpResponse{
		Quote:     transport.ToQuoteResponse(quote, time.Now()),
		EmailSent: false,
	}
	if quote.Email != "" {
		if err := s.notifier.SendFollowUp(ctx, quote, domain.FollowUpLost, req.Message, nil); err != nil {
			result.Warning = "quote marked as lost but the courtesy email could not be sent"
			s.log.Error("lost follow-up email failed", "quote_id", quote.ID, "error", err)
		} else {
			result.EmailSent = true
		}
	}

	s.publishFollowUp(ctx, quote, domain.FollowUpLost, result.EmailSent, actorID)
	return result, nil
}

// followUpDiscount re-prices the quote and re-sends it. The email carries
// a freshly minted confirmation link, so the new token and price are only
// committed once the email succeeded; on failure the old link stays valid.
func (s *Service) followUpDiscount(ctx context.Context, quote *repository.Quote, actorID uuid.UUID, req transport.FollowUpRequest) (transport.FollowUpResponse, error) {
	if req.Discount == nil {
		return transport.FollowUpResponse{}, apperr.Validation("a discount follow-up needs a discount")
	}
	if quote.PriceCents == nil {
		return transport.FollowUpResponse{}, apperr.Conflict("cannot discount a quote that has no price")
	}

	oldPrice := *quote.PriceCents
	newTotal, amount, err := DiscountedTotal(oldPrice, req.Discount)
	if err != nil {
		return transport.FollowUpResponse{}, err
	}

	// The discount applies to the previous total, so the stored breakdown
	// collapses to a single base line. Carrying the old base and extras
	// forward would leave a subtotal that no longer equals their sum once
	// the earlier discount is folded in.
	breakdown := domain.PriceBreakdown{
		BasePriceCents: oldPrice,
		SubtotalCents:  oldPrice,
		TotalCents:     newTotal,
		Discount: &domain.Discount{
			Type:        domain.DiscountType(req.Discount.Type),
			Value:       req.Discount.Value,
			AmountCents: amount,
			Reason:      req.Discount.Reason,
		},
	}

	token := uuid.NewString()
	tentative := *quote
	tentative.Status = domain.StatusContacted
	tentative.PriceCents = &newTotal
	tentative.PriceBreakdown = &breakdown
	tentative.ConfirmationToken = &token
	tentative.ConfirmedAt = nil

	if err := s.notifier.SendFollowUp(ctx, &tentative, domain.FollowUpDiscount, req.Message, &oldPrice); err != nil {
		s.log.Error("discount follow-up email failed", "quote_id", quote.ID, "error", err)
		return transport.FollowUpResponse{}, apperr.Wrap(apperr.KindUnavailable,
			"discount email could not be sent, quote left unchanged", err)
	}

	now := time.Now()
	if err := s.repo.UpdatePricing(ctx, repository.UpdatePricingParams{
		ID:                quote.ID,
		Status:            domain.StatusContacted,
		PriceCents:        newTotal,
		Breakdown:         breakdown,
		ConfirmationToken: token,
	}); err != nil {
		return transport.FollowUpResponse{}, err
	}
	if err := s.repo.RecordFollowUp(ctx, quote.ID, false, now); err != nil {
		return transport.FollowUpResponse{}, err
	}

	s.logActivity(ctx, quote.ID, repository.ActivityFollowUp,
		fmt.Sprintf("discount follow-up sent, price %d -> %d cents", oldPrice, newTotal), &actorID)

	updated, err := s.repo.GetByID(ctx, quote.ID)
	if err != nil {
		return transport.FollowUpResponse{}, err
	}
	s.publishFollowUp(ctx, updated, domain.FollowUpDiscount, true, actorID)
	return transport.FollowUpResponse{
		Quote:     transport.ToQuoteResponse(updated, time.Now()),
		EmailSent: true,
	}, nil
}

// followUpEmail handles reminder and personal follow-ups: send first,
// bump counters only when the email actually went out.
func (s *Service) followUpEmail(ctx context.Context, quote *repository.Quote, actorID uuid.UUID, kind domain.FollowUpType, message string) (transport.FollowUpResponse, error) {
	if quote.Email == "" {
		return transport.FollowUpResponse{}, apperr.Conflict("quote has no email address")
	}

	if err := s.notifier.SendFollowUp(ctx, quote, kind, message, nil); err != nil {
		s.log.Error("follow-up email failed", "quote_id", quote.ID, "type", string(kind), "error", err)
		return transport.FollowUpResponse{}, apperr.Wrap(apperr.KindUnavailable,
			"follow-up email could not be sent", err)
	}

	now := time.Now()
	if err := s.repo.RecordFollowUp(ctx, quote.ID, kind.IsReminder(), now); err != nil {
		return transport.FollowUpResponse{}, err
	}

	s.logActivity(ctx, quote.ID, repository.ActivityFollowUp,
		string(kind)+" follow-up sent", &actorID)

	updated, err := s.repo.GetByID(ctx, quote.ID)
	if err != nil {
		return transport.FollowUpResponse{}, err
	}
	s.publishFollowUp(ctx, updated, kind, true, actorID)
	return transport.FollowUpResponse{
		Quote:     transport.ToQuoteResponse(updated, time.Now()),
		EmailSent: true,
	}, nil
}

func (s *Service) publishFollowUp(ctx context.Context, quote *repository.Quote, kind domain.FollowUpType, emailSent bool, actorID uuid.UUID) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.FollowUpSent{
		BaseEvent: events.NewBaseEvent(),
		QuoteID:   quote.ID,
		Name:      quote.Name,
		Type:      string(kind),
		EmailSent: emailSent,
		ActorID:   actorID,
	})
}
