package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chauffeurtop_backend/internal/quotes/domain"
	"chauffeurtop_backend/internal/quotes/repository"
	"chauffeurtop_backend/internal/quotes/transport"
	"chauffeurtop_backend/platform/apperr"
	"chauffeurtop_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore is an in-memory repository.Store for service tests.
type fakeStore struct {
	quotes     map[uuid.UUID]*repository.Quote
	activities []repository.Activity

	failUpdateStatus  bool
	failUpdatePricing bool
	failRecord        bool
}

func newFakeStore(quotes ...*repository.Quote) *fakeStore {
	s := &fakeStore{quotes: make(map[uuid.UUID]*repository.Quote)}
	for _, q := range quotes {
		s.quotes[q.ID] = q
	}
	return s
}

func (s *fakeStore) Create(_ context.Context, q *repository.Quote) error {
	s.quotes[q.ID] = q
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Quote, error) {
	q, ok := s.quotes[id]
	if !ok {
		return nil, apperr.NotFound("quote not found")
	}
	copied := *q
	return &copied, nil
}

func (s *fakeStore) GetByToken(_ context.Context, token string) (*repository.Quote, error) {
	for _, q := range s.quotes {
		if q.ConfirmationToken != nil && *q.ConfirmationToken == token {
			copied := *q
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("quote not found")
}

func (s *fakeStore) List(_ context.Context, params repository.ListParams) (*repository.ListResult, error) {
	var items []repository.Quote
	for _, q := range s.quotes {
		items = append(items, *q)
	}
	return &repository.ListResult{
		Items:    items,
		Total:    len(items),
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) error {
	if s.failUpdateStatus {
		return errors.New("db down")
	}
	q, ok := s.quotes[id]
	if !ok {
		return apperr.NotFound("quote not found")
	}
	q.Status = status
	return nil
}

func (s *fakeStore) UpdatePricing(_ context.Context, params repository.UpdatePricingParams) error {
	if s.failUpdatePricing {
		return errors.New("db down")
	}
	q, ok := s.quotes[params.ID]
	if !ok {
		return apperr.NotFound("quote not found")
	}
	q.Status = params.Status
	price := params.PriceCents
	q.PriceCents = &price
	breakdown := params.Breakdown
	q.PriceBreakdown = &breakdown
	if params.ResponseMessage != nil {
		q.ResponseMessage = params.ResponseMessage
	}
	token := params.ConfirmationToken
	q.ConfirmationToken = &token
	q.ConfirmedAt = nil
	if params.RespondedAt != nil {
		q.RespondedAt = params.RespondedAt
	}
	return nil
}

func (s *fakeStore) RecordFollowUp(_ context.Context, id uuid.UUID, reminder bool, at time.Time) error {
	if s.failRecord {
		return errors.New("db down")
	}
	q, ok := s.quotes[id]
	if !ok {
		return apperr.NotFound("quote not found")
	}
	q.FollowUpCount++
	q.LastFollowUpAt = &at
	if reminder {
		q.ReminderCount++
		q.LastReminderSent = &at
	}
	return nil
}

func (s *fakeStore) MarkConfirmed(_ context.Context, id uuid.UUID, at time.Time) error {
	q, ok := s.quotes[id]
	if !ok {
		return apperr.NotFound("quote not found")
	}
	if q.ConfirmedAt != nil {
		return apperr.Conflict("quote already confirmed")
	}
	q.Status = domain.StatusConfirmed
	q.ConfirmedAt = &at
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.quotes[id]; !ok {
		return apperr.NotFound("quote not found")
	}
	delete(s.quotes, id)
	return nil
}

func (s *fakeStore) InsertActivity(_ context.Context, a *repository.Activity) error {
	s.activities = append(s.activities, *a)
	return nil
}

func (s *fakeStore) ListActivities(_ context.Context, quoteID uuid.UUID) ([]repository.Activity, error) {
	var out []repository.Activity
	for _, a := range s.activities {
		if a.QuoteID == quoteID {
			out = append(out, a)
		}
	}
	return out, nil
}

// fakeNotifier records dispatches and can be told to fail.
type fakeNotifier struct {
	responseErr error
	followUpErr error

	responses []uuid.UUID
	followUps []domain.FollowUpType
}

func (n *fakeNotifier) SendQuoteResponse(_ context.Context, q *repository.Quote) error {
	if n.responseErr != nil {
		return n.responseErr
	}
	n.responses = append(n.responses, q.ID)
	return nil
}

func (n *fakeNotifier) SendFollowUp(_ context.Context, q *repository.Quote, kind domain.FollowUpType, _ string, _ *int64) error {
	if n.followUpErr != nil {
		return n.followUpErr
	}
	n.followUps = append(n.followUps, kind)
	return nil
}

func testQuote() *repository.Quote {
	return &repository.Quote{
		ID:             uuid.New(),
		Status:         domain.StatusPending,
		Name:           "Ava Nguyen",
		Email:          "ava@example.com",
		Phone:          "+61412345678",
		Passengers:     2,
		PickupLocation: "Sydney Airport T1",
		Destinations: domain.Destinations{
			Type:  domain.TripTypeOneWay,
			Stops: []string{"Sydney Airport T1", "Circular Quay"},
		},
		TripDate:  "2026-10-01",
		TripTime:  "14:30",
		City:      "Sydney",
		Timezone:  "Australia/Sydney",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func newTestService(store *fakeStore, notifier *fakeNotifier) *Service {
	return New(store, notifier, nil, logger.New("development"))
}

func TestSendQuoteResponse_PersistsPriceAndToken(t *testing.T) {
	quote := testQuote()
	store := newFakeStore(quote)
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	result, err := svc.SendQuoteResponse(context.Background(), quote.ID, uuid.New(), transport.QuoteResponseRequest{
		BasePriceCents: 15000,
		Message:        "Thanks for your request, here is our price.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.EmailSent {
		t.Fatal("expected email to be sent")
	}
	stored := store.quotes[quote.ID]
	if stored.Status != domain.StatusContacted {
		t.Fatalf("expected status contacted, got %s", stored.Status)
	}
	if stored.PriceCents == nil || *stored.PriceCents != 15000 {
		t.Fatalf("expected price 15000, got %v", stored.PriceCents)
	}
	if stored.ConfirmationToken == nil || *stored.ConfirmationToken == "" {
		t.Fatal("expected a confirmation token to be minted")
	}
	if stored.RespondedAt == nil {
		t.Fatal("expected responded_at to be set")
	}
	if len(notifier.responses) != 1 {
		t.Fatalf("expected 1 response email, got %d", len(notifier.responses))
	}
}

func TestSendQuoteResponse_EmailFailureKeepsPrice(t *testing.T) {
	quote := testQuote()
	store := newFakeStore(quote)
	notifier := &fakeNotifier{responseErr: errors.New("smtp down")}
	svc := newTestService(store, notifier)

	result, err := svc.SendQuoteResponse(context.Background(), quote.ID, uuid.New(), transport.QuoteResponseRequest{
		BasePriceCents: 15000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.EmailSent {
		t.Fatal("expected emailSent to be false")
	}
	if result.Warning == "" {
		t.Fatal("expected a warning about the failed email")
	}
	// The price commit is not rolled back; staff can re-send manually.
	stored := store.quotes[quote.ID]
	if stored.PriceCents == nil || *stored.PriceCents != 15000 {
		t.Fatalf("expected price to stay persisted, got %v", stored.PriceCents)
	}
}

func TestUpdateStatus_RollsBackOnCommitFailure(t *testing.T) {
	quote := testQuote()
	store := newFakeStore(quote)
	store.failUpdateStatus = true
	svc := newTestService(store, &fakeNotifier{})

	result, err := svc.UpdateStatus(context.Background(), quote.ID, uuid.New(), transport.UpdateStatusRequest{
		Status: "confirmed",
	})
	if err == nil {
		t.Fatal("expected an error")
	}

	// The caller gets the original state back, not the tentative one.
	if result.Status != string(domain.StatusPending) {
		t.Fatalf("expected rolled-back status pending, got %s", result.Status)
	}
	if store.quotes[quote.ID].Status != domain.StatusPending {
		t.Fatalf("expected stored status pending, got %s", store.quotes[quote.ID].Status)
	}
}

func TestUpdateStatus_AnyTransitionAllowed(t *testing.T) {
	quote := testQuote()
	quote.Status = domain.StatusCompleted
	store := newFakeStore(quote)
	svc := newTestService(store, &fakeNotifier{})

	// Completed back to pending is a staff correction, not an error.
	result, err := svc.UpdateStatus(context.Background(), quote.ID, uuid.New(), transport.UpdateStatusRequest{
		Status: "pending",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != string(domain.StatusPending) {
		t.Fatalf("expected status pending, got %s", result.Status)
	}
}

func TestConfirm_SetsConfirmedOnce(t *testing.T) {
	quote := testQuote()
	token := uuid.NewString()
	price := int64(15000)
	quote.Status = domain.StatusContacted
	quote.ConfirmationToken = &token
	quote.PriceCents = &price
	store := newFakeStore(quote)
	svc := newTestService(store, &fakeNotifier{})

	result, err := svc.Confirm(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Confirmed {
		t.Fatal("expected confirmed response")
	}
	if store.quotes[quote.ID].Status != domain.StatusConfirmed {
		t.Fatalf("expected status confirmed, got %s", store.quotes[quote.ID].Status)
	}

	if _, err := svc.Confirm(context.Background(), token); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second confirm, got %v", err)
	}
}

func TestConfirm_UnpricedQuoteRejected(t *testing.T) {
	quote := testQuote()
	token := uuid.NewString()
	quote.ConfirmationToken = &token
	store := newFakeStore(quote)
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.Confirm(context.Background(), token); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestConfirm_UnknownTokenNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeNotifier{})
	if _, err := svc.Confirm(context.Background(), "no-such-token"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
