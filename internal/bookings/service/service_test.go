package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chauffeurtop_backend/internal/bookings/transport"
	"chauffeurtop_backend/internal/quotes/domain"
	"chauffeurtop_backend/internal/quotes/repository"
	"chauffeurtop_backend/platform/apperr"
	"chauffeurtop_backend/platform/logger"
)

type fakeQuoteStore struct {
	created    []*repository.Quote
	activities []*repository.Activity
}

func (s *fakeQuoteStore) Create(_ context.Context, q *repository.Quote) error {
	s.created = append(s.created, q)
	return nil
}

func (s *fakeQuoteStore) InsertActivity(_ context.Context, a *repository.Activity) error {
	s.activities = append(s.activities, a)
	return nil
}

func newTestService(store *fakeQuoteStore) *Service {
	return New(store, nil, logger.New("development"))
}

func validBooking(pickupIn time.Duration) transport.BookingRequest {
	loc, _ := time.LoadLocation("Australia/Sydney")
	at := time.Now().In(loc).Add(pickupIn)
	return transport.BookingRequest{
		Name:         "Liam Carter",
		Email:        "Liam@Example.com",
		Phone:        "0412 345 678",
		Passengers:   3,
		TripType:     "one_way",
		Pickup:       "Sydney Airport T1",
		Destinations: []string{"Circular Quay, Sydney"},
		Date:         at.Format("2006-01-02"),
		Time:         at.Format("15:04"),
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	fields, ok := appErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("expected field details map, got %T", appErr.Details)
	}
	return fields
}

func TestCreate_StoresPendingQuote(t *testing.T) {
	store := &fakeQuoteStore{}
	svc := newTestService(store)

	result, err := svc.Create(context.Background(), validBooking(72*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(store.created))
	}
	quote := store.created[0]
	if quote.Status != domain.StatusPending {
		t.Fatalf("expected status pending, got %s", quote.Status)
	}
	if quote.Email != "liam@example.com" {
		t.Fatalf("expected lowercased email, got %q", quote.Email)
	}
	if quote.Phone != "+61412345678" {
		t.Fatalf("expected normalized phone, got %q", quote.Phone)
	}
	if quote.City != "Sydney" {
		t.Fatalf("expected detected city Sydney, got %q", quote.City)
	}
	if quote.PickupAt == nil {
		t.Fatal("expected pickup_at to be derived")
	}
	if result.Status != "pending" {
		t.Fatalf("expected pending response, got %s", result.Status)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}
	if len(store.activities) != 1 || store.activities[0].Kind != repository.ActivityBookingReceived {
		t.Fatalf("expected a booking_received activity, got %+v", store.activities)
	}
}

func TestCreate_PastDateRejected(t *testing.T) {
	store := &fakeQuoteStore{}
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), validBooking(-24*time.Hour))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if fields := fieldErrors(t, err); fields["date"] == "" {
		t.Fatalf("expected a date field error, got %v", fields)
	}
	if len(store.created) != 0 {
		t.Fatal("expected no quote to be stored")
	}
}

func TestCreate_ShortLeadTimeIsAdvisoryOnly(t *testing.T) {
	store := &fakeQuoteStore{}
	svc := newTestService(store)

	result, err := svc.Create(context.Background(), validBooking(30*time.Minute))
	if err != nil {
		t.Fatalf("expected the booking to be accepted, got %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected an advisory warning, got %v", result.Warnings)
	}
	if len(store.created) != 1 {
		t.Fatal("expected the quote to be stored despite the warning")
	}
}

func TestCreate_MissingFieldsReportedPerField(t *testing.T) {
	store := &fakeQuoteStore{}
	svc := newTestService(store)

	req := validBooking(72 * time.Hour)
	req.Pickup = ""
	req.Destinations = nil
	req.Phone = "123"

	_, err := svc.Create(context.Background(), req)
	fields := fieldErrors(t, err)
	for _, name := range []string{"pickup", "destinations", "phone"} {
		if fields[name] == "" {
			t.Fatalf("expected %s field error, got %v", name, fields)
		}
	}
}

func TestCreate_ReturnTripNeedsBothLegs(t *testing.T) {
	store := &fakeQuoteStore{}
	svc := newTestService(store)

	at := time.Now().Add(96 * time.Hour)
	req := transport.BookingRequest{
		Name:       "Mia Wood",
		Email:      "mia@example.com",
		Phone:      "0412 345 678",
		Passengers: 2,
		TripType:   "return_trip",
		Outbound: &transport.TripLegRequest{
			Pickup:      "Melbourne Airport T2",
			Destination: "Collins Street, Melbourne",
			Date:        at.Format("2006-01-02"),
			Time:        "10:00",
		},
	}

	_, err := svc.Create(context.Background(), req)
	if fields := fieldErrors(t, err); fields["return"] == "" {
		t.Fatalf("expected a return field error, got %v", fields)
	}
}

func TestCreate_ReturnTripBeforeOutboundRejected(t *testing.T) {
	store := &fakeQuoteStore{}
	svc := newTestService(store)

	out := time.Now().Add(96 * time.Hour)
	req := transport.BookingRequest{
		Name:       "Mia Wood",
		Email:      "mia@example.com",
		Phone:      "0412 345 678",
		Passengers: 2,
		TripType:   "return_trip",
		Outbound: &transport.TripLegRequest{
			Pickup:      "Melbourne Airport T2",
			Destination: "Collins Street, Melbourne",
			Date:        out.Format("2006-01-02"),
			Time:        "10:00",
		},
		Return: &transport.TripLegRequest{
			Pickup:      "Collins Street, Melbourne",
			Destination: "Melbourne Airport T2",
			Date:        out.AddDate(0, 0, -2).Format("2006-01-02"),
			Time:        "10:00",
		},
	}

	_, err := svc.Create(context.Background(), req)
	if fields := fieldErrors(t, err); fields["return"] == "" {
		t.Fatalf("expected a return ordering error, got %v", fields)
	}
}

func TestCreate_ReturnTripStoresBothLegs(t *testing.T) {
	store := &fakeQuoteStore{}
	svc := newTestService(store)

	out := time.Now().Add(96 * time.Hour)
	back := out.AddDate(0, 0, 3)
	req := transport.BookingRequest{
		Name:       "Noah Reid",
		Email:      "noah@example.com",
		Phone:      "0412 345 678",
		Passengers: 4,
		TripType:   "return_trip",
		Outbound: &transport.TripLegRequest{
			Pickup:      "Brisbane Airport",
			Destination: "South Bank, Brisbane",
			Date:        out.Format("2006-01-02"),
			Time:        "09:30",
		},
		Return: &transport.TripLegRequest{
			Pickup:      "South Bank, Brisbane",
			Destination: "Brisbane Airport",
			Date:        back.Format("2006-01-02"),
			Time:        "17:00",
		},
	}

	_, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	quote := store.created[0]
	if !quote.Destinations.IsReturnTrip() {
		t.Fatal("expected a return trip")
	}
	if quote.Destinations.Outbound == nil || quote.Destinations.Return == nil {
		t.Fatal("expected both legs to be stored")
	}
	if quote.City != "Brisbane" {
		t.Fatalf("expected detected city Brisbane, got %q", quote.City)
	}
	if quote.TripDate != out.Format("2006-01-02") {
		t.Fatalf("expected trip date from the outbound leg, got %q", quote.TripDate)
	}
}
