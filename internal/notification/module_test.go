package notification

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"chauffeurtop_backend/internal/email"
	"chauffeurtop_backend/internal/notification/outbox"
	"chauffeurtop_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct{}

func (testNotificationConfig) GetAppBaseURL() string      { return "https://app.example.com" }
func (testNotificationConfig) GetAdminAlertEmail() string { return "ops@example.com" }

type testSender struct {
	bookingReceivedCalls   int
	adminBookingCalls      int
	bookingConfirmedCalls  int
	adminConfirmationCalls int

	lastTo           string
	lastDashboardURL string
}

func (s *testSender) SendBookingReceivedEmail(_ context.Context, to, _, _ string) error {
	s.bookingReceivedCalls++
	s.lastTo = to
	return nil
}

func (s *testSender) SendAdminBookingAlertEmail(_ context.Context, to, _, _, _, dashboardURL string) error {
	s.adminBookingCalls++
	s.lastTo = to
	s.lastDashboardURL = dashboardURL
	return nil
}

func (s *testSender) SendQuoteResponseEmail(context.Context, string, string, string, string, string, ...email.Attachment) error {
	return nil
}

func (s *testSender) SendFollowUpReminderEmail(context.Context, string, string, string, string) error {
	return nil
}

func (s *testSender) SendFollowUpDiscountEmail(context.Context, string, string, string, string, string, string, ...email.Attachment) error {
	return nil
}

func (s *testSender) SendFollowUpPersonalEmail(context.Context, string, string, string) error {
	return nil
}

func (s *testSender) SendQuoteLostEmail(context.Context, string, string) error { return nil }

func (s *testSender) SendBookingConfirmedEmail(_ context.Context, to, _, _, _ string) error {
	s.bookingConfirmedCalls++
	s.lastTo = to
	return nil
}

func (s *testSender) SendAdminConfirmationAlertEmail(_ context.Context, to, _, _, _, _, dashboardURL string) error {
	s.adminConfirmationCalls++
	s.lastTo = to
	s.lastDashboardURL = dashboardURL
	return nil
}


func newTestModule(sender email.Sender) *Module {
	return New(nil, sender, nil, testNotificationConfig{}, logger.New("development"))
}

func outboxRecord(t *testing.T, template string, p emailPayload) outbox.Record {
	t.Helper()
	payload, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return outbox.Record{
		ID:       uuid.New(),
		Kind:     outboxKindEmail,
		Template: template,
		Payload:  payload,
	}
}

func TestDeliverOutboxRecord_BookingReceived(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	rec := outboxRecord(t, TemplateBookingReceived, emailPayload{
		To:          "ava@example.com",
		Name:        "Ava Nguyen",
		TripSummary: "Sydney Airport to Manly on 12 Oct",
	})

	if err := m.DeliverOutboxRecord(context.Background(), rec); err != nil {
		t.Fatalf("DeliverOutboxRecord: %v", err)
	}
	if sender.bookingReceivedCalls != 1 {
		t.Fatalf("expected 1 booking received email, got %d", sender.bookingReceivedCalls)
	}
	if sender.lastTo != "ava@example.com" {
		t.Fatalf("unexpected recipient %q", sender.lastTo)
	}
}

func TestDeliverOutboxRecord_AdminAlertCarriesDashboardURL(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	quoteID := uuid.New()
	rec := outboxRecord(t, TemplateAdminBookingAlert, emailPayload{
		To:           "ops@example.com",
		Name:         "Ava Nguyen",
		City:         "Sydney",
		DashboardURL: m.dashboardURL(quoteID),
	})

	if err := m.DeliverOutboxRecord(context.Background(), rec); err != nil {
		t.Fatalf("DeliverOutboxRecord: %v", err)
	}
	if sender.adminBookingCalls != 1 {
		t.Fatalf("expected 1 admin alert, got %d", sender.adminBookingCalls)
	}
	want := "https://app.example.com/dashboard/quotes/" + quoteID.String()
	if sender.lastDashboardURL != want {
		t.Fatalf("dashboard url = %q, want %q", sender.lastDashboardURL, want)
	}
}

func TestDeliverOutboxRecord_ConfirmationPair(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	customer := outboxRecord(t, TemplateBookingConfirmed, emailPayload{
		To:              "ava@example.com",
		Name:            "Ava Nguyen",
		PickupFormatted: "Mon, 12 Oct 2026 at 9:00 AM",
		TotalFormatted:  "A$148.50",
	})
	admin := outboxRecord(t, TemplateAdminConfirmationAlert, emailPayload{
		To:              "ops@example.com",
		Name:            "Ava Nguyen",
		City:            "Sydney",
		PickupFormatted: "Mon, 12 Oct 2026 at 9:00 AM",
		TotalFormatted:  "A$148.50",
		DashboardURL:    "https://app.example.com/dashboard/quotes/x",
	})

	if err := m.DeliverOutboxRecord(context.Background(), customer); err != nil {
		t.Fatalf("customer confirmation: %v", err)
	}
	if err := m.DeliverOutboxRecord(context.Background(), admin); err != nil {
		t.Fatalf("admin confirmation: %v", err)
	}
	if sender.bookingConfirmedCalls != 1 || sender.adminConfirmationCalls != 1 {
		t.Fatalf("expected one of each confirmation email, got %d and %d",
			sender.bookingConfirmedCalls, sender.adminConfirmationCalls)
	}
}

func TestDeliverOutboxRecord_UnsupportedTemplate(t *testing.T) {
	m := newTestModule(&testSender{})

	rec := outboxRecord(t, "carrier_pigeon", emailPayload{To: "ava@example.com"})
	err := m.DeliverOutboxRecord(context.Background(), rec)
	if err == nil {
		t.Fatal("expected error for unsupported template")
	}
	if !strings.Contains(err.Error(), "carrier_pigeon") {
		t.Fatalf("error should name the template, got %v", err)
	}
}

func TestDeliverOutboxRecord_MissingRecipient(t *testing.T) {
	m := newTestModule(&testSender{})

	rec := outboxRecord(t, TemplateBookingReceived, emailPayload{Name: "Ava Nguyen"})
	if err := m.DeliverOutboxRecord(context.Background(), rec); err == nil {
		t.Fatal("expected error for missing recipient")
	}
}

func TestFormatPickup(t *testing.T) {
	if got := formatPickup(nil); got != "to be scheduled" {
		t.Fatalf("nil pickup = %q", got)
	}
	at := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	if got := formatPickup(&at); got != "Mon, 12 Oct 2026 at 9:00 AM" {
		t.Fatalf("formatted pickup = %q", got)
	}
}
