package email

import (
	"strings"
	"testing"
)

func TestRenderEmailTemplate_QuoteResponse(t *testing.T) {
	content, err := renderEmailTemplate("quote_response.html", quoteResponseEmailData{
		baseEmailData: baseEmailData{
			Title:    "Your quote",
			Heading:  "Your quote is ready",
			CTALabel: "Confirm booking",
			CTAURL:   "https://example.com/quote/abc",
		},
		Name:           "Ava Nguyen",
		TotalFormatted: "A$165.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Ava Nguyen", "A$165.00", "https://example.com/quote/abc", "Confirm booking"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestRenderEmailTemplate_DiscountShowsBothPrices(t *testing.T) {
	content, err := renderEmailTemplate("follow_up_discount.html", followUpDiscountEmailData{
		baseEmailData:     baseEmailData{Title: "Updated price", Heading: "An updated price for you"},
		Name:              "Liam Carter",
		OldTotalFormatted: "A$200.00",
		NewTotalFormatted: "A$180.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(content, "A$200.00") || !strings.Contains(content, "A$180.00") {
		t.Fatal("expected both old and new price in the email")
	}
}

func TestRenderEmailTemplate_AllTemplatesParse(t *testing.T) {
	cases := map[string]any{
		"booking_received.html":         bookingReceivedEmailData{Name: "x", TripSummary: "a to b"},
		"admin_booking_alert.html":      adminBookingAlertEmailData{Name: "x", City: "Sydney", TripSummary: "a to b"},
		"quote_response.html":           quoteResponseEmailData{Name: "x", TotalFormatted: "A$1.00"},
		"follow_up_reminder.html":       followUpReminderEmailData{Name: "x", TotalFormatted: "A$1.00"},
		"follow_up_discount.html":       followUpDiscountEmailData{Name: "x", OldTotalFormatted: "A$2.00", NewTotalFormatted: "A$1.00"},
		"follow_up_personal.html":       followUpPersonalEmailData{Name: "x", Message: "hello"},
		"quote_lost.html":               quoteLostEmailData{Name: "x"},
		"booking_confirmed.html":        bookingConfirmedEmailData{Name: "x", TotalFormatted: "A$1.00"},
		"admin_confirmation_alert.html": adminConfirmationAlertEmailData{Name: "x", City: "Perth", TotalFormatted: "A$1.00"},
	}
	for name, data := range cases {
		if _, err := renderEmailTemplate(name, data); err != nil {
			t.Fatalf("template %s failed to render: %v", name, err)
		}
	}
}

func TestFormatCurrencyAUD(t *testing.T) {
	if got := FormatCurrencyAUD(16500); got != "A$165.00" {
		t.Fatalf("expected A$165.00, got %q", got)
	}
	if got := FormatCurrencyAUD(-3000); got != "-A$30.00" {
		t.Fatalf("expected -A$30.00, got %q", got)
	}
}
