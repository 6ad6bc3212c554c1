package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type bookingReceivedEmailData struct {
	baseEmailData
	Name        string
	TripSummary string
}

type adminBookingAlertEmailData struct {
	baseEmailData
	Name        string
	City        string
	TripSummary string
}

type quoteResponseEmailData struct {
	baseEmailData
	Name           string
	TotalFormatted string
	Message        string
}

type followUpReminderEmailData struct {
	baseEmailData
	Name           string
	TotalFormatted string
}

type followUpDiscountEmailData struct {
	baseEmailData
	Name              string
	OldTotalFormatted string
	NewTotalFormatted string
	Reason            string
}

type followUpPersonalEmailData struct {
	baseEmailData
	Name    string
	Message string
}

type quoteLostEmailData struct {
	baseEmailData
	Name string
}

type bookingConfirmedEmailData struct {
	baseEmailData
	Name            string
	PickupFormatted string
	TotalFormatted  string
}

type adminConfirmationAlertEmailData struct {
	baseEmailData
	Name            string
	City            string
	PickupFormatted string
	TotalFormatted  string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// FormatCurrencyAUD renders whole cents as an Australian dollar amount.
// Negative amounts keep their sign so composer mistakes stay visible.
func FormatCurrencyAUD(cents int64) string {
	if cents < 0 {
		return fmt.Sprintf("-A$%.2f", float64(-cents)/100)
	}
	return fmt.Sprintf("A$%.2f", float64(cents)/100)
}
