// Package email renders and delivers customer and admin emails over SMTP.
package email

import "context"

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes
	FileName string // e.g. "confirm-qr.png"
	MIMEType string // e.g. "image/png"
}

// Sender delivers the application's emails. Implemented by SMTPSender;
// NoopSender is used when email is disabled in config.
type Sender interface {
	SendBookingReceivedEmail(ctx context.Context, toEmail, name, tripSummary string) error
	SendAdminBookingAlertEmail(ctx context.Context, toEmail, name, city, tripSummary, dashboardURL string) error
	SendQuoteResponseEmail(ctx context.Context, toEmail, name, totalFormatted, message, confirmURL string, attachments ...Attachment) error
	SendFollowUpReminderEmail(ctx context.Context, toEmail, name, totalFormatted, confirmURL string) error
	SendFollowUpDiscountEmail(ctx context.Context, toEmail, name, oldTotalFormatted, newTotalFormatted, reason, confirmURL string, attachments ...Attachment) error
	SendFollowUpPersonalEmail(ctx context.Context, toEmail, name, message string) error
	SendQuoteLostEmail(ctx context.Context, toEmail, name string) error
	SendBookingConfirmedEmail(ctx context.Context, toEmail, name, pickupFormatted, totalFormatted string) error
	SendAdminConfirmationAlertEmail(ctx context.Context, toEmail, name, city, pickupFormatted, totalFormatted, dashboardURL string) error
}

// NoopSender satisfies Sender without delivering anything.
type NoopSender struct{}

func (NoopSender) SendBookingReceivedEmail(context.Context, string, string, string) error {
	return nil
}

func (NoopSender) SendAdminBookingAlertEmail(context.Context, string, string, string, string, string) error {
	return nil
}

func (NoopSender) SendQuoteResponseEmail(_ context.Context, _, _, _, _, _ string, _ ...Attachment) error {
	return nil
}

func (NoopSender) SendFollowUpReminderEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendFollowUpDiscountEmail(_ context.Context, _, _, _, _, _, _ string, _ ...Attachment) error {
	return nil
}

func (NoopSender) SendFollowUpPersonalEmail(context.Context, string, string, string) error {
	return nil
}

func (NoopSender) SendQuoteLostEmail(context.Context, string, string) error {
	return nil
}

func (NoopSender) SendBookingConfirmedEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendAdminConfirmationAlertEmail(context.Context, string, string, string, string, string, string) error {
	return nil
}

var _ Sender = NoopSender{}
