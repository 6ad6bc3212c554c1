package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"chauffeurtop_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// NewSenderFromConfig returns an SMTPSender, or a NoopSender when email
// delivery is disabled.
func NewSenderFromConfig(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendBookingReceivedEmail(ctx context.Context, toEmail, name, tripSummary string) error {
	content, err := renderEmailTemplate("booking_received.html", bookingReceivedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Booking request received",
			Heading: "We received your request",
		},
		Name:        name,
		TripSummary: tripSummary,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectBookingReceived, content)
}

func (s *SMTPSender) SendAdminBookingAlertEmail(ctx context.Context, toEmail, name, city, tripSummary, dashboardURL string) error {
	content, err := renderEmailTemplate("admin_booking_alert.html", adminBookingAlertEmailData{
		baseEmailData: baseEmailData{
			Title:    "New booking request",
			Heading:  "New booking request",
			CTALabel: "Open dashboard",
			CTAURL:   dashboardURL,
		},
		Name:        name,
		City:        city,
		TripSummary: tripSummary,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectAdminBookingAlertFmt, name, city), content)
}

func (s *SMTPSender) SendQuoteResponseEmail(ctx context.Context, toEmail, name, totalFormatted, message, confirmURL string, attachments ...Attachment) error {
	content, err := renderEmailTemplate("quote_response.html", quoteResponseEmailData{
		baseEmailData: baseEmailData{
			Title:    "Your quote",
			Heading:  "Your quote is ready",
			CTALabel: "Confirm booking",
			CTAURL:   confirmURL,
		},
		Name:           name,
		TotalFormatted: totalFormatted,
		Message:        message,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectQuoteResponse, content, attachments...)
}

func (s *SMTPSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, name, totalFormatted, confirmURL string) error {
	content, err := renderEmailTemplate("follow_up_reminder.html", followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:    "Your quote is waiting",
			Heading:  "Your quote is still waiting",
			CTALabel: "Confirm booking",
			CTAURL:   confirmURL,
		},
		Name:           name,
		TotalFormatted: totalFormatted,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectFollowUpReminder, content)
}

func (s *SMTPSender) SendFollowUpDiscountEmail(ctx context.Context, toEmail, name, oldTotalFormatted, newTotalFormatted, reason, confirmURL string, attachments ...Attachment) error {
	content, err := renderEmailTemplate("follow_up_discount.html", followUpDiscountEmailData{
		baseEmailData: baseEmailData{
			Title:    "Updated price",
			Heading:  "An updated price for you",
			CTALabel: "Confirm at the new price",
			CTAURL:   confirmURL,
		},
		Name:              name,
		OldTotalFormatted: oldTotalFormatted,
		NewTotalFormatted: newTotalFormatted,
		Reason:            reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectFollowUpDiscount, content, attachments...)
}

func (s *SMTPSender) SendFollowUpPersonalEmail(ctx context.Context, toEmail, name, message string) error {
	content, err := renderEmailTemplate("follow_up_personal.html", followUpPersonalEmailData{
		baseEmailData: baseEmailData{
			Title:   "About your booking request",
			Heading: "A note from our team",
		},
		Name:    name,
		Message: message,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectFollowUpPersonal, content)
}

func (s *SMTPSender) SendQuoteLostEmail(ctx context.Context, toEmail, name string) error {
	content, err := renderEmailTemplate("quote_lost.html", quoteLostEmailData{
		baseEmailData: baseEmailData{
			Title:   "Request closed",
			Heading: "Your request has been closed",
		},
		Name: name,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectQuoteLost, content)
}

func (s *SMTPSender) SendBookingConfirmedEmail(ctx context.Context, toEmail, name, pickupFormatted, totalFormatted string) error {
	content, err := renderEmailTemplate("booking_confirmed.html", bookingConfirmedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Booking confirmed",
			Heading: "You are all set",
		},
		Name:            name,
		PickupFormatted: pickupFormatted,
		TotalFormatted:  totalFormatted,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectBookingConfirmed, content)
}

func (s *SMTPSender) SendAdminConfirmationAlertEmail(ctx context.Context, toEmail, name, city, pickupFormatted, totalFormatted, dashboardURL string) error {
	content, err := renderEmailTemplate("admin_confirmation_alert.html", adminConfirmationAlertEmailData{
		baseEmailData: baseEmailData{
			Title:    "Booking confirmed",
			Heading:  "Booking confirmed",
			CTALabel: "Open dashboard",
			CTAURL:   dashboardURL,
		},
		Name:            name,
		City:            city,
		PickupFormatted: pickupFormatted,
		TotalFormatted:  totalFormatted,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectAdminConfirmationFmt, name, city), content)
}

var _ Sender = (*SMTPSender)(nil)
