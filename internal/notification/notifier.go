package notification

import (
	"context"
	"fmt"

	"chauffeurtop_backend/internal/email"
	"chauffeurtop_backend/internal/quotes/domain"
	"chauffeurtop_backend/internal/quotes/repository"
	"chauffeurtop_backend/internal/sms"
	"chauffeurtop_backend/platform/apperr"
	"chauffeurtop_backend/platform/config"
	"chauffeurtop_backend/platform/logger"

	qrcode "github.com/skip2/go-qrcode"
)

// Notifier is the synchronous delivery port used by the quotes service.
// Priced emails carry the confirmation link plus a QR code attachment so
// customers can confirm from another device. SMS is always best-effort.
type Notifier struct {
	sender email.Sender
	sms    *sms.Client
	cfg    config.NotificationConfig
	log    *logger.Logger
}

// NewNotifier creates the notifier.
func NewNotifier(sender email.Sender, smsClient *sms.Client, cfg config.NotificationConfig, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, sms: smsClient, cfg: cfg, log: log}
}

// ConfirmURL builds the customer-facing confirmation link for a token.
func (n *Notifier) ConfirmURL(token string) string {
	return fmt.Sprintf("%s/quote/%s", n.cfg.GetAppBaseURL(), token)
}

// SendQuoteResponse emails the customer their priced quote.
func (n *Notifier) SendQuoteResponse(ctx context.Context, quote *repository.Quote) error {
	if quote.Email == "" {
		return apperr.Conflict("quote has no email address")
	}
	if quote.ConfirmationToken == nil || quote.PriceCents == nil {
		return apperr.Internal("quote is missing its token or price")
	}

	confirmURL := n.ConfirmURL(*quote.ConfirmationToken)
	total := email.FormatCurrencyAUD(*quote.PriceCents)
	message := ""
	if quote.ResponseMessage != nil {
		message = *quote.ResponseMessage
	}

	err := n.sender.SendQuoteResponseEmail(ctx, quote.Email, quote.Name, total, message, confirmURL, n.qrAttachment(confirmURL)...)
	n.log.NotificationSent("email", "quote_response", err == nil, errString(err))
	if err != nil {
		return err
	}

	n.sendSMS(ctx, quote.Phone,
		fmt.Sprintf("Hi %s, your chauffeur quote is ready: %s. Confirm here: %s", quote.Name, total, confirmURL))
	return nil
}

// SendFollowUp emails the customer a follow-up of the given kind.
func (n *Notifier) SendFollowUp(ctx context.Context, quote *repository.Quote, kind domain.FollowUpType, message string, previousPriceCents *int64) error {
	if quote.Email == "" {
		return apperr.Conflict("quote has no email address")
	}

	var err error
	switch kind {
	case domain.FollowUpReminder:
		confirmURL := ""
		if quote.ConfirmationToken != nil {
			confirmURL = n.ConfirmURL(*quote.ConfirmationToken)
		}
		err = n.sender.SendFollowUpReminderEmail(ctx, quote.Email, quote.Name,
			email.FormatCurrencyAUD(derefCents(quote.PriceCents)), confirmURL)

	case domain.FollowUpDiscount:
		if quote.ConfirmationToken == nil || quote.PriceCents == nil {
			return apperr.Internal("discounted quote is missing its token or price")
		}
		confirmURL := n.ConfirmURL(*quote.ConfirmationToken)
		reason := ""
		if quote.PriceBreakdown != nil && quote.PriceBreakdown.Discount != nil {
			reason = quote.PriceBreakdown.Discount.Reason
		}
		err = n.sender.SendFollowUpDiscountEmail(ctx, quote.Email, quote.Name,
			email.FormatCurrencyAUD(derefCents(previousPriceCents)),
			email.FormatCurrencyAUD(*quote.PriceCents),
			reason, confirmURL, n.qrAttachment(confirmURL)...)
		if err == nil {
			n.sendSMS(ctx, quote.Phone,
				fmt.Sprintf("Hi %s, we updated your quote to %s. Confirm here: %s",
					quote.Name, email.FormatCurrencyAUD(*quote.PriceCents), confirmURL))
		}

	case domain.FollowUpPersonal:
		err = n.sender.SendFollowUpPersonalEmail(ctx, quote.Email, quote.Name, message)

	case domain.FollowUpLost:
		err = n.sender.SendQuoteLostEmail(ctx, quote.Email, quote.Name)

	default:
		return apperr.Internal("follow-up type " + string(kind) + " has no email")
	}

	n.log.NotificationSent("email", "follow_up_"+string(kind), err == nil, errString(err))
	return err
}

// qrAttachment encodes the confirmation link as a PNG QR code. Failures
// only cost the attachment, never the email.
func (n *Notifier) qrAttachment(confirmURL string) []email.Attachment {
	png, err := qrcode.Encode(confirmURL, qrcode.Medium, 256)
	if err != nil {
		n.log.Warn("failed to encode confirmation QR code", "error", err)
		return nil
	}
	return []email.Attachment{{
		Content:  png,
		FileName: "confirm-booking-qr.png",
		MIMEType: "image/png",
	}}
}

func (n *Notifier) sendSMS(ctx context.Context, phoneNumber, message string) {
	if n.sms == nil || phoneNumber == "" {
		return
	}
	err := n.sms.SendMessage(ctx, phoneNumber, message)
	n.log.NotificationSent("sms", "quote_update", err == nil, errString(err))
}

func derefCents(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
