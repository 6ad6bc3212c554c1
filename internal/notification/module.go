// Package notification turns domain events into customer emails, admin
// alerts, in-app notifications and SSE pushes. Domain modules publish
// events and stay unaware of SMTP, templates or the dashboard.
//
// Customer and admin emails triggered by events go through the outbox so
// a crash between the event and the SMTP call cannot lose them. Emails
// sent interactively by staff (quote responses, follow-ups) go out
// synchronously via Notifier because the caller needs the result.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chauffeurtop_backend/internal/email"
	"chauffeurtop_backend/internal/events"
	apphttp "chauffeurtop_backend/internal/http"
	notifhandler "chauffeurtop_backend/internal/notification/handler"
	"chauffeurtop_backend/internal/notification/inapp"
	"chauffeurtop_backend/internal/notification/outbox"
	"chauffeurtop_backend/internal/notification/sse"
	"chauffeurtop_backend/internal/sms"
	"chauffeurtop_backend/platform/config"
	"chauffeurtop_backend/platform/httpkit"
	"chauffeurtop_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Outbox templates. Each maps to one email.Sender method in
// DeliverOutboxRecord.
const (
	TemplateBookingReceived        = "booking_received"
	TemplateAdminBookingAlert      = "admin_booking_alert"
	TemplateBookingConfirmed       = "booking_confirmed"
	TemplateAdminConfirmationAlert = "admin_confirmation_alert"
)

const outboxKindEmail = "email"

// emailPayload is the outbox payload for all email templates. Fields not
// used by a given template are left empty.
type emailPayload struct {
	To              string `json:"to"`
	Name            string `json:"name"`
	City            string `json:"city,omitempty"`
	TripSummary     string `json:"tripSummary,omitempty"`
	PickupFormatted string `json:"pickupFormatted,omitempty"`
	TotalFormatted  string `json:"totalFormatted,omitempty"`
	DashboardURL    string `json:"dashboardUrl,omitempty"`
}

// Module handles all notification-related event subscriptions.
type Module struct {
	pool         *pgxpool.Pool
	sender       email.Sender
	cfg          config.NotificationConfig
	log          *logger.Logger
	sse          *sse.Service
	outbox       *outbox.Repository
	inAppService *inapp.Service
	inAppHandler *notifhandler.HTTPHandler
	notifier     *Notifier
}

// New creates the notification module with its in-app store, outbox,
// SSE hub and the synchronous Notifier used by the quotes module.
func New(pool *pgxpool.Pool, sender email.Sender, smsClient *sms.Client, cfg config.NotificationConfig, log *logger.Logger) *Module {
	inAppRepo := inapp.NewRepository(pool)
	inAppSvc := inapp.NewService(inAppRepo, log)
	sseSvc := sse.New()
	inAppSvc.SetSSE(sseSvc)

	return &Module{
		pool:         pool,
		sender:       sender,
		cfg:          cfg,
		log:          log,
		sse:          sseSvc,
		outbox:       outbox.New(pool),
		inAppService: inAppSvc,
		inAppHandler: notifhandler.NewHTTPHandler(inAppSvc),
		notifier:     NewNotifier(sender, smsClient, cfg, log),
	}
}

func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers the in-app notification API and the SSE stream.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	m.inAppHandler.RegisterRoutes(notifications)
	notifications.GET("/stream", m.sse.Handler(func(c *gin.Context) (uuid.UUID, bool) {
		ident := httpkit.GetIdentity(c)
		if !ident.IsAuthenticated() {
			return uuid.Nil, false
		}
		return ident.UserID(), true
	}))
}

// Notifier returns the synchronous dispatcher for staff-initiated emails.
func (m *Module) Notifier() *Notifier { return m.notifier }

// InAppService exposes the in-app notification service for integration points.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// Outbox exposes the outbox repository for the scheduler.
func (m *Module) Outbox() *outbox.Repository { return m.outbox }

// SSE exposes the SSE hub.
func (m *Module) SSE() *sse.Service { return m.sse }

// Close shuts down the SSE hub, disconnecting all dashboard clients.
func (m *Module) Close() {
	if m.sse != nil {
		m.sse.Close()
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.BookingReceived{}.EventName(), m)
	bus.Subscribe(events.QuoteConfirmed{}.EventName(), m)
	bus.Subscribe(events.QuoteStatusChanged{}.EventName(), m)
	bus.Subscribe(events.QuoteResponseSent{}.EventName(), m)
	bus.Subscribe(events.FollowUpSent{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.BookingReceived:
		return m.handleBookingReceived(ctx, e)
	case events.QuoteConfirmed:
		return m.handleQuoteConfirmed(ctx, e)
	case events.QuoteStatusChanged:
		m.pushQuoteSSE(sse.EventQuoteUpdated, e.QuoteID, fmt.Sprintf("%s moved to %s", e.Name, e.ToStatus))
		return nil
	case events.QuoteResponseSent:
		m.pushQuoteSSE(sse.EventQuoteUpdated, e.QuoteID, fmt.Sprintf("Quote sent to %s", e.Name))
		return nil
	case events.FollowUpSent:
		m.pushQuoteSSE(sse.EventQuoteUpdated, e.QuoteID, fmt.Sprintf("%s follow-up for %s", e.Type, e.Name))
		return nil
	default:
		return nil
	}
}

func (m *Module) handleBookingReceived(ctx context.Context, e events.BookingReceived) error {
	if e.Email != "" {
		m.enqueueEmail(ctx, TemplateBookingReceived, emailPayload{
			To:          e.Email,
			Name:        e.Name,
			TripSummary: e.Summary,
		})
	}
	if adminEmail := m.cfg.GetAdminAlertEmail(); adminEmail != "" {
		m.enqueueEmail(ctx, TemplateAdminBookingAlert, emailPayload{
			To:           adminEmail,
			Name:         e.Name,
			City:         e.City,
			TripSummary:  e.Summary,
			DashboardURL: m.dashboardURL(e.QuoteID),
		})
	}

	m.sendInApp(ctx, inapp.SendParams{
		Title:        "New booking request",
		Content:      fmt.Sprintf("%s requested a quote in %s", e.Name, e.City),
		ResourceID:   &e.QuoteID,
		ResourceType: "quote",
		Category:     "info",
	})
	m.pushQuoteSSE(sse.EventBookingReceived, e.QuoteID, fmt.Sprintf("New booking request from %s", e.Name))
	return nil
}

func (m *Module) handleQuoteConfirmed(ctx context.Context, e events.QuoteConfirmed) error {
	total := email.FormatCurrencyAUD(e.TotalCents)
	pickup := formatPickup(e.PickupAt)

	if e.Email != "" {
		m.enqueueEmail(ctx, TemplateBookingConfirmed, emailPayload{
			To:              e.Email,
			Name:            e.Name,
			PickupFormatted: pickup,
			TotalFormatted:  total,
		})
	}
	if adminEmail := m.cfg.GetAdminAlertEmail(); adminEmail != "" {
		m.enqueueEmail(ctx, TemplateAdminConfirmationAlert, emailPayload{
			To:              adminEmail,
			Name:            e.Name,
			City:            e.City,
			PickupFormatted: pickup,
			TotalFormatted:  total,
			DashboardURL:    m.dashboardURL(e.QuoteID),
		})
	}

	m.sendInApp(ctx, inapp.SendParams{
		Title:        "Booking confirmed",
		Content:      fmt.Sprintf("%s confirmed their quote for %s", e.Name, total),
		ResourceID:   &e.QuoteID,
		ResourceType: "quote",
		Category:     "success",
	})
	m.pushQuoteSSE(sse.EventQuoteConfirmed, e.QuoteID, fmt.Sprintf("%s confirmed their booking", e.Name))
	return nil
}

// DeliverOutboxRecord sends the email described by a claimed outbox record.
// Called by the scheduler worker; the worker owns the status transitions.
func (m *Module) DeliverOutboxRecord(ctx context.Context, rec outbox.Record) error {
	var p emailPayload
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return fmt.Errorf("unmarshal outbox payload %s: %w", rec.ID, err)
	}
	if p.To == "" {
		return fmt.Errorf("outbox record %s has no recipient", rec.ID)
	}

	switch rec.Template {
	case TemplateBookingReceived:
		return m.sender.SendBookingReceivedEmail(ctx, p.To, p.Name, p.TripSummary)
	case TemplateAdminBookingAlert:
		return m.sender.SendAdminBookingAlertEmail(ctx, p.To, p.Name, p.City, p.TripSummary, p.DashboardURL)
	case TemplateBookingConfirmed:
		return m.sender.SendBookingConfirmedEmail(ctx, p.To, p.Name, p.PickupFormatted, p.TotalFormatted)
	case TemplateAdminConfirmationAlert:
		return m.sender.SendAdminConfirmationAlertEmail(ctx, p.To, p.Name, p.City, p.PickupFormatted, p.TotalFormatted, p.DashboardURL)
	default:
		return fmt.Errorf("unsupported outbox template %q", rec.Template)
	}
}

func (m *Module) enqueueEmail(ctx context.Context, template string, p emailPayload) {
	_, err := m.outbox.Insert(ctx, outbox.InsertParams{
		Kind:     outboxKindEmail,
		Template: template,
		Payload:  p,
	})
	if err != nil {
		m.log.Error("failed to enqueue outbox email", "template", template, "error", err)
	}
}

func (m *Module) sendInApp(ctx context.Context, p inapp.SendParams) {
	if err := m.inAppService.Send(ctx, p); err != nil {
		m.log.Warn("failed to store in-app notification", "title", p.Title, "error", err)
	}
}

func (m *Module) pushQuoteSSE(eventType sse.EventType, quoteID uuid.UUID, message string) {
	if m.sse == nil {
		return
	}
	m.sse.Broadcast(sse.Event{
		Type:    eventType,
		QuoteID: quoteID,
		Message: message,
	})
}

func (m *Module) dashboardURL(quoteID uuid.UUID) string {
	return fmt.Sprintf("%s/dashboard/quotes/%s", m.cfg.GetAppBaseURL(), quoteID)
}

func formatPickup(t *time.Time) string {
	if t == nil {
		return "to be scheduled"
	}
	return t.Format("Mon, 2 Jan 2006 at 3:04 PM")
}

var _ apphttp.Module = (*Module)(nil)
var _ events.Handler = (*Module)(nil)
