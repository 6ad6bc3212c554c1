// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"chauffeurtop_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Booking Domain Events
// =============================================================================

// BookingReceived is published when a public booking form submission
// creates a new quote request.
type BookingReceived struct {
	BaseEvent
	QuoteID  uuid.UUID  `json:"quoteId"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	City     string     `json:"city"`
	PickupAt *time.Time `json:"pickupAt,omitempty"`
	Summary  string     `json:"summary"`
}

func (e BookingReceived) EventName() string { return "bookings.booking.received" }

// =============================================================================
// Quote Domain Events
// =============================================================================

// QuoteStatusChanged is published when staff moves a quote to a new status.
type QuoteStatusChanged struct {
	BaseEvent
	QuoteID    uuid.UUID `json:"quoteId"`
	Name       string    `json:"name"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ActorID    uuid.UUID `json:"actorId"`
}

func (e QuoteStatusChanged) EventName() string { return "quotes.quote.status_changed" }

// QuoteResponseSent is published after a priced response went out to
// the customer.
type QuoteResponseSent struct {
	BaseEvent
	QuoteID    uuid.UUID `json:"quoteId"`
	Name       string    `json:"name"`
	TotalCents int64     `json:"totalCents"`
	EmailSent  bool      `json:"emailSent"`
	ActorID    uuid.UUID `json:"actorId"`
}

func (e QuoteResponseSent) EventName() string { return "quotes.quote.response_sent" }

// FollowUpSent is published after a follow-up action completed.
type FollowUpSent struct {
	BaseEvent
	QuoteID   uuid.UUID `json:"quoteId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	EmailSent bool      `json:"emailSent"`
	ActorID   uuid.UUID `json:"actorId"`
}

func (e FollowUpSent) EventName() string { return "quotes.quote.follow_up_sent" }

// QuoteConfirmed is published when a customer confirms a quoted price
// through their confirmation link.
type QuoteConfirmed struct {
	BaseEvent
	QuoteID    uuid.UUID  `json:"quoteId"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	TotalCents int64      `json:"totalCents"`
	PickupAt   *time.Time `json:"pickupAt,omitempty"`
	City       string     `json:"city"`
}

func (e QuoteConfirmed) EventName() string { return "quotes.quote.confirmed" }

// QuoteDeleted is published when staff removes a quote.
type QuoteDeleted struct {
	BaseEvent
	QuoteID uuid.UUID `json:"quoteId"`
	ActorID uuid.UUID `json:"actorId"`
}

func (e QuoteDeleted) EventName() string { return "quotes.quote.deleted" }
