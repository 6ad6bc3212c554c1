package domain

import "fmt"

// FollowUpType identifies the kind of follow-up action taken on a quote.
type FollowUpType string

const (
	// FollowUpReminder re-sends the quoted price to nudge the customer.
	FollowUpReminder FollowUpType = "reminder"
	// FollowUpDiscount re-prices the quote with a discount and re-sends it.
	FollowUpDiscount FollowUpType = "discount"
	// FollowUpPersonal sends a free-form personal message.
	FollowUpPersonal FollowUpType = "personal"
	// FollowUpCall records that the customer was called. No email is sent.
	FollowUpCall FollowUpType = "call"
	// FollowUpLost marks the quote as lost, with an optional courtesy email.
	FollowUpLost FollowUpType = "lost"
)

// AllFollowUpTypes lists every valid follow-up type.
var AllFollowUpTypes = []FollowUpType{
	FollowUpReminder,
	FollowUpDiscount,
	FollowUpPersonal,
	FollowUpCall,
	FollowUpLost,
}

// ParseFollowUpType validates a raw string as a follow-up type.
func ParseFollowUpType(raw string) (FollowUpType, error) {
	for _, t := range AllFollowUpTypes {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown follow-up type %q", raw)
}

// SendsEmail reports whether this follow-up type dispatches a customer email.
// Call follow-ups are log-only; lost follow-ups email only when the customer
// left an address, which the service layer checks separately.
func (t FollowUpType) SendsEmail() bool {
	return t != FollowUpCall
}

// IsReminder reports whether the follow-up counts against the reminder
// counter rather than the general follow-up counter.
func (t FollowUpType) IsReminder() bool {
	return t == FollowUpReminder
}
