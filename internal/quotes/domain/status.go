// Package domain defines the quote lifecycle model shared by the quotes
// module's repository, service, and transport layers.
//
// Status graph (all transitions are staff-triggered; any status may move to
// any other so mistakes can be corrected):
//
//	pending → contacted → quoted → confirmed → completed
//	                                   └──────► cancelled / lost (from anywhere)
package domain

import "fmt"

// Status is the lifecycle state of a quote.
type Status string

const (
	StatusPending   Status = "pending"
	StatusContacted Status = "contacted"
	StatusQuoted    Status = "quoted"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusLost      Status = "lost"
)

// AllStatuses lists every valid status in display order.
var AllStatuses = []Status{
	StatusPending,
	StatusContacted,
	StatusQuoted,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusLost,
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	for _, known := range AllStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown quote status %q", s)
}

// StatusMeta is the single source of truth for how a status is presented.
// Handlers and exports read from this table instead of repeating switch
// statements per surface.
type StatusMeta struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var statusMeta = map[Status]StatusMeta{
	StatusPending:   {Label: "Pending", Color: "amber", Icon: "clock"},
	StatusContacted: {Label: "Contacted", Color: "sky", Icon: "phone"},
	StatusQuoted:    {Label: "Quoted", Color: "violet", Icon: "file-text"},
	StatusConfirmed: {Label: "Confirmed", Color: "emerald", Icon: "check-circle"},
	StatusCompleted: {Label: "Completed", Color: "slate", Icon: "flag"},
	StatusCancelled: {Label: "Cancelled", Color: "rose", Icon: "x-circle"},
	StatusLost:      {Label: "Lost", Color: "zinc", Icon: "user-x"},
}

// Meta returns presentation metadata for a status.
func Meta(s Status) StatusMeta {
	if m, ok := statusMeta[s]; ok {
		return m
	}
	return StatusMeta{Label: string(s), Color: "slate", Icon: "help-circle"}
}
