package domain

import (
	"testing"
	"time"
)

func TestParseStatus_AllKnownValues(t *testing.T) {
	for _, s := range AllStatuses {
		parsed, err := ParseStatus(string(s))
		if err != nil {
			t.Fatalf("ParseStatus(%q) failed: %v", s, err)
		}
		if parsed != s {
			t.Fatalf("ParseStatus(%q) = %q", s, parsed)
		}
	}
}

func TestParseStatus_Unknown(t *testing.T) {
	if _, err := ParseStatus("archived"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestMeta_CoversEveryStatus(t *testing.T) {
	for _, s := range AllStatuses {
		m := Meta(s)
		if m.Label == "" || m.Color == "" || m.Icon == "" {
			t.Fatalf("incomplete metadata for %q: %+v", s, m)
		}
	}
}

func TestBucketFor(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	past := now.Add(-2 * time.Hour)
	future := now.Add(2 * time.Hour)

	tests := []struct {
		name     string
		status   Status
		pickupAt *time.Time
		want     Bucket
	}{
		{"pending is a quote", StatusPending, &future, BucketQuotes},
		{"contacted is a quote", StatusContacted, &future, BucketQuotes},
		{"quoted is a quote", StatusQuoted, &past, BucketQuotes},
		{"confirmed future is upcoming", StatusConfirmed, &future, BucketUpcoming},
		{"confirmed past is a booking", StatusConfirmed, &past, BucketBookings},
		{"confirmed without pickup instant is upcoming", StatusConfirmed, nil, BucketUpcoming},
		{"completed is history", StatusCompleted, &past, BucketHistory},
		{"cancelled is history", StatusCancelled, &future, BucketHistory},
		{"lost is history", StatusLost, nil, BucketHistory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketFor(tt.status, tt.pickupAt, now); got != tt.want {
				t.Fatalf("BucketFor(%s) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

func TestDestinations_FinalDestination(t *testing.T) {
	oneWay := Destinations{Type: TripTypeOneWay, Stops: []string{"Sydney Airport", "Hilton Sydney"}}
	if got := oneWay.FinalDestination(); got != "Hilton Sydney" {
		t.Fatalf("expected last stop, got %q", got)
	}

	round := Destinations{
		Type:     TripTypeReturn,
		Outbound: &TripLeg{Pickup: "Hotel", Destination: "Airport"},
		Return:   &TripLeg{Pickup: "Airport", Destination: "Hotel"},
	}
	if !round.IsReturnTrip() {
		t.Fatalf("expected return trip")
	}
	if got := round.FinalDestination(); got != "Hotel" {
		t.Fatalf("expected return leg destination, got %q", got)
	}
}
