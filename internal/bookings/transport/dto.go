package transport

import (
	"time"

	"github.com/google/uuid"
)

// TripLegRequest is one leg of a return-trip booking.
type TripLegRequest struct {
	Pickup      string `json:"pickup" validate:"required,min=3,max=300"`
	Destination string `json:"destination" validate:"required,min=3,max=300"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
}

// BookingRequest mirrors the public booking form. One-way rides carry a
// flat ordered stop list; return trips carry explicit outbound and return
// legs. Date and time are interpreted in the detected city's timezone.
type BookingRequest struct {
	Name              string `json:"name" validate:"required,min=2,max=150"`
	Email             string `json:"email" validate:"required,email,max=254"`
	Phone             string `json:"phone" validate:"required,min=6,max=30"`
	Passengers        int    `json:"passengers" validate:"required,min=1,max=60"`
	Luggage           string `json:"luggage" validate:"max=200"`
	VehiclePreference string `json:"vehiclePreference" validate:"max=100"`
	Notes             string `json:"notes" validate:"max=2000"`

	TripType     string          `json:"tripType" validate:"required,oneof=one_way return_trip"`
	Pickup       string          `json:"pickup" validate:"omitempty,min=3,max=300"`
	Destinations []string        `json:"destinations" validate:"omitempty,max=10,dive,min=3,max=300"`
	Date         string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time         string          `json:"time" validate:"omitempty,datetime=15:04"`
	Outbound     *TripLegRequest `json:"outbound" validate:"omitempty"`
	Return       *TripLegRequest `json:"return" validate:"omitempty"`

	Source      string `json:"source" validate:"max=100"`
	UTMSource   string `json:"utmSource" validate:"max=100"`
	UTMMedium   string `json:"utmMedium" validate:"max=100"`
	UTMCampaign string `json:"utmCampaign" validate:"max=100"`
}

// BookingResponse is returned to the booking form on success.
type BookingResponse struct {
	ID       uuid.UUID  `json:"id"`
	Status   string     `json:"status"`
	City     string     `json:"city"`
	PickupAt *time.Time `json:"pickupAt,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
}
