package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chauffeurtop_backend/internal/bookings/transport"
	"chauffeurtop_backend/internal/cities"
	"chauffeurtop_backend/internal/events"
	"chauffeurtop_backend/internal/quotes/domain"
	"chauffeurtop_backend/internal/quotes/repository"
	"chauffeurtop_backend/platform/apperr"
	"chauffeurtop_backend/platform/logger"
	"chauffeurtop_backend/platform/phone"

	"github.com/google/uuid"
)

// leadTimeWarning is how close to the pickup a booking may be made before
// staff get an advisory note. The submission is still accepted; dispatch
// decides whether a car can actually make it.
const leadTimeWarning = 2 * time.Hour

// QuoteStore is the slice of the quotes repository the booking flow needs.
type QuoteStore interface {
	Create(ctx context.Context, quote *repository.Quote) error
	InsertActivity(ctx context.Context, activity *repository.Activity) error
}

// Service turns public booking form submissions into pending quotes.
type Service struct {
	store QuoteStore
	bus   events.Bus
	log   *logger.Logger
}

// New creates a new bookings service
func New(store QuoteStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// Create validates a booking submission and stores it as a pending quote.
// Validation failures carry a per-field details map so the form can mark
// individual inputs.
func (s *Service) Create(ctx context.Context, req transport.BookingRequest) (transport.BookingResponse, error) {
	fields := map[string]string{}

	destinations, pickupAddr, tripDate, tripTime := buildDestinations(req, fields)

	if !phone.IsLikelyValid(req.Phone) {
		fields["phone"] = "enter a valid phone number"
	}
	normalizedPhone := phone.NormalizeE164(req.Phone)

	city, detected := cities.Detect(collectAddresses(destinations)...)
	if !detected {
		city = cities.Default()
	}

	var pickupAt *time.Time
	var warnings []string
	if tripDate != "" && tripTime != "" {
		at, err := cities.LocalPickupTime(tripDate, tripTime, city.Timezone)
		if err != nil {
			fields["date"] = "enter a valid pickup date and time"
		} else {
			now := time.Now()
			if at.Before(now) {
				fields["date"] = "pickup date cannot be in the past"
			} else if at.Sub(now) < leadTimeWarning {
				warnings = append(warnings, "pickup is less than 2 hours away; availability is not guaranteed")
			}
			pickupAt = &at
		}
	}

	if len(fields) > 0 {
		return transport.BookingResponse{}, apperr.Validation("booking validation failed").WithDetails(fields)
	}

	now := time.Now()
	quote := &repository.Quote{
		ID:             uuid.New(),
		Status:         domain.StatusPending,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          normalizedPhone,
		Passengers:     req.Passengers,
		PickupLocation: pickupAddr,
		Destinations:   destinations,
		TripDate:       tripDate,
		TripTime:       tripTime,
		City:           city.Name,
		Timezone:       city.Timezone,
		PickupAt:       pickupAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	setOptional(&quote.Luggage, req.Luggage)
	setOptional(&quote.VehiclePreference, req.VehiclePreference)
	setOptional(&quote.Notes, req.Notes)
	setOptional(&quote.Source, req.Source)
	setOptional(&quote.UTMSource, req.UTMSource)
	setOptional(&quote.UTMMedium, req.UTMMedium)
	setOptional(&quote.UTMCampaign, req.UTMCampaign)

	if err := s.store.Create(ctx, quote); err != nil {
		return transport.BookingResponse{}, err
	}

	if err := s.store.InsertActivity(ctx, &repository.Activity{
		QuoteID: quote.ID,
		Kind:    repository.ActivityBookingReceived,
		Detail:  fmt.Sprintf("booking received via %s form", city.Name),
	}); err != nil {
		s.log.Warn("failed to log booking activity", "quote_id", quote.ID, "error", err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.BookingReceived{
			BaseEvent: events.NewBaseEvent(),
			QuoteID:   quote.ID,
			Name:      quote.Name,
			Email:     quote.Email,
			Phone:     quote.Phone,
			City:      quote.City,
			PickupAt:  quote.PickupAt,
			Summary:   tripSummary(destinations),
		})
	}

	s.log.Info("booking received", "quote_id", quote.ID, "city", quote.City, "trip_type", destinations.Type)

	return transport.BookingResponse{
		ID:       quote.ID,
		Status:   string(quote.Status),
		City:     quote.City,
		PickupAt: quote.PickupAt,
		Warnings: warnings,
	}, nil
}

// buildDestinations maps the form's trip fields into the persisted shape,
// collecting per-field errors as it goes. For return trips the leg dates
// double as the quote's trip date.
func buildDestinations(req transport.BookingRequest, fields map[string]string) (domain.Destinations, string, string, string) {
	if req.TripType == domain.TripTypeReturn {
		if req.Outbound == nil {
			fields["outbound"] = "outbound leg is required for a return trip"
		}
		if req.Return == nil {
			fields["return"] = "return leg is required for a return trip"
		}
		if req.Outbound == nil || req.Return == nil {
			return domain.Destinations{Type: domain.TripTypeReturn}, "", "", ""
		}
		if req.Return.Date < req.Outbound.Date ||
			(req.Return.Date == req.Outbound.Date && req.Return.Time < req.Outbound.Time) {
			fields["return"] = "return leg cannot be before the outbound leg"
		}
		d := domain.Destinations{
			Type: domain.TripTypeReturn,
			Outbound: &domain.TripLeg{
				Pickup:      strings.TrimSpace(req.Outbound.Pickup),
				Destination: strings.TrimSpace(req.Outbound.Destination),
				Date:        req.Outbound.Date,
				Time:        req.Outbound.Time,
			},
			Return: &domain.TripLeg{
				Pickup:      strings.TrimSpace(req.Return.Pickup),
				Destination: strings.TrimSpace(req.Return.Destination),
				Date:        req.Return.Date,
				Time:        req.Return.Time,
			},
		}
		return d, d.Outbound.Pickup, req.Outbound.Date, req.Outbound.Time
	}

	pickup := strings.TrimSpace(req.Pickup)
	if pickup == "" {
		fields["pickup"] = "pickup location is required"
	}
	if len(req.Destinations) == 0 {
		fields["destinations"] = "at least one destination is required"
	}
	if req.Date == "" {
		fields["date"] = "pickup date is required"
	}
	if req.Time == "" {
		fields["time"] = "pickup time is required"
	}

	stops := make([]string, 0, len(req.Destinations)+1)
	if pickup != "" {
		stops = append(stops, pickup)
	}
	for _, d := range req.Destinations {
		stops = append(stops, strings.TrimSpace(d))
	}
	return domain.Destinations{Type: domain.TripTypeOneWay, Stops: stops}, pickup, req.Date, req.Time
}

func collectAddresses(d domain.Destinations) []string {
	if d.IsReturnTrip() {
		var addrs []string
		if d.Outbound != nil {
			addrs = append(addrs, d.Outbound.Pickup, d.Outbound.Destination)
		}
		if d.Return != nil {
			addrs = append(addrs, d.Return.Pickup, d.Return.Destination)
		}
		return addrs
	}
	return d.Stops
}

func tripSummary(d domain.Destinations) string {
	if d.IsReturnTrip() {
		if d.Outbound == nil {
			return "return trip"
		}
		return fmt.Sprintf("%s to %s and back", d.Outbound.Pickup, d.Outbound.Destination)
	}
	if len(d.Stops) < 2 {
		return strings.Join(d.Stops, "")
	}
	return fmt.Sprintf("%s to %s", d.Stops[0], d.Stops[len(d.Stops)-1])
}

func setOptional(dst **string, value string) {
	value = strings.TrimSpace(value)
	if value != "" {
		*dst = &value
	}
}
