package transport

import (
	"time"

	"chauffeurtop_backend/internal/quotes/domain"
	"chauffeurtop_backend/internal/quotes/repository"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// ExtraItemRequest is a single extra charge line on a quote response.
type ExtraItemRequest struct {
	Description string `json:"description" validate:"required,min=1,max=200"`
	AmountCents int64  `json:"amountCents" validate:"min=0"`
}

// DiscountRequest describes a discount applied to a quote.
type DiscountRequest struct {
	Type   string `json:"type" validate:"required,oneof=percentage fixed"`
	Value  int64  `json:"value" validate:"min=0"`
	Reason string `json:"reason" validate:"max=500"`
}

// QuoteResponseRequest is the request body for sending a priced response
// to a customer. Base prices are whole cents.
type QuoteResponseRequest struct {
	BasePriceCents       int64              `json:"basePriceCents" validate:"required,gt=0"`
	ReturnTrip           bool               `json:"returnTrip"`
	ReturnBasePriceCents *int64             `json:"returnBasePriceCents" validate:"omitempty,gt=0"`
	ExtraItems           []ExtraItemRequest `json:"extraItems" validate:"omitempty,dive"`
	Discount             *DiscountRequest   `json:"discount" validate:"omitempty"`
	Message              string             `json:"message" validate:"max=2000"`
}

// CalculateRequest is the request body for a price preview. It carries the
// same composer fields as QuoteResponseRequest but persists nothing.
type CalculateRequest = QuoteResponseRequest

// UpdateStatusRequest is the request body for moving a quote to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending contacted quoted confirmed completed cancelled lost"`
}

// FollowUpRequest is the request body for a follow-up action on a quote.
type FollowUpRequest struct {
	Type     string           `json:"type" validate:"required,oneof=reminder discount personal call lost"`
	Discount *DiscountRequest `json:"discount" validate:"omitempty"`
	Message  string           `json:"message" validate:"max=2000"`
	Note     string           `json:"note" validate:"max=1000"`
}

// ListQuotesRequest carries the query parameters for listing quotes.
type ListQuotesRequest struct {
	Bucket    string `form:"bucket" validate:"omitempty,oneof=quotes upcoming bookings history"`
	Status    string `form:"status" validate:"omitempty,oneof=pending contacted quoted confirmed completed cancelled lost"`
	Search    string `form:"search" validate:"omitempty,max=200"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt pickupAt name total status"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// StatusMetaResponse is the display metadata for a status badge.
type StatusMetaResponse struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
}

// TripLegResponse is one leg of a trip.
type TripLegResponse struct {
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// DestinationsResponse is the full trip shape of a quote.
type DestinationsResponse struct {
	Type     string           `json:"type"`
	Stops    []string         `json:"stops,omitempty"`
	Outbound *TripLegResponse `json:"outbound,omitempty"`
	Return   *TripLegResponse `json:"return,omitempty"`
}

// QuoteResponse is the admin view of a quote.
type QuoteResponse struct {
	ID                uuid.UUID             `json:"id"`
	Status            string                `json:"status"`
	StatusMeta        StatusMetaResponse    `json:"statusMeta"`
	Bucket            string                `json:"bucket"`
	Name              string                `json:"name"`
	Email             string                `json:"email"`
	Phone             string                `json:"phone"`
	Passengers        int                   `json:"passengers"`
	Luggage           *string               `json:"luggage,omitempty"`
	VehiclePreference *string               `json:"vehiclePreference,omitempty"`
	Notes             *string               `json:"notes,omitempty"`
	PickupLocation    string                `json:"pickupLocation"`
	Destinations      DestinationsResponse  `json:"destinations"`
	TripDate          string                `json:"tripDate"`
	TripTime          string                `json:"tripTime"`
	City              string                `json:"city"`
	Timezone          string                `json:"timezone"`
	PickupAt          *time.Time            `json:"pickupAt,omitempty"`
	PriceCents        *int64                `json:"priceCents,omitempty"`
	PriceBreakdown    *domain.PriceBreakdown `json:"priceBreakdown,omitempty"`
	ResponseMessage   *string               `json:"responseMessage,omitempty"`
	ConfirmedAt       *time.Time            `json:"confirmedAt,omitempty"`
	ReminderCount     int                   `json:"reminderCount"`
	LastReminderSent  *time.Time            `json:"lastReminderSent,omitempty"`
	FollowUpCount     int                   `json:"followUpCount"`
	LastFollowUpAt    *time.Time            `json:"lastFollowUpAt,omitempty"`
	RespondedAt       *time.Time            `json:"respondedAt,omitempty"`
	Source            *string               `json:"source,omitempty"`
	UTMSource         *string               `json:"utmSource,omitempty"`
	UTMMedium         *string               `json:"utmMedium,omitempty"`
	UTMCampaign       *string               `json:"utmCampaign,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// QuoteListResponse is a paginated page of quotes.
type QuoteListResponse struct {
	Items      []QuoteResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// FollowUpResponse reports the outcome of a follow-up action.
type FollowUpResponse struct {
	Quote     QuoteResponse `json:"quote"`
	EmailSent bool          `json:"emailSent"`
	Warning   string        `json:"warning,omitempty"`
}

// SendResponseResult reports the outcome of sending a quote response.
type SendResponseResult struct {
	Quote     QuoteResponse `json:"quote"`
	EmailSent bool          `json:"emailSent"`
	Warning   string        `json:"warning,omitempty"`
}

// ActivityResponse is one entry in a quote's activity log.
type ActivityResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	Actor     *string   `json:"actor,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicQuoteResponse is the customer-facing view of a quote, reached via
// the confirmation link. Internal fields are never exposed here.
type PublicQuoteResponse struct {
	Name            string                 `json:"name"`
	Status          string                 `json:"status"`
	Destinations    DestinationsResponse   `json:"destinations"`
	City            string                 `json:"city"`
	PickupAt        *time.Time             `json:"pickupAt,omitempty"`
	PriceCents      *int64                 `json:"priceCents,omitempty"`
	PriceBreakdown  *domain.PriceBreakdown `json:"priceBreakdown,omitempty"`
	ResponseMessage *string                `json:"responseMessage,omitempty"`
	Confirmed       bool                   `json:"confirmed"`
}

// ── Mapping ───────────────────────────────────────────────────────────────────

// ToStatusMetaResponse converts status display metadata for the API.
func ToStatusMetaResponse(s domain.Status) StatusMetaResponse {
	m := domain.Meta(s)
	return StatusMetaResponse{
		Status: string(s),
		Label:  m.Label,
		Color:  m.Color,
		Icon:   m.Icon,
	}
}

// ToDestinationsResponse converts the domain trip shape for the API.
func ToDestinationsResponse(d domain.Destinations) DestinationsResponse {
	resp := DestinationsResponse{
		Type:  string(d.Type),
		Stops: d.Stops,
	}
	if d.Outbound != nil {
		resp.Outbound = &TripLegResponse{
			Pickup:      d.Outbound.Pickup,
			Destination: d.Outbound.Destination,
			Date:        d.Outbound.Date,
			Time:        d.Outbound.Time,
		}
	}
	if d.Return != nil {
		resp.Return = &TripLegResponse{
			Pickup:      d.Return.Pickup,
			Destination: d.Return.Destination,
			Date:        d.Return.Date,
			Time:        d.Return.Time,
		}
	}
	return resp
}

// ToQuoteResponse converts a database quote to its admin API shape.
func ToQuoteResponse(q *repository.Quote, now time.Time) QuoteResponse {
	return QuoteResponse{
		ID:                q.ID,
		Status:            string(q.Status),
		StatusMeta:        ToStatusMetaResponse(q.Status),
		Bucket:            string(domain.BucketFor(q.Status, q.PickupAt, now)),
		Name:              q.Name,
		Email:             q.Email,
		Phone:             q.Phone,
		Passengers:        q.Passengers,
		Luggage:           q.Luggage,
		VehiclePreference: q.VehiclePreference,
		Notes:             q.Notes,
		PickupLocation:    q.PickupLocation,
		Destinations:      ToDestinationsResponse(q.Destinations),
		TripDate:          q.TripDate,
		TripTime:          q.TripTime,
		City:              q.City,
		Timezone:          q.Timezone,
		PickupAt:          q.PickupAt,
		PriceCents:        q.PriceCents,
		PriceBreakdown:    q.PriceBreakdown,
		ResponseMessage:   q.ResponseMessage,
		ConfirmedAt:       q.ConfirmedAt,
		ReminderCount:     q.ReminderCount,
		LastReminderSent:  q.LastReminderSent,
		FollowUpCount:     q.FollowUpCount,
		LastFollowUpAt:    q.LastFollowUpAt,
		RespondedAt:       q.RespondedAt,
		Source:            q.Source,
		UTMSource:         q.UTMSource,
		UTMMedium:         q.UTMMedium,
		UTMCampaign:       q.UTMCampaign,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
	}
}

// ToQuoteListResponse converts a repository page to its API shape.
func ToQuoteListResponse(result *repository.ListResult, now time.Time) QuoteListResponse {
	items := make([]QuoteResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, ToQuoteResponse(&result.Items[i], now))
	}
	return QuoteListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

// ToPublicQuoteResponse converts a quote to its customer-facing shape.
func ToPublicQuoteResponse(q *repository.Quote) PublicQuoteResponse {
	return PublicQuoteResponse{
		Name:            q.Name,
		Status:          string(q.Status),
		Destinations:    ToDestinationsResponse(q.Destinations),
		City:            q.City,
		PickupAt:        q.PickupAt,
		PriceCents:      q.PriceCents,
		PriceBreakdown:  q.PriceBreakdown,
		ResponseMessage: q.ResponseMessage,
		Confirmed:       q.ConfirmedAt != nil,
	}
}

// ToActivityResponse converts an activity log entry for the API.
func ToActivityResponse(a repository.Activity) ActivityResponse {
	return ActivityResponse{
		ID:        a.ID,
		Kind:      a.Kind,
		Detail:    a.Detail,
		Actor:     a.Actor,
		CreatedAt: a.CreatedAt,
	}
}
