package domain

// TripType discriminates the shape of a quote's destinations payload.
const (
	TripTypeOneWay = "one_way"
	TripTypeReturn = "return_trip"
)

// TripLeg is the outbound or return portion of a round-trip booking.
type TripLeg struct {
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Destinations is the persisted trip structure: a flat ordered stop list for
// one-way rides, or outbound/return legs for round trips.
type Destinations struct {
	Type     string   `json:"type"`
	Stops    []string `json:"stops,omitempty"`
	Outbound *TripLeg `json:"outbound,omitempty"`
	Return   *TripLeg `json:"return,omitempty"`
}

// IsReturnTrip reports whether the quote is a round trip.
func (d Destinations) IsReturnTrip() bool {
	return d.Type == TripTypeReturn
}

// FinalDestination returns the last stop of the trip for display purposes.
func (d Destinations) FinalDestination() string {
	if d.IsReturnTrip() {
		if d.Return != nil {
			return d.Return.Destination
		}
		return ""
	}
	if len(d.Stops) == 0 {
		return ""
	}
	return d.Stops[len(d.Stops)-1]
}
