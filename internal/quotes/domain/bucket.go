package domain

import "time"

// Bucket is the dashboard grouping a quote falls into. Buckets are derived
// from status plus pickup time; they are never stored.
type Bucket string

const (
	// BucketQuotes holds open leads still being priced or chased.
	BucketQuotes Bucket = "quotes"
	// BucketUpcoming holds confirmed rides that have not departed yet.
	BucketUpcoming Bucket = "upcoming"
	// BucketBookings holds confirmed rides already past pickup, awaiting close-out.
	BucketBookings Bucket = "bookings"
	// BucketHistory holds terminal quotes.
	BucketHistory Bucket = "history"
)

// AllBuckets lists the dashboard buckets in display order.
var AllBuckets = []Bucket{BucketUpcoming, BucketQuotes, BucketBookings, BucketHistory}

// BucketFor classifies a quote. pickupAt may be nil for quotes whose pickup
// instant could not be derived; those confirmed rides count as upcoming.
func BucketFor(status Status, pickupAt *time.Time, now time.Time) Bucket {
	switch status {
	case StatusCompleted, StatusCancelled, StatusLost:
		return BucketHistory
	case StatusConfirmed:
		if pickupAt != nil && pickupAt.Before(now) {
			return BucketBookings
		}
		return BucketUpcoming
	default:
		return BucketQuotes
	}
}
