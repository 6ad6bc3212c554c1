package email

const (
	subjectBookingReceived       = "We received your booking request"
	subjectAdminBookingAlertFmt  = "New booking request from %s (%s)"
	subjectQuoteResponse         = "Your chauffeur quote is ready"
	subjectFollowUpReminder      = "Your quote is still waiting for you"
	subjectFollowUpDiscount      = "An updated price for your trip"
	subjectFollowUpPersonal      = "A note about your booking request"
	subjectQuoteLost             = "Your booking request has been closed"
	subjectBookingConfirmed      = "Your booking is confirmed"
	subjectAdminConfirmationFmt  = "Booking confirmed by %s (%s)"
)
