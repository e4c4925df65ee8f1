package booking

import "github.com/iliyamo/event-booking-waitlist/internal/model"

// Decide computes the status a new booking receives at creation time:
// confirmed while the confirmed count is below capacity, waitlisted
// otherwise. It is a pure function and is applied exactly once, when
// the booking is created; an existing booking's status changes only
// through cancellation or promotion, never by re-running admission.
// Callers guarantee capacity >= 1 (enforced at event creation).
func Decide(capacity, confirmedCount int) model.BookingStatus {
	if confirmedCount < capacity {
		return model.StatusConfirmed
	}
	return model.StatusWaitlisted
}
