package booking

import (
	"fmt"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
)

// Transition identifies one row of the booking state machine. Every
// transition maps to exactly one booking log action and one
// notification type; the mapping is exhaustive so a new state cannot
// be added without extending it here.
type Transition int

const (
	// TransitionAutoConfirm: (none) -> confirmed at creation.
	TransitionAutoConfirm Transition = iota
	// TransitionAutoWaitlist: (none) -> waitlisted at creation.
	TransitionAutoWaitlist
	// TransitionCancelConfirmed: confirmed -> canceled; frees a seat.
	TransitionCancelConfirmed
	// TransitionCancelWaitlisted: waitlisted -> canceled; no seat freed.
	TransitionCancelWaitlisted
	// TransitionPromote: waitlisted -> confirmed via a freed seat.
	TransitionPromote
	// TransitionManualPromote: waitlisted -> confirmed via operator override.
	TransitionManualPromote
)

// Action returns the audit log tag for the transition.
func (t Transition) Action() model.LogAction {
	switch t {
	case TransitionAutoConfirm:
		return model.ActionAutoConfirm
	case TransitionAutoWaitlist:
		return model.ActionAutoWaitlist
	case TransitionCancelConfirmed, TransitionCancelWaitlisted:
		return model.ActionCancelConfirmed
	case TransitionPromote, TransitionManualPromote:
		return model.ActionPromote
	}
	return model.ActionCreateRequest
}

// NotificationType returns the user notification kind for the transition.
func (t Transition) NotificationType() model.NotificationType {
	switch t {
	case TransitionAutoConfirm:
		return model.NotifyConfirmed
	case TransitionAutoWaitlist:
		return model.NotifyWaitlisted
	case TransitionCancelConfirmed, TransitionCancelWaitlisted:
		return model.NotifyCanceled
	case TransitionPromote, TransitionManualPromote:
		return model.NotifyPromoted
	}
	return model.NotifyConfirmed
}

// Note returns the free-text detail recorded in the booking log.
func (t Transition) Note() string {
	switch t {
	case TransitionAutoConfirm:
		return "Booking auto-confirmed."
	case TransitionAutoWaitlist:
		return "Event full, added to waitlist."
	case TransitionCancelConfirmed:
		return "User canceled booking."
	case TransitionCancelWaitlisted:
		return "User canceled waitlisted booking; no seat freed."
	case TransitionPromote:
		return "User promoted from waitlist due to cancellation."
	case TransitionManualPromote:
		return "User promoted from waitlist."
	}
	return ""
}

// Title returns the notification headline shown to the user.
func (t Transition) Title() string {
	switch t {
	case TransitionAutoConfirm, TransitionPromote, TransitionManualPromote:
		return "Booking Confirmed!"
	case TransitionAutoWaitlist:
		return "Waitlisted"
	case TransitionCancelConfirmed, TransitionCancelWaitlisted:
		return "Booking Canceled"
	}
	return ""
}

// Message returns the notification body, referencing the event title.
func (t Transition) Message(eventTitle string) string {
	switch t {
	case TransitionAutoConfirm:
		return fmt.Sprintf("Your booking for %q is confirmed.", eventTitle)
	case TransitionAutoWaitlist:
		return fmt.Sprintf("You are on the waitlist for %q.", eventTitle)
	case TransitionCancelConfirmed, TransitionCancelWaitlisted:
		return fmt.Sprintf("Your booking for %q was canceled.", eventTitle)
	case TransitionPromote, TransitionManualPromote:
		return fmt.Sprintf("You were promoted from the waitlist for %q.", eventTitle)
	}
	return ""
}
