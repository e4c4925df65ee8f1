package model

import "time"

// LogAction is the closed set of audit tags a booking log entry can
// carry.  Each status transition writes exactly one entry with the
// action matching the transition that caused it.
type LogAction string

const (
	ActionCreateRequest   LogAction = "create_request"
	ActionAutoWaitlist    LogAction = "auto_waitlist"
	ActionAutoConfirm     LogAction = "auto_confirm"
	ActionPromote         LogAction = "promote_from_waitlist"
	ActionCancelConfirmed LogAction = "cancel_confirmed"
)

// Valid reports whether a is a known log action.
func (a LogAction) Valid() bool {
	switch a {
	case ActionCreateRequest, ActionAutoWaitlist, ActionAutoConfirm, ActionPromote, ActionCancelConfirmed:
		return true
	}
	return false
}

// BookingLog is an append-only audit record.  One entry is created per
// booking status transition and entries are never mutated or deleted.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – booking the entry describes.
//  EventID   – event the booking belongs to.
//  UserID    – owner of the booking.
//  Action    – transition tag (see LogAction).
//  Note      – free-text detail about the transition.
//  TenantID  – tenant partition key, passed through unchanged.
//  CreatedAt – when the entry was written.
type BookingLog struct {
	ID        uint64    // booking_logs.id
	BookingID uint64    // booking_logs.booking_id
	EventID   uint64    // booking_logs.event_id
	UserID    uint64    // booking_logs.user_id
	Action    LogAction // booking_logs.action
	Note      string    // booking_logs.note
	TenantID  uint64    // booking_logs.tenant_id
	CreatedAt time.Time // booking_logs.created_at
}
