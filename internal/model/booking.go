package model

import "time"

// BookingStatus is the closed set of states a booking can be in.  The
// status is assigned once at creation by the admission decision and
// afterwards changes only through cancellation or promotion; it is a
// typed string rather than free text so that every transition goes
// through CanTransitionTo and new states cannot appear without
// updating the table below.
type BookingStatus string

const (
	StatusConfirmed  BookingStatus = "confirmed"
	StatusWaitlisted BookingStatus = "waitlisted"
	StatusCanceled   BookingStatus = "canceled"
)

// Valid reports whether s is one of the three known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusWaitlisted, StatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether a booking in this status can never change
// again.  Canceled bookings are retained for audit history and are
// never revived or deleted.
func (s BookingStatus) Terminal() bool { return s == StatusCanceled }

// CanTransitionTo encodes the booking state machine:
//
//	confirmed  -> canceled          (explicit cancel)
//	waitlisted -> canceled          (explicit cancel, no seat freed)
//	waitlisted -> confirmed         (promotion or manual override)
//
// Same-status updates are no-ops handled by the caller; everything
// else is rejected.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	switch s {
	case StatusConfirmed:
		return to == StatusCanceled
	case StatusWaitlisted:
		return to == StatusCanceled || to == StatusConfirmed
	}
	return false
}

// Booking records one user's request for a seat at an event.  The
// CreatedAt timestamp doubles as the FIFO ordering key for the
// waitlist (ties broken by ID).  Bookings are never deleted; canceled
// is terminal.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event the seat is requested for.
//  UserID    – user who owns the booking.
//  Status    – current state (see BookingStatus).
//  TenantID  – opaque tenant partition key, passed through unchanged.
//  CreatedAt – creation timestamp and waitlist ordering key.
//  UpdatedAt – timestamp of last status change.
type Booking struct {
	ID        uint64        // bookings.id
	EventID   uint64        // bookings.event_id
	UserID    uint64        // bookings.user_id
	Status    BookingStatus // bookings.status
	TenantID  uint64        // bookings.tenant_id
	CreatedAt time.Time     // bookings.created_at
	UpdatedAt time.Time     // bookings.updated_at
}
