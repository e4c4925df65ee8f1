package model

import "time"

// NotificationType is the closed set of user-facing notification
// kinds.  Each booking status transition produces exactly one
// notification whose type matches the transition.
type NotificationType string

const (
	NotifyConfirmed  NotificationType = "booking_confirmed"
	NotifyWaitlisted NotificationType = "waitlisted"
	NotifyPromoted   NotificationType = "waitlist_promoted"
	NotifyCanceled   NotificationType = "booking_canceled"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotifyConfirmed, NotifyWaitlisted, NotifyPromoted, NotifyCanceled:
		return true
	}
	return false
}

// Notification is a message shown to a user about one of their
// bookings.  Created once per transition; the only mutation allowed
// afterwards is flipping the read flag.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – recipient of the notification.
//  BookingID – booking the notification is about.
//  Type      – kind of notification (see NotificationType).
//  Title     – short headline.
//  Message   – human-readable body referencing the event title.
//  Read      – whether the user has seen it (defaults to false).
//  TenantID  – tenant partition key, passed through unchanged.
//  CreatedAt – when the notification was written.
type Notification struct {
	ID        uint64           // notifications.id
	UserID    uint64           // notifications.user_id
	BookingID uint64           // notifications.booking_id
	Type      NotificationType // notifications.type
	Title     string           // notifications.title
	Message   string           // notifications.message
	Read      bool             // notifications.read
	TenantID  uint64           // notifications.tenant_id
	CreatedAt time.Time        // notifications.created_at
}
