// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingTransitionEvent is published once per booking status
// transition (creation, cancellation, promotion). It carries enough
// information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type BookingTransitionEvent struct {
	BookingID  uint64 `json:"booking_id"`
	EventID    uint64 `json:"event_id"`
	UserID     uint64 `json:"user_id"`
	TenantID   uint64 `json:"tenant_id"`
	EventTitle string `json:"event_title"`
	Status     string `json:"status"`
	Action     string `json:"action"`
	Type       string `json:"type"`
	Note       string `json:"note"`
	OccurredAt string `json:"occurred_at"`
}
