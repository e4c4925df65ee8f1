package model

import "time"

// Event represents a capacity-limited event as stored in the `events`
// table.  Capacity is the maximum number of simultaneously confirmed
// bookings; the schema enforces capacity >= 1.  Events are read-only
// from the booking engine's perspective: the engine never mutates them.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title, used in notification messages.
//  Description – optional free-text description.
//  Capacity    – maximum confirmed bookings (>= 1).
//  StartsAt    – when the event takes place.
//  OrganizerID – user who created the event.
//  TenantID    – tenant owning the event.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Event struct {
	ID          uint64    // events.id
	Title       string    // events.title
	Description string    // events.description
	Capacity    int       // events.capacity
	StartsAt    time.Time // events.starts_at
	OrganizerID uint64    // events.organizer_id
	TenantID    uint64    // events.tenant_id
	CreatedAt   time.Time // events.created_at
	UpdatedAt   time.Time // events.updated_at
}
