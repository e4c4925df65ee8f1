package repository

import (
	"context"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
)

// Ledger bundles the event and booking repositories into the boundary
// the booking engine operates against.  It satisfies the engine's
// Ledger interface so the engine itself never touches database/sql.
type Ledger struct {
	Events   *EventRepo
	Bookings *BookingRepo
}

// NewLedger constructs a Ledger from its repositories.
func NewLedger(events *EventRepo, bookings *BookingRepo) *Ledger {
	if events == nil || bookings == nil {
		panic("nil repository passed to NewLedger")
	}
	return &Ledger{Events: events, Bookings: bookings}
}

func (l *Ledger) FindEventByID(ctx context.Context, id uint64) (*model.Event, error) {
	return l.Events.GetByID(ctx, id)
}

func (l *Ledger) CountBookings(ctx context.Context, eventID uint64, status model.BookingStatus) (int, error) {
	return l.Bookings.CountByStatus(ctx, eventID, status)
}

func (l *Ledger) FindBookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return l.Bookings.GetByID(ctx, id)
}

func (l *Ledger) FindOldestWaitlisted(ctx context.Context, eventID uint64) (*model.Booking, error) {
	return l.Bookings.OldestWaitlisted(ctx, eventID)
}

func (l *Ledger) InsertBooking(ctx context.Context, b *model.Booking) error {
	return l.Bookings.Insert(ctx, b)
}

func (l *Ledger) UpdateBookingStatus(ctx context.Context, id uint64, from, to model.BookingStatus) (*model.Booking, error) {
	return l.Bookings.UpdateStatus(ctx, id, from, to)
}
