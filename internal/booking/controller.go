package booking

import (
	"context"
	"time"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
	"github.com/iliyamo/event-booking-waitlist/internal/repository"
)

// Ledger is the boundary the controller operates against. The SQL
// implementation lives in internal/repository; tests use an in-memory
// fake. InsertBooking must reject a confirmed insert when capacity is
// already taken (repository.ErrCapacityTaken) and UpdateBookingStatus
// must be a compare-and-set (repository.ErrStatusChanged on a lost
// race); the controller retries both.
type Ledger interface {
	FindEventByID(ctx context.Context, id uint64) (*model.Event, error)
	CountBookings(ctx context.Context, eventID uint64, status model.BookingStatus) (int, error)
	FindBookingByID(ctx context.Context, id uint64) (*model.Booking, error)
	FindOldestWaitlisted(ctx context.Context, eventID uint64) (*model.Booking, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	UpdateBookingStatus(ctx context.Context, id uint64, from, to model.BookingStatus) (*model.Booking, error)
}

// maxAttempts bounds the retry loop around each serialized section
// before the conflict is surfaced as ErrConcurrencyConflict.
const maxAttempts = 3

// Controller orchestrates booking transitions. Each mutating
// operation takes the event's lock so the read-modify-write sequences
// (count-then-insert, cancel-then-promote) are serialized per event;
// holding the lock across cancel and promote also gives an in-flight
// promotion priority over new creation requests for the freed seat.
// Side effects are emitted only after the triggering write committed.
type Controller struct {
	ledger  Ledger
	emitter Emitter
	locks   *eventLocks
}

// NewController constructs a Controller. Both dependencies are required.
func NewController(ledger Ledger, emitter Emitter) *Controller {
	if ledger == nil || emitter == nil {
		panic("nil dependency passed to NewController")
	}
	return &Controller{ledger: ledger, emitter: emitter, locks: newEventLocks()}
}

// Create admits a new booking for the event: confirmed while a seat
// is free, waitlisted otherwise. The admission read and the ledger
// write run under the event lock and are retried on storage-level
// conflicts.
func (c *Controller) Create(ctx context.Context, eventID, userID, tenantID uint64) (*model.Booking, error) {
	if eventID == 0 || userID == 0 {
		return nil, ErrMissingReference
	}
	ev, err := c.ledger.FindEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var b *model.Booking
	err = c.withEventLock(eventID, func() error {
		confirmed, err := c.ledger.CountBookings(ctx, eventID, model.StatusConfirmed)
		if err != nil {
			return err
		}
		b = &model.Booking{
			EventID:  eventID,
			UserID:   userID,
			TenantID: tenantID,
			Status:   Decide(ev.Capacity, confirmed),
		}
		return c.ledger.InsertBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	if b.Status == model.StatusConfirmed {
		c.emitter.Emit(b, ev, TransitionAutoConfirm)
	} else {
		c.emitter.Emit(b, ev, TransitionAutoWaitlist)
	}
	return b, nil
}

// Cancel transitions a booking owned by userID to canceled. Canceling
// an already-canceled booking is a silent no-op. When the booking was
// confirmed, a seat is freed and the oldest waitlisted booking for
// the event is promoted under the same lock, so at most one promotion
// happens per freed seat and no new creation can slip into the seat
// first. Side effects are emitted in transition order: cancellation,
// then promotion.
func (c *Controller) Cancel(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	b, err := c.ledger.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotOwner
	}
	if b.Status == model.StatusCanceled {
		return b, nil
	}
	ev, err := c.ledger.FindEventByID(ctx, b.EventID)
	if err != nil {
		return nil, err
	}

	var canceled, promoted *model.Booking
	prev := b.Status
	err = c.withEventLock(b.EventID, func() error {
		var err error
		canceled, err = c.ledger.UpdateBookingStatus(ctx, b.ID, prev, model.StatusCanceled)
		if err != nil {
			return err
		}
		if prev == model.StatusConfirmed {
			promoted, err = c.promoteOldest(ctx, b.EventID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if prev == model.StatusConfirmed {
		c.emitter.Emit(canceled, ev, TransitionCancelConfirmed)
	} else {
		c.emitter.Emit(canceled, ev, TransitionCancelWaitlisted)
	}
	if promoted != nil {
		c.emitter.Emit(promoted, ev, TransitionPromote)
	}
	return canceled, nil
}

// Promote is the manual override: an operator confirms a waitlisted
// booking directly. Promoting an already-confirmed booking is a
// silent no-op; a canceled booking cannot be revived. Capacity is
// re-checked under the event lock so the override cannot overbook.
func (c *Controller) Promote(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, err := c.ledger.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == model.StatusConfirmed {
		return b, nil
	}
	if b.Status == model.StatusCanceled {
		return nil, ErrTerminalStatus
	}
	ev, err := c.ledger.FindEventByID(ctx, b.EventID)
	if err != nil {
		return nil, err
	}

	var promoted *model.Booking
	err = c.withEventLock(b.EventID, func() error {
		confirmed, err := c.ledger.CountBookings(ctx, b.EventID, model.StatusConfirmed)
		if err != nil {
			return err
		}
		if confirmed >= ev.Capacity {
			return ErrEventFull
		}
		promoted, err = c.ledger.UpdateBookingStatus(ctx, b.ID, model.StatusWaitlisted, model.StatusConfirmed)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.emitter.Emit(promoted, ev, TransitionManualPromote)
	return promoted, nil
}

// promoteOldest fills a freed seat with the earliest waitlisted
// booking, if any. Must be called with the event lock held.
func (c *Controller) promoteOldest(ctx context.Context, eventID uint64) (*model.Booking, error) {
	next, err := c.ledger.FindOldestWaitlisted(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, nil
	}
	return c.ledger.UpdateBookingStatus(ctx, next.ID, model.StatusWaitlisted, model.StatusConfirmed)
}

// withEventLock runs fn while holding the event's mutex, retrying a
// bounded number of times when the storage layer reports a transient
// conflict. Exhausted retries surface as ErrConcurrencyConflict so
// the caller sees a clean transient failure instead of a silent
// overbooking.
func (c *Controller) withEventLock(eventID uint64, fn func() error) error {
	l := c.locks.get(eventID)
	l.Lock()
	defer l.Unlock()

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = fn(); err == nil || !repository.IsRetryable(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	return ErrConcurrencyConflict
}
