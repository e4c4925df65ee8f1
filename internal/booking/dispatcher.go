package booking

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
	"github.com/iliyamo/event-booking-waitlist/internal/queue"
)

// SideEffectStore is the append-only sink the dispatcher writes to:
// one notification and one booking log entry per transition.
type SideEffectStore interface {
	InsertNotification(ctx context.Context, n *model.Notification) error
	InsertBookingLog(ctx context.Context, l *model.BookingLog) error
}

// Emitter is what the controller needs from the dispatcher; tests
// substitute a recording fake.
type Emitter interface {
	Emit(b *model.Booking, ev *model.Event, tr Transition)
}

// PublishFunc sends the broker copy of a transition. It is optional;
// a nil function disables the fan-out.
type PublishFunc func(ctx context.Context, ev queue.BookingTransitionEvent) error

// Dispatcher turns committed booking transitions into side effects:
// one notification row, one booking log row, and a best-effort copy
// on the message broker. Tasks are queued after the triggering write
// has committed and processed by a single worker goroutine, so
// submission order is preserved (a cancellation's effects always land
// before the promotion it caused). A failed side-effect write is
// logged and dropped; it never fails or rolls back the booking
// transition that triggered it.
type Dispatcher struct {
	store   SideEffectStore
	publish PublishFunc
	tasks   chan task
	done    sync.WaitGroup
}

type task struct {
	booking    model.Booking
	event      model.Event
	transition Transition
}

// NewDispatcher creates a dispatcher with the given sink and optional
// broker publish function. Call Start before emitting and Close on
// shutdown to drain the queue.
func NewDispatcher(store SideEffectStore, publish PublishFunc, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		store:   store,
		publish: publish,
		tasks:   make(chan task, buffer),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	d.done.Add(1)
	go func() {
		defer d.done.Done()
		for t := range d.tasks {
			d.process(t)
		}
	}()
}

// Close stops accepting tasks and blocks until the queue is drained.
func (d *Dispatcher) Close() {
	close(d.tasks)
	d.done.Wait()
}

// Emit queues the side effects for one committed transition. The
// booking and event are copied so later mutations by the caller
// cannot race with the worker.
func (d *Dispatcher) Emit(b *model.Booking, ev *model.Event, tr Transition) {
	d.tasks <- task{booking: *b, event: *ev, transition: tr}
}

func (d *Dispatcher) process(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n := &model.Notification{
		UserID:    t.booking.UserID,
		BookingID: t.booking.ID,
		Type:      t.transition.NotificationType(),
		Title:     t.transition.Title(),
		Message:   t.transition.Message(t.event.Title),
		TenantID:  t.booking.TenantID,
	}
	if err := d.store.InsertNotification(ctx, n); err != nil {
		log.Printf("dispatcher: notification write failed for booking %d: %v", t.booking.ID, err)
	}

	l := &model.BookingLog{
		BookingID: t.booking.ID,
		EventID:   t.booking.EventID,
		UserID:    t.booking.UserID,
		Action:    t.transition.Action(),
		Note:      t.transition.Note(),
		TenantID:  t.booking.TenantID,
	}
	if err := d.store.InsertBookingLog(ctx, l); err != nil {
		log.Printf("dispatcher: booking log write failed for booking %d: %v", t.booking.ID, err)
	}

	if d.publish != nil {
		ev := queue.BookingTransitionEvent{
			BookingID:  t.booking.ID,
			EventID:    t.booking.EventID,
			UserID:     t.booking.UserID,
			TenantID:   t.booking.TenantID,
			EventTitle: t.event.Title,
			Status:     string(t.booking.Status),
			Action:     string(t.transition.Action()),
			Type:       string(t.transition.NotificationType()),
			Note:       t.transition.Note(),
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := d.publish(ctx, ev); err != nil {
			log.Printf("dispatcher: broker publish failed for booking %d: %v", t.booking.ID, err)
		}
	}
}
