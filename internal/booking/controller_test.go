package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
	"github.com/iliyamo/event-booking-waitlist/internal/repository"
)

// fakeLedger is an in-memory Ledger with the same contract as the SQL
// implementation: InsertBooking rejects a confirmed insert when
// capacity is already taken and UpdateBookingStatus is a compare-and-set.
type fakeLedger struct {
	mu       sync.Mutex
	events   map[uint64]*model.Event
	bookings map[uint64]*model.Booking
	nextID   uint64
	now      time.Time
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		events:   make(map[uint64]*model.Event),
		bookings: make(map[uint64]*model.Booking),
		now:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeLedger) addEvent(id uint64, title string, capacity int) *model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev := &model.Event{ID: id, Title: title, Capacity: capacity, TenantID: 1}
	f.events[id] = ev
	return ev
}

func (f *fakeLedger) FindEventByID(_ context.Context, id uint64) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeLedger) CountBookings(_ context.Context, eventID uint64, status model.BookingStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bookings {
		if b.EventID == eventID && b.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeLedger) FindBookingByID(_ context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeLedger) FindOldestWaitlisted(_ context.Context, eventID uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var oldest *model.Booking
	for _, b := range f.bookings {
		if b.EventID != eventID || b.Status != model.StatusWaitlisted {
			continue
		}
		if oldest == nil || b.CreatedAt.Before(oldest.CreatedAt) ||
			(b.CreatedAt.Equal(oldest.CreatedAt) && b.ID < oldest.ID) {
			oldest = b
		}
	}
	if oldest == nil {
		return nil, nil
	}
	cp := *oldest
	return &cp, nil
}

func (f *fakeLedger) InsertBooking(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.Status == model.StatusConfirmed {
		ev, ok := f.events[b.EventID]
		if !ok {
			return repository.ErrEventNotFound
		}
		confirmed := 0
		for _, other := range f.bookings {
			if other.EventID == b.EventID && other.Status == model.StatusConfirmed {
				confirmed++
			}
		}
		if confirmed >= ev.Capacity {
			return repository.ErrCapacityTaken
		}
	}
	f.nextID++
	f.now = f.now.Add(time.Second)
	b.ID = f.nextID
	b.CreatedAt = f.now
	b.UpdatedAt = f.now
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeLedger) UpdateBookingStatus(_ context.Context, id uint64, from, to model.BookingStatus) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	if b.Status != from {
		return nil, repository.ErrStatusChanged
	}
	b.Status = to
	f.now = f.now.Add(time.Second)
	b.UpdatedAt = f.now
	cp := *b
	return &cp, nil
}

// recordedEmit captures one controller emission.
type recordedEmit struct {
	BookingID  uint64
	Status     model.BookingStatus
	Transition Transition
}

// fakeEmitter records emissions in order.
type fakeEmitter struct {
	mu    sync.Mutex
	emits []recordedEmit
}

func (f *fakeEmitter) Emit(b *model.Booking, _ *model.Event, tr Transition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, recordedEmit{BookingID: b.ID, Status: b.Status, Transition: tr})
}

func (f *fakeEmitter) all() []recordedEmit {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedEmit, len(f.emits))
	copy(out, f.emits)
	return out
}

func (f *fakeEmitter) count(tr Transition) int {
	n := 0
	for _, e := range f.all() {
		if e.Transition == tr {
			n++
		}
	}
	return n
}

func newTestController() (*Controller, *fakeLedger, *fakeEmitter) {
	ledger := newFakeLedger()
	emitter := &fakeEmitter{}
	return NewController(ledger, emitter), ledger, emitter
}

func TestCreateConfirmsWhileSeatsOpen(t *testing.T) {
	ctrl, ledger, emitter := newTestController()
	ledger.addEvent(1, "Go Meetup", 2)
	ctx := context.Background()

	first, err := ctrl.Create(ctx, 1, 10, 1)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := ctrl.Create(ctx, 1, 11, 1)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	third, err := ctrl.Create(ctx, 1, 12, 1)
	if err != nil {
		t.Fatalf("create third: %v", err)
	}

	if first.Status != model.StatusConfirmed || second.Status != model.StatusConfirmed {
		t.Fatalf("first two bookings should be confirmed, got %q and %q", first.Status, second.Status)
	}
	if third.Status != model.StatusWaitlisted {
		t.Fatalf("third booking should be waitlisted, got %q", third.Status)
	}

	emits := emitter.all()
	if len(emits) != 3 {
		t.Fatalf("want 3 emissions, got %d", len(emits))
	}
	if emits[0].Transition != TransitionAutoConfirm || emits[2].Transition != TransitionAutoWaitlist {
		t.Fatalf("unexpected transitions: %+v", emits)
	}
}

func TestCreateValidation(t *testing.T) {
	ctrl, ledger, _ := newTestController()
	ledger.addEvent(1, "Go Meetup", 1)
	ctx := context.Background()

	if _, err := ctrl.Create(ctx, 0, 10, 1); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("missing event: got %v, want ErrMissingReference", err)
	}
	if _, err := ctrl.Create(ctx, 1, 0, 1); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("missing user: got %v, want ErrMissingReference", err)
	}
	if _, err := ctrl.Create(ctx, 99, 10, 1); !errors.Is(err, repository.ErrEventNotFound) {
		t.Fatalf("unknown event: got %v, want ErrEventNotFound", err)
	}
}

func TestCancelConfirmedPromotesOldestWaiter(t *testing.T) {
	ctrl, ledger, emitter := newTestController()
	ledger.addEvent(1, "Go Meetup", 1)
	ctx := context.Background()

	a, _ := ctrl.Create(ctx, 1, 10, 1)
	b, _ := ctrl.Create(ctx, 1, 11, 1)
	c, _ := ctrl.Create(ctx, 1, 12, 1)
	if a.Status != model.StatusConfirmed || b.Status != model.StatusWaitlisted || c.Status != model.StatusWaitlisted {
		t.Fatalf("unexpected setup statuses: %q %q %q", a.Status, b.Status, c.Status)
	}

	canceled, err := ctrl.Cancel(ctx, a.ID, 10)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != model.StatusCanceled {
		t.Fatalf("canceled booking status = %q", canceled.Status)
	}

	// The earliest waiter takes the freed seat, the later one stays.
	bNow, _ := ledger.FindBookingByID(ctx, b.ID)
	cNow, _ := ledger.FindBookingByID(ctx, c.ID)
	if bNow.Status != model.StatusConfirmed {
		t.Fatalf("oldest waiter should be promoted, got %q", bNow.Status)
	}
	if cNow.Status != model.StatusWaitlisted {
		t.Fatalf("later waiter should stay waitlisted, got %q", cNow.Status)
	}

	// Cancellation effects are emitted before the promotion they caused.
	emits := emitter.all()
	last, prev := emits[len(emits)-1], emits[len(emits)-2]
	if prev.Transition != TransitionCancelConfirmed || prev.BookingID != a.ID {
		t.Fatalf("want cancel emission before promote, got %+v", emits)
	}
	if last.Transition != TransitionPromote || last.BookingID != b.ID {
		t.Fatalf("want promote emission last, got %+v", emits)
	}
}

func TestCancelWaitlistedFreesNoSeat(t *testing.T) {
	ctrl, ledger, emitter := newTestController()
	ledger.addEvent(1, "Go Meetup", 1)
	ctx := context.Background()

	ctrl.Create(ctx, 1, 10, 1)
	w1, _ := ctrl.Create(ctx, 1, 11, 1)
	w2, _ := ctrl.Create(ctx, 1, 12, 1)

	if _, err := ctrl.Cancel(ctx, w1.ID, 11); err != nil {
		t.Fatalf("cancel waitlisted: %v", err)
	}

	// No seat was freed, so nobody gets promoted.
	if n := emitter.count(TransitionPromote); n != 0 {
		t.Fatalf("no promotion expected, got %d", n)
	}
	w2Now, _ := ledger.FindBookingByID(ctx, w2.ID)
	if w2Now.Status != model.StatusWaitlisted {
		t.Fatalf("remaining waiter should stay waitlisted, got %q", w2Now.Status)
	}
	emits := emitter.all()
	if emits[len(emits)-1].Transition != TransitionCancelWaitlisted {
		t.Fatalf("want waitlisted-cancel emission, got %+v", emits)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	ctrl, ledger, emitter := newTestController()
	ledger.addEvent(1, "Go Meetup", 1)
	ctx := context.Background()

	a, _ := ctrl.Create(ctx, 1, 10, 1)
	if _, err := ctrl.Cancel(ctx, a.ID, 10); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	before := len(emitter.all())

	again, err := ctrl.Cancel(ctx, a.ID, 10)
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if again.Status != model.StatusCanceled {
		t.Fatalf("second cancel status = %q", again.Status)
	}
	if len(emitter.all()) != before {
		t.Fatalf("second cancel must not emit side effects")
	}
}

func TestCancelRejectsNonOwner(t *testing.T) {
	ctrl, ledger, _ := newTestController()
	ledger.addEvent(1, "Go Meetup", 1)
	ctx := context.Background()

	a, _ := ctrl.Create(ctx, 1, 10, 1)
	if _, err := ctrl.Cancel(ctx, a.ID, 99); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("got %v, want ErrNotOwner", err)
	}
	current, _ := ledger.FindBookingByID(ctx, a.ID)
	if current.Status != model.StatusConfirmed {
		t.Fatalf("booking must be untouched, got %q", current.Status)
	}
}

func TestManualPromote(t *testing.T) {
	ctrl, ledger, emitter := newTestController()
	ledger.addEvent(1, "Go Meetup", 2)
	ctx := context.Background()

	a, _ := ctrl.Create(ctx, 1, 10, 1)
	ctrl.Create(ctx, 1, 11, 1)
	w1, _ := ctrl.Create(ctx, 1, 12, 1)
	w2, _ := ctrl.Create(ctx, 1, 13, 1)

	// Event is full: the override must not overbook.
	if _, err := ctrl.Promote(ctx, w1.ID); !errors.Is(err, ErrEventFull) {
		t.Fatalf("promote at capacity: got %v, want ErrEventFull", err)
	}

	// Free a seat, then promote the LATER waiter out of order.
	if _, err := ctrl.Cancel(ctx, a.ID, 10); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// The cancellation already promoted w1 into the freed seat; cancel
	// w1 again to open a seat with only w2 waiting.
	if _, err := ctrl.Cancel(ctx, w1.ID, 12); err != nil {
		t.Fatalf("cancel promoted: %v", err)
	}
	w2Now, _ := ledger.FindBookingByID(ctx, w2.ID)
	if w2Now.Status != model.StatusConfirmed {
		t.Fatalf("w2 should hold the seat, got %q", w2Now.Status)
	}

	// Promoting an already-confirmed booking is a silent no-op.
	before := len(emitter.all())
	got, err := ctrl.Promote(ctx, w2.ID)
	if err != nil {
		t.Fatalf("promote confirmed: %v", err)
	}
	if got.Status != model.StatusConfirmed || len(emitter.all()) != before {
		t.Fatalf("no-op promote must not change state or emit")
	}

	// A canceled booking cannot be revived.
	if _, err := ctrl.Promote(ctx, a.ID); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("promote canceled: got %v, want ErrTerminalStatus", err)
	}
}

func TestManualPromoteOverrideOrder(t *testing.T) {
	ctrl, ledger, emitter := newTestController()
	ledger.addEvent(1, "Go Meetup", 2)
	ctx := context.Background()

	ctrl.Create(ctx, 1, 10, 1)
	ctrl.Create(ctx, 1, 11, 1)
	ctrl.Create(ctx, 1, 12, 1)
	late, _ := ctrl.Create(ctx, 1, 13, 1)

	// Bump capacity to open a seat without canceling anyone, then
	// promote the newest waiter ahead of the queue.
	ledger.mu.Lock()
	ledger.events[1].Capacity = 3
	ledger.mu.Unlock()

	got, err := ctrl.Promote(ctx, late.ID)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if got.Status != model.StatusConfirmed {
		t.Fatalf("promoted status = %q", got.Status)
	}
	emits := emitter.all()
	if emits[len(emits)-1].Transition != TransitionManualPromote {
		t.Fatalf("want manual-promote emission, got %+v", emits)
	}
}

func TestConcurrentCreatesRespectCapacity(t *testing.T) {
	ctrl, ledger, _ := newTestController()
	ledger.addEvent(1, "Go Meetup", 3)
	ctx := context.Background()

	const attempts = 12
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(user uint64) {
			defer wg.Done()
			if _, err := ctrl.Create(ctx, 1, user, 1); err != nil {
				t.Errorf("create user %d: %v", user, err)
			}
		}(uint64(100 + i))
	}
	wg.Wait()

	confirmed, _ := ledger.CountBookings(ctx, 1, model.StatusConfirmed)
	waitlisted, _ := ledger.CountBookings(ctx, 1, model.StatusWaitlisted)
	if confirmed != 3 {
		t.Fatalf("confirmed = %d, want exactly 3", confirmed)
	}
	if waitlisted != attempts-3 {
		t.Fatalf("waitlisted = %d, want %d", waitlisted, attempts-3)
	}
}

func TestRacingCancelsPromoteAtMostOnce(t *testing.T) {
	ctrl, ledger, emitter := newTestController()
	ledger.addEvent(1, "Go Meetup", 1)
	ctx := context.Background()

	a, _ := ctrl.Create(ctx, 1, 10, 1)
	b, _ := ctrl.Create(ctx, 1, 11, 1)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// One racer wins; the other sees the booking already
			// canceled or loses the compare-and-set. Neither outcome
			// may produce a second promotion.
			_, err := ctrl.Cancel(ctx, a.ID, 10)
			if err != nil && !errors.Is(err, ErrConcurrencyConflict) {
				t.Errorf("cancel: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := emitter.count(TransitionPromote); n != 1 {
		t.Fatalf("promotions = %d, want exactly 1", n)
	}
	bNow, _ := ledger.FindBookingByID(ctx, b.ID)
	if bNow.Status != model.StatusConfirmed {
		t.Fatalf("waiter should hold the seat, got %q", bNow.Status)
	}
	confirmed, _ := ledger.CountBookings(ctx, 1, model.StatusConfirmed)
	if confirmed != 1 {
		t.Fatalf("confirmed = %d, want 1", confirmed)
	}
}
