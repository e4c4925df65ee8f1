package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
	"github.com/iliyamo/event-booking-waitlist/internal/queue"
)

// fakeStore records side-effect writes; per-call hooks let tests
// inject failures.
type fakeStore struct {
	mu            sync.Mutex
	notifications []model.Notification
	logs          []model.BookingLog
	notifyErr     error
	logErr        error
}

func (f *fakeStore) InsertNotification(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeStore) InsertBookingLog(_ context.Context, l *model.BookingLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.logErr != nil {
		return f.logErr
	}
	f.logs = append(f.logs, *l)
	return nil
}

func TestDispatcherWritesNotificationAndLog(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store, nil, 4)
	d.Start()

	b := &model.Booking{ID: 7, EventID: 3, UserID: 42, TenantID: 2, Status: model.StatusConfirmed}
	ev := &model.Event{ID: 3, Title: "Go Meetup"}
	d.Emit(b, ev, TransitionAutoConfirm)
	d.Close()

	if len(store.notifications) != 1 || len(store.logs) != 1 {
		t.Fatalf("want 1 notification and 1 log, got %d and %d", len(store.notifications), len(store.logs))
	}
	n := store.notifications[0]
	if n.UserID != 42 || n.BookingID != 7 || n.TenantID != 2 {
		t.Fatalf("notification references wrong: %+v", n)
	}
	if n.Type != model.NotifyConfirmed || n.Title != "Booking Confirmed!" {
		t.Fatalf("notification content wrong: %+v", n)
	}
	if n.Message != `Your booking for "Go Meetup" is confirmed.` {
		t.Fatalf("notification message wrong: %q", n.Message)
	}
	l := store.logs[0]
	if l.BookingID != 7 || l.EventID != 3 || l.UserID != 42 || l.TenantID != 2 {
		t.Fatalf("log references wrong: %+v", l)
	}
	if l.Action != model.ActionAutoConfirm || l.Note != "Booking auto-confirmed." {
		t.Fatalf("log content wrong: %+v", l)
	}
}

func TestDispatcherPreservesSubmissionOrder(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store, nil, 4)
	d.Start()

	ev := &model.Event{ID: 3, Title: "Go Meetup"}
	canceled := &model.Booking{ID: 1, EventID: 3, UserID: 10, Status: model.StatusCanceled}
	promoted := &model.Booking{ID: 2, EventID: 3, UserID: 11, Status: model.StatusConfirmed}
	d.Emit(canceled, ev, TransitionCancelConfirmed)
	d.Emit(promoted, ev, TransitionPromote)
	d.Close()

	if len(store.logs) != 2 {
		t.Fatalf("want 2 logs, got %d", len(store.logs))
	}
	if store.logs[0].Action != model.ActionCancelConfirmed || store.logs[1].Action != model.ActionPromote {
		t.Fatalf("effects out of order: %+v", store.logs)
	}
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	store := &fakeStore{notifyErr: errors.New("insert failed")}
	d := NewDispatcher(store, nil, 4)
	d.Start()

	ev := &model.Event{ID: 3, Title: "Go Meetup"}
	d.Emit(&model.Booking{ID: 1, EventID: 3, UserID: 10}, ev, TransitionAutoConfirm)

	// Stop failing; later tasks must still be processed.
	store.mu.Lock()
	store.notifyErr = nil
	store.mu.Unlock()
	d.Emit(&model.Booking{ID: 2, EventID: 3, UserID: 11}, ev, TransitionAutoWaitlist)
	d.Close()

	// The first notification was dropped but its log still landed, and
	// the second task went through in full.
	if len(store.logs) != 2 {
		t.Fatalf("want 2 logs despite the failure, got %d", len(store.logs))
	}
	if len(store.notifications) != 1 {
		t.Fatalf("want 1 surviving notification, got %d", len(store.notifications))
	}
	if store.notifications[0].BookingID != 2 {
		t.Fatalf("wrong notification survived: %+v", store.notifications[0])
	}
}

func TestDispatcherPublishesBrokerCopy(t *testing.T) {
	store := &fakeStore{}
	var mu sync.Mutex
	var published []queue.BookingTransitionEvent
	publish := func(_ context.Context, ev queue.BookingTransitionEvent) error {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, ev)
		return nil
	}
	d := NewDispatcher(store, publish, 4)
	d.Start()

	b := &model.Booking{ID: 7, EventID: 3, UserID: 42, TenantID: 2, Status: model.StatusWaitlisted}
	ev := &model.Event{ID: 3, Title: "Go Meetup"}
	d.Emit(b, ev, TransitionAutoWaitlist)
	d.Close()

	if len(published) != 1 {
		t.Fatalf("want 1 published event, got %d", len(published))
	}
	got := published[0]
	if got.BookingID != 7 || got.EventID != 3 || got.UserID != 42 || got.TenantID != 2 {
		t.Fatalf("published references wrong: %+v", got)
	}
	if got.Status != "waitlisted" || got.Action != "auto_waitlist" || got.Type != "waitlisted" {
		t.Fatalf("published content wrong: %+v", got)
	}
	if got.EventTitle != "Go Meetup" {
		t.Fatalf("published title wrong: %q", got.EventTitle)
	}
}
