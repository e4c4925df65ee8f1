package repository

import (
	"context"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
)

// SideEffects bundles the two append-only sinks the dispatcher writes
// to. It satisfies the booking engine's SideEffectStore interface.
type SideEffects struct {
	Notifications *NotificationRepo
	Logs          *BookingLogRepo
}

// NewSideEffects constructs the sink bundle.
func NewSideEffects(notifications *NotificationRepo, logs *BookingLogRepo) *SideEffects {
	if notifications == nil || logs == nil {
		panic("nil repository passed to NewSideEffects")
	}
	return &SideEffects{Notifications: notifications, Logs: logs}
}

func (s *SideEffects) InsertNotification(ctx context.Context, n *model.Notification) error {
	return s.Notifications.Insert(ctx, n)
}

func (s *SideEffects) InsertBookingLog(ctx context.Context, l *model.BookingLog) error {
	return s.Logs.Insert(ctx, l)
}
