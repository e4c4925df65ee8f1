package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
)

// BookingLogRepo persists append-only audit entries.  There is no
// update or delete path on purpose.
type BookingLogRepo struct {
	db *sql.DB
}

// NewBookingLogRepo returns a BookingLogRepo bound to the given database.
func NewBookingLogRepo(db *sql.DB) *BookingLogRepo { return &BookingLogRepo{db: db} }

// Insert appends one audit entry and populates the generated ID.
func (r *BookingLogRepo) Insert(ctx context.Context, l *model.BookingLog) error {
	const q = `INSERT INTO booking_logs (booking_id, event_id, user_id, action, note, tenant_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.BookingID, l.EventID, l.UserID, string(l.Action), l.Note, l.TenantID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// ListByEvent returns the audit trail for an event, oldest first, so
// organizers can replay the sequence of transitions.
func (r *BookingLogRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.BookingLog, error) {
	const q = `SELECT id, booking_id, event_id, user_id, action, note, tenant_id, created_at
	           FROM booking_logs WHERE event_id = ? ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.BookingLog, 0)
	for rows.Next() {
		var l model.BookingLog
		if err := rows.Scan(&l.ID, &l.BookingID, &l.EventID, &l.UserID, &l.Action, &l.Note, &l.TenantID, &l.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
