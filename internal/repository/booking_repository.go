package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
)

// BookingRepo provides persistence for the booking ledger.  The two
// write paths are deliberately narrow: a conditional insert that
// re-checks capacity under a row lock on the event, and a
// compare-and-set status update.  Together they make the ledger safe
// against concurrent writers even across processes; the booking
// engine's per-event lock serializes them within one process.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// GetByID returns a single booking or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, event_id, user_id, status, tenant_id, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.EventID, &b.UserID, &b.Status, &b.TenantID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CountByStatus returns the number of bookings for an event in the
// given status.  Used by the admission decision and the dashboard.
func (r *BookingRepo) CountByStatus(ctx context.Context, eventID uint64, status model.BookingStatus) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE event_id = ? AND status = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, eventID, string(status)).Scan(&n)
	return n, err
}

// OldestWaitlisted returns the waitlisted booking with the earliest
// creation timestamp for the event, ties broken by ID.  Returns
// (nil, nil) when the waitlist is empty.
func (r *BookingRepo) OldestWaitlisted(ctx context.Context, eventID uint64) (*model.Booking, error) {
	const q = `SELECT id, event_id, user_id, status, tenant_id, created_at, updated_at
	           FROM bookings WHERE event_id = ? AND status = ?
	           ORDER BY created_at ASC, id ASC LIMIT 1`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, eventID, string(model.StatusWaitlisted)).Scan(
		&b.ID, &b.EventID, &b.UserID, &b.Status, &b.TenantID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// Insert writes a new booking with the status already decided by the
// admission logic.  When the status is confirmed the insert is
// conditional: inside one transaction the event row is locked with
// SELECT ... FOR UPDATE, the confirmed count is re-checked against
// capacity, and ErrCapacityTaken is returned if another writer took
// the seat since the caller's read.  The generated ID and timestamps
// are populated on the record.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the event row so concurrent inserts for the same event
	// serialize at the storage layer as well.
	const lockQ = `SELECT capacity FROM events WHERE id = ? FOR UPDATE`
	var capacity int
	if err := tx.QueryRowContext(ctx, lockQ, b.EventID).Scan(&capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return err
	}

	if b.Status == model.StatusConfirmed {
		const countQ = `SELECT COUNT(*) FROM bookings WHERE event_id = ? AND status = ?`
		var confirmed int
		if err := tx.QueryRowContext(ctx, countQ, b.EventID, string(model.StatusConfirmed)).Scan(&confirmed); err != nil {
			return err
		}
		if confirmed >= capacity {
			return ErrCapacityTaken
		}
	}

	const ins = `INSERT INTO bookings (event_id, user_id, status, tenant_id) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, b.EventID, b.UserID, string(b.Status), b.TenantID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateStatus performs a compare-and-set transition from -> to and
// returns the updated booking.  When the row no longer holds the
// expected status (a concurrent writer got there first) it returns
// ErrStatusChanged and writes nothing.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) (*model.Booking, error) {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, string(to), id, string(from))
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish a missing row from a lost race.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusChanged
	}
	return r.GetByID(ctx, id)
}

// ListByUser returns all bookings belonging to a user, newest first,
// with the event title attached for display.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.event_id, e.title, b.status, b.created_at
	           FROM bookings b
	           JOIN events e ON e.id = b.event_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.EventID, &d.EventTitle, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// BookingDetail is the shape returned to users listing their own
// bookings: the ledger row plus the event title.
type BookingDetail struct {
	ID         uint64    `json:"id"`
	EventID    uint64    `json:"event_id"`
	EventTitle string    `json:"event_title"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
