package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hafizalkariem/rental-ps-server/internal/model"
	"github.com/hafizalkariem/rental-ps-server/internal/timeslot"
)

// BookingRepo is the authoritative store of reservations.  All ledger
// mutation goes through CreateNoOverlap, UpdateStatus or Delete; nothing
// else writes booking rows.  The no-overlap invariant is enforced inside
// CreateNoOverlap by locking the candidate rows for the target resource and
// date before the interval check, so concurrent callers on the same
// (resource, date) serialize while bookings of other resources or dates
// proceed untouched.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for handlers that open their own
// transactions across repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, code, console_station_id, user_id, customer_name, customer_phone,
customer_email, booking_date, start_minutes, end_minutes, duration_hours,
total_amount_cents, status, payment_status, notes, created_at, updated_at`

// activeStates is the status set that participates in the overlap
// invariant.  Cancelled and completed bookings free their slot.
const activeStates = `('pending','confirmed','in_progress')`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var (
		b      model.Booking
		userID sql.NullInt64
		notes  sql.NullString
	)
	err := row.Scan(&b.ID, &b.Code, &b.ConsoleStationID, &userID, &b.CustomerName, &b.CustomerPhone,
		&b.CustomerEmail, &b.BookingDate, &b.StartMinutes, &b.EndMinutes, &b.DurationHours,
		&b.TotalAmountCents, &b.Status, &b.PaymentStatus, &notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return b, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		b.UserID = &uid
	}
	if notes.Valid {
		b.Notes = notes.String
	}
	return b, nil
}

// Interval recomputes the booking's half-open interval from its start and
// duration; the stored end column is never trusted for the overlap check.
func bookingInterval(b model.Booking) timeslot.Interval {
	return timeslot.New(b.StartMinutes, b.DurationHours)
}

// CreateNoOverlap inserts a booking only if its interval collides with no
// non-terminal booking on the same resource and date.  The check and the
// insert run in one transaction: candidate rows are read under FOR UPDATE,
// so a concurrent insert on the same (resource, date) blocks until this
// transaction commits and then observes the new row.  On collision a
// *ConflictError naming the existing interval is returned and nothing is
// written.  The booking's end minutes are recomputed here regardless of
// what the caller set.
func (r *BookingRepo) CreateNoOverlap(ctx context.Context, b *model.Booking) error {
	requested := bookingInterval(*b)
	b.EndMinutes = requested.End

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

	rows, err := tx.QueryContext(ctx,
		`SELECT id, start_minutes, duration_hours FROM bookings
		 WHERE console_station_id = ? AND booking_date = ? AND status IN `+activeStates+`
		 FOR UPDATE`,
		b.ConsoleStationID, b.BookingDate.Format("2006-01-02"))
	if err != nil {
		return err
	}
	type candidate struct {
		id       uint64
		start    int
		duration int
	}
	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.start, &c.duration); err != nil {
			rows.Close()
			return err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	for _, c := range candidates {
		existing := timeslot.New(c.start, c.duration)
		if requested.Overlaps(existing) {
			return &ConflictError{
				ConsoleStationID: b.ConsoleStationID,
				BookingDate:      b.BookingDate.Format("2006-01-02"),
				Requested:        requested,
				Existing:         existing,
				ExistingID:       c.id,
			}
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (code, console_station_id, user_id, customer_name, customer_phone,
		  customer_email, booking_date, start_minutes, end_minutes, duration_hours,
		  total_amount_cents, status, payment_status, notes)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Code, b.ConsoleStationID, nullableID(b.UserID), b.CustomerName, b.CustomerPhone,
		b.CustomerEmail, b.BookingDate.Format("2006-01-02"), b.StartMinutes, b.EndMinutes,
		b.DurationHours, b.TotalAmountCents, b.Status, b.PaymentStatus, b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func nullableID(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}

// OccupiedInterval is one booked span returned by availability queries.
type OccupiedInterval struct {
	ConsoleStationID uint64            `json:"resource_id"`
	BookingID        uint64            `json:"booking_id"`
	Status           string            `json:"status"`
	Interval         timeslot.Interval `json:"-"`
	Start            string            `json:"start"`
	End              string            `json:"end"`
}

// ListOccupied returns the occupied intervals of all non-terminal bookings
// on the given date, optionally narrowed to one resource.  A single SELECT
// gives one consistent snapshot; the method never mutates.  Ends are
// recomputed from start + duration, not read from the stored column.
func (r *BookingRepo) ListOccupied(ctx context.Context, date time.Time, consoleStationID uint64) ([]OccupiedInterval, error) {
	q := `SELECT id, console_station_id, start_minutes, duration_hours, status FROM bookings
	      WHERE booking_date = ? AND status IN ` + activeStates
	args := []any{date.Format("2006-01-02")}
	if consoleStationID != 0 {
		q += ` AND console_station_id = ?`
		args = append(args, consoleStationID)
	}
	q += ` ORDER BY console_station_id, start_minutes`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OccupiedInterval, 0)
	for rows.Next() {
		var (
			oi       OccupiedInterval
			start    int
			duration int
		)
		if err := rows.Scan(&oi.BookingID, &oi.ConsoleStationID, &start, &duration, &oi.Status); err != nil {
			return nil, err
		}
		oi.Interval = timeslot.New(start, duration)
		oi.Start = timeslot.Clock(oi.Interval.Start)
		oi.End = timeslot.Clock(oi.Interval.End)
		out = append(out, oi)
	}
	return out, rows.Err()
}

// GetByID fetches one booking or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// BookingFilter narrows admin booking listings.  Zero values mean "any".
type BookingFilter struct {
	Date             *time.Time
	ConsoleStationID uint64
	UserID           uint64
	Status           string
}

// List returns bookings matching the filter, newest first.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	var (
		conds []string
		args  []any
	)
	if f.Date != nil {
		conds = append(conds, "booking_date = ?")
		args = append(args, f.Date.Format("2006-01-02"))
	}
	if f.ConsoleStationID != 0 {
		conds = append(conds, "console_station_id = ?")
		args = append(args, f.ConsoleStationID)
	}
	if f.UserID != 0 {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	q := `SELECT ` + bookingCols + ` FROM bookings`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus applies an explicit status and/or payment-status change.
// Status legality is checked against the current row inside the
// transaction so a racing sweep cannot interleave between read and write;
// the whole change is a single atomic row update.  Empty strings leave the
// corresponding field untouched.  Returns the updated booking.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, newStatus, newPayment string) (model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ? FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}

	if newStatus != "" && newStatus != b.Status {
		if !model.CanTransitionBooking(b.Status, newStatus) {
			return model.Booking{}, ErrInvalidTransition
		}
		b.Status = newStatus
	}
	if newPayment != "" {
		// payment status is a label, any value may follow any value
		b.PaymentStatus = newPayment
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status=?, payment_status=? WHERE id=?`,
		b.Status, b.PaymentStatus, id); err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true
	return b, nil
}

// SweepDue returns bookings whose status is due for a time-driven advance
// relative to now: confirmed bookings whose interval has started, and
// in-progress bookings whose interval has ended.  The caller applies the
// transition per record via AdvanceStatus.
func (r *BookingRepo) SweepDue(ctx context.Context, now time.Time) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings
		 WHERE status IN ('confirmed','in_progress') AND booking_date <= ?
		 ORDER BY id`,
		now.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AdvanceStatus is the sweep's write path: it moves a booking from an
// expected current status to the next one in a single guarded UPDATE, so a
// record already advanced (by staff or a concurrent pass) is left alone and
// the sweep stays idempotent.
func (r *BookingRepo) AdvanceStatus(ctx context.Context, id uint64, from, to string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status=? WHERE id=? AND status=?`, to, id, from)
	return err
}

// Delete hard-removes a booking, freeing its slot with no further side
// effects.  Admin action only.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
