package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hafizalkariem/rental-ps-server/internal/model"
)

// EventRepo provides CRUD and sweep operations for the events table.
// Events are calendar items with no overlap invariant; any number may
// share a window.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventCols = `id, title, description, type, event_date, start_minutes, end_minutes,
max_participants, entry_fee_cents, prize_pool_cents, status, is_featured, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Type, &e.EventDate, &e.StartMinutes,
		&e.EndMinutes, &e.MaxParticipants, &e.EntryFeeCents, &e.PrizePoolCents,
		&e.Status, &e.IsFeatured, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Create inserts an event and sets its generated ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, description, type, event_date, start_minutes, end_minutes,
		  max_participants, entry_fee_cents, prize_pool_cents, status, is_featured)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		e.Title, e.Description, e.Type, e.EventDate.Format("2006-01-02"), e.StartMinutes,
		e.EndMinutes, e.MaxParticipants, e.EntryFeeCents, e.PrizePoolCents, e.Status, e.IsFeatured)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID fetches one event or ErrNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrNotFound
	}
	return e, err
}

// List returns events, optionally filtered by status and/or featured flag,
// soonest first.
func (r *EventRepo) List(ctx context.Context, status string, featuredOnly bool) ([]model.Event, error) {
	q := `SELECT ` + eventCols + ` FROM events`
	var (
		conds []string
		args  []any
	)
	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	if featuredOnly {
		conds = append(conds, "is_featured = TRUE")
	}
	for i, cond := range conds {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += ` ORDER BY event_date, start_minutes, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of an event.  Status is not touched
// here; status changes go through UpdateStatus or the sweep.
func (r *EventRepo) Update(ctx context.Context, e model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET title=?, description=?, type=?, event_date=?, start_minutes=?,
		  end_minutes=?, max_participants=?, entry_fee_cents=?, prize_pool_cents=?, is_featured=?
		 WHERE id=?`,
		e.Title, e.Description, e.Type, e.EventDate.Format("2006-01-02"), e.StartMinutes,
		e.EndMinutes, e.MaxParticipants, e.EntryFeeCents, e.PrizePoolCents, e.IsFeatured, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		if _, gerr := r.GetByID(ctx, e.ID); gerr != nil {
			return gerr
		}
	}
	return err
}

// UpdateStatus applies an explicit staff status change, validated against
// the event state machine inside the row lock.
func (r *EventRepo) UpdateStatus(ctx context.Context, id uint64, newStatus string) (model.Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Event{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	e, err := scanEvent(tx.QueryRowContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE id = ? FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrNotFound
	}
	if err != nil {
		return model.Event{}, err
	}
	if !model.CanTransitionEvent(e.Status, newStatus) {
		return model.Event{}, ErrInvalidTransition
	}
	if _, err := tx.ExecContext(ctx, `UPDATE events SET status=? WHERE id=?`, newStatus, id); err != nil {
		return model.Event{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Event{}, err
	}
	committed = true
	e.Status = newStatus
	return e, nil
}

// SweepDue returns events still marked upcoming or ongoing on or before
// now's date; the sweep decides per record whether time has moved them on.
func (r *EventRepo) SweepDue(ctx context.Context, now time.Time) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM events
		 WHERE status IN ('upcoming','ongoing') AND event_date <= ?
		 ORDER BY id`,
		now.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AdvanceStatus moves an event from an expected status to the next in one
// guarded UPDATE.  A record already advanced is a no-op, keeping the sweep
// idempotent.
func (r *EventRepo) AdvanceStatus(ctx context.Context, id uint64, from, to string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE events SET status=? WHERE id=? AND status=?`, to, id, from)
	return err
}

// Delete removes an event outright.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
