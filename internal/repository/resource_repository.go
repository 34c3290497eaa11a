package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hafizalkariem/rental-ps-server/internal/model"
)

// ResourceRepo manages console_stations rows, the pairing of a console to a
// station that the reservation ledger books against.  The ledger itself
// only ever sees the pairing's opaque id; console and station details are
// resolved here for the catalog and the availability projector.
type ResourceRepo struct {
	db *sql.DB
}

// NewResourceRepo returns a ResourceRepo bound to the given database.
func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{db: db} }

// resourceQuery joins the pairing to its console and station so callers get
// everything the projector needs in one row.
const resourceQuery = `SELECT cs.id, cs.console_id, c.name, c.type, c.status, c.hourly_rate_cents,
       cs.station_id, s.name, s.location,
       (cs.is_active AND c.is_active AND s.is_active)
FROM console_stations cs
JOIN consoles c ON c.id = cs.console_id
JOIN stations s ON s.id = cs.station_id`

func scanResource(row interface{ Scan(...any) error }) (model.Resource, error) {
	var res model.Resource
	err := row.Scan(&res.ID, &res.ConsoleID, &res.ConsoleName, &res.ConsoleType, &res.ConsoleStatus,
		&res.HourlyRateCents, &res.StationID, &res.StationName, &res.StationLocation, &res.IsActive)
	return res, err
}

// Assign creates a console-station pairing and sets its generated ID.
// A duplicate pairing is reported as ErrConflict (unique key on
// console_id+station_id).
func (r *ResourceRepo) Assign(ctx context.Context, cs *model.ConsoleStation) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO console_stations (console_id, station_id, is_active) VALUES (?,?,?)`,
		cs.ConsoleID, cs.StationID, cs.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cs.ID = uint64(id)
	return nil
}

// GetByID resolves a pairing with its catalog details, or ErrNotFound.
func (r *ResourceRepo) GetByID(ctx context.Context, id uint64) (model.Resource, error) {
	res, err := scanResource(r.db.QueryRowContext(ctx, resourceQuery+` WHERE cs.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Resource{}, ErrNotFound
	}
	return res, err
}

// List returns every pairing with catalog details, ordered by station then
// console, the order booking grids render in.
func (r *ResourceRepo) List(ctx context.Context) ([]model.Resource, error) {
	rows, err := r.db.QueryContext(ctx, resourceQuery+` ORDER BY s.name, c.name, cs.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// SetActive toggles a pairing without touching its bookings.
func (r *ResourceRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE console_stations SET is_active=? WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Unassign deletes a pairing.  Pairings referenced by non-terminal
// bookings are protected with ErrConflict; deletion never silently frees
// or cascades live reservations.
func (r *ResourceRepo) Unassign(ctx context.Context, id uint64) error {
	var live int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE console_station_id = ? AND status IN ('pending','confirmed','in_progress')`,
		id).Scan(&live)
	if err != nil {
		return err
	}
	if live > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM console_stations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
