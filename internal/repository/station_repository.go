package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hafizalkariem/rental-ps-server/internal/model"
)

// StationRepo provides CRUD operations for the stations table.
type StationRepo struct {
	db *sql.DB
}

// NewStationRepo returns a StationRepo bound to the given database.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

const stationCols = "id, name, location, is_active, created_at, updated_at"

func scanStation(row interface{ Scan(...any) error }) (model.Station, error) {
	var s model.Station
	err := row.Scan(&s.ID, &s.Name, &s.Location, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a station and sets its generated ID.
func (r *StationRepo) Create(ctx context.Context, s *model.Station) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO stations (name, location, is_active) VALUES (?,?,?)`,
		s.Name, s.Location, s.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a station or ErrNotFound.
func (r *StationRepo) GetByID(ctx context.Context, id uint64) (model.Station, error) {
	s, err := scanStation(r.db.QueryRowContext(ctx,
		`SELECT `+stationCols+` FROM stations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Station{}, ErrNotFound
	}
	return s, err
}

// List returns all stations ordered by name.
func (r *StationRepo) List(ctx context.Context) ([]model.Station, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stationCols+` FROM stations ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Station, 0)
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of a station.
func (r *StationRepo) Update(ctx context.Context, s model.Station) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stations SET name=?, location=?, is_active=? WHERE id=?`,
		s.Name, s.Location, s.IsActive, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		if _, gerr := r.GetByID(ctx, s.ID); gerr != nil {
			return gerr
		}
	}
	return err
}

// Delete removes a station, refusing with ErrConflict while pairings at
// the station hold non-terminal bookings.
func (r *StationRepo) Delete(ctx context.Context, id uint64) error {
	var live int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b
		 JOIN console_stations cs ON cs.id = b.console_station_id
		 WHERE cs.station_id = ? AND b.status IN ('pending','confirmed','in_progress')`,
		id).Scan(&live)
	if err != nil {
		return err
	}
	if live > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
