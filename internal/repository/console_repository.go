package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hafizalkariem/rental-ps-server/internal/model"
)

// ConsoleRepo provides CRUD operations for the consoles table.
type ConsoleRepo struct {
	db *sql.DB
}

// NewConsoleRepo returns a ConsoleRepo bound to the given database.
func NewConsoleRepo(db *sql.DB) *ConsoleRepo { return &ConsoleRepo{db: db} }

const consoleCols = "id, name, type, hourly_rate_cents, status, is_active, created_at, updated_at"

func scanConsole(row interface{ Scan(...any) error }) (model.Console, error) {
	var c model.Console
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.HourlyRateCents, &c.Status, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a console and returns its generated ID.
func (r *ConsoleRepo) Create(ctx context.Context, c *model.Console) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO consoles (name, type, hourly_rate_cents, status, is_active) VALUES (?,?,?,?,?)`,
		c.Name, c.Type, c.HourlyRateCents, c.Status, c.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a console or ErrNotFound.
func (r *ConsoleRepo) GetByID(ctx context.Context, id uint64) (model.Console, error) {
	c, err := scanConsole(r.db.QueryRowContext(ctx,
		`SELECT `+consoleCols+` FROM consoles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Console{}, ErrNotFound
	}
	return c, err
}

// List returns all consoles ordered by name.
func (r *ConsoleRepo) List(ctx context.Context) ([]model.Console, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+consoleCols+` FROM consoles ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Console, 0)
	for rows.Next() {
		c, err := scanConsole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of a console.  Returns ErrNotFound
// when the id does not exist.
func (r *ConsoleRepo) Update(ctx context.Context, c model.Console) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE consoles SET name=?, type=?, hourly_rate_cents=?, status=?, is_active=? WHERE id=?`,
		c.Name, c.Type, c.HourlyRateCents, c.Status, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		if _, gerr := r.GetByID(ctx, c.ID); gerr != nil {
			return gerr
		}
	}
	return err
}

// Delete removes a console.  It refuses with ErrConflict while any
// station pairing for the console still holds non-terminal bookings.
func (r *ConsoleRepo) Delete(ctx context.Context, id uint64) error {
	var live int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b
		 JOIN console_stations cs ON cs.id = b.console_station_id
		 WHERE cs.console_id = ? AND b.status IN ('pending','confirmed','in_progress')`,
		id).Scan(&live)
	if err != nil {
		return err
	}
	if live > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM consoles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
