package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/astroview/planetarium-reservation/internal/model"
)

// DomeRepo provides CRUD operations for planetarium domes.  The seat grid
// (rows_count, seats_in_row) stored here defines the bounds every ticket
// position is validated against.
type DomeRepo struct {
	db *sql.DB
}

// NewDomeRepo returns a new DomeRepo bound to the given database.
func NewDomeRepo(db *sql.DB) *DomeRepo { return &DomeRepo{db: db} }

// Create inserts a new dome and populates the generated ID.  A duplicate
// name yields ErrConflict.
func (r *DomeRepo) Create(ctx context.Context, d *model.PlanetariumDome) error {
	const q = `INSERT INTO planetarium_domes (name, rows_count, seats_in_row) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, d.Name, d.Rows, d.SeatsInRow)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetByID retrieves a dome by its ID.  It returns ErrDomeNotFound when no
// row exists.
func (r *DomeRepo) GetByID(ctx context.Context, id uint64) (*model.PlanetariumDome, error) {
	const q = `SELECT id, name, rows_count, seats_in_row FROM planetarium_domes WHERE id = ?`
	var d model.PlanetariumDome
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Name, &d.Rows, &d.SeatsInRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDomeNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all domes ordered by name.
func (r *DomeRepo) List(ctx context.Context) ([]model.PlanetariumDome, error) {
	const q = `SELECT id, name, rows_count, seats_in_row FROM planetarium_domes ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PlanetariumDome, 0)
	for rows.Next() {
		var d model.PlanetariumDome
		if err := rows.Scan(&d.ID, &d.Name, &d.Rows, &d.SeatsInRow); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a dome's name and seat grid.  Shrinking the grid does
// not retroactively invalidate existing tickets; new tickets are checked
// against the updated bounds.
func (r *DomeRepo) Update(ctx context.Context, d *model.PlanetariumDome) error {
	const q = `UPDATE planetarium_domes SET name = ?, rows_count = ?, seats_in_row = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, d.Name, d.Rows, d.SeatsInRow, d.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM planetarium_domes WHERE id = ?)`, d.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrDomeNotFound
		}
	}
	return nil
}

// Delete removes a dome.  Sessions held in the dome cascade away, along
// with their tickets.
func (r *DomeRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM planetarium_domes WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDomeNotFound
	}
	return nil
}
