package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/astroview/planetarium-reservation/internal/model"
)

// ThemeRepo provides CRUD operations for show themes.  Themes are leaf
// catalog data: other entities reference them but they depend on nothing.
type ThemeRepo struct {
	db *sql.DB
}

// NewThemeRepo returns a new ThemeRepo bound to the given database.
func NewThemeRepo(db *sql.DB) *ThemeRepo { return &ThemeRepo{db: db} }

// Create inserts a new theme and populates the generated ID.  A duplicate
// name yields ErrConflict.
func (r *ThemeRepo) Create(ctx context.Context, t *model.ShowTheme) error {
	const q = `INSERT INTO show_themes (name) VALUES (?)`
	res, err := r.db.ExecContext(ctx, q, t.Name)
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
	t.ID = uint64(id)
	return nil
}

// GetByID retrieves a theme by its ID.  It returns ErrThemeNotFound when
// no row exists.
func (r *ThemeRepo) GetByID(ctx context.Context, id uint64) (*model.ShowTheme, error) {
	const q = `SELECT id, name FROM show_themes WHERE id = ?`
	var t model.ShowTheme
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all themes ordered by name.
func (r *ThemeRepo) List(ctx context.Context) ([]model.ShowTheme, error) {
	const q = `SELECT id, name FROM show_themes ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ShowTheme, 0)
	for rows.Next() {
		var t model.ShowTheme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update renames a theme.  ErrThemeNotFound is returned when the theme
// does not exist, ErrConflict when the new name is already in use.
func (r *ThemeRepo) Update(ctx context.Context, t *model.ShowTheme) error {
	const q = `UPDATE show_themes SET name = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also zero when the name is unchanged; confirm
		// existence before reporting not found.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM show_themes WHERE id = ?)`, t.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrThemeNotFound
		}
	}
	return nil
}

// Delete removes a theme.  Join-table rows cascade away with it; shows
// themselves are untouched.
func (r *ThemeRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM show_themes WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrThemeNotFound
	}
	return nil
}

// ExistAll reports whether every given theme ID exists.  It is used to
// validate create/update payloads before touching the join table.
func (r *ThemeRepo) ExistAll(ctx context.Context, ids []uint64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT COUNT(DISTINCT id) FROM show_themes WHERE id IN (` +
		strings.Join(placeholders, ",") + `)`
	var count int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return false, err
	}
	distinct := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		distinct[id] = struct{}{}
	}
	return count == len(distinct), nil
}
