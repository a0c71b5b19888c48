package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/astroview/planetarium-reservation/internal/model"
)

// ShowRepo provides CRUD and filtered listing for astronomy shows,
// including management of the show/theme join table.  Theme links are
// written together with the show row in one transaction so a show is
// never visible with half of its themes.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo returns a new ShowRepo bound to the given database.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *ShowRepo) DB() *sql.DB { return r.db }

// ShowDetail is the read shape for list and retrieve responses: the show
// row plus the names of its themes, ordered alphabetically.
type ShowDetail struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Themes      []string `json:"show_theme"`
}

// ShowFilter restricts List output.  ThemeIDs keeps shows having at least
// one of the given themes (set intersection); Title is a case-insensitive
// substring match.  Both are optional and combine with AND semantics.
type ShowFilter struct {
	ThemeIDs []uint64
	Title    string
}

// Create inserts a show together with its theme links atomically.  The
// caller is expected to have verified that all theme IDs exist.  A
// duplicate title yields ErrConflict.
func (r *ShowRepo) Create(ctx context.Context, s *model.AstronomyShow) error {
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
	const q = `INSERT INTO astronomy_shows (title, description) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, q, s.Title, s.Description)
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
	s.ID = uint64(id)
	if err := r.replaceThemesTx(ctx, tx, s.ID, s.ThemeIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves a show with its theme names.  It returns
// ErrShowNotFound when no row exists.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*ShowDetail, error) {
	const q = `SELECT id, title, description FROM astronomy_shows WHERE id = ?`
	var d ShowDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Title, &d.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	d.Themes = []string{}
	const themeQ = `SELECT t.name
	                FROM astronomy_show_themes st
	                JOIN show_themes t ON t.id = st.show_theme_id
	                WHERE st.astronomy_show_id = ?
	                ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, themeQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		d.Themes = append(d.Themes, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns shows matching the filter, ordered by title.  A show
// matches the theme filter when it carries at least one of the given
// themes; the title filter is a case-insensitive substring test.  An
// empty filter returns every show.
func (r *ShowRepo) List(ctx context.Context, f ShowFilter) ([]ShowDetail, error) {
	where := []string{}
	args := []interface{}{}

	if len(f.ThemeIDs) > 0 {
		placeholders := make([]string, len(f.ThemeIDs))
		for i, id := range f.ThemeIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		where = append(where, `s.id IN (
			SELECT st.astronomy_show_id FROM astronomy_show_themes st
			WHERE st.show_theme_id IN (`+strings.Join(placeholders, ",")+`))`)
	}
	if f.Title != "" {
		where = append(where, "LOWER(s.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Title)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	q := `SELECT DISTINCT s.id, s.title, s.description
	      FROM astronomy_shows s
	      WHERE ` + cond + `
	      ORDER BY s.title`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ShowDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ShowDetail
		if err := rows.Scan(&d.ID, &d.Title, &d.Description); err != nil {
			return nil, err
		}
		d.Themes = []string{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	// Populate theme names for all shows in a single query.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	themeQ := `SELECT st.astronomy_show_id, t.name
	           FROM astronomy_show_themes st
	           JOIN show_themes t ON t.id = st.show_theme_id
	           WHERE st.astronomy_show_id IN (` + strings.Join(placeholders, ",") + `)
	           ORDER BY st.astronomy_show_id, t.name`
	trows, err := r.db.QueryContext(ctx, themeQ, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var showID uint64
		var name string
		if err := trows.Scan(&showID, &name); err != nil {
			return nil, err
		}
		if idx, ok := index[showID]; ok {
			details[idx].Themes = append(details[idx].Themes, name)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// Update rewrites a show's title, description and theme set atomically.
// ErrShowNotFound is returned when the show does not exist, ErrConflict
// when the new title collides with another show.
func (r *ShowRepo) Update(ctx context.Context, s *model.AstronomyShow) error {
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
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM astronomy_shows WHERE id = ?)`, s.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrShowNotFound
	}
	const q = `UPDATE astronomy_shows SET title = ?, description = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, s.Title, s.Description, s.ID); err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	if err := r.replaceThemesTx(ctx, tx, s.ID, s.ThemeIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a show; its sessions and their tickets cascade away.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM astronomy_shows WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowNotFound
	}
	return nil
}

// replaceThemesTx rewrites the join table for a show inside the given
// transaction.  Theme order is irrelevant; the set is replaced wholesale.
func (r *ShowRepo) replaceThemesTx(ctx context.Context, tx *sql.Tx, showID uint64, themeIDs []uint64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM astronomy_show_themes WHERE astronomy_show_id = ?`, showID); err != nil {
		return err
	}
	if len(themeIDs) == 0 {
		return nil
	}
	seen := make(map[uint64]struct{}, len(themeIDs))
	query := `INSERT INTO astronomy_show_themes (astronomy_show_id, show_theme_id) VALUES `
	args := make([]interface{}, 0, len(themeIDs)*2)
	first := true
	for _, tid := range themeIDs {
		if _, ok := seen[tid]; ok {
			continue
		}
		seen[tid] = struct{}{}
		if !first {
			query += ","
		}
		first = false
		query += "(?, ?)"
		args = append(args, showID, tid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
