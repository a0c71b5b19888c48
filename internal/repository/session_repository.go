package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/astroview/planetarium-reservation/internal/model"
)

// SessionRepo provides CRUD and availability queries for show sessions.
// Availability is a derived projection recomputed on every query from the
// dome grid and the count of tickets referencing the session.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// SessionRow is the list shape: related names are flattened and
// tickets_available carries the remaining capacity at query time.
type SessionRow struct {
	ID               uint64 `json:"id"`
	ShowTitle        string `json:"astronomy_show"`
	DomeName         string `json:"planetarium_dome"`
	ShowTime         string `json:"show_time"`
	TicketsAvailable int    `json:"tickets_available"`
}

// SessionDetail is the retrieve shape: the full show (with theme names)
// and dome are nested.
type SessionDetail struct {
	ID       uint64                `json:"id"`
	Show     ShowDetail            `json:"astronomy_show"`
	Dome     model.PlanetariumDome `json:"planetarium_dome"`
	Capacity int                   `json:"capacity"`
	ShowTime time.Time             `json:"show_time"`
}

// SessionBounds carries just what the reservation engine needs to
// validate ticket positions for a session.
type SessionBounds struct {
	SessionID  uint64
	Rows       int
	SeatsInRow int
}

// Create inserts a new session and populates the generated ID.  The
// handler validates that the referenced show and dome exist beforehand;
// the foreign keys are the backstop.
func (r *SessionRepo) Create(ctx context.Context, s *model.ShowSession) error {
	const q = `INSERT INTO show_sessions (astronomy_show_id, planetarium_dome_id, show_time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.ShowID, s.DomeID, s.ShowTime.UTC())
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

// GetByID retrieves a session with its show (including theme names) and
// dome nested.  It returns ErrSessionNotFound when no row exists.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*SessionDetail, error) {
	const q = `SELECT ss.id, ss.show_time,
	                  s.id, s.title, s.description,
	                  d.id, d.name, d.rows_count, d.seats_in_row
	           FROM show_sessions ss
	           JOIN astronomy_shows s ON s.id = ss.astronomy_show_id
	           JOIN planetarium_domes d ON d.id = ss.planetarium_dome_id
	           WHERE ss.id = ?`
	var det SessionDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.ShowTime,
		&det.Show.ID, &det.Show.Title, &det.Show.Description,
		&det.Dome.ID, &det.Dome.Name, &det.Dome.Rows, &det.Dome.SeatsInRow,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	det.Capacity = det.Dome.Capacity()
	det.Show.Themes = []string{}
	const themeQ = `SELECT t.name
	                FROM astronomy_show_themes st
	                JOIN show_themes t ON t.id = st.show_theme_id
	                WHERE st.astronomy_show_id = ?
	                ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, themeQ, det.Show.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		det.Show.Themes = append(det.Show.Themes, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// List returns all sessions newest first, each annotated with
// tickets_available = rows_count*seats_in_row - count(tickets).  The
// count comes from a LEFT JOIN so sessions with no tickets report full
// capacity.
func (r *SessionRepo) List(ctx context.Context) ([]SessionRow, error) {
	const q = `SELECT ss.id, s.title, d.name,
	                  DATE_FORMAT(ss.show_time, '%Y-%m-%d %H:%i') AS show_time,
	                  d.rows_count * d.seats_in_row - COUNT(t.id) AS tickets_available
	           FROM show_sessions ss
	           JOIN astronomy_shows s ON s.id = ss.astronomy_show_id
	           JOIN planetarium_domes d ON d.id = ss.planetarium_dome_id
	           LEFT JOIN tickets t ON t.show_session_id = ss.id
	           GROUP BY ss.id, s.title, d.name, ss.show_time, d.rows_count, d.seats_in_row
	           ORDER BY ss.show_time DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SessionRow, 0)
	for rows.Next() {
		var row SessionRow
		if err := rows.Scan(&row.ID, &row.ShowTitle, &row.DomeName, &row.ShowTime, &row.TicketsAvailable); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBounds returns the dome grid bounds for a session.  It returns
// ErrSessionNotFound when the session does not exist.  The reservation
// engine uses this to validate ticket positions before opening the
// transaction.
func (r *SessionRepo) GetBounds(ctx context.Context, sessionID uint64) (*SessionBounds, error) {
	const q = `SELECT ss.id, d.rows_count, d.seats_in_row
	           FROM show_sessions ss
	           JOIN planetarium_domes d ON d.id = ss.planetarium_dome_id
	           WHERE ss.id = ?`
	var b SessionBounds
	err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&b.SessionID, &b.Rows, &b.SeatsInRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Update rewrites a session's show, dome and time.  ErrSessionNotFound is
// returned when the session does not exist.
func (r *SessionRepo) Update(ctx context.Context, s *model.ShowSession) error {
	const q = `UPDATE show_sessions SET astronomy_show_id = ?, planetarium_dome_id = ?, show_time = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.ShowID, s.DomeID, s.ShowTime.UTC(), s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM show_sessions WHERE id = ?)`, s.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrSessionNotFound
		}
	}
	return nil
}

// Delete removes a session; its tickets cascade away.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM show_sessions WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
