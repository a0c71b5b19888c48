package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/astroview/planetarium-reservation/internal/model"
)

// ReservationRepo provides creation and ownership-scoped reads for
// reservations and their tickets.  A reservation and all of its tickets
// are written inside one transaction owned by the caller: either every
// row commits or none does.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so the handler can own the
// reservation-creation transaction.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// TicketDetail is the per-ticket read shape, enriched with the session's
// show title and time for display.
type TicketDetail struct {
	ID        uint64 `json:"id"`
	Row       int    `json:"row"`
	Seat      int    `json:"seat"`
	SessionID uint64 `json:"show_session"`
	ShowTitle string `json:"show_title"`
	ShowTime  string `json:"show_time"`
}

// ReservationDetail is a reservation with its tickets, as returned for
// the owning user.
type ReservationDetail struct {
	ID        uint64         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Tickets   []TicketDetail `json:"tickets"`
}

// CreateTx inserts a new reservation for the given user within the scope
// of an existing transaction.  It populates the generated ID and the
// database-assigned creation timestamp on the model.  The caller must
// commit or rollback the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id) VALUES (?)`
	result, err := tx.ExecContext(ctx, q, res.UserID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the row to populate the created_at default.
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// CreateTicketsBulkTx inserts the tickets of a reservation in a single
// statement within the provided transaction.  Every position is
// re-validated against the bounds of its session before the insert, so
// out-of-range seats never reach the database.  A collision on the
// uq_ticket constraint is reported as ErrTicketTaken; the caller must
// roll back, discarding the reservation row as well.  Passing an empty
// slice has no effect and returns nil.
func (r *ReservationRepo) CreateTicketsBulkTx(ctx context.Context, tx *sql.Tx, reservationID uint64, tickets []model.Ticket, bounds map[uint64]SessionBounds) error {
	if len(tickets) == 0 {
		return nil
	}
	for _, t := range tickets {
		b, ok := bounds[t.SessionID]
		if !ok {
			return ErrSessionNotFound
		}
		dome := model.PlanetariumDome{Rows: b.Rows, SeatsInRow: b.SeatsInRow}
		if err := t.Validate(dome); err != nil {
			return err
		}
	}
	query := `INSERT INTO tickets (row_num, seat_num, show_session_id, reservation_id) VALUES `
	args := make([]interface{}, 0, len(tickets)*4)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, t.Row, t.Seat, t.SessionID, reservationID)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return ErrTicketTaken
		}
		return err
	}
	return nil
}

// TicketExistsTx reports whether a ticket already occupies the given
// (row, seat) in the session.  It runs inside the reservation transaction
// as a pre-check that produces a descriptive message; the uq_ticket
// constraint remains the final arbiter between racing writers.
func (r *ReservationRepo) TicketExistsTx(ctx context.Context, tx *sql.Tx, sessionID uint64, row, seat int) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tickets WHERE show_session_id = ? AND row_num = ? AND seat_num = ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, sessionID, row, seat).Scan(&exists)
	return exists, err
}

// GetByIDForUser returns a single reservation with its tickets, restricted
// to the requesting user.  A reservation that does not exist or belongs to
// someone else yields ErrReservationNotFound so nothing is leaked about
// other users' bookings.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	const q = `SELECT id, created_at FROM reservations WHERE id = ? AND user_id = ?`
	var det ReservationDetail
	err := r.db.QueryRowContext(ctx, q, reservationID, userID).Scan(&det.ID, &det.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	det.Tickets = []TicketDetail{}
	const ticketQ = `SELECT t.id, t.row_num, t.seat_num, t.show_session_id,
	                        s.title, DATE_FORMAT(ss.show_time, '%Y-%m-%d %H:%i')
	                 FROM tickets t
	                 JOIN show_sessions ss ON ss.id = t.show_session_id
	                 JOIN astronomy_shows s ON s.id = ss.astronomy_show_id
	                 WHERE t.reservation_id = ?
	                 ORDER BY t.row_num, t.seat_num`
	rows, err := r.db.QueryContext(ctx, ticketQ, det.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t TicketDetail
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.SessionID, &t.ShowTitle, &t.ShowTime); err != nil {
			return nil, err
		}
		det.Tickets = append(det.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// ListByUser returns all reservations belonging to the given user, newest
// first, each with its tickets.  When no reservations exist an empty
// slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT id, created_at FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Tickets = []TicketDetail{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	// Populate tickets for all reservations in a single query.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	ticketQ := `SELECT t.reservation_id, t.id, t.row_num, t.seat_num, t.show_session_id,
	                   s.title, DATE_FORMAT(ss.show_time, '%Y-%m-%d %H:%i')
	            FROM tickets t
	            JOIN show_sessions ss ON ss.id = t.show_session_id
	            JOIN astronomy_shows s ON s.id = ss.astronomy_show_id
	            WHERE t.reservation_id IN (` + strings.Join(placeholders, ",") + `)
	            ORDER BY t.reservation_id, t.row_num, t.seat_num`
	trows, err := r.db.QueryContext(ctx, ticketQ, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var rid uint64
		var t TicketDetail
		if err := trows.Scan(&rid, &t.ID, &t.Row, &t.Seat, &t.SessionID, &t.ShowTitle, &t.ShowTime); err != nil {
			return nil, err
		}
		if idx, ok := index[rid]; ok {
			details[idx].Tickets = append(details[idx].Tickets, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
