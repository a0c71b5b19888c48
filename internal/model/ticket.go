package model

import "fmt"

// Ticket is a single seat claim (row, seat) within one show session,
// belonging to one reservation.  The (row, seat, show_session) triple is
// globally unique; the uq_ticket constraint in the schema is the final
// arbiter under concurrent writers.
//
// Fields:
//
//	ID            – primary key identifier.
//	Row           – 1-based row number within the dome grid.
//	Seat          – 1-based seat number within the row.
//	SessionID     – the show session the seat is claimed in.
//	ReservationID – the owning reservation.
type Ticket struct {
	ID            uint64 `json:"id"`           // tickets.id
	Row           int    `json:"row"`          // tickets.row_num
	Seat          int    `json:"seat"`         // tickets.seat_num
	SessionID     uint64 `json:"show_session"` // tickets.show_session_id
	ReservationID uint64 `json:"-"`            // tickets.reservation_id
}

// ValidationError reports a seat position outside the dome grid.  Field is
// either "row" or "seat"; Limit is the inclusive upper bound of the valid
// range for that axis.
type ValidationError struct {
	Field string
	Value int
	Limit int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s number must be in available range: (1, %s): (1, %d), got %d",
		e.Field, e.Field+"s", e.Limit, e.Value)
}

// ValidatePosition checks a single axis of a seat position: the value must
// satisfy 1 <= value <= limit.  On failure it returns a *ValidationError
// naming the offending field, the valid range and the rejected value.
func ValidatePosition(field string, value, limit int) error {
	if value < 1 || value > limit {
		return &ValidationError{Field: field, Value: value, Limit: limit}
	}
	return nil
}

// Validate confirms the ticket's position lies within the dome's seat
// grid, checking each axis independently.  It is called both at the API
// input boundary and again at the repository boundary before persisting,
// so invalid positions are rejected with a client error rather than a
// storage constraint failure.
func (t Ticket) Validate(dome PlanetariumDome) error {
	if err := ValidatePosition("row", t.Row, dome.Rows); err != nil {
		return err
	}
	return ValidatePosition("seat", t.Seat, dome.SeatsInRow)
}
