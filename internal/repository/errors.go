// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrTicketTaken indicates that a ticket insert collided with
// the uq_ticket uniqueness constraint, while ErrConflict signals a
// duplicate unique value such as a theme name.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update collides with an
// existing unique value, such as a duplicate theme name or show title.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrTicketTaken is returned when a ticket insert or pre-check hits the
// uq_ticket composite uniqueness constraint on (show_session, row, seat).
// The constraint in the schema is the final arbiter between concurrent
// writers; this sentinel only gives the API a descriptive message.
var ErrTicketTaken = errors.New("A ticket with this seat-row for this show session already reserved.")

// Not-found sentinels, one per entity, returned instead of sql.ErrNoRows
// so handlers can map lookups to 404 without importing database/sql.
var (
	ErrThemeNotFound       = errors.New("show theme not found")
	ErrShowNotFound        = errors.New("astronomy show not found")
	ErrDomeNotFound        = errors.New("planetarium dome not found")
	ErrSessionNotFound     = errors.New("show session not found")
	ErrReservationNotFound = errors.New("reservation not found")
)

// isDuplicateEntry reports whether err is a MySQL duplicate-key failure
// (error 1062). The driver error text is matched the same way the email
// uniqueness check does it rather than depending on driver error types.
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
