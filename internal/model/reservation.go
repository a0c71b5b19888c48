package model

import "time"

// Reservation is a booking owned by one user, grouping one or more
// tickets.  A reservation is created atomically together with all of its
// tickets and is read-only afterwards; tickets never outlive it.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – user who made the reservation.
//	CreatedAt – creation timestamp, set once at creation.
type Reservation struct {
	ID        uint64    `json:"id"`         // reservations.id
	UserID    uint64    `json:"-"`          // reservations.user_id
	CreatedAt time.Time `json:"created_at"` // reservations.created_at
}
