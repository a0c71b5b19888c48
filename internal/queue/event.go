// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published when a reservation is successfully
// stored together with its tickets. It carries enough information for
// downstream consumers to log or notify without querying the primary
// database.
type ReservationCreatedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	UserID        uint64   `json:"user_id"`
	SessionIDs    []uint64 `json:"show_sessions"`
	Seats         []string `json:"seats"`
	TicketCount   int      `json:"ticket_count"`
	CreatedAt     string   `json:"created_at"`
}
