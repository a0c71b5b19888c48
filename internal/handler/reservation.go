package handler

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/model"
	qu "github.com/astroview/planetarium-reservation/internal/queue"
	"github.com/astroview/planetarium-reservation/internal/repository"
	queue_publisher "github.com/astroview/planetarium-reservation/internal/service"
)

// ReservationHandler groups the repositories needed to create and read
// reservations on behalf of the authenticated user.  JWT authentication
// is performed by middleware; ownership is enforced here and in the
// repository layer.  Reservation creation runs inside a single database
// transaction so a reservation row never exists without its tickets.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo // reservations and tickets
	Sessions     *repository.SessionRepo     // session bounds for seat validation
}

// NewReservationHandler constructs a ReservationHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewReservationHandler(reservations *repository.ReservationRepo, sessions *repository.SessionRepo) *ReservationHandler {
	if reservations == nil || sessions == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Sessions: sessions}
}

type ticketReq struct {
	Row       int    `json:"row"`
	Seat      int    `json:"seat"`
	SessionID uint64 `json:"show_session"`
}

type createReservationReq struct {
	Tickets []ticketReq `json:"tickets"`
}

// seatKey identifies one seat in one session for duplicate detection
// within a single request.
type seatKey struct {
	session uint64
	row     int
	seat    int
}

// CreateReservation handles POST /v1/reservations.  The request body
// carries one or more tickets; the reservation and all of its tickets are
// written atomically, so either every seat is granted or none is.  The
// owning user always comes from the access token, never from the payload.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createReservationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Tickets) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tickets must not be empty"})
	}

	// Reject duplicate seats within the request itself before touching
	// the database.
	seen := make(map[seatKey]struct{}, len(body.Tickets))
	for _, t := range body.Tickets {
		k := seatKey{session: t.SessionID, row: t.Row, seat: t.Seat}
		if _, dup := seen[k]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate ticket in request"})
		}
		seen[k] = struct{}{}
	}

	ctx := c.Request().Context()

	// Resolve the seat grid bounds for every referenced session once.
	bounds := make(map[uint64]repository.SessionBounds)
	for _, t := range body.Tickets {
		if _, ok := bounds[t.SessionID]; ok {
			continue
		}
		b, err := h.Sessions.GetBounds(ctx, t.SessionID)
		if err != nil {
			if err == repository.ErrSessionNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		bounds[t.SessionID] = *b
	}

	// Validate every seat position against its session's dome grid.
	tickets := make([]model.Ticket, 0, len(body.Tickets))
	for _, t := range body.Tickets {
		b := bounds[t.SessionID]
		ticket := model.Ticket{Row: t.Row, Seat: t.Seat, SessionID: t.SessionID}
		dome := model.PlanetariumDome{Rows: b.Rows, SeatsInRow: b.SeatsInRow}
		if err := ticket.Validate(dome); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		tickets = append(tickets, ticket)
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Pre-check each requested seat inside the transaction for a
	// descriptive conflict message.  The unique constraint on
	// (session, row, seat) remains the final arbiter under races.
	for _, t := range tickets {
		taken, err := h.Reservations.TicketExistsTx(ctx, tx, t.SessionID, t.Row, t.Seat)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if taken {
			return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrTicketTaken.Error()})
		}
	}

	res := &model.Reservation{UserID: userID}
	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	if err := h.Reservations.CreateTicketsBulkTx(ctx, tx, res.ID, tickets, bounds); err != nil {
		if err == repository.ErrTicketTaken {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		if _, ok := err.(*model.ValidationError); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tickets failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	detail, err := h.Reservations.GetByIDForUser(ctx, res.ID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	go publishReservationCreated(res, tickets)

	return c.JSON(http.StatusCreated, detail)
}

// publishReservationCreated emits a broker event for a committed
// reservation.  Failures are logged by the publisher and never affect the
// client response.
func publishReservationCreated(res *model.Reservation, tickets []model.Ticket) {
	sessionSet := make(map[uint64]struct{}, len(tickets))
	sessions := make([]uint64, 0, len(tickets))
	seats := make([]string, 0, len(tickets))
	for _, t := range tickets {
		if _, ok := sessionSet[t.SessionID]; !ok {
			sessionSet[t.SessionID] = struct{}{}
			sessions = append(sessions, t.SessionID)
		}
		seats = append(seats, "s"+strconv.FormatUint(t.SessionID, 10)+
			":r"+strconv.Itoa(t.Row)+":n"+strconv.Itoa(t.Seat))
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i] < sessions[j] })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = queue_publisher.PublishReservationCreated(ctx, qu.ReservationCreatedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		SessionIDs:    sessions,
		Seats:         seats,
		TicketCount:   len(tickets),
		CreatedAt:     res.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	})
}

// ListReservations handles GET /v1/reservations and returns the caller's
// reservations, newest first, each with its tickets.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetReservation handles GET /v1/reservations/:id.  Reservations owned by
// other users are indistinguishable from missing ones.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Reservations.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, detail)
}
