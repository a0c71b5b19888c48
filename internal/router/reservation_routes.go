package router

import (
	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/handler"
	"github.com/astroview/planetarium-reservation/internal/middleware"
)

// RegisterReservations registers reservation endpoints under /v1.  All
// routes require a valid JWT; every operation is scoped to the
// authenticated user inside the handlers.  The optional rate limiter may
// be nil when disabled.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, rate echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}
	if rate != nil {
		mws = append(mws, rate)
	}
	g := e.Group("/v1", mws...)

	g.POST("/reservations", h.CreateReservation)
	g.GET("/reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
}
