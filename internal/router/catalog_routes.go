package router

import (
	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/handler"
	"github.com/astroview/planetarium-reservation/internal/middleware"
)

// RegisterCatalog registers the catalog endpoints under /v1.  Every route
// requires a valid JWT.  Read endpoints are open to any authenticated
// user and pass through the supplied cache middleware; write endpoints
// are restricted to staff accounts and bypass the cache.  The optional
// middlewares may be nil when the feature is disabled.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string, cache, rate echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}
	if rate != nil {
		mws = append(mws, rate)
	}
	g := e.Group("/v1", mws...)

	staff := middleware.RequireStaff()
	read := []echo.MiddlewareFunc{}
	if cache != nil {
		read = append(read, cache)
	}

	// ---- Show themes ----
	g.GET("/show-themes", h.ListThemes, read...)
	g.GET("/show-themes/:id", h.GetTheme, read...)
	g.POST("/show-themes", h.CreateTheme, staff)
	g.PUT("/show-themes/:id", h.UpdateTheme, staff)
	g.DELETE("/show-themes/:id", h.DeleteTheme, staff)

	// ---- Astronomy shows ----
	g.GET("/astronomy-shows", h.ListShows, read...)
	g.GET("/astronomy-shows/:id", h.GetShow, read...)
	g.POST("/astronomy-shows", h.CreateShow, staff)
	g.PUT("/astronomy-shows/:id", h.UpdateShow, staff)
	g.DELETE("/astronomy-shows/:id", h.DeleteShow, staff)

	// ---- Planetarium domes ----
	g.GET("/planetarium-domes", h.ListDomes, read...)
	g.GET("/planetarium-domes/:id", h.GetDome, read...)
	g.POST("/planetarium-domes", h.CreateDome, staff)
	g.PUT("/planetarium-domes/:id", h.UpdateDome, staff)
	g.DELETE("/planetarium-domes/:id", h.DeleteDome, staff)

	// ---- Show sessions ----
	// The session list carries live availability counts, so it is served
	// uncached.
	g.GET("/show-sessions", h.ListSessions)
	g.GET("/show-sessions/:id", h.GetSession)
	g.POST("/show-sessions", h.CreateSession, staff)
	g.PUT("/show-sessions/:id", h.UpdateSession, staff)
	g.DELETE("/show-sessions/:id", h.DeleteSession, staff)
}
