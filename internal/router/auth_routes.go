package router

import (
	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/handler"
	"github.com/astroview/planetarium-reservation/internal/middleware"
)

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations (register, login, refresh) live under
// /v1/auth; logout and the identity endpoint require a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)
	// Revokes the supplied refresh token, or every session for the caller
	// when the body is empty.
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
