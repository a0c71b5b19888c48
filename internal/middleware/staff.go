package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireStaff returns a middleware that rejects requests from
// non-administrator users with 403 Forbidden.  It assumes JWTAuth has
// stored the is_staff claim in the context.  Catalog write operations
// (create/update/delete on themes, shows, domes and sessions) are gated
// behind this middleware; reads stay open to every authenticated user.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("is_staff")
			isStaff, ok := v.(bool)
			if !ok || !isStaff {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
