package middleware

// identity.go defines helpers shared across middleware files: extracting a
// stable identity string for rate-limit and cache keys from whatever the
// JWT middleware stored in the context.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a printable identifier for the authenticated user,
// or "anon" when no user is present.  JWT numeric claims decode as
// float64, so anything non-nil is formatted rather than type-asserted.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		return fmt.Sprint(v)
	}
	return "anon"
}
