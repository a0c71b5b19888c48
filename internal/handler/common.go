package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/repository"
)

// CatalogHandler bundles the repositories behind the catalog endpoints:
// show themes, astronomy shows, planetarium domes and show sessions.
// Read endpoints are open to any authenticated user; write endpoints are
// gated by the staff middleware before a handler ever runs.
type CatalogHandler struct {
	Themes   *repository.ThemeRepo   // show theme persistence
	Shows    *repository.ShowRepo    // astronomy show persistence
	Domes    *repository.DomeRepo    // planetarium dome persistence
	Sessions *repository.SessionRepo // show session persistence
}

// NewCatalogHandler constructs a CatalogHandler and panics if any
// dependency is nil.
func NewCatalogHandler(themes *repository.ThemeRepo, shows *repository.ShowRepo, domes *repository.DomeRepo, sessions *repository.SessionRepo) *CatalogHandler {
	if themes == nil || shows == nil || domes == nil || sessions == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{
		Themes:   themes,
		Shows:    shows,
		Domes:    domes,
		Sessions: sessions,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID parses the :id path parameter as a positive integer.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
