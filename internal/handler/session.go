package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/model"
	"github.com/astroview/planetarium-reservation/internal/repository"
)

type sessionReq struct {
	ShowID   uint64 `json:"astronomy_show"`
	DomeID   uint64 `json:"planetarium_dome"`
	ShowTime string `json:"show_time"`
}

// sessionTimeLayouts are accepted show_time formats, most specific first.
var sessionTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseShowTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range sessionTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// checkSessionRefs confirms the referenced show and dome exist.  It
// returns a client-error message for an unknown reference (a bad
// reference is a 400, not a 404: the session itself is not the missing
// resource) or a non-nil error on database failure.
func (h *CatalogHandler) checkSessionRefs(c echo.Context, body sessionReq) (string, error) {
	ctx := c.Request().Context()
	if _, err := h.Shows.GetByID(ctx, body.ShowID); err != nil {
		if err == repository.ErrShowNotFound {
			return "unknown astronomy_show", nil
		}
		return "", err
	}
	if _, err := h.Domes.GetByID(ctx, body.DomeID); err != nil {
		if err == repository.ErrDomeNotFound {
			return "unknown planetarium_dome", nil
		}
		return "", err
	}
	return "", nil
}

// CreateSession handles POST /v1/show-sessions (staff only).
func (h *CatalogHandler) CreateSession(c echo.Context) error {
	var body sessionReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowID == 0 || body.DomeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "astronomy_show and planetarium_dome are required"})
	}
	showTime, ok := parseShowTime(body.ShowTime)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be a valid timestamp"})
	}
	if msg, err := h.checkSessionRefs(c, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	} else if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	session := &model.ShowSession{ShowID: body.ShowID, DomeID: body.DomeID, ShowTime: showTime}
	if err := h.Sessions.Create(c.Request().Context(), session); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
	}
	return c.JSON(http.StatusCreated, session)
}

// ListSessions handles GET /v1/show-sessions.  Each row carries the show
// title, dome name and the number of tickets still available, computed
// from the dome capacity minus sold tickets at query time.
func (h *CatalogHandler) ListSessions(c echo.Context) error {
	items, err := h.Sessions.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetSession handles GET /v1/show-sessions/:id and returns the session
// with its show and dome nested.
func (h *CatalogHandler) GetSession(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	det, err := h.Sessions.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, det)
}

// UpdateSession handles PUT /v1/show-sessions/:id (staff only).
func (h *CatalogHandler) UpdateSession(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body sessionReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowID == 0 || body.DomeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "astronomy_show and planetarium_dome are required"})
	}
	showTime, ok := parseShowTime(body.ShowTime)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be a valid timestamp"})
	}
	if msg, err := h.checkSessionRefs(c, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	} else if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	session := &model.ShowSession{ID: id, ShowID: body.ShowID, DomeID: body.DomeID, ShowTime: showTime}
	if err := h.Sessions.Update(c.Request().Context(), session); err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, session)
}

// DeleteSession handles DELETE /v1/show-sessions/:id (staff only).
// Tickets sold for the session cascade away.
func (h *CatalogHandler) DeleteSession(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Sessions.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
