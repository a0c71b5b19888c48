package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/model"
	"github.com/astroview/planetarium-reservation/internal/repository"
)

type showReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ThemeIDs    []uint64 `json:"show_theme"`
}

// CreateShow handles POST /v1/astronomy-shows (staff only).  Every
// referenced theme must exist; the show and its theme links are written
// in one transaction.
func (h *CatalogHandler) CreateShow(c echo.Context) error {
	var body showReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	ctx := c.Request().Context()
	if len(body.ThemeIDs) > 0 {
		ok, err := h.Themes.ExistAll(ctx, body.ThemeIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown theme id in show_theme"})
		}
	}
	show := &model.AstronomyShow{Title: body.Title, Description: body.Description, ThemeIDs: body.ThemeIDs}
	if err := h.Shows.Create(ctx, show); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "show title already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create show"})
	}
	created, err := h.Shows.GetByID(ctx, show.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, created)
}

// ListShows handles GET /v1/astronomy-shows.  Two optional query
// parameters narrow the result: show_theme takes comma-separated theme
// IDs and keeps shows carrying at least one of them, title keeps shows
// whose title contains the given substring (case-insensitive).
func (h *CatalogHandler) ListShows(c echo.Context) error {
	var filter repository.ShowFilter
	if raw := strings.TrimSpace(c.QueryParam("show_theme")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_theme must be comma-separated numeric ids"})
			}
			filter.ThemeIDs = append(filter.ThemeIDs, id)
		}
	}
	filter.Title = strings.TrimSpace(c.QueryParam("title"))

	items, err := h.Shows.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetShow handles GET /v1/astronomy-shows/:id.
func (h *CatalogHandler) GetShow(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	show, err := h.Shows.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, show)
}

// UpdateShow handles PUT /v1/astronomy-shows/:id (staff only).  The theme
// set is replaced wholesale with the provided list.
func (h *CatalogHandler) UpdateShow(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body showReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	ctx := c.Request().Context()
	if len(body.ThemeIDs) > 0 {
		ok, err := h.Themes.ExistAll(ctx, body.ThemeIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown theme id in show_theme"})
		}
	}
	show := &model.AstronomyShow{ID: id, Title: body.Title, Description: body.Description, ThemeIDs: body.ThemeIDs}
	if err := h.Shows.Update(ctx, show); err != nil {
		switch err {
		case repository.ErrShowNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "show title already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Shows.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteShow handles DELETE /v1/astronomy-shows/:id (staff only).
// Sessions of the show and their tickets cascade away.
func (h *CatalogHandler) DeleteShow(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Shows.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
