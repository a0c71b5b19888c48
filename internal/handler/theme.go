package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/model"
	"github.com/astroview/planetarium-reservation/internal/repository"
)

// CreateTheme handles POST /v1/show-themes (staff only).
func (h *CatalogHandler) CreateTheme(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	theme := &model.ShowTheme{Name: name}
	if err := h.Themes.Create(c.Request().Context(), theme); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "theme name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create theme"})
	}
	return c.JSON(http.StatusCreated, theme)
}

// ListThemes handles GET /v1/show-themes and returns all themes.
func (h *CatalogHandler) ListThemes(c echo.Context) error {
	items, err := h.Themes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetTheme handles GET /v1/show-themes/:id.
func (h *CatalogHandler) GetTheme(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	theme, err := h.Themes.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrThemeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, theme)
}

// UpdateTheme handles PUT /v1/show-themes/:id (staff only).
func (h *CatalogHandler) UpdateTheme(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	theme := &model.ShowTheme{ID: id, Name: name}
	if err := h.Themes.Update(c.Request().Context(), theme); err != nil {
		switch err {
		case repository.ErrThemeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "theme name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, theme)
}

// DeleteTheme handles DELETE /v1/show-themes/:id (staff only).
func (h *CatalogHandler) DeleteTheme(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Themes.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrThemeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
