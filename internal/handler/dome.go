package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/model"
	"github.com/astroview/planetarium-reservation/internal/repository"
)

type domeReq struct {
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	SeatsInRow int    `json:"seats_in_row"`
}

// validateDomeReq normalizes and checks a dome payload.  The seat grid
// must have at least one row and one seat per row; existing tickets rely
// on these bounds staying positive.
func validateDomeReq(body *domeReq) string {
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return "name is required"
	}
	if body.Rows < 1 {
		return "rows must be a positive integer"
	}
	if body.SeatsInRow < 1 {
		return "seats_in_row must be a positive integer"
	}
	return ""
}

// CreateDome handles POST /v1/planetarium-domes (staff only).
func (h *CatalogHandler) CreateDome(c echo.Context) error {
	var body domeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateDomeReq(&body); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	dome := &model.PlanetariumDome{Name: body.Name, Rows: body.Rows, SeatsInRow: body.SeatsInRow}
	if err := h.Domes.Create(c.Request().Context(), dome); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "dome name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create dome"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":           dome.ID,
		"name":         dome.Name,
		"rows":         dome.Rows,
		"seats_in_row": dome.SeatsInRow,
		"capacity":     dome.Capacity(),
	})
}

// ListDomes handles GET /v1/planetarium-domes.
func (h *CatalogHandler) ListDomes(c echo.Context) error {
	items, err := h.Domes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]echo.Map, 0, len(items))
	for _, d := range items {
		out = append(out, echo.Map{
			"id":           d.ID,
			"name":         d.Name,
			"rows":         d.Rows,
			"seats_in_row": d.SeatsInRow,
			"capacity":     d.Capacity(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GetDome handles GET /v1/planetarium-domes/:id.
func (h *CatalogHandler) GetDome(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	d, err := h.Domes.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrDomeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":           d.ID,
		"name":         d.Name,
		"rows":         d.Rows,
		"seats_in_row": d.SeatsInRow,
		"capacity":     d.Capacity(),
	})
}

// UpdateDome handles PUT /v1/planetarium-domes/:id (staff only).
func (h *CatalogHandler) UpdateDome(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body domeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateDomeReq(&body); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	dome := &model.PlanetariumDome{ID: id, Name: body.Name, Rows: body.Rows, SeatsInRow: body.SeatsInRow}
	if err := h.Domes.Update(c.Request().Context(), dome); err != nil {
		switch err {
		case repository.ErrDomeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "dome name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":           dome.ID,
		"name":         dome.Name,
		"rows":         dome.Rows,
		"seats_in_row": dome.SeatsInRow,
		"capacity":     dome.Capacity(),
	})
}

// DeleteDome handles DELETE /v1/planetarium-domes/:id (staff only).
func (h *CatalogHandler) DeleteDome(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Domes.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrDomeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
