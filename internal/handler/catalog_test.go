package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroview/planetarium-reservation/internal/handler"
	"github.com/astroview/planetarium-reservation/internal/repository"
)

func newCatalogTest(t *testing.T) (*handler.CatalogHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return handler.NewCatalogHandler(
		repository.NewThemeRepo(db),
		repository.NewShowRepo(db),
		repository.NewDomeRepo(db),
		repository.NewSessionRepo(db),
	), mock
}

func jsonRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateThemeRequiresName(t *testing.T) {
	h, mock := newCatalogTest(t)

	c, rec := jsonRequest(http.MethodPost, "/v1/show-themes", `{"name":"  "}`)
	require.NoError(t, h.CreateTheme(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateThemeDuplicate(t *testing.T) {
	h, mock := newCatalogTest(t)

	mock.ExpectExec("INSERT INTO show_themes").
		WithArgs("Planets").
		WillReturnError(errDup())

	c, rec := jsonRequest(http.MethodPost, "/v1/show-themes", `{"name":"Planets"}`)
	require.NoError(t, h.CreateTheme(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateDomeRejectsNonPositiveGrid(t *testing.T) {
	h, mock := newCatalogTest(t)

	c, rec := jsonRequest(http.MethodPost, "/v1/planetarium-domes",
		`{"name":"Main Dome","rows":0,"seats_in_row":12}`)
	require.NoError(t, h.CreateDome(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rows")

	c, rec = jsonRequest(http.MethodPost, "/v1/planetarium-domes",
		`{"name":"Main Dome","rows":10,"seats_in_row":-1}`)
	require.NoError(t, h.CreateDome(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "seats_in_row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDomeIncludesCapacity(t *testing.T) {
	h, mock := newCatalogTest(t)

	mock.ExpectQuery("FROM planetarium_domes").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rows_count", "seats_in_row"}).
			AddRow(uint64(1), "Main Dome", 10, 12))

	c, rec := jsonRequest(http.MethodGet, "/v1/planetarium-domes/1", "")
	c.SetPath("/v1/planetarium-domes/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetDome(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"capacity":120`)
}

func TestCreateShowRejectsUnknownTheme(t *testing.T) {
	h, mock := newCatalogTest(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(1), uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	c, rec := jsonRequest(http.MethodPost, "/v1/astronomy-shows",
		`{"title":"Mars Tonight","description":"x","show_theme":[1,99]}`)
	require.NoError(t, h.CreateShow(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown theme")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListShowsRejectsMalformedThemeFilter(t *testing.T) {
	h, mock := newCatalogTest(t)

	c, rec := jsonRequest(http.MethodGet, "/v1/astronomy-shows?show_theme=1,abc", "")
	require.NoError(t, h.ListShows(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListShowsPassesFilter(t *testing.T) {
	h, mock := newCatalogTest(t)

	mock.ExpectQuery("show_theme_id IN").
		WithArgs(uint64(1), uint64(2), "%mars%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description"}))

	c, rec := jsonRequest(http.MethodGet, "/v1/astronomy-shows?show_theme=1,2&title=Mars", "")
	require.NoError(t, h.ListShows(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSessionRejectsBadTime(t *testing.T) {
	h, mock := newCatalogTest(t)

	c, rec := jsonRequest(http.MethodPost, "/v1/show-sessions",
		`{"astronomy_show":1,"planetarium_dome":1,"show_time":"not-a-time"}`)
	require.NoError(t, h.CreateSession(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "show_time")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSessionRejectsUnknownShow(t *testing.T) {
	h, mock := newCatalogTest(t)

	mock.ExpectQuery("FROM astronomy_shows").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description"}))

	c, rec := jsonRequest(http.MethodPost, "/v1/show-sessions",
		`{"astronomy_show":77,"planetarium_dome":1,"show_time":"2026-04-01 19:00"}`)
	require.NoError(t, h.CreateSession(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown astronomy_show")
	assert.NoError(t, mock.ExpectationsWereMet())
}
