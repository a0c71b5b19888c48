package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroview/planetarium-reservation/internal/config"
	"github.com/astroview/planetarium-reservation/internal/utils"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, req *http.Request, setup func(echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	require.NoError(t, mw(okHandler)(c))
	return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := runMiddleware(t, JWTAuth("secret"), req, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := runMiddleware(t, JWTAuth("secret"), req, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthSetsClaims(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 42, true, 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser interface{}
	var gotStaff interface{}
	next := func(c echo.Context) error {
		gotUser = c.Get("user_id")
		gotStaff = c.Get("is_staff")
		return c.String(http.StatusOK, "ok")
	}
	require.NoError(t, JWTAuth("secret")(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), gotUser) // JWT numbers decode as float64
	assert.Equal(t, true, gotStaff)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("secret-a", 42, false, 5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := runMiddleware(t, JWTAuth("secret-b"), req, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireStaff(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	// Missing flag is forbidden.
	rec := runMiddleware(t, RequireStaff(), req, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Explicit false is forbidden.
	rec = runMiddleware(t, RequireStaff(), req, func(c echo.Context) {
		c.Set("is_staff", false)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Staff passes through.
	rec = runMiddleware(t, RequireStaff(), req, func(c echo.Context) {
		c.Set("is_staff", true)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCurrentUserID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "anon", currentUserID(c))

	c.Set("user_id", float64(42))
	assert.Equal(t, "42", currentUserID(c))
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/show-sessions", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/show-sessions")
	c.Set("user_id", "42")

	mk := func(strategy string) config.RateLimitConfig {
		return config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
	}

	assert.Equal(t, "rl:user:42", buildRateKey(mk("user"), c))
	assert.Equal(t, "rl:ip:10.1.2.3", buildRateKey(mk("ip"), c))
	assert.Equal(t, "rl:route:GET /v1/show-sessions", buildRateKey(mk("route"), c))
	assert.Equal(t, "rl:ip:10.1.2.3:user:42:route:GET /v1/show-sessions",
		buildRateKey(mk("ip_user_route"), c))
}

func TestCacheKeySeparatesPathParams(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	key := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/show-themes/:id")
		return cacheKeyFrom(cfg, c)
	}

	// Two resources on the same route template must never share an entry.
	assert.NotEqual(t, key("/v1/show-themes/1"), key("/v1/show-themes/2"))
	assert.Equal(t, key("/v1/show-themes/1"), key("/v1/show-themes/1"))
}

func TestCacheKeyNormalizesQueryOrder(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	key := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/astronomy-shows")
		return cacheKeyFrom(cfg, c)
	}

	assert.Equal(t,
		key("/v1/astronomy-shows?title=mars&show_theme=1"),
		key("/v1/astronomy-shows?show_theme=1&title=mars"))
}

func TestCaptureWriterCountsFullSize(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), limit: 4}

	n, err := cw.Write([]byte(`{"id":1,"name":"Deep Sky"}`))
	require.NoError(t, err)
	assert.Equal(t, 26, n)

	// size tracks everything written so oversize responses are detected
	// and skipped; the buffer itself stays capped.
	assert.Equal(t, int64(26), cw.size)
	assert.Equal(t, 4, cw.buf.Len())
	assert.True(t, cw.size > cw.limit)
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"id":1}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)
}
