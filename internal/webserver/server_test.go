package webserver

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/bodega/config"
)

var pingOnce sync.Once

func registerPing() {
	pingOnce.Do(func() {
		ApiGET("/ping", func(c echo.Context) error {
			return c.String(http.StatusOK, c.Get(AppContextKey).(string))
		})
	})
}

func serve(s *WebServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRoutesMountedUnderApi(t *testing.T) {
	registerPing()
	s := New(config.WebConfig{Host: "127.0.0.1", Port: 1816}, "bodega")
	assert.Equal(t, "127.0.0.1:1816", s.Addr())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bodega", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDKept(t *testing.T) {
	registerPing()
	s := New(config.WebConfig{}, "bodega")
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := serve(s, req)
	assert.Equal(t, "req-1", rec.Header().Get(echo.HeaderXRequestID))
}

func TestBearerAuth(t *testing.T) {
	registerPing()
	s := New(config.WebConfig{Secret: "s3cret"}, "bodega")

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bad, err := IssueToken("other", "ops", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+bad)
	assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)

	token, err := IssueToken("s3cret", "ops", time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	assert.Equal(t, http.StatusOK, serve(s, req).Code)
}
