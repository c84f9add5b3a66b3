package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/conference-central/internal/config"
	"github.com/deppfellow/conference-central/internal/handler"
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/deppfellow/conference-central/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(rateLimit float64) *echo.Echo {
	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
				RateLimit:          rateLimit,
			},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
	return NewRouter(s, handler.NewHandlers(s, &service.Services{}))
}

func do(r *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.10:4321"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestStatusWithoutDependencies(t *testing.T) {
	rec := do(newTestRouter(0), http.MethodGet, "/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestDocsAreEmbedded(t *testing.T) {
	r := newTestRouter(0)

	rec := do(r, http.MethodGet, "/docs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = do(r, http.MethodGet, "/static/openapi.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "registerForConference")
}

func TestAuthenticatedRoutesRejectAnonymousCallers(t *testing.T) {
	r := newTestRouter(0)

	for _, route := range []struct{ method, target string }{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodPost, "/api/v1/conference"},
		{http.MethodGet, "/api/v1/wishlist"},
		{http.MethodGet, "/api/v1/sessions/bytype?websafeConferenceKey=x&type=Talk"},
		{http.MethodDelete, "/api/v1/conference/abc/registration"},
	} {
		rec := do(r, route.method, route.target)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.target)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec), route.target)
	}
}

func TestSessionsByDurationRequiresDuration(t *testing.T) {
	rec := do(newTestRouter(0), http.MethodGet, "/api/v1/sessions/byduration")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, rec))
}

func TestUnknownRoute(t *testing.T) {
	rec := do(newTestRouter(0), http.MethodGet, "/api/v1/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(1)

	// Burst is two requests at one request per second.
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/docs").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/docs").Code)

	rec := do(r, http.MethodGet, "/docs")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", errorCode(t, rec))

	for range 5 {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/status").Code)
	}
}
