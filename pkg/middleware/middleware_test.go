package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rule-one/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterMiddleware_DeniesAfterBurst(t *testing.T) {
	e := echo.New()
	e.Use(NewRateLimiterMiddleware(0.001, 1))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate_limited")
}

func TestRequestLogger_InjectsContextLogger(t *testing.T) {
	base := logger.NewNop()
	e := echo.New()
	e.Use(RequestLogger(base))

	var fromCtx *logger.Logger
	e.GET("/ping", func(c echo.Context) error {
		fromCtx = base.FromContext(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotNil(t, fromCtx)
	assert.NotSame(t, base, fromCtx)
}
