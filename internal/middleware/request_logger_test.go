package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg := prometheus.NewRegistry()

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(reg)
	e.Use(RequestLogger(logger, reg))
	e.GET("/api/v1/categories/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return echo.ErrNotFound
		}
		return c.String(http.StatusOK, "ok")
	})

	for _, path := range []string{"/api/v1/categories/a", "/api/v1/categories/missing"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count, err := testutil.GatherAndCount(reg, "http_requests_total", "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	out := buf.String()
	assert.Contains(t, out, "route=/api/v1/categories/:id")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "status=404")
}
