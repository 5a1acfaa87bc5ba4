package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestLogger writes one access log line per request and records
// http_requests_total and http_request_duration_seconds by route.
func RequestLogger(logger *slog.Logger, reg prometheus.Registerer) echo.MiddlewareFunc {
	factory := promauto.With(reg)
	requestsTotal := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	requestDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}

			elapsed := time.Since(start)
			req := c.Request()
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			requestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(req.Method, route).Observe(elapsed.Seconds())

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			}
			logger.Log(req.Context(), level, "request completed",
				"method", req.Method,
				"path", req.URL.Path,
				"route", route,
				"status", status,
				"duration_ms", elapsed.Milliseconds(),
				"bytes", c.Response().Size,
				"remote_ip", c.RealIP(),
			)
			return nil
		}
	}
}
