package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders adds security headers to responses. Downloads of generated
// reports may be cached privately; everything else is no-store.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			if strings.HasPrefix(c.Request().URL.Path, "/static/reports/") {
				h.Set("Cache-Control", "private, max-age=300")
			} else {
				h.Set("Cache-Control", "no-store")
				h.Set("Pragma", "no-cache")
			}

			return next(c)
		}
	}
}
