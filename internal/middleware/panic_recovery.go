package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"budgetron/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery turns a panicking handler into a SYSTEM_001 response. The
// stack goes to the log, never to the client.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				traceID := GetTraceID(c)
				if traceID == "" {
					traceID = "unknown"
				}

				slog.ErrorContext(c.Request().Context(), "Panic recovered",
					"trace_id", traceID,
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				if c.Response().Committed {
					return
				}
				errorResponse := errors.NewErrorResponse(errors.SystemInternalError, traceID)
				if sendErr := c.JSON(http.StatusInternalServerError, errorResponse); sendErr != nil {
					slog.Error("Failed to send panic recovery response",
						"trace_id", traceID,
						"error", sendErr.Error(),
					)
				}
				err = nil
			}()

			return next(c)
		}
	}
}
