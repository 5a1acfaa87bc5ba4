package handlers

import (
	"log/slog"
	"net/http"

	"budgetron/internal/errors"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// Handlers answer errors through three helpers:
//
// 1. SendError - client and business errors (4xx) with a known code
//    - SendError(c, errors.CategoryNotFound)
//    - SendError(c, errors.RequestInvalidFilter, errors.WithFields(...))
//
// 2. handleServiceError - maps errors returned by the services package onto
//    codes, falling back to SendSystemError for anything unrecognised
//
// 3. SendSystemError - internal errors (500). The cause is logged with the
//    trace ID and never shown to the client
//
// Request body validation errors are returned as-is from c.Validate and
// rendered by the global error handler.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError logs err and answers with a generic SYSTEM_001 body
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	slog.ErrorContext(c.Request().Context(), "request failed with internal error",
		"trace_id", traceID,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", err,
	)
	errorResponse, _ := errors.WrapSystemError(err, traceID)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

func sendData(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, SuccessResponse{Data: data, Message: message})
}
