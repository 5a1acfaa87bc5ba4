package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"budgetron/internal/errors"
	"budgetron/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewHTTPErrorHandler returns an echo error handler that renders every
// unhandled error in the standard envelope and counts it in api_errors_total.
func NewHTTPErrorHandler(reg prometheus.Registerer) echo.HTTPErrorHandler {
	apiErrorsTotal := promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of API errors by code, endpoint, and status",
		},
		[]string{"code", "endpoint", "status"},
	)

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		traceID := GetTraceID(c)
		if traceID == "" {
			traceID = "unknown"
		}

		var errorResponse *errors.ErrorResponse
		var httpStatus int

		var echoErr *echo.HTTPError
		if stderrors.As(err, &echoErr) {
			errorCode := mapHTTPStatusToErrorCode(echoErr.Code)
			errorResponse = errors.NewErrorResponse(
				errorCode,
				traceID,
				errors.WithMessage(fmt.Sprintf("%v", echoErr.Message)),
			)
			httpStatus = echoErr.Code
		} else if fields, ok := validation.FieldErrors(err); ok {
			errorResponse = errors.NewValidationError(fields, traceID)
			httpStatus = http.StatusBadRequest
		} else {
			errorResponse, _ = errors.WrapSystemError(err, traceID)
			httpStatus = errorResponse.GetHTTPStatus()
		}

		logLevel := slog.LevelWarn
		if httpStatus >= 500 {
			logLevel = slog.LevelError
		}

		slog.Log(c.Request().Context(), logLevel, "HTTP error occurred",
			"trace_id", traceID,
			"error_code", errorResponse.Error.Code,
			"status", httpStatus,
			"message", errorResponse.Error.Message,
			"path", c.Request().URL.Path,
			"method", c.Request().Method,
			"error", err.Error(),
		)

		apiErrorsTotal.WithLabelValues(
			errorResponse.Error.Code,
			c.Path(),
			strconv.Itoa(httpStatus),
		).Inc()

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(httpStatus)
		} else {
			sendErr = c.JSON(httpStatus, errorResponse)
		}
		if sendErr != nil {
			slog.Error("Failed to send error response",
				"trace_id", traceID,
				"error", sendErr.Error(),
			)
		}
	}
}

// mapHTTPStatusToErrorCode picks the closest code for errors raised by echo
// itself, such as unknown routes or oversized bodies.
func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return errors.RequestInvalidBody
	case http.StatusUnauthorized:
		return errors.AuthMissingToken
	case http.StatusForbidden:
		return errors.AuthInsufficientPermission
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.RequestNotFound
	case http.StatusUnprocessableEntity:
		return errors.RequestInvalidFilter
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemInternalError
	}
}
