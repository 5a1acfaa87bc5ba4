package handlers

import (
	"context"
	"net/http"
	"time"

	"budgetron/internal/errors"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

// HealthCheckHandler handles the health check endpoint
type HealthCheckHandler struct {
	db *gorm.DB
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(db *gorm.DB) *HealthCheckHandler {
	return &HealthCheckHandler{db: db}
}

// HealthCheck reports database liveness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,database=string,time=string}
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003"
// @Router /health [get]
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	sqlDB, err := h.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails("Database connection failed"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "up",
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
