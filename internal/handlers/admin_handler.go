package handlers

import (
	"budgetron/internal/errors"
	"budgetron/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves admin-only views that span several services
type AdminHandler struct {
	userService  services.UserServiceInterface
	auditService services.AuditServiceInterface
	limits       PageLimits
}

func NewAdminHandler(userService services.UserServiceInterface, auditService services.AuditServiceInterface, limits PageLimits) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		auditService: auditService,
		limits:       limits,
	}
}

// UserActivity returns a user's audit trail, newest first
// @Summary User activity (admin)
// @Description Logins, failed logins, profile changes and resource changes recorded for one user
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID (UUID)"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(10)
// @Success 200 {object} SuccessResponse{data=pagination.Page[models.AuditLog]}
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 403 {object} errors.ErrorResponse "AUTH_005 - Requires admin role"
// @Failure 404 {object} errors.ErrorResponse "USER_001 - User not found"
// @Router /users/{id}/activity [get]
func (h *AdminHandler) UserActivity(c echo.Context) error {
	userID, ok := pathID(c)
	if !ok {
		return SendError(c, errors.UserNotFound)
	}

	if _, err := h.userService.Get(userID); err != nil {
		return handleServiceError(c, err)
	}

	page, err := h.auditService.GetUserActivity(userID, h.limits.params(c))
	if err != nil {
		return SendSystemError(c, err)
	}
	return sendPage(c, page)
}
