package handlers

import (
	"net/http"

	"budgetron/internal/dto"
	"budgetron/internal/errors"
	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/services"

	"github.com/labstack/echo/v4"
)

// RoleHandler manages the role reference table. Admin only.
type RoleHandler struct {
	roleService services.RoleServiceInterface
	limits      PageLimits
}

func NewRoleHandler(roleService services.RoleServiceInterface, limits PageLimits) *RoleHandler {
	return &RoleHandler{roleService: roleService, limits: limits}
}

// List returns roles ordered by name
// @Summary List roles
// @Tags Roles
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=pagination.Page[dto.RoleResponse]}
// @Router /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	page, err := h.roleService.List(h.limits.params(c))
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendPage(c, pagination.Map(page, func(r models.Role) dto.RoleResponse {
		return dto.NewRoleResponse(&r)
	}))
}

// @Summary Get role
// @Tags Roles
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} SuccessResponse{data=dto.RoleResponse}
// @Failure 404 {object} errors.ErrorResponse "ROLE_001"
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return SendError(c, errors.RoleNotFound)
	}

	role, err := h.roleService.Get(id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewRoleResponse(role), "")
}

// @Summary Create role
// @Tags Roles
// @Security BearerAuth
// @Param request body dto.CreateRoleRequest true "Role"
// @Success 201 {object} SuccessResponse{data=dto.RoleResponse}
// @Failure 409 {object} errors.ErrorResponse "ROLE_002"
// @Router /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req dto.CreateRoleRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	role, err := h.roleService.Create(principal(c), &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusCreated, dto.NewRoleResponse(role), "Role created successfully")
}

// @Summary Rename role
// @Tags Roles
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Param request body dto.UpdateRoleRequest true "Role"
// @Success 200 {object} SuccessResponse{data=dto.RoleResponse}
// @Failure 409 {object} errors.ErrorResponse "ROLE_002 or ROLE_003"
// @Router /roles/{id} [patch]
func (h *RoleHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return SendError(c, errors.RoleNotFound)
	}

	var req dto.UpdateRoleRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	role, err := h.roleService.Update(principal(c), id, &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewRoleResponse(role), "Role updated successfully")
}

// @Summary Delete role
// @Tags Roles
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 204
// @Failure 409 {object} errors.ErrorResponse "ROLE_003"
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return SendError(c, errors.RoleNotFound)
	}

	if err := h.roleService.Delete(principal(c), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
