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

// UserHandler exposes user administration. Every route is admin only.
type UserHandler struct {
	userService services.UserServiceInterface
	limits      PageLimits
}

func NewUserHandler(userService services.UserServiceInterface, limits PageLimits) *UserHandler {
	return &UserHandler{userService: userService, limits: limits}
}

// List returns users, newest first
// @Summary List users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param search query string false "Username or email substring"
// @Param role query string false "Role name"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} SuccessResponse{data=pagination.Page[dto.UserResponse]}
// @Failure 403 {object} errors.ErrorResponse "AUTH_005"
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	q := newQueryParser(c)
	filters := models.UserFilters{
		Search: q.String("search"),
		Role:   q.String("role"),
	}

	page, err := h.userService.List(filters, h.limits.params(c))
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendPage(c, pagination.Map(page, func(u models.User) dto.UserResponse {
		return dto.NewUserResponse(&u)
	}))
}

// Get returns one user
// @Summary Get user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse{data=dto.UserResponse}
// @Failure 404 {object} errors.ErrorResponse "USER_001"
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return SendError(c, errors.UserNotFound)
	}

	user, err := h.userService.Get(id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewUserResponse(user), "")
}

// Create adds a user with an explicit role list
// @Summary Create user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User"
// @Success 201 {object} SuccessResponse{data=dto.UserResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 409 {object} errors.ErrorResponse "USER_002"
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Create(principal(c), &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusCreated, dto.NewUserResponse(user), "User created successfully")
}

// Update changes a user; roles, when present, replace the current set
// @Summary Update user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=dto.UserResponse}
// @Failure 404 {object} errors.ErrorResponse "USER_001"
// @Failure 409 {object} errors.ErrorResponse "USER_002"
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return SendError(c, errors.UserNotFound)
	}

	var req dto.UpdateUserRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Update(principal(c), id, &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewUserResponse(user), "User updated successfully")
}

// Delete removes a user and everything they own
// @Summary Delete user
// @Tags Users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse "USER_001"
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return SendError(c, errors.UserNotFound)
	}

	if err := h.userService.Delete(principal(c), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
