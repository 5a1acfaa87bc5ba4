package handlers

import (
	"net/http"
	"strings"

	"budgetron/internal/dto"
	"budgetron/internal/errors"
	"budgetron/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication and profile endpoints
type AuthHandler struct {
	authService services.AuthServiceInterface
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates an account with the "user" role and returns a token pair
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} SuccessResponse{data=dto.AuthResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 409 {object} errors.ErrorResponse "USER_002"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	user, tokens, err := h.authService.Register(&req, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return sendData(c, http.StatusCreated, dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: *tokens,
	}, "User registered successfully")
}

// Login handles user authentication
// @Summary Login user
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} SuccessResponse{data=dto.AuthResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 401 {object} errors.ErrorResponse "AUTH_001"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	user, tokens, err := h.authService.Login(&req, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return sendData(c, http.StatusOK, dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: *tokens,
	}, "")
}

// RefreshToken rotates a refresh token
// @Summary Refresh access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} SuccessResponse{data=dto.TokenResponse}
// @Failure 401 {object} errors.ErrorResponse "AUTH_006"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req dto.RefreshTokenRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	tokens, err := h.authService.RefreshTokens(req.RefreshToken, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return sendData(c, http.StatusOK, tokens, "")
}

// Logout blacklists the presented access token and revokes refresh tokens
// @Summary Logout user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{message=string}
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 or AUTH_004"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	parts := strings.Fields(c.Request().Header.Get("Authorization"))
	if len(parts) != 2 {
		return SendError(c, errors.AuthInvalidTokenFormat)
	}

	if err := h.authService.Logout(parts[1], requestMeta(c)); err != nil {
		return handleServiceError(c, err)
	}

	return sendData(c, http.StatusOK, nil, "Logout successful")
}

// Me returns the caller's own account
// @Summary Current user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.UserResponse}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.GetProfile(principal(c).UserID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewUserResponse(user), "")
}

// UpdateMe changes the caller's username, email or password
// @Summary Update current user
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=dto.UserResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 409 {object} errors.ErrorResponse "USER_002"
// @Router /auth/me [patch]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(principal(c), &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewUserResponse(user), "Profile updated")
}
