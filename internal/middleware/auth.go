package middleware

import (
	stderrors "errors"
	"log/slog"

	"budgetron/internal/errors"
	"budgetron/internal/handlers"
	"budgetron/internal/models"
	"budgetron/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	UserContextKey     = "user"
	UserIDContextKey   = "user_id"
	RolesContextKey    = "user_roles"
	IsAdminContextKey  = "is_admin"
	TokenJTIContextKey = "token_jti"
)

// RequireAuth validates the bearer token, rejects blacklisted tokens and
// loads the current user. Roles come from the database, not the token, so a
// role change applies to tokens already issued.
func RequireAuth(authService services.AuthServiceInterface, tokenService services.TokenServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat)
			}

			user, claims, err := authService.Authenticate(token)
			if err != nil {
				switch {
				case stderrors.Is(err, services.ErrExpiredToken):
					return handlers.SendError(c, errors.AuthExpiredToken)
				case stderrors.Is(err, services.ErrTokenRevoked):
					return handlers.SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("Token has been revoked"))
				case stderrors.Is(err, services.ErrInvalidToken),
					stderrors.Is(err, services.ErrInvalidIssuer),
					stderrors.Is(err, services.ErrInvalidTokenType),
					stderrors.Is(err, services.ErrEmptyToken):
					return handlers.SendError(c, errors.AuthInvalidTokenFormat)
				}
				slog.ErrorContext(c.Request().Context(), "failed to authenticate request",
					"trace_id", GetTraceID(c),
					"error", err)
				return handlers.SendSystemError(c, err)
			}

			c.Set(UserContextKey, user)
			c.Set(UserIDContextKey, user.ID)
			c.Set(RolesContextKey, user.RoleNames())
			c.Set(IsAdminContextKey, user.IsAdmin())
			c.Set(TokenJTIContextKey, claims.ID)

			return next(c)
		}
	}
}

// RequireRole admits principals holding at least one of the roles.
func RequireRole(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(RolesContextKey).([]string)
			if !ok {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			for _, have := range roles {
				for _, want := range requiredRoles {
					if have == want {
						return next(c)
					}
				}
			}

			return handlers.SendError(c, errors.AuthInsufficientPermission)
		}
	}
}

// RequireAdmin is a convenience middleware that requires admin role
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}
