package middleware

import (
	stderrors "errors"

	"budgetron/internal/errors"
	"budgetron/internal/handlers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ResourceContextKey holds the record loaded by RequireOwnership.
const ResourceContextKey = "resource"

// Owned is a record that belongs to exactly one user.
type Owned interface {
	OwnerID() uuid.UUID
}

// RequireOwnership loads the record named by the :id path parameter and
// admits the owner or an admin. Malformed ids, missing records and records
// owned by someone else all answer with the same not found code so callers
// cannot discover other users' ids.
func RequireOwnership[T Owned](load func(uuid.UUID) (T, error), notFound error, code errors.ErrorCode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				return handlers.SendError(c, code)
			}

			record, err := load(id)
			if err != nil {
				if stderrors.Is(err, notFound) {
					return handlers.SendError(c, code)
				}
				return handlers.SendSystemError(c, err)
			}

			isAdmin, _ := c.Get(IsAdminContextKey).(bool)
			userID, _ := c.Get(UserIDContextKey).(uuid.UUID)
			if !isAdmin && record.OwnerID() != userID {
				return handlers.SendError(c, code)
			}

			c.Set(ResourceContextKey, record)
			return next(c)
		}
	}
}
