package middleware

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetron/internal/errors"
	"budgetron/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBudgetMissing = stderrors.New("budget not found")

func TestRequireOwnership(t *testing.T) {
	owner := uuid.New()
	budget := &models.Budget{ID: uuid.New(), UserID: owner}

	load := func(id uuid.UUID) (*models.Budget, error) {
		switch id {
		case budget.ID:
			return budget, nil
		case uuid.Nil:
			return nil, stderrors.New("database is locked")
		default:
			return nil, errBudgetMissing
		}
	}

	cases := []struct {
		name    string
		id      string
		userID  uuid.UUID
		isAdmin bool
		status  int
	}{
		{"owner", budget.ID.String(), owner, false, http.StatusOK},
		{"admin", budget.ID.String(), uuid.New(), true, http.StatusOK},
		{"other user", budget.ID.String(), uuid.New(), false, http.StatusNotFound},
		{"missing", uuid.NewString(), owner, false, http.StatusNotFound},
		{"malformed id", "not-a-uuid", owner, false, http.StatusNotFound},
		{"load failure", uuid.Nil.String(), owner, false, http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireOwnership(load, errBudgetMissing, errors.BudgetNotFound)(func(c echo.Context) error {
				got, ok := c.Get(ResourceContextKey).(*models.Budget)
				require.True(t, ok)
				assert.Equal(t, budget.ID, got.ID)
				return c.NoContent(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.SetParamNames("id")
			c.SetParamValues(tc.id)
			c.Set(UserIDContextKey, tc.userID)
			c.Set(IsAdminContextKey, tc.isAdmin)

			require.NoError(t, handler(c))
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusNotFound {
				assert.Contains(t, rec.Body.String(), string(errors.BudgetNotFound))
			}
		})
	}
}
