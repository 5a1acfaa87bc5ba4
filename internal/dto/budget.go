package dto

import (
	"time"

	"budgetron/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBudgetRequest struct {
	CategoryID uuid.UUID       `json:"category_id" validate:"required"`
	Month      string          `json:"month" validate:"required,yyyymm"`
	Amount     decimal.Decimal `json:"amount" validate:"required,money"`
	UserID     *uuid.UUID      `json:"user_id,omitempty"`
}

type UpdateBudgetRequest struct {
	CategoryID *uuid.UUID       `json:"category_id,omitempty"`
	Month      *string          `json:"month,omitempty" validate:"omitempty,yyyymm"`
	Amount     *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,money"`
}

// BudgetResponse carries the derived spent/remaining/overspent values computed at read time.
type BudgetResponse struct {
	ID         uuid.UUID    `json:"id"`
	UserID     uuid.UUID    `json:"user_id"`
	CategoryID uuid.UUID    `json:"category_id"`
	Category   *CategoryRef `json:"category,omitempty"`
	Month      string       `json:"month"`
	Amount     string       `json:"amount"`
	Spent      string       `json:"spent"`
	Remaining  string       `json:"remaining"`
	Overspent  bool         `json:"overspent"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func NewBudgetResponse(b *models.Budget) BudgetResponse {
	resp := BudgetResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		Month:      b.Month,
		Amount:     b.Amount.StringFixed(2),
		Spent:      b.Spent.StringFixed(2),
		Remaining:  b.Remaining().StringFixed(2),
		Overspent:  b.Overspent(),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.Category != nil {
		resp.Category = newCategoryRef(b.Category)
	}
	return resp
}
