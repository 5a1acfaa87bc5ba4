package dto

import (
	"strings"
	"time"

	"budgetron/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records income or expense. UserID is honoured for admins only.
type CreateTransactionRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required,money"`
	Description string          `json:"description" validate:"required,min=5,max=255"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
}

type UpdateTransactionRequest struct {
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,money"`
	Description *string          `json:"description,omitempty" validate:"omitnil,min=5,max=255"`
}

// Normalize trims the description so length rules apply to the stored text.
func (r *CreateTransactionRequest) Normalize() {
	r.Description = strings.TrimSpace(r.Description)
}

func (r *UpdateTransactionRequest) Normalize() {
	if r.Description != nil {
		trimmed := strings.TrimSpace(*r.Description)
		r.Description = &trimmed
	}
}

// CategoryRef is the embedded category summary on transactions and budgets
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

type TransactionResponse struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	CategoryID  uuid.UUID    `json:"category_id"`
	Category    *CategoryRef `json:"category,omitempty"`
	Type        string       `json:"type,omitempty"`
	Amount      string       `json:"amount"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func NewTransactionResponse(t *models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		Type:        t.Type(),
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		Timestamp:   t.Timestamp,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Category != nil {
		resp.Category = newCategoryRef(t.Category)
	}
	return resp
}

func newCategoryRef(c *models.Category) *CategoryRef {
	return &CategoryRef{ID: c.ID, Name: c.Name, Type: c.Type}
}
