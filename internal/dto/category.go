package dto

import (
	"strings"
	"time"

	"budgetron/internal/models"

	"github.com/google/uuid"
)

// CreateCategoryRequest creates a default category when sent by an admin and a
// personal category otherwise.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
	Type string `json:"type" validate:"required,category_type"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=2,max=50"`
	Type *string `json:"type,omitempty" validate:"omitempty,category_type"`
}

func (r *CreateCategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *UpdateCategoryRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
}

type CategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	UserID    *uuid.UUID `json:"user_id"`
	IsDefault bool       `json:"is_default"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		UserID:    c.UserID,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
