package dto

import (
	"time"

	"budgetron/internal/models"

	"github.com/google/uuid"
)

type CreateRoleRequest struct {
	Name string `json:"name" validate:"required,min=2,max=30,role_name"`
}

type UpdateRoleRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=30,role_name"`
}

type RoleResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRoleResponse(r *models.Role) RoleResponse {
	return RoleResponse{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
