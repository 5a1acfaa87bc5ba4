package dto

import (
	"time"

	"budgetron/internal/models"

	"github.com/google/uuid"
)

// CreateUserRequest is used by administrators. Roles defaults to ["user"].
type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=30,username"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=255"`
	Roles    []string `json:"roles,omitempty" validate:"omitempty,dive,required,role_name"`
}

// UpdateUserRequest is a partial update; only non-nil fields are applied.
type UpdateUserRequest struct {
	Username *string   `json:"username,omitempty" validate:"omitempty,min=3,max=30,username"`
	Email    *string   `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string   `json:"password,omitempty" validate:"omitempty,min=8,max=255"`
	Roles    *[]string `json:"roles,omitempty" validate:"omitempty,min=1,dive,required,role_name"`
}

type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsAdmin     bool       `json:"is_admin"`
	Roles       []string   `json:"roles"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin(),
		Roles:       u.RoleNames(),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
