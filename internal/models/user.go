package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Username     string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`

	Roles []Role `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	return nil
}

// IsAdmin reports whether any assigned role is the admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// HasRole reports whether the user holds at least one of the named roles.
func (u *User) HasRole(names ...string) bool {
	for _, role := range u.Roles {
		for _, name := range names {
			if role.Name == name {
				return true
			}
		}
	}
	return false
}

func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

func (u *User) TableName() string {
	return "users"
}
