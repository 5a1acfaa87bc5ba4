package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// Category is either a global default (UserID nil) or owned by one user.
type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `gorm:"type:varchar(50);not null;index" json:"name"`
	Type      string     `gorm:"type:varchar(10);not null;index" json:"type"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	IsDefault bool       `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	c.IsDefault = c.UserID == nil
	return nil
}

// IsOwnedBy reports whether the category is the user's personal category.
func (c *Category) IsOwnedBy(userID uuid.UUID) bool {
	return c.UserID != nil && *c.UserID == userID
}

// IsVisibleTo reports whether a non-admin user may read the category.
func (c *Category) IsVisibleTo(userID uuid.UUID) bool {
	return c.UserID == nil || *c.UserID == userID
}

func (c *Category) TableName() string {
	return "categories"
}

func IsValidCategoryType(t string) bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}
