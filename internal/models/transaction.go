package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a single income or expense entry. Its type comes from the category.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Timestamp   time.Time       `gorm:"not null;index" json:"timestamp"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now().UTC()
	if t.Timestamp.IsZero() {
		t.Timestamp = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	return nil
}

// Type returns the category type, or an empty string when the category is not loaded.
func (t *Transaction) Type() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Type
}

func (t *Transaction) OwnerID() uuid.UUID {
	return t.UserID
}

func (t *Transaction) TableName() string {
	return "transactions"
}
