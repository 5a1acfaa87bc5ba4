package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a monthly spending limit for one category. Spent is never stored;
// the budget service fills it from live transaction data on every read.
type Budget struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category_month" json:"user_id"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category_month;index" json:"category_id"`
	Month      string          `gorm:"type:varchar(7);not null;uniqueIndex:idx_budgets_user_category_month;index" json:"month"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`

	Spent decimal.Decimal `gorm:"-" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	return nil
}

func (b *Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Spent)
}

func (b *Budget) Overspent() bool {
	return b.Spent.GreaterThan(b.Amount)
}

func (b *Budget) OwnerID() uuid.UUID {
	return b.UserID
}

func (b *Budget) TableName() string {
	return "budgets"
}

// MonthRange returns the half-open [start, end) interval covered by a YYYY-MM month.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}
