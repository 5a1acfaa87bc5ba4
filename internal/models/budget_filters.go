package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetFilters struct {
	UserID     *uuid.UUID
	CategoryID *uuid.UUID
	Month      string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}
