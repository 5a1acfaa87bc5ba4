package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilters contains filtering options for transaction queries.
// A nil UserID means all users (admin listing).
type TransactionFilters struct {
	UserID     *uuid.UUID
	CategoryID *uuid.UUID
	Type       string
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Search     string
}
