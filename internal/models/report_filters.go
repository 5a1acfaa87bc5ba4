package models

import (
	"time"

	"github.com/google/uuid"
)

type ReportFilters struct {
	UserID    *uuid.UUID
	Format    string
	StartDate *time.Time
	EndDate   *time.Time
}
