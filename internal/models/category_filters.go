package models

import "github.com/google/uuid"

const (
	CategoryScopeDefault  = "default"
	CategoryScopePersonal = "personal"
)

// CategoryFilters restricts category listings. VisibleTo limits results to
// defaults plus that user's personal categories.
type CategoryFilters struct {
	VisibleTo *uuid.UUID
	Type      string
	Scope     string
	Search    string
}
