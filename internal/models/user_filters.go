package models

type UserFilters struct {
	Search string
	Role   string
}
