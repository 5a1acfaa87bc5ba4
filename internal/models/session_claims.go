package models

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind separates access from refresh tokens. It travels in the
// token_type claim so one can never be presented as the other.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// SessionClaims is the payload of every token budgetron issues. Access
// tokens also name the user and the roles held at login.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID   string    `json:"user_id"`
	Username string    `json:"username,omitempty"`
	Roles    []string  `json:"roles,omitempty"`
	Kind     TokenKind `json:"token_type"`
}

// Owner parses the user the session belongs to.
func (c *SessionClaims) Owner() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

func (c *SessionClaims) HasRole(name string) bool {
	return slices.Contains(c.Roles, name)
}
