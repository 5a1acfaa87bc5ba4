package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshToken stores the SHA-256 of an opaque refresh token. Tokens are
// single use: a successful refresh revokes the old row and links it to its
// replacement.
type RefreshToken struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash    string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	ExpiresAt    time.Time  `gorm:"not null;index" json:"expires_at"`
	RevokedAt    *time.Time `gorm:"index" json:"revoked_at,omitempty"`
	ReplacedByID *uuid.UUID `gorm:"type:uuid" json:"replaced_by_id,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (rt *RefreshToken) IsValidAt(now time.Time) bool {
	return rt.RevokedAt == nil && now.Before(rt.ExpiresAt)
}

func (rt *RefreshToken) IsValid() bool {
	return rt.IsValidAt(time.Now())
}

func (rt *RefreshToken) Revoke(replacedBy *uuid.UUID) {
	now := time.Now().UTC()
	rt.RevokedAt = &now
	rt.ReplacedByID = replacedBy
}

func (rt *RefreshToken) TableName() string {
	return "refresh_tokens"
}
