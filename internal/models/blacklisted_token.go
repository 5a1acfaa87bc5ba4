package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlacklistedToken holds the JTI of a logged-out access token until it expires.
type BlacklistedToken struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	JTI           string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"jti"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt     time.Time `gorm:"not null;index" json:"expires_at"`
	BlacklistedAt time.Time `gorm:"not null" json:"blacklisted_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (bt *BlacklistedToken) BeforeCreate(tx *gorm.DB) error {
	if bt.ID == uuid.Nil {
		bt.ID = uuid.New()
	}
	if bt.BlacklistedAt.IsZero() {
		bt.BlacklistedAt = time.Now().UTC()
	}
	return nil
}

// Expired entries can be purged; the token they block is no longer accepted anyway.
func (bt *BlacklistedToken) Expired(now time.Time) bool {
	return now.After(bt.ExpiresAt)
}

func (bt *BlacklistedToken) TableName() string {
	return "blacklisted_tokens"
}
