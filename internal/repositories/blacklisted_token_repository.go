package repositories

import (
	"fmt"
	"time"

	"budgetron/internal/models"

	"gorm.io/gorm"
)

type blacklistedTokenRepository struct {
	db *gorm.DB
}

// NewBlacklistedTokenRepository creates a new blacklisted token repository
func NewBlacklistedTokenRepository(db *gorm.DB) BlacklistedTokenRepositoryInterface {
	return &blacklistedTokenRepository{db: db}
}

// Create adds a token to the blacklist. Blacklisting the same JTI twice is not an error.
func (r *blacklistedTokenRepository) Create(token *models.BlacklistedToken) error {
	if err := r.db.Create(token).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the JTI belongs to a logged-out token
func (r *blacklistedTokenRepository) IsBlacklisted(jti string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.BlacklistedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return count > 0, nil
}

// DeleteExpired removes expired tokens from the blacklist
func (r *blacklistedTokenRepository) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now().UTC()).Delete(&models.BlacklistedToken{})
	return result.RowsAffected, result.Error
}
