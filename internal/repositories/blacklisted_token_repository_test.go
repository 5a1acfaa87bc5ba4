package repositories

import (
	"testing"
	"time"

	"budgetron/internal/database"
	"budgetron/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistedTokenRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	repo := NewBlacklistedTokenRepository(db.DB)
	user := database.CreateTestUser(t, db, "leaver")

	require.NoError(t, repo.Create(&models.BlacklistedToken{JTI: "jti-1", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.Create(&models.BlacklistedToken{JTI: "jti-1", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.Create(&models.BlacklistedToken{JTI: "jti-old", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)}))

	blacklisted, err := repo.IsBlacklisted("jti-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	blacklisted, err = repo.IsBlacklisted("jti-unknown")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	deleted, err := repo.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
