package repositories

import (
	"errors"
	"fmt"
	"time"

	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository handles database operations for audit logs
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepositoryInterface {
	return &AuditLogRepository{
		db: db,
	}
}

// Create creates a new audit log entry
func (r *AuditLogRepository) Create(log *models.AuditLog) error {
	if log == nil {
		return errors.New("audit log cannot be nil")
	}

	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// GetByUserID retrieves audit logs for a specific user
func (r *AuditLogRepository) GetByUserID(userID uuid.UUID, page pagination.Params) ([]models.AuditLog, int64, error) {
	return r.list(r.db.Model(&models.AuditLog{}).Where("user_id = ?", userID), page)
}

// GetByAction retrieves audit logs for a specific action
func (r *AuditLogRepository) GetByAction(action models.AuditAction, page pagination.Params) ([]models.AuditLog, int64, error) {
	return r.list(r.db.Model(&models.AuditLog{}).Where("action = ?", action), page)
}

func (r *AuditLogRepository) list(query *gorm.DB, page pagination.Params) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	if err := query.Order("created_at DESC").
		Scopes(page.Scope()).
		Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return logs, total, nil
}

// DeleteOlderThan removes audit logs older than the specified duration
func (r *AuditLogRepository) DeleteOlderThan(duration time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-duration)

	result := r.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old audit logs: %w", result.Error)
	}

	return result.RowsAffected, nil
}
