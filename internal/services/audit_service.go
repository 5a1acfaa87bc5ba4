package services

import (
	"fmt"
	"log/slog"
	"time"

	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/repositories"

	"github.com/google/uuid"
)

// AuditService handles audit logging operations
type AuditService struct {
	repo   repositories.AuditLogRepositoryInterface
	logger *slog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditLogRepositoryInterface, logger *slog.Logger) AuditServiceInterface {
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

// Record stores an audit entry. Failures are logged and never returned:
// an audit outage must not block the operation being audited.
func (s *AuditService) Record(entry *models.AuditLog) {
	if entry == nil {
		return
	}

	if !entry.Action.Valid() {
		s.logger.Error("refusing audit entry with unknown action",
			"action", entry.Action,
			"resource", entry.Resource)
		return
	}

	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to create audit log",
			"error", err,
			"action", entry.Action,
			"resource", entry.Resource,
			"resource_id", entry.ResourceID)
	}
}

// LogAction records an action performed by an authenticated principal.
func (s *AuditService) LogAction(p Principal, action models.AuditAction, resource models.AuditResource, resourceID string, details models.AuditDetails) {
	var userID *uuid.UUID
	if p.UserID != uuid.Nil {
		id := p.UserID
		userID = &id
	}

	s.Record(&models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  p.IPAddress,
		UserAgent:  p.UserAgent,
		Details:    details,
	})
}

// GetUserActivity returns the audit trail for one user, newest first
func (s *AuditService) GetUserActivity(userID uuid.UUID, page pagination.Params) (*pagination.Page[models.AuditLog], error) {
	logs, total, err := s.repo.GetByUserID(userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to get user activity: %w", err)
	}
	return pagination.New(logs, total, page), nil
}

func (s *AuditService) PurgeOlderThan(age time.Duration) (int64, error) {
	return s.repo.DeleteOlderThan(age)
}
