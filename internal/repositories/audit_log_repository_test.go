package repositories

import (
	"testing"
	"time"

	"budgetron/internal/database"
	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestAuditLogRepository(t *testing.T) {
	suite.Run(t, new(AuditLogRepositorySuite))
}

type AuditLogRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo AuditLogRepositoryInterface
	user *models.User
}

func (s *AuditLogRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewAuditLogRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "audited")
}

func (s *AuditLogRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_Create() {
	log := &models.AuditLog{
		UserID:     &s.user.ID,
		Action:     models.AuditActionLogin,
		Resource:   models.AuditResourceUser,
		ResourceID: s.user.ID.String(),
		IPAddress:  "192.168.1.1",
		UserAgent:  "Mozilla/5.0",
		Details:    models.AuditDetails{"method": "password"},
	}

	s.NoError(s.repo.Create(log))
	s.NotEqual(uuid.Nil, log.ID)
	s.NotZero(log.CreatedAt)

	logs, total, err := s.repo.GetByUserID(s.user.ID, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("password", logs[0].Details["method"])
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_CreateWithoutUserID() {
	log := &models.AuditLog{
		Action:    models.AuditActionFailedLogin,
		Resource:  models.AuditResourceUser,
		IPAddress: "192.168.1.1",
	}
	s.NoError(s.repo.Create(log))

	logs, total, err := s.repo.GetByAction(models.AuditActionFailedLogin, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Nil(logs[0].UserID)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_DeleteOlderThan() {
	s.Require().NoError(s.repo.Create(&models.AuditLog{
		Action:    models.AuditActionLogout,
		Resource:  models.AuditResourceUser,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}))
	s.Require().NoError(s.repo.Create(&models.AuditLog{
		Action:   models.AuditActionLogout,
		Resource: models.AuditResourceUser,
	}))

	deleted, err := s.repo.DeleteOlderThan(24 * time.Hour)
	s.NoError(err)
	s.Equal(int64(1), deleted)
}
