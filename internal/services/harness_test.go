package services

import (
	"log/slog"
	"testing"
	"time"

	"budgetron/internal/config"
	"budgetron/internal/database"
	"budgetron/internal/models"
	"budgetron/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

// serviceHarness wires services over real repositories backed by an
// in-memory sqlite database.
type serviceHarness struct {
	db       *database.DB
	registry *prometheus.Registry
	metrics  MetricsRecorderInterface
	logger   *slog.Logger

	userRepo        repositories.UserRepositoryInterface
	roleRepo        repositories.RoleRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	budgetRepo      repositories.BudgetRepositoryInterface
	reportRepo      repositories.ReportRepositoryInterface
	auditRepo       repositories.AuditLogRepositoryInterface
	refreshRepo     repositories.RefreshTokenRepositoryInterface
	blacklistRepo   repositories.BlacklistedTokenRepositoryInterface

	passwords PasswordServiceInterface
	audit     AuditServiceInterface
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()

	db := database.SetupTestDB(t)
	registry := prometheus.NewRegistry()
	logger := slog.New(slog.DiscardHandler)

	h := &serviceHarness{
		db:              db,
		registry:        registry,
		metrics:         NewPrometheusMetrics(registry),
		logger:          logger,
		userRepo:        repositories.NewUserRepository(db.DB),
		roleRepo:        repositories.NewRoleRepository(db.DB),
		categoryRepo:    repositories.NewCategoryRepository(db.DB),
		transactionRepo: repositories.NewTransactionRepository(db.DB),
		budgetRepo:      repositories.NewBudgetRepository(db.DB),
		reportRepo:      repositories.NewReportRepository(db.DB),
		auditRepo:       repositories.NewAuditLogRepository(db.DB),
		refreshRepo:     repositories.NewRefreshTokenRepository(db.DB),
		blacklistRepo:   repositories.NewBlacklistedTokenRepository(db.DB),
		passwords:       NewPasswordService(bcrypt.MinCost),
	}
	h.audit = NewAuditService(h.auditRepo, logger)
	return h
}

func (h *serviceHarness) tokenService(t *testing.T) TokenServiceInterface {
	t.Helper()

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("failed to generate keys: %v", err)
	}
	return NewTokenService(&config.JWTConfig{
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "budgetron-test",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
	})
}

func (h *serviceHarness) user(t *testing.T) *models.User {
	t.Helper()
	return database.CreateTestUser(t, h.db, fakeUsername())
}

func (h *serviceHarness) admin(t *testing.T) *models.User {
	t.Helper()
	return database.CreateTestAdminUser(t, h.db, fakeUsername())
}

func (h *serviceHarness) auditCount(action models.AuditAction) int64 {
	var count int64
	h.db.Model(&models.AuditLog{}).Where("action = ?", action).Count(&count)
	return count
}

func (h *serviceHarness) prom() *PrometheusMetrics {
	return h.metrics.(*PrometheusMetrics)
}

func principalFor(u *models.User) Principal {
	return Principal{
		UserID:      u.ID,
		IsAdmin:     u.IsAdmin(),
		RequestMeta: RequestMeta{IPAddress: "192.0.2.10", UserAgent: "service-test"},
	}
}

// fakeUsername returns a lowercase name that satisfies the username rules.
func fakeUsername() string {
	return "u" + gofakeit.LetterN(10)
}

func fakePassword() string {
	return gofakeit.Password(true, true, true, false, false, 14)
}

func ptr[T any](v T) *T {
	return &v
}
