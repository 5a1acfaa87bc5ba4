package server

import (
	"log/slog"

	"budgetron/internal/config"
	"budgetron/internal/logger"
	"budgetron/internal/repositories"
	"budgetron/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Services is the set of application services the HTTP layer depends on.
type Services struct {
	Auth        services.AuthServiceInterface
	Token       services.TokenServiceInterface
	Audit       services.AuditServiceInterface
	User        services.UserServiceInterface
	Role        services.RoleServiceInterface
	Category    services.CategoryServiceInterface
	Transaction services.TransactionServiceInterface
	Budget      services.BudgetServiceInterface
	Report      services.ReportServiceInterface
}

// NewServices wires repositories and services over db.
func NewServices(
	cfg *config.Config,
	db *gorm.DB,
	store services.ArtifactStore,
	publisher services.EventPublisher,
	reg prometheus.Registerer,
	log *slog.Logger,
) *Services {
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	budgetRepo := repositories.NewBudgetRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	refreshRepo := repositories.NewRefreshTokenRepository(db)
	blacklistRepo := repositories.NewBlacklistedTokenRepository(db)

	metrics := services.NewPrometheusMetrics(reg)
	passwords := services.NewPasswordService(cfg.Security.BCryptCost)
	tokens := services.NewTokenService(&cfg.JWT)
	audit := services.NewAuditService(auditRepo, logger.Component(log, "audit"))

	return &Services{
		Auth: services.NewAuthService(userRepo, roleRepo, refreshRepo, blacklistRepo,
			passwords, tokens, audit, metrics, logger.Component(log, "auth")),
		Token:       tokens,
		Audit:       audit,
		User:        services.NewUserService(userRepo, roleRepo, passwords, audit, metrics, logger.Component(log, "users")),
		Role:        services.NewRoleService(roleRepo, audit),
		Category:    services.NewCategoryService(categoryRepo, audit, metrics),
		Transaction: services.NewTransactionService(transactionRepo, categoryRepo, userRepo, metrics),
		Budget:      services.NewBudgetService(budgetRepo, categoryRepo, userRepo, metrics),
		Report: services.NewReportService(reportRepo, transactionRepo, userRepo,
			store, publisher, audit, metrics, logger.Component(log, "reports")),
	}
}
