package repositories

import (
	"time"

	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	ExistsByUsername(username string, excludeID *uuid.UUID) (bool, error)
	ExistsByEmail(email string, excludeID *uuid.UUID) (bool, error)
	List(filters models.UserFilters, page pagination.Params) ([]models.User, int64, error)
	Update(user *models.User) error
	ReplaceRoles(user *models.User, roles []models.Role) error
	UpdateLastLogin(userID uuid.UUID, at time.Time) error
	Delete(id uuid.UUID) error
}

// RoleRepositoryInterface defines the contract for role repository operations
type RoleRepositoryInterface interface {
	Create(role *models.Role) error
	GetByID(id uuid.UUID) (*models.Role, error)
	GetByName(name string) (*models.Role, error)
	GetByNames(names []string) ([]models.Role, error)
	List(page pagination.Params) ([]models.Role, int64, error)
	Update(role *models.Role) error
	Delete(id uuid.UUID) error
	CountUsers(roleID uuid.UUID) (int64, error)
}

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(id uuid.UUID) (*models.Category, error)
	List(filters models.CategoryFilters, page pagination.Params) ([]models.Category, int64, error)
	NameExistsInScope(name string, owner *uuid.UUID, excludeID *uuid.UUID) (bool, error)
	Update(category *models.Category) error
	Delete(id uuid.UUID) error
	CountReferences(id uuid.UUID) (int64, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	List(filters models.TransactionFilters, page pagination.Params) ([]models.Transaction, int64, error)
	ListForPeriod(userID uuid.UUID, start, end time.Time) ([]models.Transaction, error)
	Update(transaction *models.Transaction) error
	Delete(id uuid.UUID) error
}

// SpentKey identifies the expense total a budget is compared against.
type SpentKey struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Month      string
}

// BudgetRepositoryInterface defines the contract for budget repository operations
type BudgetRepositoryInterface interface {
	Create(budget *models.Budget) error
	GetByID(id uuid.UUID) (*models.Budget, error)
	List(filters models.BudgetFilters, page pagination.Params) ([]models.Budget, int64, error)
	Exists(userID, categoryID uuid.UUID, month string, excludeID *uuid.UUID) (bool, error)
	SpentByMonth(budgets []models.Budget) (map[SpentKey]decimal.Decimal, error)
	Update(budget *models.Budget) error
	Delete(id uuid.UUID) error
}

// ReportRepositoryInterface defines the contract for report repository operations
type ReportRepositoryInterface interface {
	Create(report *models.Report) error
	GetByID(id uuid.UUID) (*models.Report, error)
	GetByFileName(name string, owner *uuid.UUID) (*models.Report, error)
	List(filters models.ReportFilters, page pagination.Params) ([]models.Report, int64, error)
	Update(report *models.Report) error
	Delete(id uuid.UUID) error
}

type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	GetByTokenHash(tokenHash string) (*models.RefreshToken, error)
	Rotate(old *models.RefreshToken, next *models.RefreshToken) error
	RevokeAllForUser(userID uuid.UUID) error
	DeleteExpired() (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	IsBlacklisted(jti string) (bool, error)
	DeleteExpired() (int64, error)
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByUserID(userID uuid.UUID, page pagination.Params) ([]models.AuditLog, int64, error)
	GetByAction(action models.AuditAction, page pagination.Params) ([]models.AuditLog, int64, error)
	DeleteOlderThan(duration time.Duration) (int64, error)
}
