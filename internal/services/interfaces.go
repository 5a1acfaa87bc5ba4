package services

import (
	"context"
	"io"
	"time"

	"budgetron/internal/dto"
	"budgetron/internal/events"
	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
)

// RequestMeta identifies where a request came from, for the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Principal is the authenticated caller of a service operation.
type Principal struct {
	UserID  uuid.UUID
	IsAdmin bool
	RequestMeta
}

// CanAccess reports whether the principal may see a record owned by ownerID.
func (p Principal) CanAccess(ownerID uuid.UUID) bool {
	return p.IsAdmin || p.UserID == ownerID
}

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, meta RequestMeta) (*models.User, *dto.TokenResponse, error)
	Login(req *dto.LoginRequest, meta RequestMeta) (*models.User, *dto.TokenResponse, error)
	RefreshTokens(refreshToken string, meta RequestMeta) (*dto.TokenResponse, error)
	Logout(accessToken string, meta RequestMeta) error
	// Authenticate resolves an access token into the current user record.
	Authenticate(accessToken string) (*models.User, *models.SessionClaims, error)
	GetProfile(userID uuid.UUID) (*models.User, error)
	UpdateProfile(p Principal, req *dto.UpdateProfileRequest) (*models.User, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(raw string) (*models.SessionClaims, error)
	ValidateRefreshToken(raw string) (*models.SessionClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type PasswordServiceInterface interface {
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// AuditServiceInterface defines the contract for audit logging operations.
// Writes never fail the calling operation.
type AuditServiceInterface interface {
	Record(entry *models.AuditLog)
	LogAction(p Principal, action models.AuditAction, resource models.AuditResource, resourceID string, details models.AuditDetails)
	GetUserActivity(userID uuid.UUID, page pagination.Params) (*pagination.Page[models.AuditLog], error)
	PurgeOlderThan(age time.Duration) (int64, error)
}

type UserServiceInterface interface {
	List(filters models.UserFilters, page pagination.Params) (*pagination.Page[models.User], error)
	Get(id uuid.UUID) (*models.User, error)
	Create(p Principal, req *dto.CreateUserRequest) (*models.User, error)
	Update(p Principal, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error)
	Delete(p Principal, id uuid.UUID) error
}

type RoleServiceInterface interface {
	List(page pagination.Params) (*pagination.Page[models.Role], error)
	Get(id uuid.UUID) (*models.Role, error)
	Create(p Principal, req *dto.CreateRoleRequest) (*models.Role, error)
	Update(p Principal, id uuid.UUID, req *dto.UpdateRoleRequest) (*models.Role, error)
	Delete(p Principal, id uuid.UUID) error
}

type CategoryServiceInterface interface {
	List(p Principal, filters models.CategoryFilters, page pagination.Params) (*pagination.Page[models.Category], error)
	Get(p Principal, id uuid.UUID) (*models.Category, error)
	Create(p Principal, req *dto.CreateCategoryRequest) (*models.Category, error)
	Update(p Principal, id uuid.UUID, req *dto.UpdateCategoryRequest) (*models.Category, error)
	Delete(p Principal, id uuid.UUID) error
}

// TransactionServiceInterface operates on transactions. Get is used by the
// ownership guard; Update and Delete receive the record it loaded.
type TransactionServiceInterface interface {
	List(p Principal, filters models.TransactionFilters, page pagination.Params) (*pagination.Page[models.Transaction], error)
	Get(id uuid.UUID) (*models.Transaction, error)
	Create(p Principal, req *dto.CreateTransactionRequest) (*models.Transaction, error)
	Update(p Principal, txn *models.Transaction, req *dto.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(p Principal, txn *models.Transaction) error
}

type BudgetServiceInterface interface {
	List(p Principal, filters models.BudgetFilters, page pagination.Params) (*pagination.Page[models.Budget], error)
	Get(id uuid.UUID) (*models.Budget, error)
	Create(p Principal, req *dto.CreateBudgetRequest) (*models.Budget, error)
	Update(p Principal, budget *models.Budget, req *dto.UpdateBudgetRequest) (*models.Budget, error)
	Delete(p Principal, budget *models.Budget) error
}

type ReportServiceInterface interface {
	List(p Principal, filters models.ReportFilters, page pagination.Params) (*pagination.Page[models.Report], error)
	Get(id uuid.UUID) (*models.Report, error)
	GetByFileName(p Principal, name string) (*models.Report, error)
	Generate(ctx context.Context, p Principal, req *dto.CreateReportRequest) (*models.Report, error)
	Update(p Principal, report *models.Report, req *dto.UpdateReportRequest) (*models.Report, error)
	Delete(ctx context.Context, p Principal, report *models.Report) error
	OpenArtifact(ctx context.Context, report *models.Report) (io.ReadCloser, error)
}

// ArtifactStore persists generated report files and returns their location.
type ArtifactStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
