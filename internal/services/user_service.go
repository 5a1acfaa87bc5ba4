package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"budgetron/internal/dto"
	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/repositories"

	"github.com/google/uuid"
)

// UserService implements administrator user management
type UserService struct {
	userRepo        repositories.UserRepositoryInterface
	roleRepo        repositories.RoleRepositoryInterface
	passwordService PasswordServiceInterface
	auditService    AuditServiceInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	roleRepo repositories.RoleRepositoryInterface,
	passwordService PasswordServiceInterface,
	auditService AuditServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		passwordService: passwordService,
		auditService:    auditService,
		metrics:         metrics,
		logger:          logger,
	}
}

func (s *UserService) List(filters models.UserFilters, page pagination.Params) (*pagination.Page[models.User], error) {
	users, total, err := s.userRepo.List(filters, page)
	if err != nil {
		return nil, err
	}
	return pagination.New(users, total, page), nil
}

func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// Create adds a user with the requested roles, or the "user" role when none are given.
func (s *UserService) Create(p Principal, req *dto.CreateUserRequest) (*models.User, error) {
	if err := checkUserUniqueness(s.userRepo, &req.Username, &req.Email, nil); err != nil {
		return nil, err
	}

	names := req.Roles
	if len(names) == 0 {
		names = []string{models.RoleUser}
	}
	roles, err := resolveRoles(s.roleRepo, names)
	if err != nil {
		return nil, err
	}

	hash, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Roles:        roles,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.auditService.LogAction(p, models.AuditActionCreate, models.AuditResourceUser, user.ID.String(),
		models.AuditDetails{"roles": user.RoleNames()})
	s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "user", "operation": "create"})

	return user, nil
}

func (s *UserService) Update(p Principal, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	var roles []models.Role
	if req.Roles != nil {
		if roles, err = resolveRoles(s.roleRepo, *req.Roles); err != nil {
			return nil, err
		}
	}

	changed, err := applyUserChanges(s.userRepo, s.passwordService, user, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	if req.Roles != nil {
		if err := s.userRepo.ReplaceRoles(user, roles); err != nil {
			return nil, err
		}
		changed = append(changed, "roles")
	}

	if len(changed) > 0 {
		s.auditService.LogAction(p, models.AuditActionUpdate, models.AuditResourceUser, user.ID.String(),
			models.AuditDetails{"fields": changed})
		s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "user", "operation": "update"})
	}

	return user, nil
}

// Delete removes the user together with every record they own.
func (s *UserService) Delete(p Principal, id uuid.UUID) error {
	if err := s.userRepo.Delete(id); err != nil {
		return err
	}

	s.auditService.LogAction(p, models.AuditActionDelete, models.AuditResourceUser, id.String(), nil)
	s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "user", "operation": "delete"})
	return nil
}

// applyUserChanges copies the supplied fields onto user after checking
// uniqueness. It returns the names of the fields that changed.
func applyUserChanges(
	userRepo repositories.UserRepositoryInterface,
	passwordService PasswordServiceInterface,
	user *models.User,
	username, email, password *string,
) ([]string, error) {
	var changed []string

	if username != nil && *username == user.Username {
		username = nil
	}
	if email != nil && strings.EqualFold(*email, user.Email) {
		email = nil
	}
	if err := checkUserUniqueness(userRepo, username, email, &user.ID); err != nil {
		return nil, err
	}

	if username != nil {
		user.Username = *username
		changed = append(changed, "username")
	}
	if email != nil {
		user.Email = strings.ToLower(*email)
		changed = append(changed, "email")
	}
	if password != nil {
		hash, err := passwordService.HashPassword(*password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
		changed = append(changed, "password")
	}

	return changed, nil
}

func checkUserUniqueness(userRepo repositories.UserRepositoryInterface, username, email *string, excludeID *uuid.UUID) error {
	if username != nil {
		taken, err := userRepo.ExistsByUsername(*username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return conflict(ErrUserAlreadyExists, "username", "is already taken")
		}
	}
	if email != nil {
		taken, err := userRepo.ExistsByEmail(*email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return conflict(ErrUserAlreadyExists, "email", "is already registered")
		}
	}
	return nil
}

// resolveRoles loads roles by name. Unknown names are a validation failure.
func resolveRoles(roleRepo repositories.RoleRepositoryInterface, names []string) ([]models.Role, error) {
	roles, err := roleRepo.GetByNames(names)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return nil, newValidationError("roles", "contains an unknown role")
		}
		return nil, err
	}
	return roles, nil
}
