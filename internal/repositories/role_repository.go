package repositories

import (
	"errors"
	"fmt"

	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role already exists")
	ErrRoleInUse         = errors.New("role is assigned to users")
)

// RoleRepository handles database operations for roles
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepositoryInterface {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(role *models.Role) error {
	if role == nil {
		return errors.New("role cannot be nil")
	}

	if err := r.db.Create(role).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrRoleAlreadyExists
		}
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (r *RoleRepository) GetByID(id uuid.UUID) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("id = ?", id).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role by ID: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) GetByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	return &role, nil
}

// GetByNames loads every named role, failing with ErrRoleNotFound if any is missing
func (r *RoleRepository) GetByNames(names []string) ([]models.Role, error) {
	unique := make(map[string]struct{}, len(names))
	for _, name := range names {
		unique[name] = struct{}{}
	}

	var roles []models.Role
	if err := r.db.Where("name IN ?", names).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to get roles by name: %w", err)
	}
	if len(roles) != len(unique) {
		return nil, ErrRoleNotFound
	}
	return roles, nil
}

// List returns roles ordered by name
func (r *RoleRepository) List(page pagination.Params) ([]models.Role, int64, error) {
	var roles []models.Role
	var total int64

	query := r.db.Model(&models.Role{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}
	if err := query.Order("name ASC").Scopes(page.Scope()).Find(&roles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, total, nil
}

func (r *RoleRepository) Update(role *models.Role) error {
	if role == nil {
		return errors.New("role cannot be nil")
	}

	if err := r.db.Save(role).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrRoleAlreadyExists
		}
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

// Delete removes a role that no user holds
func (r *RoleRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Role{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return ErrRoleInUse
		}
		return fmt.Errorf("failed to delete role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) CountUsers(roleID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Table("user_roles").Where("role_id = ?", roleID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count role users: %w", err)
	}
	return count, nil
}
