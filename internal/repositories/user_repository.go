package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &UserRepository{
		db: db,
	}
}

// Create inserts the user together with its role links
func (r *UserRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		roles := user.Roles
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		if len(roles) == 0 {
			return nil
		}
		return tx.Model(user).Association("Roles").Append(roles)
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID with roles loaded
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	return r.first("failed to get user by ID", "id = ?", id)
}

// GetByEmail retrieves a user by their email address
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("failed to get user by email", "email = ?", strings.ToLower(email))
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first("failed to get user by username", "username = ?", username)
}

func (r *UserRepository) first(msg string, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles").Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	return &user, nil
}

// ExistsByUsername checks for another user with the username. excludeID skips the user being updated.
func (r *UserRepository) ExistsByUsername(username string, excludeID *uuid.UUID) (bool, error) {
	return r.exists("username = ?", username, excludeID)
}

func (r *UserRepository) ExistsByEmail(email string, excludeID *uuid.UUID) (bool, error) {
	return r.exists("email = ?", strings.ToLower(email), excludeID)
}

func (r *UserRepository) exists(query string, value string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.Model(&models.User{}).Where(query, value)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	return count > 0, nil
}

// List returns users newest first, optionally filtered by search text and role name
func (r *UserRepository) List(filters models.UserFilters, page pagination.Params) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.Model(&models.User{})
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("(LOWER(users.username) LIKE ?"+likeEscape+" OR LOWER(users.email) LIKE ?"+likeEscape+")", pattern, pattern)
	}
	if filters.Role != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM user_roles ur JOIN roles ON roles.id = ur.role_id WHERE ur.user_id = users.id AND roles.name = ?)",
			filters.Role,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if err := query.Preload("Roles").
		Order("users.created_at DESC").
		Scopes(page.Scope()).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// Update saves scalar user fields. Role links are changed through ReplaceRoles.
func (r *UserRepository) Update(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	if err := r.db.Omit(clause.Associations).Save(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (r *UserRepository) ReplaceRoles(user *models.User, roles []models.Role) error {
	if err := r.db.Model(user).Association("Roles").Replace(roles); err != nil {
		return fmt.Errorf("failed to replace user roles: %w", err)
	}
	user.Roles = roles
	return nil
}

func (r *UserRepository) UpdateLastLogin(userID uuid.UUID, at time.Time) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Update("last_login_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to update last login: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user and every record they own
func (r *UserRepository) Delete(id uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&models.Report{},
			&models.Budget{},
			&models.Transaction{},
			&models.RefreshToken{},
			&models.BlacklistedToken{},
		}
		for _, model := range owned {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
