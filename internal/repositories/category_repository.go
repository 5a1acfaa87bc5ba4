package repositories

import (
	"errors"
	"fmt"
	"strings"

	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrCategoryInUse         = errors.New("category is referenced by transactions or budgets")
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *models.Category) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}

	if err := r.db.Create(category).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// List returns categories ordered by name
func (r *CategoryRepository) List(filters models.CategoryFilters, page pagination.Params) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	query := r.db.Model(&models.Category{})
	if filters.VisibleTo != nil {
		query = query.Where("(user_id IS NULL OR user_id = ?)", *filters.VisibleTo)
	}
	switch filters.Scope {
	case models.CategoryScopeDefault:
		query = query.Where("user_id IS NULL")
	case models.CategoryScopePersonal:
		query = query.Where("user_id IS NOT NULL")
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Search != "" {
		query = query.Where("LOWER(name) LIKE ?"+likeEscape, likePattern(filters.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}
	if err := query.Order("name ASC").Order("id ASC").Scopes(page.Scope()).Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

// NameExistsInScope reports whether the name (case-insensitive) is taken in the
// scope a category with the given owner lives in. A personal name also
// conflicts with a default name.
func (r *CategoryRepository) NameExistsInScope(name string, owner *uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	var count int64

	query := r.db.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if owner == nil {
		query = query.Where("user_id IS NULL")
	} else {
		query = query.Where("(user_id IS NULL OR user_id = ?)", *owner)
	}
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}

func (r *CategoryRepository) Update(category *models.Category) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}

	if err := r.db.Save(category).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// CountReferences counts transactions and budgets pointing at the category
func (r *CategoryRepository) CountReferences(id uuid.UUID) (int64, error) {
	var transactions, budgets int64
	if err := r.db.Model(&models.Transaction{}).Where("category_id = ?", id).Count(&transactions).Error; err != nil {
		return 0, fmt.Errorf("failed to count category transactions: %w", err)
	}
	if err := r.db.Model(&models.Budget{}).Where("category_id = ?", id).Count(&budgets).Error; err != nil {
		return 0, fmt.Errorf("failed to count category budgets: %w", err)
	}
	return transactions + budgets, nil
}
