package repositories

import (
	"errors"
	"fmt"

	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrBudgetAlreadyExists = errors.New("budget already exists for this category and month")
)

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(budget *models.Budget) error {
	if budget == nil {
		return errors.New("budget cannot be nil")
	}

	if err := r.db.Omit(clause.Associations).Create(budget).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrBudgetAlreadyExists
		}
		if isForeignKeyError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (r *budgetRepository) GetByID(id uuid.UUID) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.Preload("Category").Where("id = ?", id).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

// List returns budgets with the latest month first
func (r *budgetRepository) List(filters models.BudgetFilters, page pagination.Params) ([]models.Budget, int64, error) {
	var budgets []models.Budget
	var total int64

	query := r.db.Model(&models.Budget{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Month != "" {
		query = query.Where("month = ?", filters.Month)
	}
	if filters.MinAmount != nil {
		query = query.Where("amount >= ?", *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		query = query.Where("amount <= ?", *filters.MaxAmount)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count budgets: %w", err)
	}
	if err := query.Preload("Category").
		Order("month DESC").
		Order("created_at DESC").
		Scopes(page.Scope()).
		Find(&budgets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, total, nil
}

// Exists reports whether the user already budgets the category for the month
func (r *budgetRepository) Exists(userID, categoryID uuid.UUID, month string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND month = ?", userID, categoryID, month)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check budget uniqueness: %w", err)
	}
	return count > 0, nil
}

type spentRow struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Spent      decimal.Decimal
}

// SpentByMonth sums expense-type transactions for every (user, category, month)
// the budgets cover. It issues one grouped query per distinct month.
func (r *budgetRepository) SpentByMonth(budgets []models.Budget) (map[SpentKey]decimal.Decimal, error) {
	type scope struct {
		users      map[uuid.UUID]struct{}
		categories map[uuid.UUID]struct{}
	}

	months := make(map[string]*scope)
	for _, b := range budgets {
		s, ok := months[b.Month]
		if !ok {
			s = &scope{users: map[uuid.UUID]struct{}{}, categories: map[uuid.UUID]struct{}{}}
			months[b.Month] = s
		}
		s.users[b.UserID] = struct{}{}
		s.categories[b.CategoryID] = struct{}{}
	}

	spent := make(map[SpentKey]decimal.Decimal, len(budgets))
	for month, s := range months {
		start, end, err := models.MonthRange(month)
		if err != nil {
			return nil, fmt.Errorf("invalid budget month %q: %w", month, err)
		}

		var rows []spentRow
		if err := r.db.Table("transactions").
			Select("transactions.user_id AS user_id, transactions.category_id AS category_id, COALESCE(SUM(transactions.amount), 0) AS spent").
			Joins("JOIN categories ON categories.id = transactions.category_id").
			Where("categories.type = ?", models.CategoryTypeExpense).
			Where("transactions.user_id IN ?", keys(s.users)).
			Where("transactions.category_id IN ?", keys(s.categories)).
			Where("transactions.timestamp >= ? AND transactions.timestamp < ?", start, end).
			Group("transactions.user_id, transactions.category_id").
			Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to aggregate spending: %w", err)
		}

		for _, row := range rows {
			key := SpentKey{UserID: row.UserID, CategoryID: row.CategoryID, Month: month}
			spent[key] = row.Spent.Round(2)
		}
	}

	return spent, nil
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func (r *budgetRepository) Update(budget *models.Budget) error {
	if budget == nil {
		return errors.New("budget cannot be nil")
	}

	if err := r.db.Omit(clause.Associations).Save(budget).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrBudgetAlreadyExists
		}
		if isForeignKeyError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return nil
}

func (r *budgetRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Budget{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}
