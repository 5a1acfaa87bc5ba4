package repositories

import (
	"errors"
	"fmt"
	"time"

	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{db: db}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	if err := r.db.Omit(clause.Associations).Create(transaction).Error; err != nil {
		if isForeignKeyError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by ID with its category
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Preload("Category").Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// List retrieves transactions newest first. The type filter joins categories.
func (r *transactionRepository) List(filters models.TransactionFilters, page pagination.Params) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.db.Model(&models.Transaction{})

	if filters.UserID != nil {
		query = query.Where("transactions.user_id = ?", *filters.UserID)
	}
	if filters.CategoryID != nil {
		query = query.Where("transactions.category_id = ?", *filters.CategoryID)
	}
	if filters.Type != "" {
		query = query.Joins("JOIN categories ON categories.id = transactions.category_id").
			Where("categories.type = ?", filters.Type)
	}
	if filters.StartDate != nil {
		query = query.Where("transactions.timestamp >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("transactions.timestamp < ?", *filters.EndDate)
	}
	if filters.MinAmount != nil {
		query = query.Where("transactions.amount >= ?", *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		query = query.Where("transactions.amount <= ?", *filters.MaxAmount)
	}
	if filters.Search != "" {
		query = query.Where("LOWER(transactions.description) LIKE ?"+likeEscape, likePattern(filters.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	if err := query.Preload("Category").
		Order("transactions.timestamp DESC").
		Order("transactions.id DESC").
		Scopes(page.Scope()).
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// ListForPeriod returns a user's transactions in [start, end), oldest first
func (r *transactionRepository) ListForPeriod(userID uuid.UUID, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction

	if err := r.db.Preload("Category").
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, start, end).
		Order("timestamp ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions for period: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) Update(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	if err := r.db.Omit(clause.Associations).Save(transaction).Error; err != nil {
		if isForeignKeyError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
