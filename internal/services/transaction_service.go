package services

import (
	"errors"
	"strings"

	"budgetron/internal/dto"
	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/repositories"

	"github.com/google/uuid"
)

// TransactionService records income and expense entries
type TransactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	metrics         MetricsRecorderInterface
}

func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	metrics MetricsRecorderInterface,
) TransactionServiceInterface {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		userRepo:        userRepo,
		metrics:         metrics,
	}
}

// List returns transactions newest first. Non-admins only see their own.
func (s *TransactionService) List(p Principal, filters models.TransactionFilters, page pagination.Params) (*pagination.Page[models.Transaction], error) {
	if !p.IsAdmin {
		filters.UserID = &p.UserID
	}

	transactions, total, err := s.transactionRepo.List(filters, page)
	if err != nil {
		return nil, err
	}
	return pagination.New(transactions, total, page), nil
}

func (s *TransactionService) Get(id uuid.UUID) (*models.Transaction, error) {
	return s.transactionRepo.GetByID(id)
}

func (s *TransactionService) Create(p Principal, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	owner, err := resolveOwner(s.userRepo, p, req.UserID)
	if err != nil {
		return nil, err
	}

	category, err := visibleCategory(s.categoryRepo, req.CategoryID, owner)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:      owner,
		CategoryID:  category.ID,
		Amount:      req.Amount.Round(2),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.transactionRepo.Create(txn); err != nil {
		return nil, err
	}
	txn.Category = category

	s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "transaction", "operation": "create"})
	return txn, nil
}

// Update applies the supplied fields to a transaction the ownership guard already loaded.
func (s *TransactionService) Update(p Principal, txn *models.Transaction, req *dto.UpdateTransactionRequest) (*models.Transaction, error) {
	if req.CategoryID != nil && *req.CategoryID != txn.CategoryID {
		category, err := visibleCategory(s.categoryRepo, *req.CategoryID, txn.UserID)
		if err != nil {
			return nil, err
		}
		txn.CategoryID = category.ID
		txn.Category = category
	}
	if req.Amount != nil {
		txn.Amount = req.Amount.Round(2)
	}
	if req.Description != nil {
		txn.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.transactionRepo.Update(txn); err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "transaction", "operation": "update"})
	return txn, nil
}

func (s *TransactionService) Delete(p Principal, txn *models.Transaction) error {
	if err := s.transactionRepo.Delete(txn.ID); err != nil {
		return err
	}

	s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "transaction", "operation": "delete"})
	return nil
}

// resolveOwner decides who a new record belongs to. Admins may name any
// existing user; anyone else naming another user gets ErrUserNotFound.
func resolveOwner(userRepo repositories.UserRepositoryInterface, p Principal, requested *uuid.UUID) (uuid.UUID, error) {
	if requested == nil || *requested == p.UserID {
		return p.UserID, nil
	}
	if !p.IsAdmin {
		return uuid.Nil, ErrUserNotFound
	}

	if _, err := userRepo.GetByID(*requested); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return uuid.Nil, newValidationError("user_id", "user does not exist")
		}
		return uuid.Nil, err
	}
	return *requested, nil
}

// visibleCategory loads a category that owner may use: a default or one of
// owner's personal categories. Anything else reads as missing.
func visibleCategory(categoryRepo repositories.CategoryRepositoryInterface, id, owner uuid.UUID) (*models.Category, error) {
	category, err := categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, newValidationError("category_id", "category does not exist")
		}
		return nil, err
	}
	if !category.IsVisibleTo(owner) {
		return nil, newValidationError("category_id", "category does not exist")
	}
	return category, nil
}
