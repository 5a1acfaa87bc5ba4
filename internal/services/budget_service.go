package services

import (
	"budgetron/internal/dto"
	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/repositories"

	"github.com/google/uuid"
)

// BudgetService manages monthly category budgets. Spent is never stored:
// every budget it returns has Spent computed from current transactions.
type BudgetService struct {
	budgetRepo   repositories.BudgetRepositoryInterface
	categoryRepo repositories.CategoryRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	metrics      MetricsRecorderInterface
}

func NewBudgetService(
	budgetRepo repositories.BudgetRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	metrics MetricsRecorderInterface,
) BudgetServiceInterface {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		metrics:      metrics,
	}
}

func (s *BudgetService) List(p Principal, filters models.BudgetFilters, page pagination.Params) (*pagination.Page[models.Budget], error) {
	if !p.IsAdmin {
		filters.UserID = &p.UserID
	}

	budgets, total, err := s.budgetRepo.List(filters, page)
	if err != nil {
		return nil, err
	}
	if err := s.fillSpent(budgets); err != nil {
		return nil, err
	}
	return pagination.New(budgets, total, page), nil
}

func (s *BudgetService) Get(id uuid.UUID) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.fillOne(budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *BudgetService) Create(p Principal, req *dto.CreateBudgetRequest) (*models.Budget, error) {
	owner, err := resolveOwner(s.userRepo, p, req.UserID)
	if err != nil {
		return nil, err
	}

	category, err := visibleCategory(s.categoryRepo, req.CategoryID, owner)
	if err != nil {
		return nil, err
	}

	if err := s.checkUnique(owner, category.ID, req.Month, nil); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     owner,
		CategoryID: category.ID,
		Month:      req.Month,
		Amount:     req.Amount.Round(2),
	}
	if err := s.budgetRepo.Create(budget); err != nil {
		return nil, err
	}
	budget.Category = category

	if err := s.fillOne(budget); err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "budget", "operation": "create"})
	return budget, nil
}

func (s *BudgetService) Update(p Principal, budget *models.Budget, req *dto.UpdateBudgetRequest) (*models.Budget, error) {
	keyChanged := false

	if req.CategoryID != nil && *req.CategoryID != budget.CategoryID {
		category, err := visibleCategory(s.categoryRepo, *req.CategoryID, budget.UserID)
		if err != nil {
			return nil, err
		}
		budget.CategoryID = category.ID
		budget.Category = category
		keyChanged = true
	}
	if req.Month != nil && *req.Month != budget.Month {
		budget.Month = *req.Month
		keyChanged = true
	}
	if req.Amount != nil {
		budget.Amount = req.Amount.Round(2)
	}

	if keyChanged {
		if err := s.checkUnique(budget.UserID, budget.CategoryID, budget.Month, &budget.ID); err != nil {
			return nil, err
		}
	}

	if err := s.budgetRepo.Update(budget); err != nil {
		return nil, err
	}
	if err := s.fillOne(budget); err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "budget", "operation": "update"})
	return budget, nil
}

func (s *BudgetService) Delete(p Principal, budget *models.Budget) error {
	if err := s.budgetRepo.Delete(budget.ID); err != nil {
		return err
	}

	s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "budget", "operation": "delete"})
	return nil
}

func (s *BudgetService) checkUnique(userID, categoryID uuid.UUID, month string, excludeID *uuid.UUID) error {
	exists, err := s.budgetRepo.Exists(userID, categoryID, month, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return conflict(ErrBudgetAlreadyExists, "month", "already has a budget for this category")
	}
	return nil
}

func (s *BudgetService) fillOne(budget *models.Budget) error {
	budgets := []models.Budget{*budget}
	if err := s.fillSpent(budgets); err != nil {
		return err
	}
	budget.Spent = budgets[0].Spent
	return nil
}

func (s *BudgetService) fillSpent(budgets []models.Budget) error {
	if len(budgets) == 0 {
		return nil
	}

	spent, err := s.budgetRepo.SpentByMonth(budgets)
	if err != nil {
		return err
	}

	for i := range budgets {
		key := repositories.SpentKey{
			UserID:     budgets[i].UserID,
			CategoryID: budgets[i].CategoryID,
			Month:      budgets[i].Month,
		}
		budgets[i].Spent = spent[key]
	}
	return nil
}
