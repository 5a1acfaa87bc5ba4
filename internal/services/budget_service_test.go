package services

import (
	"errors"
	"testing"
	"time"

	"budgetron/internal/database"
	"budgetron/internal/dto"
	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	h       *serviceHarness
	service BudgetServiceInterface
	admin   Principal
	alice   Principal
	bob     Principal
	food    *models.Category
	salary  *models.Category
	march   time.Time
}

func (s *BudgetServiceTestSuite) SetupTest() {
	s.h = newServiceHarness(s.T())
	s.service = NewBudgetService(s.h.budgetRepo, s.h.categoryRepo, s.h.userRepo, s.h.metrics)
	s.admin = principalFor(s.h.admin(s.T()))
	s.alice = principalFor(s.h.user(s.T()))
	s.bob = principalFor(s.h.user(s.T()))
	s.food = database.DefaultCategory(s.T(), s.h.db, "Food")
	s.salary = database.DefaultCategory(s.T(), s.h.db, "Salary")
	s.march = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func TestBudgetServiceSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}

func (s *BudgetServiceTestSuite) createBudget(p Principal, category *models.Category, month, amount string) *models.Budget {
	budget, err := s.service.Create(p, &dto.CreateBudgetRequest{
		CategoryID: category.ID,
		Month:      month,
		Amount:     decimal.RequireFromString(amount),
	})
	s.Require().NoError(err)
	return budget
}

func (s *BudgetServiceTestSuite) TestCreate_ComputesSpentFromExpenses() {
	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "40.10", s.march)
	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "19.95", s.march.AddDate(0, 0, 5))
	// outside the month, another user, and income are all ignored
	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "500.00", s.march.AddDate(0, 1, 0))
	database.CreateTestTransaction(s.T(), s.h.db, s.bob.UserID, s.food.ID, "500.00", s.march)

	budget := s.createBudget(s.alice, s.food, "2025-03", "50.00")

	s.Equal("60.05", budget.Spent.StringFixed(2))
	s.Equal("-10.05", budget.Remaining().StringFixed(2))
	s.True(budget.Overspent())
	s.Require().NotNil(budget.Category)
	s.Equal("Food", budget.Category.Name)
}

func (s *BudgetServiceTestSuite) TestCreate_IncomeCategoryNeverSpends() {
	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.salary.ID, "3000.00", s.march)

	budget := s.createBudget(s.alice, s.salary, "2025-03", "100.00")

	s.True(budget.Spent.IsZero())
	s.False(budget.Overspent())
}

func (s *BudgetServiceTestSuite) TestCreate_DuplicateMonth() {
	s.createBudget(s.alice, s.food, "2025-03", "50.00")

	_, err := s.service.Create(s.alice, &dto.CreateBudgetRequest{
		CategoryID: s.food.ID,
		Month:      "2025-03",
		Amount:     decimal.NewFromInt(75),
	})

	s.ErrorIs(err, ErrBudgetAlreadyExists)
	var conflictErr *ConflictError
	s.Require().True(errors.As(err, &conflictErr))
	s.Equal("month", conflictErr.Field)

	// same category in another month, or for another user, is fine
	s.createBudget(s.alice, s.food, "2025-04", "50.00")
	s.createBudget(s.bob, s.food, "2025-03", "50.00")
}

func (s *BudgetServiceTestSuite) TestCreate_InvisibleCategory() {
	bobs := database.CreateTestCategory(s.T(), s.h.db, "Comics", models.CategoryTypeExpense, &s.bob.UserID)

	_, err := s.service.Create(s.alice, &dto.CreateBudgetRequest{
		CategoryID: bobs.ID,
		Month:      "2025-03",
		Amount:     decimal.NewFromInt(10),
	})

	ve, ok := AsValidationError(err)
	s.Require().True(ok)
	s.Contains(ve.Fields, "category_id")
}

func (s *BudgetServiceTestSuite) TestCreate_AdminForUser() {
	budget, err := s.service.Create(s.admin, &dto.CreateBudgetRequest{
		CategoryID: s.food.ID,
		Month:      "2025-03",
		Amount:     decimal.NewFromInt(10),
		UserID:     &s.bob.UserID,
	})

	s.Require().NoError(err)
	s.Equal(s.bob.UserID, budget.UserID)
}

func (s *BudgetServiceTestSuite) TestUpdate_MoveToTakenMonth() {
	s.createBudget(s.alice, s.food, "2025-03", "50.00")
	april := s.createBudget(s.alice, s.food, "2025-04", "50.00")

	_, err := s.service.Update(s.alice, april, &dto.UpdateBudgetRequest{Month: ptr("2025-03")})
	s.ErrorIs(err, ErrBudgetAlreadyExists)
}

func (s *BudgetServiceTestSuite) TestUpdate_AmountRecomputesRemaining() {
	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "30.00", s.march)
	budget := s.createBudget(s.alice, s.food, "2025-03", "20.00")
	s.True(budget.Overspent())

	updated, err := s.service.Update(s.alice, budget, &dto.UpdateBudgetRequest{Amount: ptr(decimal.RequireFromString("45.555"))})

	s.Require().NoError(err)
	s.Equal("45.56", updated.Amount.StringFixed(2))
	s.Equal("15.56", updated.Remaining().StringFixed(2))
	s.False(updated.Overspent())
}

func (s *BudgetServiceTestSuite) TestGet_SpentTracksNewTransactions() {
	budget := s.createBudget(s.alice, s.food, "2025-03", "20.00")
	s.True(budget.Spent.IsZero())

	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "12.00", s.march)

	reloaded, err := s.service.Get(budget.ID)
	s.Require().NoError(err)
	s.Equal("12.00", reloaded.Spent.StringFixed(2))
}

func (s *BudgetServiceTestSuite) TestList_FillsSpentAcrossMonths() {
	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "5.00", s.march)
	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "7.00", s.march.AddDate(0, 1, 0))
	s.createBudget(s.alice, s.food, "2025-03", "20.00")
	s.createBudget(s.alice, s.food, "2025-04", "20.00")
	s.createBudget(s.bob, s.food, "2025-03", "20.00")

	page, err := s.service.List(s.alice, models.BudgetFilters{}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Require().Equal(int64(2), page.Total)

	spent := map[string]string{}
	for _, b := range page.Items {
		s.Equal(s.alice.UserID, b.UserID)
		spent[b.Month] = b.Spent.StringFixed(2)
	}
	s.Equal(map[string]string{"2025-03": "5.00", "2025-04": "7.00"}, spent)
}

func (s *BudgetServiceTestSuite) TestDelete() {
	budget := s.createBudget(s.alice, s.food, "2025-03", "20.00")

	s.Require().NoError(s.service.Delete(s.alice, budget))
	_, err := s.service.Get(budget.ID)
	s.ErrorIs(err, ErrBudgetNotFound)
}
