package services

import (
	"testing"
	"time"

	"budgetron/internal/database"
	"budgetron/internal/dto"
	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	h       *serviceHarness
	service TransactionServiceInterface
	admin   Principal
	alice   Principal
	bob     Principal
	food    *models.Category
	salary  *models.Category
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.h = newServiceHarness(s.T())
	s.service = NewTransactionService(s.h.transactionRepo, s.h.categoryRepo, s.h.userRepo, s.h.metrics)
	s.admin = principalFor(s.h.admin(s.T()))
	s.alice = principalFor(s.h.user(s.T()))
	s.bob = principalFor(s.h.user(s.T()))
	s.food = database.DefaultCategory(s.T(), s.h.db, "Food")
	s.salary = database.DefaultCategory(s.T(), s.h.db, "Salary")
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (s *TransactionServiceTestSuite) TestCreate_OwnTransaction() {
	txn, err := s.service.Create(s.alice, &dto.CreateTransactionRequest{
		CategoryID:  s.food.ID,
		Amount:      decimal.RequireFromString("12.345"),
		Description: "  weekly groceries ",
	})

	s.Require().NoError(err)
	s.Equal(s.alice.UserID, txn.UserID)
	s.Equal("12.35", txn.Amount.StringFixed(2))
	s.Equal("weekly groceries", txn.Description)
	s.Equal(models.CategoryTypeExpense, txn.Type())
	s.False(txn.Timestamp.IsZero())
	s.Equal(float64(1), testutil.ToFloat64(s.h.prom().recordChangesTotal.WithLabelValues("transaction", "create")))
}

func (s *TransactionServiceTestSuite) TestCreate_UserCannotTargetSomeoneElse() {
	_, err := s.service.Create(s.alice, &dto.CreateTransactionRequest{
		CategoryID:  s.food.ID,
		Amount:      decimal.NewFromInt(10),
		Description: "not mine",
		UserID:      &s.bob.UserID,
	})
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *TransactionServiceTestSuite) TestCreate_AdminTargetsUser() {
	txn, err := s.service.Create(s.admin, &dto.CreateTransactionRequest{
		CategoryID:  s.salary.ID,
		Amount:      decimal.NewFromInt(2500),
		Description: "monthly salary",
		UserID:      &s.bob.UserID,
	})

	s.Require().NoError(err)
	s.Equal(s.bob.UserID, txn.UserID)
	s.Equal(models.CategoryTypeIncome, txn.Type())
}

func (s *TransactionServiceTestSuite) TestCreate_AdminTargetsMissingUser() {
	missing := uuid.New()
	_, err := s.service.Create(s.admin, &dto.CreateTransactionRequest{
		CategoryID:  s.food.ID,
		Amount:      decimal.NewFromInt(5),
		Description: "ghost spend",
		UserID:      &missing,
	})

	ve, ok := AsValidationError(err)
	s.Require().True(ok)
	s.Contains(ve.Fields, "user_id")
}

func (s *TransactionServiceTestSuite) TestCreate_InvisibleCategory() {
	bobs := database.CreateTestCategory(s.T(), s.h.db, "Comics", models.CategoryTypeExpense, &s.bob.UserID)

	for _, id := range []uuid.UUID{bobs.ID, uuid.New()} {
		_, err := s.service.Create(s.alice, &dto.CreateTransactionRequest{
			CategoryID:  id,
			Amount:      decimal.NewFromInt(5),
			Description: "borrowed category",
		})
		ve, ok := AsValidationError(err)
		s.Require().True(ok)
		s.Contains(ve.Fields, "category_id")
	}
}

func (s *TransactionServiceTestSuite) TestUpdate_PartialFields() {
	txn := database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "10.00", time.Now())
	txn.Category = s.food

	updated, err := s.service.Update(s.alice, txn, &dto.UpdateTransactionRequest{
		CategoryID: &s.salary.ID,
		Amount:     ptr(decimal.RequireFromString("99.999")),
	})

	s.Require().NoError(err)
	s.Equal(s.salary.ID, updated.CategoryID)
	s.Equal("100.00", updated.Amount.StringFixed(2))
	s.Equal("test transaction 10.00", updated.Description)

	reloaded, err := s.service.Get(txn.ID)
	s.Require().NoError(err)
	s.Equal(models.CategoryTypeIncome, reloaded.Type())
}

func (s *TransactionServiceTestSuite) TestDelete() {
	txn := database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "10.00", time.Now())

	s.Require().NoError(s.service.Delete(s.alice, txn))
	_, err := s.service.Get(txn.ID)
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionServiceTestSuite) TestList_ScopedToOwnerAndNewestFirst() {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.food.ID, "1.00", base)
	database.CreateTestTransaction(s.T(), s.h.db, s.alice.UserID, s.salary.ID, "2.00", base.Add(time.Hour))
	database.CreateTestTransaction(s.T(), s.h.db, s.bob.UserID, s.food.ID, "3.00", base)

	page, err := s.service.List(s.alice, models.TransactionFilters{UserID: &s.bob.UserID}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)
	s.Equal("2.00", page.Items[0].Amount.StringFixed(2))

	page, err = s.service.List(s.alice, models.TransactionFilters{Type: models.CategoryTypeExpense}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	page, err = s.service.List(s.admin, models.TransactionFilters{}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(3), page.Total)
}
