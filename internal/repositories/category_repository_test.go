package repositories

import (
	"testing"
	"time"

	"budgetron/internal/database"
	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestCategoryRepository(t *testing.T) {
	suite.Run(t, new(CategoryRepositorySuite))
}

type CategoryRepositorySuite struct {
	suite.Suite
	db    *database.DB
	repo  CategoryRepositoryInterface
	owner *models.User
	other *models.User
}

func (s *CategoryRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewCategoryRepository(s.db.DB)
	s.owner = database.CreateTestUser(s.T(), s.db, "owner")
	s.other = database.CreateTestUser(s.T(), s.db, "other")
}

func (s *CategoryRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *CategoryRepositorySuite) TestCategoryRepository_CreateSetsDefaultFlag() {
	personal := &models.Category{Name: "Pets", Type: models.CategoryTypeExpense, UserID: &s.owner.ID}
	s.Require().NoError(s.repo.Create(personal))
	s.False(personal.IsDefault)

	global := &models.Category{Name: "Travel", Type: models.CategoryTypeExpense}
	s.Require().NoError(s.repo.Create(global))
	s.True(global.IsDefault)
	s.Nil(global.UserID)
}

func (s *CategoryRepositorySuite) TestCategoryRepository_ListVisibility() {
	database.CreateTestCategory(s.T(), s.db, "Pets", models.CategoryTypeExpense, &s.owner.ID)
	database.CreateTestCategory(s.T(), s.db, "Side Gig", models.CategoryTypeIncome, &s.other.ID)

	all, total, err := s.repo.List(models.CategoryFilters{}, pagination.NewParams(1, 100))
	s.Require().NoError(err)
	s.Equal(int64(23), total)
	s.Len(all, 23)

	visible, total, err := s.repo.List(models.CategoryFilters{VisibleTo: &s.owner.ID}, pagination.NewParams(1, 100))
	s.Require().NoError(err)
	s.Equal(int64(22), total)
	for i := 1; i < len(visible); i++ {
		s.LessOrEqual(visible[i-1].Name, visible[i].Name)
	}
	for _, c := range visible {
		s.True(c.IsVisibleTo(s.owner.ID))
	}

	personal, total, err := s.repo.List(models.CategoryFilters{VisibleTo: &s.owner.ID, Scope: models.CategoryScopePersonal}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Pets", personal[0].Name)

	defaults, total, err := s.repo.List(models.CategoryFilters{Scope: models.CategoryScopeDefault, Type: models.CategoryTypeIncome}, pagination.NewParams(1, 100))
	s.Require().NoError(err)
	s.Equal(int64(10), total)
	for _, c := range defaults {
		s.True(c.IsDefault)
		s.Equal(models.CategoryTypeIncome, c.Type)
	}

	found, total, err := s.repo.List(models.CategoryFilters{VisibleTo: &s.owner.ID, Search: "pet"}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Pets", found[0].Name)
}

func (s *CategoryRepositorySuite) TestCategoryRepository_NameExistsInScope() {
	database.CreateTestCategory(s.T(), s.db, "Pets", models.CategoryTypeExpense, &s.owner.ID)
	groceries := database.DefaultCategory(s.T(), s.db, "Groceries")

	tests := []struct {
		name     string
		catName  string
		owner    *uuid.UUID
		exclude  *uuid.UUID
		expected bool
	}{
		{"personal duplicate of own", "pets", &s.owner.ID, nil, true},
		{"personal duplicate of default", "GROCERIES", &s.owner.ID, nil, true},
		{"other user may reuse a personal name", "Pets", &s.other.ID, nil, false},
		{"default duplicate of default", "groceries", nil, nil, true},
		{"default does not clash with personal", "Pets", nil, nil, false},
		{"excluding self", "Groceries", nil, &groceries.ID, false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			exists, err := s.repo.NameExistsInScope(tt.catName, tt.owner, tt.exclude)
			s.NoError(err)
			s.Equal(tt.expected, exists)
		})
	}
}

func (s *CategoryRepositorySuite) TestCategoryRepository_UniqueBackstop() {
	database.CreateTestCategory(s.T(), s.db, "Pets", models.CategoryTypeExpense, &s.owner.ID)

	dup := &models.Category{Name: "PETS", Type: models.CategoryTypeExpense, UserID: &s.owner.ID}
	s.ErrorIs(s.repo.Create(dup), ErrCategoryAlreadyExists)
}

func (s *CategoryRepositorySuite) TestCategoryRepository_UpdateAndDelete() {
	category := database.CreateTestCategory(s.T(), s.db, "Pets", models.CategoryTypeExpense, &s.owner.ID)

	category.Name = "Animals"
	s.NoError(s.repo.Update(category))

	found, err := s.repo.GetByID(category.ID)
	s.Require().NoError(err)
	s.Equal("Animals", found.Name)

	s.NoError(s.repo.Delete(category.ID))
	s.Equal(ErrCategoryNotFound, s.repo.Delete(category.ID))

	_, err = s.repo.GetByID(category.ID)
	s.Equal(ErrCategoryNotFound, err)
}

func (s *CategoryRepositorySuite) TestCategoryRepository_InUse() {
	category := database.CreateTestCategory(s.T(), s.db, "Pets", models.CategoryTypeExpense, &s.owner.ID)
	database.CreateTestTransaction(s.T(), s.db, s.owner.ID, category.ID, "9.99", time.Now())
	database.CreateTestBudget(s.T(), s.db, s.owner.ID, category.ID, "2024-05", "50")

	refs, err := s.repo.CountReferences(category.ID)
	s.NoError(err)
	s.Equal(int64(2), refs)

	s.ErrorIs(s.repo.Delete(category.ID), ErrCategoryInUse)
}
