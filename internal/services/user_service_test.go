package services

import (
	"errors"
	"testing"

	"budgetron/internal/database"
	"budgetron/internal/dto"
	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	h       *serviceHarness
	service UserServiceInterface
	admin   Principal
}

func (s *UserServiceTestSuite) SetupTest() {
	s.h = newServiceHarness(s.T())
	s.service = NewUserService(s.h.userRepo, s.h.roleRepo, s.h.passwords, s.h.audit, s.h.metrics, s.h.logger)
	s.admin = principalFor(s.h.admin(s.T()))
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) TestCreate_DefaultsToUserRole() {
	user, err := s.service.Create(s.admin, &dto.CreateUserRequest{
		Username: fakeUsername(),
		Email:    gofakeit.Email(),
		Password: fakePassword(),
	})

	s.Require().NoError(err)
	s.Equal([]string{models.RoleUser}, user.RoleNames())
	s.False(s.h.passwords.ComparePassword("wrong-password", user.PasswordHash))
	s.Equal(int64(1), s.h.auditCount(models.AuditActionCreate))
}

func (s *UserServiceTestSuite) TestCreate_WithAdminRole() {
	user, err := s.service.Create(s.admin, &dto.CreateUserRequest{
		Username: fakeUsername(),
		Email:    gofakeit.Email(),
		Password: fakePassword(),
		Roles:    []string{models.RoleAdmin, models.RoleUser},
	})

	s.Require().NoError(err)
	s.True(user.IsAdmin())
}

func (s *UserServiceTestSuite) TestCreate_UnknownRole() {
	_, err := s.service.Create(s.admin, &dto.CreateUserRequest{
		Username: fakeUsername(),
		Email:    gofakeit.Email(),
		Password: fakePassword(),
		Roles:    []string{"auditor"},
	})

	ve, ok := AsValidationError(err)
	s.Require().True(ok)
	s.Contains(ve.Fields, "roles")
}

func (s *UserServiceTestSuite) TestCreate_DuplicateEmail() {
	existing := s.h.user(s.T())

	_, err := s.service.Create(s.admin, &dto.CreateUserRequest{
		Username: fakeUsername(),
		Email:    existing.Email,
		Password: fakePassword(),
	})

	s.ErrorIs(err, ErrUserAlreadyExists)
	var conflictErr *ConflictError
	s.Require().True(errors.As(err, &conflictErr))
	s.Equal("email", conflictErr.Field)
}

func (s *UserServiceTestSuite) TestUpdate_ReplacesRoles() {
	target := s.h.user(s.T())
	roles := []string{models.RoleAdmin}

	updated, err := s.service.Update(s.admin, target.ID, &dto.UpdateUserRequest{Roles: &roles})
	s.Require().NoError(err)
	s.Equal([]string{models.RoleAdmin}, updated.RoleNames())

	reloaded, err := s.service.Get(target.ID)
	s.Require().NoError(err)
	s.True(reloaded.IsAdmin())
	s.False(reloaded.HasRole(models.RoleUser))
}

func (s *UserServiceTestSuite) TestUpdate_UnknownRoleLeavesUserUntouched() {
	target := s.h.user(s.T())
	username := fakeUsername()
	roles := []string{"ghost"}

	_, err := s.service.Update(s.admin, target.ID, &dto.UpdateUserRequest{Username: &username, Roles: &roles})
	_, ok := AsValidationError(err)
	s.Require().True(ok)

	reloaded, err := s.service.Get(target.ID)
	s.Require().NoError(err)
	s.Equal(target.Username, reloaded.Username)
}

func (s *UserServiceTestSuite) TestUpdate_UsernameTaken() {
	first := s.h.user(s.T())
	second := s.h.user(s.T())

	_, err := s.service.Update(s.admin, second.ID, &dto.UpdateUserRequest{Username: &first.Username})

	var conflictErr *ConflictError
	s.Require().True(errors.As(err, &conflictErr))
	s.Equal("username", conflictErr.Field)
}

func (s *UserServiceTestSuite) TestUpdate_NotFound() {
	username := fakeUsername()
	_, err := s.service.Update(s.admin, uuid.New(), &dto.UpdateUserRequest{Username: &username})
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserServiceTestSuite) TestDelete_CascadesOwnedRecords() {
	target := s.h.user(s.T())
	category := database.CreateTestCategory(s.T(), s.h.db, "Coffee", models.CategoryTypeExpense, &target.ID)
	database.CreateTestTransaction(s.T(), s.h.db, target.ID, category.ID, "4.50", gofakeit.Date())

	s.Require().NoError(s.service.Delete(s.admin, target.ID))

	_, err := s.service.Get(target.ID)
	s.ErrorIs(err, ErrUserNotFound)

	var remaining int64
	s.h.db.Model(&models.Transaction{}).Where("user_id = ?", target.ID).Count(&remaining)
	s.Zero(remaining)
}

func (s *UserServiceTestSuite) TestDelete_NotFound() {
	s.ErrorIs(s.service.Delete(s.admin, uuid.New()), ErrUserNotFound)
}

func (s *UserServiceTestSuite) TestList_RoleFilterAndPaging() {
	s.h.user(s.T())
	s.h.user(s.T())

	page, err := s.service.List(models.UserFilters{Role: models.RoleAdmin}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	page, err = s.service.List(models.UserFilters{}, pagination.NewParams(1, 2))
	s.Require().NoError(err)
	s.Equal(int64(3), page.Total)
	s.Len(page.Items, 2)
	s.True(page.HasNext)
}
