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

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

type UserRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     UserRepositoryInterface
	roleRepo RoleRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
	s.roleRepo = NewRoleRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserRepositorySuite) newUser(username string, roleNames ...string) *models.User {
	roles, err := s.roleRepo.GetByNames(roleNames)
	s.Require().NoError(err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed_password",
		Roles:        roles,
	}
	s.Require().NoError(s.repo.Create(user))
	return user
}

func (s *UserRepositorySuite) TestUserRepository_CreateWithRoles() {
	user := s.newUser("alice", models.RoleUser)
	s.NotEqual(uuid.Nil, user.ID)
	s.NotZero(user.CreatedAt)

	found, err := s.repo.GetByID(user.ID)
	s.Require().NoError(err)
	s.Equal("alice", found.Username)
	s.Equal([]string{models.RoleUser}, found.RoleNames())
	s.False(found.IsAdmin())
}

func (s *UserRepositorySuite) TestUserRepository_CreateDuplicate() {
	s.newUser("alice", models.RoleUser)

	dup := &models.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"}
	s.ErrorIs(s.repo.Create(dup), ErrUserAlreadyExists)

	dup = &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}
	s.ErrorIs(s.repo.Create(dup), ErrUserAlreadyExists)

	var count int64
	s.Require().NoError(s.db.Model(&models.User{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *UserRepositorySuite) TestUserRepository_Lookups() {
	user := s.newUser("bob", models.RoleAdmin, models.RoleUser)

	byEmail, err := s.repo.GetByEmail("BOB@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)
	s.True(byEmail.IsAdmin())

	byName, err := s.repo.GetByUsername("bob")
	s.Require().NoError(err)
	s.Equal(user.ID, byName.ID)

	_, err = s.repo.GetByEmail("nobody@example.com")
	s.Equal(ErrUserNotFound, err)

	_, err = s.repo.GetByID(uuid.New())
	s.Equal(ErrUserNotFound, err)
}

func (s *UserRepositorySuite) TestUserRepository_Exists() {
	user := s.newUser("carol", models.RoleUser)

	exists, err := s.repo.ExistsByUsername("carol", nil)
	s.NoError(err)
	s.True(exists)

	exists, err = s.repo.ExistsByUsername("carol", &user.ID)
	s.NoError(err)
	s.False(exists)

	exists, err = s.repo.ExistsByEmail("Carol@Example.com", nil)
	s.NoError(err)
	s.True(exists)
}

func (s *UserRepositorySuite) TestUserRepository_ListFilters() {
	s.newUser("dave", models.RoleUser)
	time.Sleep(2 * time.Millisecond)
	s.newUser("erin", models.RoleAdmin)
	time.Sleep(2 * time.Millisecond)
	s.newUser("daisy", models.RoleUser)

	users, total, err := s.repo.List(models.UserFilters{}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Equal("daisy", users[0].Username)
	s.Equal("dave", users[2].Username)
	s.NotEmpty(users[0].Roles)

	users, total, err = s.repo.List(models.UserFilters{Search: "DA"}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(users, 2)

	users, total, err = s.repo.List(models.UserFilters{Role: models.RoleAdmin}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("erin", users[0].Username)

	users, total, err = s.repo.List(models.UserFilters{}, pagination.NewParams(3, 2))
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Empty(users)
}

func (s *UserRepositorySuite) TestUserRepository_UpdateAndRoles() {
	user := s.newUser("frank", models.RoleUser)
	other := s.newUser("grace", models.RoleUser)

	user.Email = "frank@new.example.com"
	s.NoError(s.repo.Update(user))

	user.Username = other.Username
	s.ErrorIs(s.repo.Update(user), ErrUserAlreadyExists)

	admin, err := s.roleRepo.GetByName(models.RoleAdmin)
	s.Require().NoError(err)
	s.NoError(s.repo.ReplaceRoles(user, []models.Role{*admin}))

	found, err := s.repo.GetByID(user.ID)
	s.Require().NoError(err)
	s.Equal("frank", found.Username)
	s.Equal("frank@new.example.com", found.Email)
	s.Equal([]string{models.RoleAdmin}, found.RoleNames())
}

func (s *UserRepositorySuite) TestUserRepository_UpdateLastLogin() {
	user := s.newUser("heidi", models.RoleUser)
	at := time.Now().UTC().Truncate(time.Second)

	s.NoError(s.repo.UpdateLastLogin(user.ID, at))

	found, err := s.repo.GetByID(user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.LastLoginAt)
	s.True(at.Equal(*found.LastLoginAt))

	s.Equal(ErrUserNotFound, s.repo.UpdateLastLogin(uuid.New(), at))
}

func (s *UserRepositorySuite) TestUserRepository_DeleteRemovesOwnedData() {
	user := s.newUser("ivan", models.RoleUser)
	category := database.CreateTestCategory(s.T(), s.db, "Hobbies", models.CategoryTypeExpense, &user.ID)
	database.CreateTestTransaction(s.T(), s.db, user.ID, category.ID, "12.00", time.Now())
	database.CreateTestBudget(s.T(), s.db, user.ID, category.ID, "2024-01", "100.00")

	s.NoError(s.repo.Delete(user.ID))

	var count int64
	s.Require().NoError(s.db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	s.Zero(count)
	s.Require().NoError(s.db.Model(&models.Category{}).Where("user_id = ?", user.ID).Count(&count).Error)
	s.Zero(count)
	s.Require().NoError(s.db.Table("user_roles").Where("user_id = ?", user.ID).Count(&count).Error)
	s.Zero(count)

	s.Equal(ErrUserNotFound, s.repo.Delete(user.ID))
}
