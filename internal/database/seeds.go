package database

import (
	"errors"
	"fmt"
	"log/slog"

	"budgetron/internal/models"

	"gorm.io/gorm"
)

// DefaultRoles are the roles every installation starts with.
var DefaultRoles = []string{models.RoleAdmin, models.RoleUser}

type defaultCategory struct {
	Name string
	Type string
}

// DefaultCategories are the shared categories visible to every user.
var DefaultCategories = []defaultCategory{
	{"Food", models.CategoryTypeExpense},
	{"Rent", models.CategoryTypeExpense},
	{"Utilities", models.CategoryTypeExpense},
	{"Transport", models.CategoryTypeExpense},
	{"Health", models.CategoryTypeExpense},
	{"Entertainment", models.CategoryTypeExpense},
	{"Groceries", models.CategoryTypeExpense},
	{"Insurance", models.CategoryTypeExpense},
	{"Education", models.CategoryTypeExpense},
	{"Debt Payment", models.CategoryTypeExpense},
	{"Miscellaneous", models.CategoryTypeExpense},

	{"Salary", models.CategoryTypeIncome},
	{"Business", models.CategoryTypeIncome},
	{"Freelance", models.CategoryTypeIncome},
	{"Investments", models.CategoryTypeIncome},
	{"Interest", models.CategoryTypeIncome},
	{"Dividends", models.CategoryTypeIncome},
	{"Gift", models.CategoryTypeIncome},
	{"Rental Income", models.CategoryTypeIncome},
	{"Refunds", models.CategoryTypeIncome},
	{"Other Income", models.CategoryTypeIncome},
}

// Seed inserts missing roles and default categories. Existing rows are left
// untouched, so it is safe to run on every start.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		roles, err := seedRoles(tx)
		if err != nil {
			return err
		}
		categories, err := seedDefaultCategories(tx)
		if err != nil {
			return err
		}
		if roles+categories > 0 {
			slog.Info("seeded reference data", "roles", roles, "categories", categories)
		}
		return nil
	})
}

func seedRoles(tx *gorm.DB) (int, error) {
	created := 0
	for _, name := range DefaultRoles {
		var role models.Role
		err := tx.Where("name = ?", name).First(&role).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("failed to look up role %s: %w", name, err)
		}

		if err := tx.Create(&models.Role{Name: name}).Error; err != nil {
			return created, fmt.Errorf("failed to create role %s: %w", name, err)
		}
		created++
	}
	return created, nil
}

func seedDefaultCategories(tx *gorm.DB) (int, error) {
	created := 0
	for _, dc := range DefaultCategories {
		var count int64
		if err := tx.Model(&models.Category{}).
			Where("user_id IS NULL AND LOWER(name) = LOWER(?)", dc.Name).
			Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to look up category %s: %w", dc.Name, err)
		}
		if count > 0 {
			continue
		}

		category := &models.Category{Name: dc.Name, Type: dc.Type}
		if err := tx.Create(category).Error; err != nil {
			return created, fmt.Errorf("failed to create category %s: %w", dc.Name, err)
		}
		created++
	}
	return created, nil
}

// CreateAdminUser creates a user holding both the admin and user roles.
// An existing account with the same email is promoted instead.
func CreateAdminUser(db *gorm.DB, username, email, passwordHash string) (*models.User, bool, error) {
	var roles []models.Role
	if err := db.Where("name IN ?", DefaultRoles).Find(&roles).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load roles: %w", err)
	}
	if len(roles) != len(DefaultRoles) {
		return nil, false, fmt.Errorf("reference roles missing; run the seed command first")
	}

	var existing models.User
	err := db.Preload("Roles").Where("email = ?", email).First(&existing).Error
	if err == nil {
		if err := db.Model(&existing).Association("Roles").Append(roles); err != nil {
			return nil, false, fmt.Errorf("failed to promote user: %w", err)
		}
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        roles,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create admin user: %w", err)
	}

	return user, true, nil
}
