package database

import (
	"fmt"
	"testing"
	"time"

	"budgetron/internal/config"
	"budgetron/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated in-memory sqlite database with the full
// schema and seeded reference data.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// every pooled connection would otherwise get its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			Driver:         config.DriverSQLite,
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := testDB.CreateIndexes(); err != nil {
		t.Fatalf("failed to create test indexes: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return testDB
}

func roleByName(t *testing.T, db *DB, name string) models.Role {
	t.Helper()

	var role models.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		t.Fatalf("failed to load role %s: %v", name, err)
	}
	return role
}

// CreateTestUser creates a user with the user role.
func CreateTestUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed_password",
		Roles:        []models.Role{roleByName(t, db, models.RoleUser)},
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestAdminUser creates a user holding the admin and user roles.
func CreateTestAdminUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed_password",
		Roles: []models.Role{
			roleByName(t, db, models.RoleAdmin),
			roleByName(t, db, models.RoleUser),
		},
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test admin user: %v", err)
	}

	return user
}

// CreateTestCategory creates a personal category, or a default one when owner is nil.
func CreateTestCategory(t *testing.T, db *DB, name, categoryType string, owner *uuid.UUID) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Type: categoryType, UserID: owner}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// DefaultCategory loads a seeded default category by name.
func DefaultCategory(t *testing.T, db *DB, name string) *models.Category {
	t.Helper()

	var category models.Category
	if err := db.Where("user_id IS NULL AND name = ?", name).First(&category).Error; err != nil {
		t.Fatalf("failed to load default category %s: %v", name, err)
	}
	return &category
}

func CreateTestTransaction(t *testing.T, db *DB, userID, categoryID uuid.UUID, amount string, at time.Time) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      decimal.RequireFromString(amount),
		Description: fmt.Sprintf("test transaction %s", amount),
		Timestamp:   at.UTC(),
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

func CreateTestBudget(t *testing.T, db *DB, userID, categoryID uuid.UUID, month, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Month:      month,
		Amount:     decimal.RequireFromString(amount),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CleanupTestDB removes user data, keeping seeded roles and default categories.
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	statements := []string{
		"DELETE FROM audit_logs",
		"DELETE FROM blacklisted_tokens",
		"DELETE FROM refresh_tokens",
		"DELETE FROM reports",
		"DELETE FROM budgets",
		"DELETE FROM transactions",
		"DELETE FROM categories WHERE user_id IS NOT NULL",
		"DELETE FROM user_roles",
		"DELETE FROM users",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Logf("cleanup statement failed %q: %v", stmt, err)
		}
	}
}
