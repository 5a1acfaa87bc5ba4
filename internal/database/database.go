package database

import (
	"fmt"
	"log/slog"
	"time"

	"budgetron/internal/config"
	"budgetron/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func New(cfg *config.DatabaseConfig) (*DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector(cfg), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// single writer; sqlite serializes writes anyway
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

// dialector picks the gorm driver. SQLite goes through the pure-Go modernc
// driver, registered under the "sqlite" name.
func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DriverSQLite {
		return sqlite.New(sqlite.Config{
			DriverName: "sqlite",
			DSN:        fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", cfg.DSN()),
		})
	}
	return postgres.Open(cfg.DSN())
}

// AllModels lists every persisted model in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Role{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.Report{},
		&models.RefreshToken{},
		&models.BlacklistedToken{},
		&models.AuditLog{},
	}
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(AllModels()...)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateIndexes adds the indexes gorm tags cannot express. Both statements
// are valid on postgres and sqlite.
func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_default_name ON categories (LOWER(name)) WHERE user_id IS NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_user_name ON categories (user_id, LOWER(name)) WHERE user_id IS NOT NULL",
		"CREATE INDEX IF NOT EXISTS idx_transactions_user_timestamp ON transactions (user_id, timestamp DESC)",
	}

	var firstErr error
	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			slog.Warn("failed to create index", "query", query, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// CleanupExpiredTokens purges refresh tokens and blacklist entries past their expiry.
func (db *DB) CleanupExpiredTokens() (int64, error) {
	now := time.Now().UTC()

	refresh := db.DB.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	if refresh.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired refresh tokens: %w", refresh.Error)
	}

	blacklisted := db.DB.Where("expires_at < ?", now).Delete(&models.BlacklistedToken{})
	if blacklisted.Error != nil {
		return refresh.RowsAffected, fmt.Errorf("failed to cleanup expired blacklisted tokens: %w", blacklisted.Error)
	}

	return refresh.RowsAffected + blacklisted.RowsAffected, nil
}

// Initialize connects, brings the schema up to date and seeds reference data.
// SQL migrations are the primary path; gorm AutoMigrate is the fallback when
// the migration runner cannot run.
func Initialize(cfg *config.Config) (*DB, error) {
	db, err := New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := RunMigrations(&cfg.Database); err != nil {
			slog.Warn("migration runner failed, falling back to gorm AutoMigrate", "error", err)

			if err := db.AutoMigrate(); err != nil {
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			if err := db.CreateIndexes(); err != nil {
				slog.Warn("failed to create some indexes", "error", err)
			}
		}
	}

	if cfg.Database.SeedOnStart {
		if err := Seed(db.DB); err != nil {
			return nil, fmt.Errorf("failed to seed reference data: %w", err)
		}
	}

	slog.Info("database initialized", "driver", cfg.Database.Driver)
	return db, nil
}
