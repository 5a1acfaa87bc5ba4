package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budgetron/internal/config"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// MigrationRunner applies the embedded SQL migrations for one driver.
type MigrationRunner struct {
	db             *sql.DB
	driver         string
	migrationsPath string
}

// NewMigrationRunner creates a runner over a dedicated connection; golang-migrate
// closes the connection when the runner is closed.
func NewMigrationRunner(db *sql.DB, driver string) *MigrationRunner {
	return &MigrationRunner{
		db:             db,
		driver:         driver,
		migrationsPath: "migrations/" + driver,
	}
}

// WaitForDatabase waits for the database to be ready
func (mr *MigrationRunner) WaitForDatabase() error {
	for i := 0; i < maxRetries; i++ {
		err := mr.db.Ping()
		if err == nil {
			return nil
		}

		slog.Info("database not ready", "attempt", i+1, "max_attempts", maxRetries, "error", err)
		time.Sleep(retryInterval)
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations %s: %w", mr.migrationsPath, err)
	}

	var driver migratedb.Driver
	switch mr.driver {
	case config.DriverPostgres:
		driver, err = migratepg.WithInstance(mr.db, &migratepg.Config{})
	case config.DriverSQLite:
		driver, err = migratesqlite.WithInstance(mr.db, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported migration driver %q", mr.driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migration driver: %w", mr.driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, mr.driver, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// RunMigrations executes all pending migrations
func (mr *MigrationRunner) RunMigrations() error {
	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		slog.Warn("database is in dirty migration state, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("no new migrations to apply", "version", version)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}
	slog.Info("applied migrations", "version", newVersion)
	return nil
}

// GetMigrationStatus returns the current migration status
func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// OpenMigrationDB opens a connection reserved for the migration runner.
func OpenMigrationDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sql.Open("sqlite", cfg.DSN())
	case config.DriverPostgres:
		return sql.Open("postgres", cfg.MigrationURL())
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// RunMigrations waits for the database and applies pending migrations on a
// dedicated connection.
func RunMigrations(cfg *config.DatabaseConfig) error {
	sqlDB, err := OpenMigrationDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	runner := NewMigrationRunner(sqlDB, cfg.Driver)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	return nil
}
