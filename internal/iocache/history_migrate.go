package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// migrationsTable is where golang-migrate tracks the schema version.
const migrationsTable = "schema_migrations"

//go:embed migrations
var migrationsFS embed.FS

// MigrateHistory runs database migrations for the history store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateHistory(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	var driverName, migrationsDir string
	switch backend {
	case schema.SQLiteBackend:
		driverName, migrationsDir = "sqlite", "sqlite"
		if connStr == "" {
			connStr = GetHistoryDBFilePath()
		}
	case schema.MySQLBackend:
		driverName, migrationsDir = "mysql", "mysql"
	case schema.PostgreSQLBackend:
		driverName, migrationsDir = "pgx", "postgres"
	default:
		return fmt.Errorf("unsupported backend: %s", backend)
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}

	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "qa4sm", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migration needed. Database is already at the latest version.")
		} else {
			newVersion, _, _ := m.Version()
			fmt.Printf("Successfully migrated from version %d to version %d\n", currentVersion, newVersion)
		}

	case targetVersion == 0:
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migration needed. Database is already at version 0")
		} else {
			fmt.Printf("Successfully rolled back from version %d to version 0\n", currentVersion)
		}

	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. Database is already at version %d\n", targetVersion)
		} else {
			fmt.Printf("Successfully migrated from version %d to version %d\n", currentVersion, targetVersion)
		}
	}

	return nil
}
