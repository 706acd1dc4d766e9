package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &HistoryStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetHistoryDBFilePath returns the path to the SQLite DB file for the load history.
func GetHistoryDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// InitStores initializes the global manager with the history store.
// An empty backend leaves load tracking disabled.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewHistoryStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize history store: %w", err)
			return
		}

		Manager.Lock()
		Manager.history = store
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearHistory clears the load history for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the history tables.
// For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTables("mysql", backend, connStr)

	case schema.PostgreSQLBackend:
		return clearSQLTables("pgx", backend, connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops every history table.
func clearSQLTables(driverName string, backend schema.DatabaseBackend, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range append(historyTables, migrationsTable) {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

// quoteTableName quotes an identifier for the backend's SQL dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}
