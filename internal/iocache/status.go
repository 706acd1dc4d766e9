package iocache

import (
	"fmt"
	"maps"
	"slices"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// PrintHistoryStatus prints history store status information.
func PrintHistoryStatus(status schema.HistoryStatus, target string) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	if target != "" {
		fmt.Printf("Target: %s\n", target)
	}
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Loads: %d\n", status.TotalLoads)
	if status.TotalLoads > 0 {
		fmt.Printf("Last Load ID: %d\n", status.LastLoadID)
		fmt.Printf("Last Load: %s\n", status.LastLoadTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Load: %s\n", status.OldestLoadTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Total Variables Recorded: %d\n", status.TotalVariables)
	}
	if status.SchemaVersion > 0 {
		fmt.Printf("Schema Version: %d (dirty: %t)\n", status.SchemaVersion, status.SchemaDirty)
	}
	fmt.Println("Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// DescribeTarget returns where the history lives without any credentials.
func DescribeTarget(backend schema.DatabaseBackend, connStr string) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			return GetHistoryDBFilePath(), nil
		}
		return connStr, nil

	case schema.MySQLBackend:
		cfg, err := gomysql.ParseDSN(connStr)
		if err != nil {
			return "", fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		return fmt.Sprintf("%s/%s", cfg.Addr, cfg.DBName), nil

	case schema.PostgreSQLBackend:
		cfg, err := pgx.ParseConfig(connStr)
		if err != nil {
			return "", fmt.Errorf("invalid PostgreSQL connection string: %w", err)
		}
		return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database), nil

	case schema.NoneBackend:
		return "", nil

	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}
