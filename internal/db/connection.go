package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Open maps a config provider name to its registered driver and opens
// a pinged connection with conservative pool limits.
func Open(provider, url string) (*sql.DB, error) {
	var driverName string
	switch provider {
	case "mysql":
		driverName = "mysql"
	case "postgresql", "postgres":
		driverName = "pgx"
	case "sqlite", "sqlite3":
		driverName = "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", provider)
	}

	db, err := sql.Open(driverName, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// DriverName reports the sql driver a provider resolves to.
func DriverName(provider string) string {
	switch provider {
	case "postgresql", "postgres":
		return "pgx"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return "mysql"
	}
}
