package infra

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// OpenDB opens the configured store, verifies the connection and applies the schema.
func OpenDB(ctx context.Context, cfg *Config) (*sql.DB, Dialect, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("config is required")
	}

	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)
	switch cfg.DBDriver {
	case DriverSQLite:
		db, err = OpenSQLite(cfg.DBPath)
		dialect = DialectSQLite
	case DriverPgx:
		db, err = sql.Open(DriverPgx, cfg.DatabaseURL)
		if err == nil {
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(2)
			db.SetConnMaxLifetime(time.Hour)
			db.SetConnMaxIdleTime(30 * time.Minute)
		}
		dialect = DialectPostgres
	default:
		return nil, "", fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("connect database: %w", err)
	}
	if err := ApplySchema(ctx, db); err != nil {
		db.Close()
		return nil, "", err
	}
	return db, dialect, nil
}

// OpenSQLite opens a file-backed SQLite database with foreign keys, WAL
// journaling and immediate write transactions.
func OpenSQLite(path string) (*sql.DB, error) {
	return openSQLite(path, "immediate", false)
}

// OpenSQLiteReader opens a query-only handle on an existing database whose
// transactions are deferred, so they read a WAL snapshot without the write lock.
func OpenSQLiteReader(path string) (*sql.DB, error) {
	return openSQLite(path, "deferred", true)
}

func openSQLite(path, txlock string, queryOnly bool) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	params := url.Values{}
	params.Set("_fk", "1")
	params.Set("_busy_timeout", "5000")
	params.Set("_txlock", txlock)
	if queryOnly {
		// WAL mode is persistent; the writer handle has already set it.
		params.Set("_query_only", "1")
	} else {
		params.Set("_journal_mode", "WAL")
	}

	db, err := sql.Open(DriverSQLite, "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	// One writer at a time; readers share the remaining connections under WAL.
	db.SetMaxOpenConns(4)
	return db, nil
}
