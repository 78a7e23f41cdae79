// Package database stores the learner's progress record and attempt
// history in SQLite or PostgreSQL.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported DB_TYPE values
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMemory   = "memory"
)

// Connect opens the database named by dbType and creates the schema.
// dsn is a file path for sqlite and a connection URL for postgres; it is
// ignored for memory.
func Connect(dbType, dsn string) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch dbType {
	case TypeSQLite, "":
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err = openSQLite(dsn)
	case TypeMemory:
		db, err = openSQLite(":memory:")
	case TypePostgres:
		db, err = sqlx.Connect("postgres", dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func openSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers, and every connection to
	// :memory: would open its own empty database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		idColumn = "id SERIAL PRIMARY KEY"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_store (
			storage_key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS attempt_history (
			` + idColumn + `,
			session_id TEXT NOT NULL UNIQUE,
			lesson_id TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			correct_answers INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			score INTEGER NOT NULL,
			review BOOLEAN NOT NULL DEFAULT FALSE,
			played_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create attempt_history table: %w", err)
	}

	return nil
}
