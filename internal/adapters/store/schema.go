package store

import (
	"database/sql"
	"errors"
	"fmt"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS session_kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS address_cache (
		coord_key TEXT PRIMARY KEY,
		address TEXT NOT NULL
	);
	`,
}

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS address_cache (
		coord_key TEXT PRIMARY KEY,
		address TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`,
}

// InitSqliteSchema creates the local session and address cache tables.
func InitSqliteSchema(db *sql.DB) error {
	return initSchema(db, sqliteSchema)
}

// InitPostgresSchema creates the shared address cache table.
func InitPostgresSchema(db *sql.DB) error {
	return initSchema(db, postgresSchema)
}

func initSchema(db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
