package store

import (
	"context"
	"database/sql"
	"delivery-tracker/internal/ports"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the SessionStore port.
type SqliteSessionStore struct{ DB *sql.DB }

var _ ports.SessionStore = (*SqliteSessionStore)(nil)

func NewSqliteSessionStore(db *sql.DB) *SqliteSessionStore {
	return &SqliteSessionStore{DB: db}
}

func (s *SqliteSessionStore) Get(ctx context.Context, key string) (string, error) {
	if s.DB == nil {
		return "", errors.New("sqlite session store: DB is nil")
	}

	var v string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM session_kv WHERE key = ?;`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ports.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session get %q: %w", key, err)
	}
	return v, nil
}

func (s *SqliteSessionStore) Set(ctx context.Context, key, value string) error {
	if s.DB == nil {
		return errors.New("sqlite session store: DB is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO session_kv (
		key,
		value,
		updated_at
	)
	VALUES (?, ?, CURRENT_TIMESTAMP);
	`, key, value)
	if err != nil {
		return fmt.Errorf("session set %q: %w", key, err)
	}
	return nil
}

func (s *SqliteSessionStore) Delete(ctx context.Context, key string) error {
	if s.DB == nil {
		return errors.New("sqlite session store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM session_kv WHERE key = ?;`, key); err != nil {
		return fmt.Errorf("session delete %q: %w", key, err)
	}
	return nil
}
