package cache

import (
	"context"
	"database/sql"
	"delivery-tracker/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
)

// SQLAddressCache is a Postgres-backed cache mapping coordinate keys to
// addresses, shared by every driver device pointed at the same database.
type SQLAddressCache struct {
	DB *sql.DB
}

func NewSQLAddressCache(db *sql.DB) *SQLAddressCache {
	return &SQLAddressCache{DB: db}
}

func (s *SQLAddressCache) GetMany(ctx context.Context, keys []string) (_ map[string]string, err error) {
	defer obs.Time(ctx, "address.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("address cache: db is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]string{}, nil
	}

	q := `
	SELECT coord_key, address
	FROM address_cache
	WHERE coord_key = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get address cache: query address_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(uniq))
	for rows.Next() {
		var key, addr string
		if err := rows.Scan(&key, &addr); err != nil {
			return nil, fmt.Errorf("get address cache: scan rows: %w", err)
		}
		out[key] = addr
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get address cache: row iteration: %w", err)
	}

	return out, nil
}

func (s *SQLAddressCache) PutMany(ctx context.Context, addresses map[string]string) (err error) {
	defer obs.Time(ctx, "address.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("address cache: db is nil")
	}

	if len(addresses) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert address cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO address_cache (coord_key, address)
	VALUES ($1, $2)
	ON CONFLICT (coord_key) DO UPDATE
	SET address = EXCLUDED.address;
	`)
	if err != nil {
		return fmt.Errorf("insert address cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for key, addr := range addresses {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("insert address cache: empty coordinate key")
		}

		if _, err := stmt.ExecContext(ctx, key, addr); err != nil {
			return fmt.Errorf("insert address cache coord=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert address cache commit: %w", err)
	}

	return nil
}
