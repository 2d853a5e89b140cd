package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a SessionStore for missing keys.
var ErrNotFound = errors.New("key not found")

// SessionStore is a local key-value store that survives restarts.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
