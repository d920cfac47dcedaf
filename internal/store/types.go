package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
)

// Storage is the shared counter/cache backend. Incr starts the expiry window on
// the first hit of a key so a fixed-window counter needs no extra bookkeeping.
type Storage interface {
	Get(ctx context.Context, key string, val any) error
	Set(ctx context.Context, key string, val any, expiresIn time.Duration) error
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}
