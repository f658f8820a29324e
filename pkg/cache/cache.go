// Package cache provides the keyed byte cache behind the read-query facade.
// Entries hold marshalled response bodies keyed by immutable entity ids;
// listings and frequently-mutated aggregates are never cached.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss reports that a key has no live entry.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
