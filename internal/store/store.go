package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by TTL when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is the key-value adapter every repository talks through. Production
// uses RedisStore; tests use MemStore. AdmitMember is the one operation that
// must be indivisible on the store side: a read followed by a write is not an
// acceptable implementation.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error

	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	SAdd(ctx context.Context, key, member string) error
	SRem(ctx context.Context, key, member string) error
	SCard(ctx context.Context, key string) (int64, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)

	RPush(ctx context.Context, key, value string) error
	LRange(ctx context.Context, key string) ([]string, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)

	// AdmitMember atomically adds member to the set at key if its current
	// cardinality is below capacity. Capacity 0 means unbounded. Returns
	// false when the set is full and the member was not added.
	AdmitMember(ctx context.Context, key, member string, capacity int64) (bool, error)
}
