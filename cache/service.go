package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidSnapshot is returned when a cached snapshot cannot be decoded into the requested type.
var ErrInvalidSnapshot = errors.New("cache: invalid snapshot")

// KeySerializer builds a cache key from an entity namespace + primary key parts.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(namespace string, args ...any) string
}

// CacheService exposes the snapshot operations the entity cache protocol needs.
// Values are opaque encoded snapshots so a cached entry can never be mutated
// through a reference handed out to a caller.
// It is exported so that other packages can provide alternate cache backends or test fakes.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, snapshot []byte) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Load is a type-safe wrapper that reads a snapshot and decodes it with codec.
// A miss returns the zero value and false.
func Load[T any](ctx context.Context, service CacheService, codec Codec[T], key string) (T, bool, error) {
	var zero T

	raw, ok, err := service.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	value, err := codec.Decode(raw)
	if err != nil {
		return zero, false, fmt.Errorf("%w: key %s: %v", ErrInvalidSnapshot, key, err)
	}
	return value, true, nil
}

// Store encodes value with codec and writes it under key.
func Store[T any](ctx context.Context, service CacheService, codec Codec[T], key string, value T) error {
	raw, err := codec.Encode(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return service.Set(ctx, key, raw)
}
