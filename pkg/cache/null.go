package cache

import (
	"context"
	"time"
)

// NullCache never stores anything. It backs --no-cache and the "none"
// backend, and is the cache runners use when none is configured.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete has nothing to remove.
func (NullCache) Delete(context.Context, string) error {
	return nil
}

// Close has nothing to release.
func (NullCache) Close() error {
	return nil
}

// Compile-time check that NullCache implements Cache.
var _ Cache = NullCache{}
