// Package kvstore provides the persisted key-value storage used for filter
// state and search history. Keys are opaque strings scoped by the caller.
package kvstore

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store is a small string key-value store.
type Store interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	SQLitePath string
	RedisURL   string
	// TTL expires entries whose key starts with one of ExpiringPrefixes.
	// Other keys, and every key when TTL is zero, are kept forever.
	TTL              time.Duration
	ExpiringPrefixes []string
}

// Open builds the store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryWithExpiry(opts.TTL, opts.ExpiringPrefixes...), nil
	case BackendSQLite:
		return NewSQLite(ctx, opts.SQLitePath)
	case BackendRedis:
		return NewRedis(ctx, opts.RedisURL, opts.TTL, opts.ExpiringPrefixes...)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", opts.Backend)
	}
}

// expiry decides the lifetime of a key.
type expiry struct {
	ttl      time.Duration
	prefixes []string
}

// ttlFor returns the lifetime of key; zero means no expiry.
func (e expiry) ttlFor(key string) time.Duration {
	if e.ttl <= 0 {
		return 0
	}
	for _, p := range e.prefixes {
		if strings.HasPrefix(key, p) {
			return e.ttl
		}
	}
	return 0
}
