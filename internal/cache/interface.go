// Package cache provides the response cache backends used by the CLI and
// by applications that want GET payloads shared across processes.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque payloads by key. Implementations satisfy
// sdk.ResponseCache.
type Cache interface {
	// Get returns ErrKeyNotFound for missing or expired keys.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete returns ErrKeyNotFound when nothing was removed.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix. Removing nothing
	// is not an error.
	DeletePrefix(ctx context.Context, prefix string) error

	Exists(ctx context.Context, key string) (bool, error)

	Ping(ctx context.Context) error

	Close() error
}

var (
	ErrKeyNotFound = NewCacheError("key not found", true)
	ErrCacheClosed = NewCacheError("cache is closed", false)
)

// CacheError is a backend failure.
type CacheError struct {
	Message    string
	Retryable  bool
	Underlying error
}

func NewCacheError(message string, retryable bool) *CacheError {
	return &CacheError{
		Message:   message,
		Retryable: retryable,
	}
}

func (e *CacheError) Error() string {
	if e.Underlying != nil {
		return e.Message + ": " + e.Underlying.Error()
	}
	return e.Message
}

func (e *CacheError) Unwrap() error {
	return e.Underlying
}

// WithError returns a copy of e wrapping err.
func (e *CacheError) WithError(err error) *CacheError {
	c := *e
	c.Underlying = err
	return &c
}

func (e *CacheError) IsRetryable() bool {
	return e.Retryable
}
