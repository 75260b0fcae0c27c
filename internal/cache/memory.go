package cache

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps payloads in process memory.
type MemoryCache struct {
	c      *gocache.Cache
	closed atomic.Bool
}

// NewMemoryCache creates a cache whose entries default to defaultTTL.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &MemoryCache{c: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrCacheClosed
	}
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	b, _ := v.([]byte)
	return b, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, value, ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrCacheClosed
	}
	if _, ok := m.c.Get(key); !ok {
		return ErrKeyNotFound
	}
	m.c.Delete(key)
	return nil
}

func (m *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	if m.closed.Load() {
		return ErrCacheClosed
	}
	for key := range m.c.Items() {
		if strings.HasPrefix(key, prefix) {
			m.c.Delete(key)
		}
	}
	return nil
}

func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	if m.closed.Load() {
		return false, ErrCacheClosed
	}
	_, ok := m.c.Get(key)
	return ok, nil
}

// Len reports the number of entries, including expired ones not yet purged.
func (m *MemoryCache) Len() int {
	return m.c.ItemCount()
}

func (m *MemoryCache) Ping(context.Context) error {
	if m.closed.Load() {
		return ErrCacheClosed
	}
	return nil
}

func (m *MemoryCache) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		m.c.Flush()
	}
	return nil
}
