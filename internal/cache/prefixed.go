package cache

import (
	"context"
	"strings"
	"time"
)

// PrefixedCache namespaces keys so sessions for different accounts sharing
// one backend never see each other's payloads.
type PrefixedCache struct {
	client Cache
	prefix string
}

// NewPrefixedCache wraps client, prefixing every key with "<namespace>:".
// An empty namespace leaves keys unchanged.
func NewPrefixedCache(client Cache, namespace string) *PrefixedCache {
	prefix := ""
	if namespace = strings.TrimSpace(namespace); namespace != "" {
		prefix = namespace + ":"
	}
	return &PrefixedCache{client: client, prefix: prefix}
}

// Key returns the backend key for key.
func (p *PrefixedCache) Key(key string) string {
	return p.prefix + key
}

func (p *PrefixedCache) Get(ctx context.Context, key string) ([]byte, error) {
	return p.client.Get(ctx, p.Key(key))
}

func (p *PrefixedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.client.Set(ctx, p.Key(key), value, ttl)
}

func (p *PrefixedCache) Delete(ctx context.Context, key string) error {
	return p.client.Delete(ctx, p.Key(key))
}

func (p *PrefixedCache) DeletePrefix(ctx context.Context, prefix string) error {
	return p.client.DeletePrefix(ctx, p.Key(prefix))
}

func (p *PrefixedCache) Exists(ctx context.Context, key string) (bool, error) {
	return p.client.Exists(ctx, p.Key(key))
}

func (p *PrefixedCache) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *PrefixedCache) Close() error {
	return p.client.Close()
}
