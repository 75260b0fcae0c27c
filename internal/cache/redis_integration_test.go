//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *Config {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
		tcredis.WithLogLevel(tcredis.LogLevelVerbose),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, nat.Port("6379/tcp"))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Backend = BackendRedis
	cfg.Host = host
	cfg.Port = port.Int()
	return cfg
}

func TestRedisCache_Integration(t *testing.T) {
	cfg := startRedis(t)
	ctx := context.Background()

	c, err := NewRedisCache(cfg)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Ping(ctx))

	_, err = c.Get(ctx, "vrc:/users/usr_1")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, c.Set(ctx, "vrc:/users/usr_1", []byte(`{"id":"usr_1"}`), 2*time.Second))

	got, err := c.Get(ctx, "vrc:/users/usr_1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"usr_1"}`, string(got))

	ttl, err := c.TTL(ctx, "vrc:/users/usr_1")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	ok, err := c.Exists(ctx, "vrc:/users/usr_1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "vrc:/users/usr_1"))
	assert.ErrorIs(t, c.Delete(ctx, "vrc:/users/usr_1"), ErrKeyNotFound)
}

func TestRedisCache_PrefixedSharing(t *testing.T) {
	cfg := startRedis(t)
	ctx := context.Background()

	backend, err := New(cfg)
	require.NoError(t, err)
	defer backend.Close()

	a := NewPrefixedCache(backend, "acct-a")
	b := NewPrefixedCache(backend, "acct-b")

	require.NoError(t, a.Set(ctx, "vrc:/auth/user", []byte("a"), 0))
	_, err = b.Get(ctx, "vrc:/auth/user")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisCache_DeletePrefixMatchesLiterally(t *testing.T) {
	cfg := startRedis(t)
	ctx := context.Background()

	c, err := NewRedisCache(cfg)
	require.NoError(t, err)
	defer c.Close()

	for _, key := range []string{"vrc:/favorites?type=world", "vrc:/favorites?type=avatar", "vrc:/favoritesX", "vrc:/favorites"} {
		require.NoError(t, c.Set(ctx, key, []byte("x"), time.Minute))
	}

	require.NoError(t, c.DeletePrefix(ctx, "vrc:/favorites?"))

	for key, want := range map[string]bool{
		"vrc:/favorites?type=world":  false,
		"vrc:/favorites?type=avatar": false,
		"vrc:/favoritesX":            true,
		"vrc:/favorites":             true,
	} {
		ok, err := c.Exists(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, ok, key)
	}
}
