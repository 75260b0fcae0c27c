package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/vrcsdk/sdk"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, sdk.DefaultBaseURL, cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, "vrc-cli", cfg.Telemetry.ServiceName)
	assert.Equal(t, "warn", cfg.Telemetry.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("VRC_API_URL", "http://127.0.0.1:8080/api/1")
	t.Setenv("VRC_AUTH_COOKIE", "authcookie_abc")
	t.Setenv("VRC_TIMEOUT", "5s")
	t.Setenv("VRC_RETRIES", "1")
	t.Setenv("VRC_CACHE_BACKEND", "memory")
	t.Setenv("VRC_CACHE_TTL", "2m")
	t.Setenv("VRC_OUTPUT", "yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/api/1", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.Retries)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Cache.DefaultTTL)

	sc := cfg.SDKConfig()
	assert.Equal(t, "authcookie_abc", sc.AuthCookie)
	assert.Equal(t, 5*time.Second, sc.Timeout)
	assert.Equal(t, 1, sc.RetryConfig.MaxRetries)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"VRC_OUTPUT":        "xml",
		"VRC_CACHE_BACKEND": "memcached",
		"VRC_API_URL":       "not a url",
		"VRC_RETRIES":       "99",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestCacheNamespace(t *testing.T) {
	a := &Config{AuthCookie: "authcookie_a"}
	b := &Config{AuthCookie: "authcookie_b"}

	assert.Len(t, a.CacheNamespace(), 16)
	assert.NotEqual(t, a.CacheNamespace(), b.CacheNamespace())
	assert.NotContains(t, a.CacheNamespace(), "authcookie")
	assert.Equal(t, "anon", (&Config{}).CacheNamespace())
}
