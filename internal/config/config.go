// Package config loads CLI settings from the environment, optionally via a
// .env file in the working directory. Variables use the VRC_ prefix:
//
//	VRC_API_URL         API base URL (default https://api.vrchat.cloud/api/1)
//	VRC_AUTH_COOKIE     value of the "auth" cookie from a logged-in session
//	VRC_API_KEY         optional apiKey query parameter
//	VRC_USER_AGENT      User-Agent; VRChat asks for a contact address in it
//	VRC_TIMEOUT         per-request timeout, e.g. 30s
//	VRC_RETRIES         retries after the first attempt
//	VRC_CACHE_BACKEND   none, memory or redis
//	VRC_CACHE_TTL       lifetime of cached GET responses
//	VRC_OUTPUT          json or yaml
//
// Redis and telemetry settings come from the REDIS_* and OTEL_* variables
// understood by the cache and telemetry packages.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/birbparty/vrcsdk/internal/cache"
	"github.com/birbparty/vrcsdk/internal/telemetry"
	"github.com/birbparty/vrcsdk/sdk"
)

const envPrefix = "VRC_"

// Config is the CLI configuration.
type Config struct {
	APIURL            string        `koanf:"api_url" validate:"required,url"`
	AuthCookie        string        `koanf:"auth_cookie"`
	APIKey            string        `koanf:"api_key"`
	UserAgent         string        `koanf:"user_agent" validate:"required"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	Retries           int           `koanf:"retries" validate:"gte=0,lte=10"`
	CacheBackend      string        `koanf:"cache_backend" validate:"oneof=none memory redis"`
	CacheTTL          time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	Output            string        `koanf:"output" validate:"oneof=json yaml"`
	EnrichConcurrency int           `koanf:"enrich_concurrency" validate:"gte=1,lte=32"`

	Cache     *cache.Config     `koanf:"-"`
	Telemetry *telemetry.Config `koanf:"-"`
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		APIURL:            sdk.DefaultBaseURL,
		UserAgent:         sdk.DefaultUserAgent,
		Timeout:           30 * time.Second,
		Retries:           3,
		CacheBackend:      cache.BackendNone,
		CacheTTL:          time.Minute,
		Output:            "json",
		EnrichConcurrency: 4,
	}
}

// Load reads VRC_* variables over Default, then the cache and telemetry
// settings, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.Cache, err = cache.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Cache.Backend = cfg.CacheBackend
	cfg.Cache.DefaultTTL = cfg.CacheTTL

	cfg.Telemetry = telemetry.NewConfigFromEnv()
	if _, ok := os.LookupEnv("OTEL_SERVICE_NAME"); !ok {
		cfg.Telemetry.ServiceName = "vrc-cli"
	}
	// stdout carries command output; keep logs quiet unless asked.
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		cfg.Telemetry.LogLevel = "warn"
	}

	return cfg, nil
}

// SDKConfig builds the transport configuration.
func (c *Config) SDKConfig() *sdk.Config {
	return sdk.DefaultConfig().
		WithBaseURL(c.APIURL).
		WithAuthCookie(c.AuthCookie).
		WithAPIKey(c.APIKey).
		WithUserAgent(c.UserAgent).
		WithTimeout(c.Timeout).
		WithRetries(c.Retries)
}

// CacheNamespace is the per-account cache key prefix, derived from the
// auth cookie. Neither the cookie nor the API key ever appears in a key.
func (c *Config) CacheNamespace() string {
	if c.AuthCookie == "" {
		return "anon"
	}
	sum := sha256.Sum256([]byte(c.AuthCookie))
	return hex.EncodeToString(sum[:8])
}
