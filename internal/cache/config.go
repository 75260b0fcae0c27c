package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Backend names accepted by New.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds cache configuration
type Config struct {
	Backend string

	// Redis connection settings
	Host     string
	Port     int
	Password string
	DB       int

	// Connection pool settings
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	MaxIdleTime     time.Duration

	// DefaultTTL applies when Set is called with a zero ttl.
	DefaultTTL time.Duration

	// CleanupInterval is how often the memory backend purges expired entries.
	CleanupInterval time.Duration
}

// DefaultConfig returns a disabled cache pointed at a local Redis.
func DefaultConfig() *Config {
	return &Config{
		Backend:         BackendNone,
		Host:            "localhost",
		Port:            6379,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		PoolSize:        10,
		MinIdleConns:    2,
		MaxIdleTime:     5 * time.Minute,
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
	}
}

// NewConfigFromEnv creates a new Config from environment variables
func NewConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()
	cfg.Backend = getEnvOrDefault("CACHE_BACKEND", BackendNone)
	cfg.Host = getEnvOrDefault("REDIS_HOST", cfg.Host)
	cfg.Password = os.Getenv("REDIS_PASSWORD")

	var err error
	if cfg.Port, err = strconv.Atoi(getEnvOrDefault("REDIS_PORT", "6379")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	if cfg.DB, err = strconv.Atoi(getEnvOrDefault("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.PoolSize, err = strconv.Atoi(getEnvOrDefault("REDIS_POOL_SIZE", "10")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_POOL_SIZE: %w", err)
	}
	if cfg.MinIdleConns, err = strconv.Atoi(getEnvOrDefault("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_MIN_IDLE_CONNS: %w", err)
	}
	if cfg.DefaultTTL, err = parseDuration(getEnvOrDefault("CACHE_DEFAULT_TTL", "1m")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_DEFAULT_TTL: %w", err)
	}
	return cfg, nil
}

// Address returns the Redis server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// New builds the configured backend. It returns nil, nil for BackendNone.
func New(config *Config) (Cache, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch config.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemoryCache(config.DefaultTTL, config.CleanupInterval), nil
	case BackendRedis:
		rc, err := NewRedisCache(config)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", config.Backend)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration accepts Go durations ("90s") or bare seconds ("90").
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration format: %s", s)
}
