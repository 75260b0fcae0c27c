package sdk

import (
	"time"
)

const (
	// DefaultBaseURL is the public VRChat API root
	DefaultBaseURL = "https://api.vrchat.cloud/api/1"

	// DefaultUserAgent is sent when no user agent is configured. The API
	// rejects requests without one.
	DefaultUserAgent = "vrcsdk-go/1.0.0"

	// AuthCookieName is the cookie the API uses for sessions
	AuthCookieName = "auth"
)

// Config holds the configuration for the API client. Build it with
// DefaultConfig and the With* methods:
//
//	config := sdk.DefaultConfig().
//	    WithAuthCookie(os.Getenv("VRC_AUTH_COOKIE")).
//	    WithTimeout(10 * time.Second).
//	    WithRetries(5)
//
//	client, err := sdk.NewClient(config)
type Config struct {
	// BaseURL is the API root including the version path.
	// Default: https://api.vrchat.cloud/api/1
	BaseURL string

	// Timeout bounds a single HTTP exchange. Default: 30s
	Timeout time.Duration

	// UserAgent identifies the application. Default: DefaultUserAgent
	UserAgent string

	// AuthCookie is a session token obtained outside this SDK. It is sent
	// as the "auth" cookie on every request when set.
	AuthCookie string

	// APIKey is sent as the apiKey query parameter when set.
	APIKey string

	RetryConfig RetryConfig

	TransportConfig TransportConfig

	// Headers are added to every request.
	Headers map[string]string

	// CircuitBreakerConfig enables circuit breaking when non-nil.
	CircuitBreakerConfig *CircuitBreakerConfig

	// RetryStrategy overrides the exponential backoff built from RetryConfig.
	RetryStrategy RetryStrategy

	// Observer receives request, retry, circuit and cache events.
	// Default: NoopObserver
	Observer Observer

	// ResponseCache stores successful GET payloads when non-nil.
	ResponseCache ResponseCache

	// CacheTTL is how long cached GET payloads live. Default: 1m
	CacheTTL time.Duration

	// EnablePerEndpointCircuitBreaker gives every method and route its own
	// breaker. Paths that differ only by id share one.
	EnablePerEndpointCircuitBreaker bool

	// RetryNonIdempotent lets POST requests be retried. Off by default.
	RetryNonIdempotent bool
}

// RetryConfig drives the default exponential backoff strategy.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	// Default: 3
	MaxRetries int

	// InitialInterval is the delay before the first retry. Default: 100ms
	InitialInterval time.Duration

	// MaxInterval caps the delay. Default: 5s
	MaxInterval time.Duration

	// Multiplier grows the delay between retries. Default: 2.0
	Multiplier float64
}

// TransportConfig holds HTTP connection pool settings.
type TransportConfig struct {
	MaxIdleConns    int
	MaxConnsPerHost int
	IdleConnTimeout time.Duration
}

// DefaultConfig returns a Config pointed at the public API with three
// retries, exponential backoff and no caching.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   30 * time.Second,
		UserAgent: DefaultUserAgent,
		RetryConfig: RetryConfig{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2.0,
		},
		TransportConfig: TransportConfig{
			MaxIdleConns:    100,
			MaxConnsPerHost: 10,
			IdleConnTimeout: 90 * time.Second,
		},
		Headers:  make(map[string]string),
		Observer: &NoopObserver{},
		CacheTTL: time.Minute,
	}
}

// WithBaseURL sets the API root, e.g. a local mock server.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRetries sets the maximum number of retries. Zero disables retries.
func (c *Config) WithRetries(maxRetries int) *Config {
	c.RetryConfig.MaxRetries = maxRetries
	return c
}

// WithHeader adds a header sent with every request.
func (c *Config) WithHeader(key, value string) *Config {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[key] = value
	return c
}

// WithUserAgent sets the User-Agent header.
func (c *Config) WithUserAgent(ua string) *Config {
	c.UserAgent = ua
	return c
}

// WithAuthCookie attaches an existing session token.
func (c *Config) WithAuthCookie(token string) *Config {
	c.AuthCookie = token
	return c
}

// WithAPIKey sets the apiKey query parameter.
func (c *Config) WithAPIKey(key string) *Config {
	c.APIKey = key
	return c
}

// WithCircuitBreaker enables circuit breaking.
//
//	config := sdk.DefaultConfig().
//	    WithCircuitBreaker(sdk.CircuitBreakerConfig{
//	        FailureThreshold: 5,
//	        SuccessThreshold: 2,
//	        Timeout:          30 * time.Second,
//	    })
func (c *Config) WithCircuitBreaker(config CircuitBreakerConfig) *Config {
	c.CircuitBreakerConfig = &config
	return c
}

// WithRetryStrategy replaces the default backoff.
func (c *Config) WithRetryStrategy(strategy RetryStrategy) *Config {
	c.RetryStrategy = strategy
	return c
}

// WithObserver sets the observer. Combine several with NewCompositeObserver.
func (c *Config) WithObserver(observer Observer) *Config {
	c.Observer = observer
	return c
}

// WithResponseCache enables caching of GET payloads for ttl.
func (c *Config) WithResponseCache(cache ResponseCache, ttl time.Duration) *Config {
	c.ResponseCache = cache
	c.CacheTTL = ttl
	return c
}

// WithPerEndpointCircuitBreaker gives every endpoint its own breaker state.
func (c *Config) WithPerEndpointCircuitBreaker() *Config {
	c.EnablePerEndpointCircuitBreaker = true
	return c
}

// WithNonIdempotentRetries lets failed POST requests be retried. Only use it
// when repeating a write is harmless.
func (c *Config) WithNonIdempotentRetries() *Config {
	c.RetryNonIdempotent = true
	return c
}

// Validate fills defaults for zero values. It is called by NewClient and
// fails only when no base URL is set.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.RetryConfig.MaxRetries < 0 {
		c.RetryConfig.MaxRetries = 0
	}
	if c.RetryConfig.InitialInterval <= 0 {
		c.RetryConfig.InitialInterval = 100 * time.Millisecond
	}
	if c.RetryConfig.MaxInterval <= 0 {
		c.RetryConfig.MaxInterval = 5 * time.Second
	}
	if c.RetryConfig.Multiplier <= 1 {
		c.RetryConfig.Multiplier = 2.0
	}
	if c.Observer == nil {
		c.Observer = &NoopObserver{}
	}
	if c.ResponseCache != nil && c.CacheTTL <= 0 {
		c.CacheTTL = time.Minute
	}
	if c.CircuitBreakerConfig != nil {
		if c.CircuitBreakerConfig.FailureThreshold <= 0 {
			c.CircuitBreakerConfig.FailureThreshold = 5
		}
		if c.CircuitBreakerConfig.SuccessThreshold <= 0 {
			c.CircuitBreakerConfig.SuccessThreshold = 2
		}
		if c.CircuitBreakerConfig.Timeout <= 0 {
			c.CircuitBreakerConfig.Timeout = 30 * time.Second
		}
		if c.CircuitBreakerConfig.HalfOpenRequests <= 0 {
			c.CircuitBreakerConfig.HalfOpenRequests = 3
		}
	}
	return nil
}
