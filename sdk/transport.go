package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/birbparty/vrcsdk/sdk"

// ResponseCache stores GET payloads. internal/cache provides Redis and
// in-memory implementations. Any Get error is treated as a miss.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix. Writes use it to
	// drop all query variants of a list, e.g. "vrc:/favorites?".
	DeletePrefix(ctx context.Context, prefix string) error
}

// httpTransport sends requests to the VRChat API through the circuit
// breaker and retry executor, and consults the response cache for GETs.
type httpTransport struct {
	client        *http.Client
	config        *Config
	baseURL       string
	breaker       CircuitBreaker
	endpoints     *endpointBreakers
	retryStrategy RetryStrategy
	observer      Observer
	cache         ResponseCache
	tracer        trace.Tracer
}

func newHTTPTransport(config *Config) (*httpTransport, error) {
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base URL must have a scheme and host")
	}

	client := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        config.TransportConfig.MaxIdleConns,
			MaxConnsPerHost:     config.TransportConfig.MaxConnsPerHost,
			IdleConnTimeout:     config.TransportConfig.IdleConnTimeout,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: config.Timeout,
	}

	t := &httpTransport{
		client:   client,
		config:   config,
		baseURL:  strings.TrimSuffix(parsed.String(), "/"),
		breaker:  NewNoopCircuitBreaker(),
		observer: config.Observer,
		cache:    config.ResponseCache,
		tracer:   otel.Tracer(tracerName),
	}

	if cb := config.CircuitBreakerConfig; cb != nil {
		if config.EnablePerEndpointCircuitBreaker {
			t.endpoints = newEndpointBreakers(*cb, config.Observer)
		} else {
			t.breaker = newObservedCircuitBreaker(NewCircuitBreaker(*cb), "default", config.Observer)
		}
	}

	t.retryStrategy = config.RetryStrategy
	if t.retryStrategy == nil {
		if config.RetryConfig.MaxRetries == 0 {
			t.retryStrategy = &NoRetryStrategy{}
		} else {
			t.retryStrategy = newExponentialBackoff(config.RetryConfig)
		}
	}

	return t, nil
}

// breakerFor returns the breaker guarding method and path. Per-endpoint
// breakers are keyed by route template so all ids share one breaker.
func (t *httpTransport) breakerFor(method, path string) CircuitBreaker {
	if t.endpoints != nil {
		return t.endpoints.get(method + " " + RouteTemplate(path))
	}
	return t.breaker
}

// retryStrategyFor disables retries for POST unless the caller opted in.
// A POST that timed out may still have been applied, and repeating it
// creates a second favorite or friend request.
func (t *httpTransport) retryStrategyFor(method string) RetryStrategy {
	if isIdempotent(method) || t.config.RetryNonIdempotent {
		return t.retryStrategy
	}
	return &NoRetryStrategy{}
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

// do runs one logical call: cache lookup, then breaker, then retries.
func (t *httpTransport) do(ctx context.Context, method, path string, params Params) (*Response, error) {
	ctx, span := t.tracer.Start(ctx, "vrc "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("vrc.path", path),
			attribute.StringSlice("vrc.params", sortedKeys(params)),
		))
	defer span.End()

	var query string
	var body []byte
	if method == http.MethodGet || method == http.MethodDelete {
		query = encodeQuery(params, t.config.APIKey)
	} else {
		var err error
		if body, err = encodeBody(params); err != nil {
			return nil, err
		}
		query = encodeQuery(nil, t.config.APIKey)
	}

	// The API key stays out of cache keys.
	key := cacheKey(path, encodeQuery(params, ""))
	if method == http.MethodGet && t.cache != nil {
		if data, err := t.cache.Get(ctx, key); err == nil {
			t.observer.OnCacheHit(key)
			span.SetAttributes(attribute.Bool("vrc.cache_hit", true))
			return &Response{StatusCode: http.StatusOK, Data: data, Cached: true}, nil
		}
		t.observer.OnCacheMiss(key)
	}

	t.observer.OnRequestStart(method, path)
	start := time.Now()

	var resp *Response
	retries := 0
	executor := newRetryExecutor(t.retryStrategyFor(method))
	executor.onRetry = func(attempt int, delay time.Duration, err error) {
		retries = attempt
		t.observer.OnRetryAttempt(method, path, attempt, delay, err)
	}

	err := t.breakerFor(method, path).Execute(func() error {
		return executor.Execute(ctx, func(int) error {
			var err error
			resp, err = t.roundTrip(ctx, method, path, query, body)
			return err
		})
	})

	duration := time.Since(start)
	t.observer.OnRequestEnd(method, path, duration, err)

	if err != nil {
		var sdkErr *Error
		if errors.As(err, &sdkErr) && sdkErr.Context != nil {
			sdkErr.Context.Duration = duration
			sdkErr.Context.RetryCount = retries
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if t.cache != nil {
		if method == http.MethodGet {
			if len(resp.Data) > 0 {
				_ = t.cache.Set(ctx, key, resp.Data, t.config.CacheTTL)
			}
		} else {
			t.evict(ctx, path)
		}
	}

	return resp, nil
}

// evict drops cached GETs that a successful write to path made stale,
// including every query variant of each affected list.
func (t *httpTransport) evict(ctx context.Context, path string) {
	for _, p := range stalePaths(path) {
		key := cacheKey(p, "")
		_ = t.cache.Delete(ctx, key)
		_ = t.cache.DeletePrefix(ctx, key+"?")
	}
}

// roundTrip performs a single HTTP exchange.
func (t *httpTransport) roundTrip(ctx context.Context, method, path, query string, body []byte) (*Response, error) {
	fullURL := t.baseURL + path
	if query != "" {
		fullURL += "?" + query
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("failed to create request: %v", err), err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", t.config.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	for key, value := range t.config.Headers {
		req.Header.Set(key, value)
	}
	if t.config.AuthCookie != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: t.config.AuthCookie})
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	httpResp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, WrapError(ctx.Err(), ErrorTypeTimeout, "request canceled").
				WithContext(&ErrorContext{URL: fullURL, Method: method})
		}
		netErr := &NetworkError{Op: method + " " + path, Err: err}
		return nil, netErr.ToError().WithContext(&ErrorContext{URL: fullURL, Method: method})
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		netErr := &NetworkError{Op: "reading response", Err: err}
		return nil, netErr.ToError().WithContext(&ErrorContext{URL: fullURL, Method: method})
	}

	if reqID := httpResp.Header.Get("X-Request-ID"); reqID != "" {
		requestID = reqID
	}

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		resp := &Response{StatusCode: httpResp.StatusCode, RequestID: requestID}
		if len(bytes.TrimSpace(respBody)) > 0 {
			resp.Data = respBody
		}
		return resp, nil
	}

	apiErr := parseAPIError(httpResp.StatusCode, respBody)
	sdkErr := apiErr.ToError().WithContext(&ErrorContext{URL: fullURL, Method: method})
	sdkErr.RequestID = requestID
	return nil, sdkErr
}

func (t *httpTransport) close() error {
	t.client.CloseIdleConnections()
	return nil
}
