package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// Params are request parameters. For GET and DELETE they are encoded into
// the query string; for POST and PUT they are sent as the JSON body.
type Params map[string]any

// Response is a successful API reply.
type Response struct {
	StatusCode int
	// Data is the raw JSON payload. It is nil for empty bodies.
	Data json.RawMessage
	// RequestID echoes the X-Request-ID of the exchange.
	RequestID string
	// Cached is true when Data came from the response cache.
	Cached bool
}

// Decode unmarshals the payload into v.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return NewError(ErrorTypeUnknown, "empty response body", ErrInvalidResponse)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return NewError(ErrorTypeUnknown, fmt.Sprintf("failed to decode response: %v", err), ErrInvalidResponse)
	}
	return nil
}

// Caller performs one logical API request. An empty method means GET.
// Entities in the objects package depend only on this interface, so tests
// can substitute a recording fake.
type Caller interface {
	Call(ctx context.Context, path, method string, params Params) (*Response, error)
}

// Client is the VRChat REST transport.
//
//	client, err := sdk.NewClient(sdk.DefaultConfig().WithAuthCookie(token))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Call(ctx, "/auth/user", "", nil)
type Client interface {
	Caller

	// Ping checks that the API answers GET /config.
	Ping(ctx context.Context) error

	// Close releases idle connections. Calls after Close fail with ErrClientClosed.
	Close() error
}

type client struct {
	transport *httpTransport
	config    *Config
	mu        sync.RWMutex
	closed    bool
}

// NewClient creates a client. A nil config means DefaultConfig().
func NewClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	transport, err := newHTTPTransport(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	return &client{
		transport: transport,
		config:    config,
	}, nil
}

func (c *client) Call(ctx context.Context, path, method string, params Params) (*Response, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if path == "" || path[0] != '/' {
		return nil, NewValidationError(fmt.Sprintf("path %q must start with /", path), nil)
	}
	if method == "" {
		method = http.MethodGet
	}
	return c.transport.do(ctx, method, path, params)
}

func (c *client) Ping(ctx context.Context) error {
	_, err := c.Call(ctx, "/config", http.MethodGet, nil)
	return err
}

func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.transport.close()
}

func (c *client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	return nil
}
