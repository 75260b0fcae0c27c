package objects

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/birbparty/vrcsdk/internal/telemetry"
	"github.com/birbparty/vrcsdk/sdk"
)

const defaultEnrichConcurrency = 4

// EnrichmentRecorder receives the duration of each enriching factory.
type EnrichmentRecorder interface {
	ObserveEnrichment(entity string, d time.Duration)
}

// Client builds entities from API payloads and remembers the current user.
// Entities keep a pointer to the Client that built them and issue follow-up
// calls through it.
type Client struct {
	api               sdk.Caller
	log               *logrus.Entry
	enrichConcurrency int
	recorder          EnrichmentRecorder

	mu sync.RWMutex
	me *CurrentUser
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for enrichment and resolution messages.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.WithField("component", "vrc-objects")
		}
	}
}

// WithEnrichConcurrency bounds the parallel instance fetches made while
// building a World. Values below 1 mean sequential.
func WithEnrichConcurrency(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.enrichConcurrency = n
	}
}

// WithEnrichmentRecorder reports factory durations, e.g. to *telemetry.Metrics.
func WithEnrichmentRecorder(r EnrichmentRecorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient wraps api. api is usually an sdk.Client.
func NewClient(api sdk.Caller, opts ...Option) *Client {
	c := &Client{
		api:               api,
		log:               telemetry.L().WithField("component", "vrc-objects"),
		enrichConcurrency: defaultEnrichConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// API returns the underlying caller.
func (c *Client) API() sdk.Caller {
	return c.api
}

// Me returns the current user loaded by FetchMe or UpdateInfo, or nil.
func (c *Client) Me() *CurrentUser {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.me
}

func (c *Client) setMe(u *CurrentUser) {
	c.mu.Lock()
	c.me = u
	c.mu.Unlock()
}

// call issues one request and returns its payload. Errors from the API
// client are wrapped with op and otherwise untouched.
func (c *Client) call(ctx context.Context, op, path, method string, params sdk.Params) (json.RawMessage, error) {
	resp, err := c.api.Call(ctx, path, method, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Data, nil
}

func (c *Client) logger(ctx context.Context) *logrus.Entry {
	return telemetry.EntryWithContext(c.log, ctx)
}

// track starts a span for an enriching factory. The returned func ends the
// span and reports the duration.
func (c *Client) track(ctx context.Context, entity string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "objects.New"+entity)
	return ctx, func(err error) {
		telemetry.EndSpan(span, err)
		if c.recorder != nil {
			c.recorder.ObserveEnrichment(entity, time.Since(start))
		}
	}
}

// FetchMe loads the authenticated user, fully enriched, and makes it the
// client's current user.
func (c *Client) FetchMe(ctx context.Context) (*CurrentUser, error) {
	data, err := c.call(ctx, "fetch current user", "/auth/user", http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	me, err := NewCurrentUser(ctx, c, data)
	if err != nil {
		return nil, err
	}
	c.setMe(me)
	return me, nil
}

// FetchUser loads the full view of the user with id.
func (c *Client) FetchUser(ctx context.Context, id string) (*User, error) {
	data, err := c.call(ctx, "fetch user", sdk.BuildPath("/users/{0}", id), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return NewUser(c, data)
}

// FetchAvatar loads the avatar with id.
func (c *Client) FetchAvatar(ctx context.Context, id string) (*Avatar, error) {
	data, err := c.call(ctx, "fetch avatar", sdk.BuildPath("/avatars/{0}", id), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return NewAvatar(c, data)
}

// FetchWorld loads a world and all of its instances.
func (c *Client) FetchWorld(ctx context.Context, id string) (*World, error) {
	data, err := c.call(ctx, "fetch world", sdk.BuildPath("/worlds/{0}", id), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return NewWorld(ctx, c, data)
}

// FetchInstance loads one instance of a world. instanceID is the part of the
// location after the colon, e.g. "12345~private(usr_x)~nonce(y)".
func (c *Client) FetchInstance(ctx context.Context, worldID, instanceID string) (*Instance, error) {
	data, err := c.call(ctx, "fetch instance",
		sdk.BuildPath("/instances/{0}:{1}", worldID, instanceID), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return NewInstance(c, data)
}

// FetchFriends lists the current user's online or offline friends.
func (c *Client) FetchFriends(ctx context.Context, offline bool) ([]*LimitedUser, error) {
	data, err := c.call(ctx, "fetch friends", "/auth/user/friends", http.MethodGet, sdk.Params{"offline": offline})
	if err != nil {
		return nil, err
	}
	items, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("fetch friends: %w", err)
	}

	friends := make([]*LimitedUser, 0, len(items))
	for _, item := range items {
		u, err := NewLimitedUser(c, item)
		if err != nil {
			return nil, fmt.Errorf("fetch friends: %w", err)
		}
		friends = append(friends, u)
	}
	return friends, nil
}
