package sdk

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockObserver forwards events to optional callbacks.
type mockObserver struct {
	onRequestStart              func(method, path string)
	onRequestEnd                func(method, path string, duration time.Duration, err error)
	onRetryAttempt              func(method, path string, attempt int, delay time.Duration, err error)
	onCircuitBreakerStateChange func(endpoint string, oldState, newState CircuitState)
	onCacheHit                  func(key string)
	onCacheMiss                 func(key string)
}

func (m *mockObserver) OnRequestStart(method, path string) {
	if m.onRequestStart != nil {
		m.onRequestStart(method, path)
	}
}

func (m *mockObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {
	if m.onRequestEnd != nil {
		m.onRequestEnd(method, path, duration, err)
	}
}

func (m *mockObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	if m.onRetryAttempt != nil {
		m.onRetryAttempt(method, path, attempt, delay, err)
	}
}

func (m *mockObserver) OnCircuitBreakerStateChange(endpoint string, oldState, newState CircuitState) {
	if m.onCircuitBreakerStateChange != nil {
		m.onCircuitBreakerStateChange(endpoint, oldState, newState)
	}
}

func (m *mockObserver) OnCacheHit(key string) {
	if m.onCacheHit != nil {
		m.onCacheHit(key)
	}
}

func (m *mockObserver) OnCacheMiss(key string) {
	if m.onCacheMiss != nil {
		m.onCacheMiss(key)
	}
}

// countingObserver tallies events by name.
type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
	states []CircuitState
}

func newCountingObserver() *countingObserver {
	return &countingObserver{counts: make(map[string]int)}
}

func (c *countingObserver) inc(name string) {
	c.mu.Lock()
	c.counts[name]++
	c.mu.Unlock()
}

func (c *countingObserver) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}

func (c *countingObserver) OnRequestStart(method, path string) { c.inc("start") }
func (c *countingObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {
	if err != nil {
		c.inc("error")
	}
	c.inc("end")
}
func (c *countingObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	c.inc("retry")
}
func (c *countingObserver) OnCircuitBreakerStateChange(endpoint string, oldState, newState CircuitState) {
	c.mu.Lock()
	c.states = append(c.states, newState)
	c.mu.Unlock()
	c.inc("circuit")
}
func (c *countingObserver) OnCacheHit(key string)  { c.inc("hit") }
func (c *countingObserver) OnCacheMiss(key string) { c.inc("miss") }

func TestCompositeObserver(t *testing.T) {
	t.Run("fans out to every observer", func(t *testing.T) {
		var called1, called2 atomic.Int32

		composite := NewCompositeObserver(
			&mockObserver{onCacheHit: func(string) { called1.Add(1) }},
			nil,
			&mockObserver{onCacheHit: func(string) { called2.Add(1) }},
		)
		composite.OnCacheHit("vrc:/worlds/wrld_1")

		assert.Equal(t, int32(1), called1.Load())
		assert.Equal(t, int32(1), called2.Load())
	})

	t.Run("panicking observer does not stop the others", func(t *testing.T) {
		var called atomic.Int32

		composite := NewCompositeObserver(
			&mockObserver{onRequestEnd: func(string, string, time.Duration, error) { panic("boom") }},
			&mockObserver{onRequestEnd: func(string, string, time.Duration, error) { called.Add(1) }},
		)

		assert.NotPanics(t, func() {
			composite.OnRequestEnd("GET", "/config", time.Millisecond, nil)
		})
		assert.Equal(t, int32(1), called.Load())
	})
}

func TestCircuitBreaker(t *testing.T) {
	serverErr := NewError(ErrorTypeServer, "503", nil)

	t.Run("opens after threshold and recovers", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{
			FailureThreshold: 2,
			SuccessThreshold: 1,
			Timeout:          20 * time.Millisecond,
			HalfOpenRequests: 1,
		})

		_ = cb.Execute(func() error { return serverErr })
		assert.Equal(t, CircuitClosed, cb.State())
		_ = cb.Execute(func() error { return serverErr })
		assert.Equal(t, CircuitOpen, cb.State())

		err := cb.Execute(func() error {
			t.Fatal("must not run while open")
			return nil
		})
		assert.ErrorIs(t, err, ErrCircuitOpen)

		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, CircuitHalfOpen, cb.State())

		assert.NoError(t, cb.Execute(func() error { return nil }))
		assert.Equal(t, CircuitClosed, cb.State())
	})

	t.Run("client errors do not trip the breaker", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenRequests: 1})
		notFound := (&APIError{StatusCode: 404}).ToError()

		for i := 0; i < 5; i++ {
			assert.True(t, errors.Is(cb.Execute(func() error { return notFound }), ErrNotFound))
		}
		assert.Equal(t, CircuitClosed, cb.State())
	})

	t.Run("observed breaker reports transitions", func(t *testing.T) {
		obs := newCountingObserver()
		cb := newObservedCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{
			FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenRequests: 1,
		}), "default", obs)

		_ = cb.Execute(func() error { return serverErr })
		cb.Reset()

		assert.Equal(t, []CircuitState{CircuitOpen, CircuitClosed}, obs.states)
	})

	t.Run("observed breaker reports half-open", func(t *testing.T) {
		obs := newCountingObserver()
		cb := newObservedCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{
			FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Millisecond, HalfOpenRequests: 1,
		}), "default", obs)

		_ = cb.Execute(func() error { return serverErr })
		time.Sleep(5 * time.Millisecond)
		require.NoError(t, cb.Execute(func() error { return nil }))

		assert.Equal(t, []CircuitState{CircuitOpen, CircuitHalfOpen, CircuitClosed}, obs.states)
	})

	t.Run("endpoint breakers are independent", func(t *testing.T) {
		obs := newCountingObserver()
		eb := newEndpointBreakers(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenRequests: 1}, obs)

		_ = eb.get("GET /worlds/{id}").Execute(func() error { return serverErr })

		assert.Equal(t, CircuitOpen, eb.get("GET /worlds/{id}").State())
		assert.Equal(t, CircuitClosed, eb.get("GET /auth/user").State())
		assert.Same(t, eb.get("GET /worlds/{id}"), eb.get("GET /worlds/{id}"))
		assert.Equal(t, []CircuitState{CircuitOpen}, obs.states)
	})

	t.Run("noop never opens", func(t *testing.T) {
		cb := NewNoopCircuitBreaker()
		for i := 0; i < 10; i++ {
			_ = cb.Execute(func() error { return serverErr })
		}
		assert.Equal(t, CircuitClosed, cb.State())
	})
}
