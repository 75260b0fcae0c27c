package sdk

import (
	"sync"
	"time"
)

// Observer receives transport events. Implementations must be safe for
// concurrent use: world instance enrichment issues requests in parallel.
//
// internal/telemetry ships a logrus observer and a Prometheus observer;
// combine them with NewCompositeObserver.
type Observer interface {
	// OnRequestStart is called once per Call before the first attempt.
	OnRequestStart(method, path string)

	// OnRequestEnd is called once per Call with the final outcome.
	OnRequestEnd(method, path string, duration time.Duration, err error)

	// OnRetryAttempt is called before sleeping ahead of a retry.
	OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error)

	OnCircuitBreakerStateChange(endpoint string, oldState, newState CircuitState)

	// OnCacheHit and OnCacheMiss report response cache lookups for GET calls.
	OnCacheHit(key string)
	OnCacheMiss(key string)
}

// NoopObserver ignores every event.
type NoopObserver struct{}

func (n *NoopObserver) OnRequestStart(method, path string)                                  {}
func (n *NoopObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {}
func (n *NoopObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
}
func (n *NoopObserver) OnCircuitBreakerStateChange(endpoint string, oldState, newState CircuitState) {
}
func (n *NoopObserver) OnCacheHit(key string)  {}
func (n *NoopObserver) OnCacheMiss(key string) {}

// observedCircuitBreaker reports state transitions of the wrapped breaker.
type observedCircuitBreaker struct {
	cb       CircuitBreaker
	endpoint string
	observer Observer

	mu        sync.Mutex
	lastState CircuitState
}

func newObservedCircuitBreaker(cb CircuitBreaker, endpoint string, observer Observer) CircuitBreaker {
	return &observedCircuitBreaker{
		cb:        cb,
		endpoint:  endpoint,
		observer:  observer,
		lastState: cb.State(),
	}
}

func (o *observedCircuitBreaker) Execute(fn func() error) error {
	// State moves an expired open breaker to half-open; report that first.
	o.report(o.cb.State())
	err := o.cb.Execute(fn)
	o.report(o.cb.State())
	return err
}

func (o *observedCircuitBreaker) State() CircuitState {
	state := o.cb.State()
	o.report(state)
	return state
}

func (o *observedCircuitBreaker) Reset() {
	o.cb.Reset()
	o.report(o.cb.State())
}

func (o *observedCircuitBreaker) report(current CircuitState) {
	o.mu.Lock()
	old := o.lastState
	o.lastState = current
	o.mu.Unlock()

	if old != current {
		o.observer.OnCircuitBreakerStateChange(o.endpoint, old, current)
	}
}

// CompositeObserver fans events out to several observers. A panicking
// observer does not stop the others or the request.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver combines observers. Nil entries are skipped.
func NewCompositeObserver(observers ...Observer) Observer {
	kept := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			kept = append(kept, obs)
		}
	}
	return &CompositeObserver{observers: kept}
}

func (c *CompositeObserver) each(fn func(Observer)) {
	for _, obs := range c.observers {
		func() {
			defer func() { _ = recover() }()
			fn(obs)
		}()
	}
}

func (c *CompositeObserver) OnRequestStart(method, path string) {
	c.each(func(o Observer) { o.OnRequestStart(method, path) })
}

func (c *CompositeObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {
	c.each(func(o Observer) { o.OnRequestEnd(method, path, duration, err) })
}

func (c *CompositeObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	c.each(func(o Observer) { o.OnRetryAttempt(method, path, attempt, delay, err) })
}

func (c *CompositeObserver) OnCircuitBreakerStateChange(endpoint string, oldState, newState CircuitState) {
	c.each(func(o Observer) { o.OnCircuitBreakerStateChange(endpoint, oldState, newState) })
}

func (c *CompositeObserver) OnCacheHit(key string) {
	c.each(func(o Observer) { o.OnCacheHit(key) })
}

func (c *CompositeObserver) OnCacheMiss(key string) {
	c.each(func(o Observer) { o.OnCacheMiss(key) })
}
