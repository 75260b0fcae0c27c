package sdk

import (
	"sync"
	"time"
)

// CircuitState is the state of a circuit breaker.
//
//	Closed -> Open       after FailureThreshold consecutive failures
//	Open -> Half-Open    once Timeout has elapsed since the last failure
//	Half-Open -> Closed  after SuccessThreshold consecutive successes
//	Half-Open -> Open    on any failure
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// String returns the string representation of the circuit state
func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker fails calls fast while the API is unhealthy. Only
// failures for which countsAsFailure is true trip the breaker, so a run of
// 404s for missing users does not open it.
type CircuitBreaker interface {
	// Execute runs fn unless the circuit is open, in which case it returns
	// an error matching ErrCircuitOpen without calling fn.
	Execute(fn func() error) error

	State() CircuitState

	// Reset forces the circuit closed.
	Reset()
}

// CircuitBreakerConfig tunes a circuit breaker. Zero fields are replaced by
// the defaults during Config.Validate.
type CircuitBreakerConfig struct {
	// FailureThreshold consecutive failures open the circuit. Default: 5
	FailureThreshold int

	// SuccessThreshold consecutive half-open successes close it. Default: 2
	SuccessThreshold int

	// Timeout is how long the circuit stays open. Default: 30s
	Timeout time.Duration

	// HalfOpenRequests caps trial requests while half-open. Default: 3
	HalfOpenRequests int
}

// DefaultCircuitBreakerConfig returns the default thresholds.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		HalfOpenRequests: 3,
	}
}

type circuitBreaker struct {
	config CircuitBreakerConfig

	mu               sync.Mutex
	state            CircuitState
	failures         int
	successes        int
	halfOpenRequests int
	lastFailureTime  time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) CircuitBreaker {
	return &circuitBreaker{
		config: config,
		state:  CircuitClosed,
	}
}

func (cb *circuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	cb.checkStateTransition()

	switch cb.state {
	case CircuitOpen:
		cb.mu.Unlock()
		return NewError(ErrorTypeCircuitOpen, "circuit breaker is open", ErrCircuitOpen)
	case CircuitHalfOpen:
		if cb.halfOpenRequests >= cb.config.HalfOpenRequests {
			cb.mu.Unlock()
			return NewError(ErrorTypeCircuitOpen, "circuit breaker half-open limit reached", ErrCircuitOpen)
		}
		cb.halfOpenRequests++
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	if countsAsFailure(err) {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
	cb.mu.Unlock()

	return err
}

func (cb *circuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.checkStateTransition()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.transitionTo(CircuitClosed)
	cb.failures = 0
}

func (cb *circuitBreaker) checkStateTransition() {
	if cb.state == CircuitOpen && time.Since(cb.lastFailureTime) >= cb.config.Timeout {
		cb.transitionTo(CircuitHalfOpen)
	}
}

func (cb *circuitBreaker) onSuccess() {
	switch cb.state {
	case CircuitClosed:
		cb.failures = 0
	case CircuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.transitionTo(CircuitClosed)
		}
	}
}

func (cb *circuitBreaker) onFailure() {
	cb.lastFailureTime = time.Now()

	switch cb.state {
	case CircuitClosed:
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			cb.transitionTo(CircuitOpen)
		}
	case CircuitHalfOpen:
		cb.transitionTo(CircuitOpen)
	}
}

func (cb *circuitBreaker) transitionTo(newState CircuitState) {
	if cb.state == newState {
		return
	}
	cb.state = newState
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenRequests = 0
}

// countsAsFailure is true for errors that say something about API health.
// Client errors (bad ids, missing resources, validation) leave the circuit alone.
func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	return IsRetryable(err)
}

// endpointBreakers keeps one observed breaker per "METHOD route" key,
// e.g. "GET /users/{id}". Entries are created on first use and reused.
type endpointBreakers struct {
	mu       sync.RWMutex
	breakers map[string]CircuitBreaker
	config   CircuitBreakerConfig
	observer Observer
}

func newEndpointBreakers(config CircuitBreakerConfig, observer Observer) *endpointBreakers {
	if observer == nil {
		observer = &NoopObserver{}
	}
	return &endpointBreakers{
		breakers: make(map[string]CircuitBreaker),
		config:   config,
		observer: observer,
	}
}

func (eb *endpointBreakers) get(endpoint string) CircuitBreaker {
	eb.mu.RLock()
	cb, ok := eb.breakers[endpoint]
	eb.mu.RUnlock()
	if ok {
		return cb
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()
	if cb, ok := eb.breakers[endpoint]; ok {
		return cb
	}
	cb = newObservedCircuitBreaker(NewCircuitBreaker(eb.config), endpoint, eb.observer)
	eb.breakers[endpoint] = cb
	return cb
}

type noopCircuitBreaker struct{}

func (noopCircuitBreaker) Execute(fn func() error) error { return fn() }
func (noopCircuitBreaker) State() CircuitState           { return CircuitClosed }
func (noopCircuitBreaker) Reset()                        {}

// NewNoopCircuitBreaker returns a breaker that never opens.
func NewNoopCircuitBreaker() CircuitBreaker {
	return noopCircuitBreaker{}
}
