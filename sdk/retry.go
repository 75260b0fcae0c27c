package sdk

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryStrategy decides whether and when a failed request is repeated.
//
//	type squareBackoff struct{}
//
//	func (squareBackoff) NextInterval(attempt int) time.Duration {
//	    return time.Duration(attempt*attempt) * 100 * time.Millisecond
//	}
//
//	func (squareBackoff) ShouldRetry(err error, attempt int) bool {
//	    return sdk.IsRetryable(err) && attempt <= 4
//	}
type RetryStrategy interface {
	// NextInterval returns the delay before retry number attempt (1-based).
	// Zero stops retrying.
	NextInterval(attempt int) time.Duration

	// ShouldRetry reports whether err justifies retry number attempt.
	ShouldRetry(err error, attempt int) bool
}

// budgeted is implemented by strategies that carry a RetryBudget.
type budgeted interface {
	RetryBudget() RetryBudget
}

// RetryBudget bounds retries by count, elapsed time and error type.
type RetryBudget struct {
	// MaxAttempts caps the number of retries. Zero means unlimited.
	MaxAttempts int

	// MaxDuration caps the time spent across all attempts. Zero means unlimited.
	MaxDuration time.Duration

	// RetryableErrors restricts retries to these types when non-empty.
	RetryableErrors []ErrorType
}

// DefaultRetryBudget allows 3 retries within 30 seconds.
func DefaultRetryBudget() RetryBudget {
	return RetryBudget{
		MaxAttempts: 3,
		MaxDuration: 30 * time.Second,
	}
}

// IsExhausted reports whether retry number attempt exceeds the budget.
func (rb RetryBudget) IsExhausted(attempt int, elapsed time.Duration) bool {
	if rb.MaxAttempts > 0 && attempt > rb.MaxAttempts {
		return true
	}
	if rb.MaxDuration > 0 && elapsed >= rb.MaxDuration {
		return true
	}
	return false
}

// IsRetryable reports whether err is transient and allowed by the budget.
func (rb RetryBudget) IsRetryable(err error) bool {
	if !IsRetryable(err) {
		return false
	}
	if len(rb.RetryableErrors) == 0 {
		return true
	}

	var sdkErr *Error
	if errors.As(err, &sdkErr) {
		for _, allowed := range rb.RetryableErrors {
			if sdkErr.Type == allowed {
				return true
			}
		}
	}
	return false
}

// ExponentialBackoffStrategy waits InitialInterval * Multiplier^(attempt-1),
// capped at MaxInterval, with ±Jitter randomization.
type ExponentialBackoffStrategy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// Jitter is a fraction between 0 and 1.
	Jitter float64
	Budget RetryBudget
}

// DefaultExponentialBackoff produces roughly 100ms, 200ms, 400ms with ±30% jitter.
func DefaultExponentialBackoff() *ExponentialBackoffStrategy {
	return &ExponentialBackoffStrategy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		Jitter:          0.3,
		Budget:          DefaultRetryBudget(),
	}
}

func newExponentialBackoff(rc RetryConfig) *ExponentialBackoffStrategy {
	return &ExponentialBackoffStrategy{
		InitialInterval: rc.InitialInterval,
		MaxInterval:     rc.MaxInterval,
		Multiplier:      rc.Multiplier,
		Jitter:          0.3,
		Budget: RetryBudget{
			MaxAttempts: rc.MaxRetries,
			MaxDuration: 30 * time.Second,
		},
	}
}

func (s *ExponentialBackoffStrategy) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	interval := float64(s.InitialInterval) * math.Pow(s.Multiplier, float64(attempt-1))
	if interval > float64(s.MaxInterval) {
		interval = float64(s.MaxInterval)
	}
	if s.Jitter > 0 {
		interval += interval * s.Jitter * (2*rand.Float64() - 1)
	}
	if interval < 0 {
		interval = 0
	}
	return time.Duration(interval)
}

func (s *ExponentialBackoffStrategy) ShouldRetry(err error, attempt int) bool {
	return s.Budget.IsRetryable(err)
}

func (s *ExponentialBackoffStrategy) RetryBudget() RetryBudget { return s.Budget }

// ConstantBackoffStrategy waits the same Interval before every retry.
type ConstantBackoffStrategy struct {
	Interval time.Duration
	Budget   RetryBudget
}

// DefaultConstantBackoff waits 500ms between up to 3 retries.
func DefaultConstantBackoff() *ConstantBackoffStrategy {
	return &ConstantBackoffStrategy{
		Interval: 500 * time.Millisecond,
		Budget:   DefaultRetryBudget(),
	}
}

func (s *ConstantBackoffStrategy) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return s.Interval
}

func (s *ConstantBackoffStrategy) ShouldRetry(err error, attempt int) bool {
	return s.Budget.IsRetryable(err)
}

func (s *ConstantBackoffStrategy) RetryBudget() RetryBudget { return s.Budget }

// NoRetryStrategy fails on the first error.
type NoRetryStrategy struct{}

func (s *NoRetryStrategy) NextInterval(attempt int) time.Duration  { return 0 }
func (s *NoRetryStrategy) ShouldRetry(err error, attempt int) bool { return false }

// retryExecutor runs an operation under a strategy.
type retryExecutor struct {
	strategy RetryStrategy
	// onRetry is called before each wait; may be nil.
	onRetry func(attempt int, delay time.Duration, err error)
}

func newRetryExecutor(strategy RetryStrategy) *retryExecutor {
	if strategy == nil {
		strategy = DefaultExponentialBackoff()
	}
	return &retryExecutor{strategy: strategy}
}

// Execute calls fn until it succeeds, the strategy gives up, the budget runs
// out or ctx is done. fn receives the 0-based attempt number. The last error
// from fn is returned unchanged unless ctx ended the loop.
func (re *retryExecutor) Execute(ctx context.Context, fn func(attempt int) error) error {
	start := time.Now()

	var budget *RetryBudget
	if b, ok := re.strategy.(budgeted); ok {
		rb := b.RetryBudget()
		budget = &rb
	}

	for attempt := 0; ; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}

		retry := attempt + 1
		if !re.strategy.ShouldRetry(err, retry) {
			return err
		}
		if ctx.Err() != nil {
			return WrapError(ctx.Err(), ErrorTypeTimeout, "context canceled during retry")
		}
		if budget != nil && budget.IsExhausted(retry, time.Since(start)) {
			return err
		}

		interval := re.strategy.NextInterval(retry)
		if interval <= 0 {
			return err
		}
		if re.onRetry != nil {
			re.onRetry(retry, interval, err)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return WrapError(ctx.Err(), ErrorTypeTimeout, "context canceled during retry wait")
		case <-timer.C:
		}
	}
}
