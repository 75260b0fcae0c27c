package sdk

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors. Use errors.Is to test for them; *Error values match the
// sentinel of their ErrorType.
var (
	// ErrInvalidConfig is returned when the configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound is returned when the API has no such resource
	ErrNotFound = errors.New("resource not found")

	// ErrTimeout is returned when a request times out
	ErrTimeout = errors.New("request timeout")

	// ErrServerError is returned for 5xx server errors
	ErrServerError = errors.New("server error")

	// ErrInvalidResponse is returned when the server response cannot be parsed
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrCircuitOpen is returned when the circuit breaker is open
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrRateLimited is returned when the API answers 429
	ErrRateLimited = errors.New("rate limited")

	// ErrRetryBudgetExhausted is returned when retry budget is exhausted
	ErrRetryBudgetExhausted = errors.New("retry budget exhausted")

	// ErrValidation is returned when input is rejected before any request is sent
	ErrValidation = errors.New("validation failed")

	// ErrClientClosed is returned by calls made after Close
	ErrClientClosed = errors.New("client is closed")
)

// ErrorType categorizes failures for retry and handling decisions.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork covers connection refused, DNS failures and broken reads
	ErrorTypeNetwork
	// ErrorTypeTimeout covers request timeouts and context deadlines
	ErrorTypeTimeout
	// ErrorTypeServer covers 5xx replies
	ErrorTypeServer
	// ErrorTypeClient covers 4xx replies other than 408 and 429
	ErrorTypeClient
	ErrorTypeCircuitOpen
	ErrorTypeRateLimit
	// ErrorTypeValidation covers rejected input and bad configuration
	ErrorTypeValidation
	ErrorTypeRetryBudget
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeServer:
		return "server"
	case ErrorTypeClient:
		return "client"
	case ErrorTypeCircuitOpen:
		return "circuit_open"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeRetryBudget:
		return "retry_budget"
	default:
		return "unknown"
	}
}

// Error is the classified error returned by the transport. It wraps the
// underlying cause (an *APIError, *NetworkError, context error, ...) and
// supports errors.Is against the package sentinels.
//
//	var sdkErr *sdk.Error
//	if errors.As(err, &sdkErr) && sdkErr.Context != nil {
//	    log.Printf("%s %s failed after %d retries", sdkErr.Context.Method, sdkErr.Context.URL, sdkErr.Context.RetryCount)
//	}
type Error struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code,omitempty"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
	Context   *ErrorContext          `json:"context,omitempty"`
	wrapped   error
}

// ErrorContext describes the request that failed.
type ErrorContext struct {
	URL        string        `json:"url,omitempty"`
	Method     string        `json:"method,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	RetryCount int           `json:"retry_count,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Context != nil && e.Context.URL != "" {
		return fmt.Sprintf("%s error: %s (%s %s, retries: %d)", e.Type, e.Message, e.Context.Method, e.Context.URL, e.Context.RetryCount)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is implements errors.Is
func (e *Error) Is(target error) bool {
	switch e.Type {
	case ErrorTypeTimeout:
		return target == ErrTimeout
	case ErrorTypeServer:
		return target == ErrServerError
	case ErrorTypeCircuitOpen:
		return target == ErrCircuitOpen
	case ErrorTypeRateLimit:
		return target == ErrRateLimited
	case ErrorTypeRetryBudget:
		return target == ErrRetryBudgetExhausted
	case ErrorTypeValidation:
		return target == ErrValidation
	case ErrorTypeClient:
		if target == ErrNotFound {
			var apiErr *APIError
			return errors.As(e.wrapped, &apiErr) && apiErr.IsNotFound()
		}
	}
	return false
}

// IsRetryable returns true if the error is retryable
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// WithContext adds error context
func (e *Error) WithContext(ctx *ErrorContext) *Error {
	e.Context = ctx
	return e
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewError creates a classified error
func NewError(errType ErrorType, message string, wrapped error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Retryable: isRetryableType(errType),
		wrapped:   wrapped,
	}
}

// NewErrorWithCode creates a classified error carrying a server error code
func NewErrorWithCode(errType ErrorType, code, message string, wrapped error) *Error {
	err := NewError(errType, message, wrapped)
	err.Code = code
	return err
}

// NewValidationError reports input rejected before a request was made.
func NewValidationError(message string, cause error) *Error {
	return NewError(ErrorTypeValidation, message, cause)
}

func isRetryableType(errType ErrorType) bool {
	switch errType {
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeServer, ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}

// APIError is a non-2xx reply from the VRChat API. The API reports errors as
//
//	{"error": {"message": "\"User Not Found\"", "status_code": 404}}
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	Details    string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API error (status %d): %s - %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true for 404 replies
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.Code == "NOT_FOUND"
}

// IsServerError returns true for 5xx replies
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// IsClientError returns true for 4xx replies
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsRetryable reports whether repeating the request may succeed
func (e *APIError) IsRetryable() bool {
	if e.IsServerError() {
		return true
	}
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ToError classifies the reply
func (e *APIError) ToError() *Error {
	errType := ErrorTypeClient
	switch {
	case e.IsServerError():
		errType = ErrorTypeServer
	case e.StatusCode == http.StatusTooManyRequests:
		errType = ErrorTypeRateLimit
	case e.StatusCode == http.StatusRequestTimeout:
		errType = ErrorTypeTimeout
	}

	err := NewErrorWithCode(errType, e.Code, e.Message, e)
	if e.Details != "" {
		err.WithDetail("api_details", e.Details)
	}
	err.WithDetail("status_code", e.StatusCode)
	return err
}

// NetworkError is a failure below HTTP: dial, TLS, broken body reads.
type NetworkError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable is always true for network errors
func (e *NetworkError) IsRetryable() bool {
	return true
}

// ToError classifies the failure
func (e *NetworkError) ToError() *Error {
	err := NewError(ErrorTypeNetwork, e.Error(), e)
	err.WithDetail("operation", e.Op)
	return err
}

// TimeoutError is an operation that exceeded its deadline.
type TimeoutError struct {
	Op string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout during %s", e.Op)
}

// IsRetryable is always true for timeouts
func (e *TimeoutError) IsRetryable() bool {
	return true
}

// ToError classifies the failure
func (e *TimeoutError) ToError() *Error {
	err := NewError(ErrorTypeTimeout, e.Error(), e)
	err.WithDetail("operation", e.Op)
	return err
}

// IsNotFound reports whether err means the API has no such resource.
//
//	user, err := client.FetchUser(ctx, id)
//	if sdk.IsNotFound(err) {
//	    // deleted or banned account
//	}
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsNotFound()
	}
	return false
}

// IsRetryable reports whether err is transient: network failures, timeouts,
// 5xx and 429 replies. Client errors, validation errors and an open circuit
// are not retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrServerError) || errors.Is(err, ErrRateLimited) {
		return true
	}

	var enhancedErr *Error
	if errors.As(err, &enhancedErr) {
		return enhancedErr.IsRetryable()
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.IsRetryable()
	}

	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// WrapError classifies err with the given type and message. An err that is
// already an *Error keeps its type and only has its message replaced.
func WrapError(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var enhancedErr *Error
	if errors.As(err, &enhancedErr) {
		enhancedErr.Message = message
		return enhancedErr
	}

	return NewError(errType, message, err)
}
