package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrInvalidURL indicates an invalid site root or asset URL
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidManifest indicates the site manifest could not be used
	ErrInvalidManifest = errors.New("invalid site manifest")

	// ErrNoHandler indicates no handler is registered under a name
	ErrNoHandler = errors.New("no handler registered")

	// ErrWriteFailed indicates writing output failed
	ErrWriteFailed = errors.New("write failed")
)

// FetchError represents an error during fetching
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 503, 502, 504:
			return true
		}
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

// IsStatusError reports whether err is a fetch that completed with a
// non-success HTTP status, as opposed to a transport failure
func IsStatusError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr) && fetchErr.StatusCode > 0
}

// IsNotFound reports whether err means the resource does not exist
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == http.StatusNotFound || fetchErr.StatusCode == http.StatusGone
	}
	return false
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// HandlerError represents a failed handler invocation
type HandlerError struct {
	Handler string
	Path    string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s failed for %s: %v", e.Handler, e.Path, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// NewHandlerError creates a new HandlerError
func NewHandlerError(handler, path string, err error) *HandlerError {
	return &HandlerError{
		Handler: handler,
		Path:    path,
		Err:     err,
	}
}
