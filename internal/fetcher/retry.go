package fetcher

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/quantmind-br/siteassets-go/internal/domain"
)

// Retrier handles retry logic with exponential backoff
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// RetrierOptions contains options for creating a Retrier
type RetrierOptions struct {
	// MaxRetries of 0 selects the default; a negative value disables retries
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultRetrierOptions returns default retrier options
func DefaultRetrierOptions() RetrierOptions {
	return RetrierOptions{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	}
}

// NewRetrier creates a new Retrier with the given options
func NewRetrier(opts RetrierOptions) *Retrier {
	defaults := DefaultRetrierOptions()
	switch {
	case opts.MaxRetries == 0:
		opts.MaxRetries = defaults.MaxRetries
	case opts.MaxRetries < 0:
		opts.MaxRetries = 0
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = defaults.InitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = defaults.MaxInterval
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = defaults.Multiplier
	}

	return &Retrier{
		maxRetries:      opts.MaxRetries,
		initialInterval: opts.InitialInterval,
		maxInterval:     opts.MaxInterval,
		multiplier:      opts.Multiplier,
	}
}

// newBackoff creates a new exponential backoff
func (r *Retrier) newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.Multiplier = r.multiplier
	b.RandomizationFactor = 0.5
	b.Reset()

	return backoff.WithMaxRetries(b, uint64(r.maxRetries))
}

// Retry executes an operation with exponential backoff.
// Only errors accepted by domain.IsRetryable are retried.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.WithContext(r.newBackoff(), ctx)

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}

		return err
	}, b)
}

// ShouldRetryStatus returns true if the HTTP status code should be retried
func ShouldRetryStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ParseRetryAfter parses the Retry-After header value, given either as
// delay-seconds or as an HTTP date
func ParseRetryAfter(retryAfter string) time.Duration {
	retryAfter = strings.TrimSpace(retryAfter)
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(retryAfter); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}
