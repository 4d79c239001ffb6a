package domain

import (
	"context"
	"net/http"
	"time"
)

//go:generate mockgen -destination=../mocks/domain_mocks.go -package=mocks . Fetcher,Cache

// Fetcher retrieves site resources relative to a site root
type Fetcher interface {
	// Get fetches a resource by path or absolute URL
	Get(ctx context.Context, path string) (*Response, error)
	// GetWithHeaders fetches a resource with extra request headers
	GetWithHeaders(ctx context.Context, path string, headers map[string]string) (*Response, error)
	// Close releases resources
	Close() error
}

// Response represents a fetched resource
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
	FromCache   bool
}

// OK reports whether the response carries a success status
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Cache defines the interface for response caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

// Handler consumes the loaded content of one asset.
// content is nil when the asset produced no entry.
type Handler interface {
	Handle(ctx context.Context, content any, path string) error
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, content any, path string) error

// Handle calls f(ctx, content, path)
func (f HandlerFunc) Handle(ctx context.Context, content any, path string) error {
	return f(ctx, content, path)
}
