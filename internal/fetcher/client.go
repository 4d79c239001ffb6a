package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/quantmind-br/siteassets-go/internal/cache"
	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// Ensure Client implements domain.Fetcher
var _ domain.Fetcher = (*Client)(nil)

// Client fetches site assets over HTTP(S) using tls-client
type Client struct {
	tlsClient    tls_client.HttpClient
	root         string
	userAgent    string
	retrier      *Retrier
	cache        domain.Cache
	cacheEnabled bool
	cacheTTL     time.Duration
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	// Root is the site base URL that relative asset paths resolve against
	Root    string
	Timeout time.Duration
	// MaxRetries of 0 selects the default; a negative value disables retries
	MaxRetries  int
	EnableCache bool
	CacheTTL    time.Duration
	Cache       domain.Cache
	UserAgent   string
	ProxyURL    string
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		EnableCache: false,
		CacheTTL:    10 * time.Minute,
		UserAgent:   "",
		ProxyURL:    "",
	}
}

// NewClient creates a new HTTP asset client
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Root != "" && !utils.IsHTTPURL(opts.Root) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidURL, opts.Root)
	}

	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(opts.Timeout.Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithRandomTLSExtensionOrder(),
	}

	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      maxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	})

	return &Client{
		tlsClient:    tlsClient,
		root:         opts.Root,
		userAgent:    opts.UserAgent,
		retrier:      retrier,
		cache:        opts.Cache,
		cacheEnabled: opts.EnableCache,
		cacheTTL:     opts.CacheTTL,
	}, nil
}

// Root returns the site base URL
func (c *Client) Root() string {
	return c.root
}

// Get fetches an asset by path or absolute URL
func (c *Client) Get(ctx context.Context, path string) (*domain.Response, error) {
	return c.GetWithHeaders(ctx, path, nil)
}

// GetWithHeaders fetches an asset with custom headers
func (c *Client) GetWithHeaders(ctx context.Context, path string, extraHeaders map[string]string) (*domain.Response, error) {
	targetURL, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled && c.cache != nil {
		cached, err := c.getFromCache(ctx, targetURL)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var resp *domain.Response
	err = c.retrier.Retry(ctx, func() error {
		var err error
		resp, err = c.doRequest(ctx, targetURL, extraHeaders)
		return err
	})
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled && c.cache != nil && resp != nil {
		_ = c.saveToCache(ctx, targetURL, resp)
	}

	return resp, nil
}

// resolve turns an asset path into an absolute URL under the root
func (c *Client) resolve(path string) (string, error) {
	if utils.IsAbsoluteURL(path) {
		return path, nil
	}
	if c.root == "" {
		return "", fmt.Errorf("%w: relative path %q without a site root", domain.ErrInvalidURL, path)
	}
	resolved, err := utils.ResolveURL(c.root, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	return resolved, nil
}

// doRequest performs the actual HTTP request
func (c *Client) doRequest(ctx context.Context, targetURL string, extraHeaders map[string]string) (*domain.Response, error) {
	req, err := fhttp.NewRequest(fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req = req.WithContext(ctx)

	for k, v := range RequestHeaders(c.userAgent) {
		req.Header.Set(k, v)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.tlsClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{
			URL: targetURL,
			Err: fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if ShouldRetryStatus(resp.StatusCode) {
			return nil, &domain.RetryableError{
				Err:        &domain.FetchError{URL: targetURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)},
				RetryAfter: int(ParseRetryAfter(resp.Header.Get("Retry-After")).Seconds()),
			}
		}
		return nil, &domain.FetchError{
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	httpHeaders := make(http.Header)
	for k, v := range resp.Header {
		httpHeaders[k] = v
	}

	return &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     httpHeaders,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         targetURL,
		FromCache:   false,
	}, nil
}

// Close releases client resources
func (c *Client) Close() error {
	// tls-client keeps no resources that need explicit release
	return nil
}

// getFromCache retrieves a response from cache
func (c *Client) getFromCache(ctx context.Context, url string) (*domain.Response, error) {
	data, err := c.cache.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	entry, err := cache.DecodeEntry(data)
	if err != nil {
		return nil, err
	}
	if entry.IsExpired() {
		return nil, domain.ErrCacheMiss
	}

	return &domain.Response{
		StatusCode:  http.StatusOK,
		Body:        entry.Content,
		Headers:     http.Header{"Content-Type": []string{entry.ContentType}},
		ContentType: entry.ContentType,
		URL:         url,
		FromCache:   true,
	}, nil
}

// saveToCache saves a response to cache
func (c *Client) saveToCache(ctx context.Context, url string, resp *domain.Response) error {
	now := time.Now()
	entry := &cache.Entry{
		URL:         url,
		Content:     resp.Body,
		ContentType: resp.ContentType,
		FetchedAt:   now,
		ExpiresAt:   now.Add(c.cacheTTL),
	}
	data, err := entry.Encode()
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, url, data, c.cacheTTL)
}
