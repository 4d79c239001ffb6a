package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/siteassets-go/internal/domain"
)

// Ensure LocalClient implements domain.Fetcher
var _ domain.Fetcher = (*LocalClient)(nil)

// LocalClient serves assets from a site directory on disk.
// Requests go through http.FileServer semantics, so directories answer
// with the same autoindex HTML a static host produces.
type LocalClient struct {
	root   string
	client *http.Client
}

// NewLocalClient creates a client rooted at dir
func NewLocalClient(dir string) (*LocalClient, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("site directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site root %s is not a directory", abs)
	}

	transport := http.NewFileTransport(http.Dir(abs))

	return &LocalClient{
		root:   abs,
		client: &http.Client{Transport: transport},
	}, nil
}

// Root returns the absolute site directory
func (c *LocalClient) Root() string {
	return c.root
}

// Get fetches an asset by site-relative path
func (c *LocalClient) Get(ctx context.Context, path string) (*domain.Response, error) {
	return c.GetWithHeaders(ctx, path, nil)
}

// GetWithHeaders fetches an asset; headers are passed to the file server
func (c *LocalClient) GetWithHeaders(ctx context.Context, path string, headers map[string]string) (*domain.Response, error) {
	rel := strings.TrimPrefix(filepath.ToSlash(path), "/")

	// Asset paths are URL references, as they are for an HTTP root
	if u, err := url.Parse(rel); err == nil && u.Scheme == "" && u.Host == "" {
		rel = u.Path
	}

	// Ask for directories with a trailing slash so the file server lists
	// them instead of redirecting.
	if !strings.HasSuffix(rel, "/") {
		if info, err := os.Stat(filepath.Join(c.root, filepath.FromSlash(rel))); err == nil && info.IsDir() {
			rel += "/"
		}
	}

	target := (&url.URL{Scheme: "file", Path: "/" + rel}).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: target, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &domain.FetchError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         target,
	}, nil
}

// Close releases client resources
func (c *LocalClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
