package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/fetcher"
)

// FetchJSON fetches path and decodes the body as JSON.
// Numbers decode to float64, objects to map[string]any.
func FetchJSON(ctx context.Context, f domain.Fetcher, path string) (any, error) {
	resp, err := get(ctx, f, path)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal(trimBOM(resp.Body), &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s as JSON: %w", path, err)
	}
	return v, nil
}

// FetchText fetches path and returns the body decoded to UTF-8
func FetchText(ctx context.Context, f domain.Fetcher, path string) (string, error) {
	resp, err := get(ctx, f, path)
	if err != nil {
		return "", err
	}

	text, err := fetcher.DecodeText(resp.Body, resp.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return text, nil
}

// get fetches path and turns a non-success response into a FetchError
func get(ctx context.Context, f domain.Fetcher, path string) (*domain.Response, error) {
	resp, err := f.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, domain.NewFetchError(path, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	return resp, nil
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
