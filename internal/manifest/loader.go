package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"gopkg.in/yaml.v3"
)

// Loader reads site manifests from a fetcher or from disk
type Loader struct{}

// NewLoader creates a new manifest loader
func NewLoader() *Loader {
	return &Loader{}
}

// Fetch retrieves the manifest at location through f and parses it.
// An empty location selects domain.DefaultManifestPath. Every failure is
// returned wrapped in domain.ErrInvalidManifest.
func (l *Loader) Fetch(ctx context.Context, f domain.Fetcher, location string) (*domain.Manifest, error) {
	if location == "" {
		location = domain.DefaultManifestPath
	}

	resp, err := f.Get(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %w", domain.ErrInvalidManifest, ErrFetchFailed, location, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %w: %s: HTTP %d", domain.ErrInvalidManifest, ErrFetchFailed, location, resp.StatusCode)
	}

	ext := path.Ext(stripQuery(location))
	if ext != ".yaml" && ext != ".yml" {
		ext = ".json"
	}

	m, err := l.LoadFromBytes(resp.Body, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidManifest, location, err)
	}
	return m, nil
}

// Load reads and parses a manifest file from the given path
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	return l.LoadFromBytes(data, filepath.Ext(path))
}

// LoadFromBytes parses a manifest from raw bytes.
// Parsing is lenient: descriptors are not validated here, so a manifest
// without assets yields an empty Manifest.
func (l *Loader) LoadFromBytes(data []byte, ext string) (*domain.Manifest, error) {
	var m domain.Manifest
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if err := json.Unmarshal(trimBOM(data), &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}

	return &m, nil
}

func stripQuery(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		return location[:i]
	}
	return location
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
