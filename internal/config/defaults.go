package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Site defaults
	DefaultRoot     = "."
	DefaultManifest = "site-assets.json"

	// Output defaults
	DefaultOutputDir = "./site-data"
	DefaultReport    = true

	// Fetch defaults
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3

	// Cache defaults
	DefaultCacheEnabled = false
	DefaultCacheTTL     = 10 * time.Minute

	// Directory defaults
	DefaultListing = ListingAutoindex

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// Watch defaults
	DefaultDebounce = 300 * time.Millisecond
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".siteassets"
	}
	return filepath.Join(home, ".siteassets")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Root:     DefaultRoot,
			Manifest: DefaultManifest,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
			Overwrite: false,
			Report:    DefaultReport,
		},
		Fetch: FetchConfig{
			Timeout:    DefaultTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Directory: DirectoryConfig{
			Listing: DefaultListing,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
	}
}
