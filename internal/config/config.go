package config

import (
	"fmt"
	"strings"
	"time"
)

// Listing modes for directory.listing
const (
	ListingAutoindex = "autoindex"
	ListingIndex     = "index"
)

// Config represents the application configuration
type Config struct {
	Site      SiteConfig      `mapstructure:"site" yaml:"site"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Fetch     FetchConfig     `mapstructure:"fetch" yaml:"fetch"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Directory DirectoryConfig `mapstructure:"directory" yaml:"directory"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Watch     WatchConfig     `mapstructure:"watch" yaml:"watch"`
}

// SiteConfig locates the site and its manifest
type SiteConfig struct {
	// Root is a local directory or an http(s) base URL
	Root     string `mapstructure:"root" yaml:"root"`
	Manifest string `mapstructure:"manifest" yaml:"manifest"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite"`
	Report    bool   `mapstructure:"report" yaml:"report"`
	DryRun    bool   `mapstructure:"dry_run" yaml:"dry_run"`
	// Prune deletes artifacts an earlier run wrote that this run did not produce
	Prune bool `mapstructure:"prune" yaml:"prune"`
}

// FetchConfig contains HTTP fetch settings
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	Proxy      string        `mapstructure:"proxy" yaml:"proxy"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// DirectoryConfig selects how combo directories are listed
type DirectoryConfig struct {
	Listing string `mapstructure:"listing" yaml:"listing"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// WatchConfig contains watch mode settings
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Site.Manifest == "" {
		c.Site.Manifest = DefaultManifest
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Fetch.Timeout < time.Second {
		c.Fetch.Timeout = DefaultTimeout
	}
	if c.Cache.TTL < time.Second {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultDebounce
	}

	c.Directory.Listing = strings.ToLower(strings.TrimSpace(c.Directory.Listing))
	switch c.Directory.Listing {
	case "":
		c.Directory.Listing = ListingAutoindex
	case ListingAutoindex, ListingIndex:
	default:
		return fmt.Errorf("invalid directory.listing %q: want %s or %s", c.Directory.Listing, ListingAutoindex, ListingIndex)
	}

	switch c.Logging.Format {
	case "":
		c.Logging.Format = DefaultLogFormat
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid logging.format %q: want pretty or json", c.Logging.Format)
	}
	return nil
}
