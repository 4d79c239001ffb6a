package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalWd) })
}

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name: "defaults are valid",
		},
		{
			name: "empty manifest defaults",
			modify: func(c *Config) {
				c.Site.Manifest = ""
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultManifest, c.Site.Manifest)
			},
		},
		{
			name: "timeout below minimum defaults to 30s",
			modify: func(c *Config) {
				c.Fetch.Timeout = 100 * time.Millisecond
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultTimeout, c.Fetch.Timeout)
			},
		},
		{
			name: "zero debounce defaults",
			modify: func(c *Config) {
				c.Watch.Debounce = 0
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultDebounce, c.Watch.Debounce)
			},
		},
		{
			name: "listing is normalized",
			modify: func(c *Config) {
				c.Directory.Listing = " INDEX "
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, ListingIndex, c.Directory.Listing)
			},
		},
		{
			name: "empty listing defaults to autoindex",
			modify: func(c *Config) {
				c.Directory.Listing = ""
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, ListingAutoindex, c.Directory.Listing)
			},
		},
		{
			name: "unknown listing",
			modify: func(c *Config) {
				c.Directory.Listing = "ftp"
			},
			wantErr: true,
		},
		{
			name: "unknown log format",
			modify: func(c *Config) {
				c.Logging.Format = "xml"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if tt.modify != nil {
				tt.modify(cfg)
			}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// TestDefault tests default configuration
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultRoot, cfg.Site.Root)
	assert.Equal(t, "site-assets.json", cfg.Site.Manifest)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.False(t, cfg.Output.Overwrite)
	assert.True(t, cfg.Output.Report)
	assert.Equal(t, DefaultTimeout, cfg.Fetch.Timeout)
	assert.Equal(t, DefaultMaxRetries, cfg.Fetch.MaxRetries)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Contains(t, cfg.Cache.Directory, "cache")
	assert.Equal(t, ListingAutoindex, cfg.Directory.Listing)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
}

func TestPaths(t *testing.T) {
	assert.Contains(t, ConfigDir(), ".siteassets")
	assert.True(t, strings.HasSuffix(CacheDir(), "cache"))
	assert.True(t, strings.HasSuffix(ConfigFilePath(), "config.yaml"))
}

// loadFresh loads configuration into a new viper instance so tests do not
// share flag bindings through the global one
func loadFresh() (*Config, error) {
	return load(viper.New(), "")
}

// TestLoad_LoadWithMissingConfig tests loading with no config file
func TestLoad_LoadWithMissingConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := loadFresh()
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.Equal(t, DefaultManifest, cfg.Site.Manifest)
}

// TestLoad_WithInvalidConfigFile tests loading with invalid config file
func TestLoad_WithInvalidConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("invalid: yaml: content: ["), 0644))
	chdir(t, tmpDir)

	cfg, err := loadFresh()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

// TestLoad_WithValidConfigFile tests loading with valid config file
func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmpDir := t.TempDir()
	configContent := `
site:
  root: "https://example.com/band"
  manifest: "assets.yaml"
output:
  directory: "./test-output"
  overwrite: true
fetch:
  max_retries: 5
directory:
  listing: index
watch:
  debounce: 1s
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(configContent), 0644))
	chdir(t, tmpDir)

	cfg, err := loadFresh()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/band", cfg.Site.Root)
	assert.Equal(t, "assets.yaml", cfg.Site.Manifest)
	assert.Equal(t, "./test-output", cfg.Output.Directory)
	assert.True(t, cfg.Output.Overwrite)
	assert.Equal(t, 5, cfg.Fetch.MaxRetries)
	assert.Equal(t, ListingIndex, cfg.Directory.Listing)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidListingInFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("directory:\n  listing: ftp\n"), 0644))
	chdir(t, tmpDir)

	_, err := loadFresh()
	assert.ErrorContains(t, err, "directory.listing")
}

// TestLoadWithEnvironmentVariable tests loading with environment variable
func TestLoadWithEnvironmentVariable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SITEASSETS_OUTPUT_DIRECTORY", "./env-output")
	t.Setenv("SITEASSETS_CACHE_ENABLED", "true")
	chdir(t, t.TempDir())

	cfg, err := loadFresh()
	require.NoError(t, err)

	assert.Equal(t, "./env-output", cfg.Output.Directory)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  directory: ./custom\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "./custom", cfg.Output.Directory)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
