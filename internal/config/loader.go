package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (SITEASSETS_OUTPUT_DIRECTORY, ...)
const EnvPrefix = "SITEASSETS"

// Load loads configuration from file, environment, and defaults
// Uses the global viper instance to access CLI flag bindings
func Load() (*Config, error) {
	return load(viper.GetViper(), "")
}

// LoadFile loads configuration like Load but reads the given file
// instead of searching the config directories
func LoadFile(path string) (*Config, error) {
	return load(viper.GetViper(), path)
}

func load(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate and apply defaults for invalid values
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("site.root", DefaultRoot)
	v.SetDefault("site.manifest", DefaultManifest)

	v.SetDefault("output.directory", DefaultOutputDir)
	v.SetDefault("output.overwrite", false)
	v.SetDefault("output.report", DefaultReport)
	v.SetDefault("output.dry_run", false)
	v.SetDefault("output.prune", false)

	v.SetDefault("fetch.timeout", DefaultTimeout)
	v.SetDefault("fetch.max_retries", DefaultMaxRetries)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.proxy", "")

	v.SetDefault("cache.enabled", DefaultCacheEnabled)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.directory", CacheDir())

	v.SetDefault("directory.listing", DefaultListing)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)

	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.debounce", DefaultDebounce)
}
