// Package config holds tool and project settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/grokify/releaseconductor/internal/cache"
	"github.com/grokify/releaseconductor/internal/repository"
)

// EnvPrefix prefixes environment variables that override tool settings.
const EnvPrefix = "RELEASECONDUCTOR"

// Environment variables consulted for the forge token after the prefixed one.
const (
	EnvAuthToken   = "GITHUB_AUTH_TOKEN"
	EnvGitHubToken = "GITHUB_TOKEN"
)

// Setting keys.
const (
	KeyToken         = "token"
	KeyRemote        = "remote"
	KeyRepo          = "repo"
	KeyFormat        = "format"
	KeyDryRun        = "dry-run"
	KeyVerbose       = "verbose"
	KeyConcurrency   = "concurrency"
	KeyTimeout       = "timeout"
	KeyRetries       = "retries"
	KeyCacheDisabled = "cache.disabled"
	KeyCacheDir      = "cache.dir"
	KeyCacheTTL      = "cache.ttl"
)

// Output formats.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// Config is the resolved tool configuration for one invocation.
type Config struct {
	Token       string
	Remote      string
	Repo        string // owner/name override
	Format      string
	DryRun      bool
	Verbose     bool
	Concurrency int
	Timeout     time.Duration
	Retries     int
	Cache       CacheConfig
}

// CacheConfig configures the forge response cache.
type CacheConfig struct {
	Disabled bool
	Dir      string
	TTL      time.Duration
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRemote, "origin")
	v.SetDefault(KeyFormat, FormatTable)
	v.SetDefault(KeyConcurrency, repository.DefaultConcurrency)
	v.SetDefault(KeyTimeout, 10*time.Second)
	v.SetDefault(KeyRetries, 3)
	v.SetDefault(KeyCacheDisabled, false)
	v.SetDefault(KeyCacheDir, "")
	v.SetDefault(KeyCacheTTL, cache.DefaultTTL)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// The prefixed variable wins over the generic ones.
	_ = v.BindEnv(KeyToken, EnvPrefix+"_TOKEN", EnvAuthToken, EnvGitHubToken)
}

// FromViper resolves and validates the settings in v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Token:       strings.TrimSpace(v.GetString(KeyToken)),
		Remote:      v.GetString(KeyRemote),
		Repo:        v.GetString(KeyRepo),
		Format:      strings.ToLower(v.GetString(KeyFormat)),
		DryRun:      v.GetBool(KeyDryRun),
		Verbose:     v.GetBool(KeyVerbose),
		Concurrency: v.GetInt(KeyConcurrency),
		Timeout:     v.GetDuration(KeyTimeout),
		Retries:     v.GetInt(KeyRetries),
		Cache: CacheConfig{
			Disabled: v.GetBool(KeyCacheDisabled),
			Dir:      v.GetString(KeyCacheDir),
			TTL:      v.GetDuration(KeyCacheTTL),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Format {
	case FormatTable, FormatJSON, FormatMarkdown, FormatCSV:
	default:
		return fmt.Errorf("unsupported format %q: use table, json, markdown or csv", c.Format)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.Repo != "" && !strings.Contains(c.Repo, "/") {
		return fmt.Errorf("repo must be in owner/name format, got %q", c.Repo)
	}
	return nil
}
