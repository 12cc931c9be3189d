package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()

	for _, env := range []string{EnvPrefix + "_TOKEN", EnvAuthToken, EnvGitHubToken} {
		t.Setenv(env, "")
	}
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(t))

	require.NoError(t, err)
	assert.Equal(t, Config{
		Remote:      "origin",
		Format:      FormatTable,
		Concurrency: 4,
		Timeout:     10 * time.Second,
		Retries:     3,
		Cache:       CacheConfig{TTL: 10 * time.Minute},
	}, cfg)
}

func TestFromViper_TokenPrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"github token", map[string]string{EnvGitHubToken: "gh"}, "gh"},
		{"auth token over github token", map[string]string{EnvGitHubToken: "gh", EnvAuthToken: "auth"}, "auth"},
		{"prefixed over all", map[string]string{EnvGitHubToken: "gh", EnvAuthToken: "auth", "RELEASECONDUCTOR_TOKEN": "rc"}, "rc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			for k, val := range tt.env {
				t.Setenv(k, val)
			}

			cfg, err := FromViper(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Token)
		})
	}
}

func TestFromViper_FlagOverridesEnv(t *testing.T) {
	v := newViper(t)
	t.Setenv(EnvGitHubToken, "env")
	v.Set(KeyToken, "flag")

	cfg, err := FromViper(v)

	require.NoError(t, err)
	assert.Equal(t, "flag", cfg.Token)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	v := newViper(t)
	t.Setenv("RELEASECONDUCTOR_CONCURRENCY", "8")
	t.Setenv("RELEASECONDUCTOR_CACHE_DISABLED", "true")
	t.Setenv("RELEASECONDUCTOR_DRY_RUN", "true")

	cfg, err := FromViper(v)

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.True(t, cfg.Cache.Disabled)
	assert.True(t, cfg.DryRun)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{KeyFormat, "yaml"},
		{KeyConcurrency, 0},
		{KeyTimeout, "0s"},
		{KeyRetries, -1},
		{KeyRepo, "no-slash"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper(t)
			v.Set(tt.key, tt.value)

			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}
