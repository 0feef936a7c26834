package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("QUALTRICS_TOKEN", "tok")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, filepath.Join(dir, "token"), cfg.TokenPath)
	assert.Equal(t, filepath.Join(dir, "goqualtrics.db"), cfg.DataPath)
	assert.Equal(t, time.Second, cfg.SettleDelay)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 600, cfg.PollAttempts)
	assert.Equal(t, 15*time.Minute, cfg.PollTimeout)
	assert.Equal(t, "sqlite", cfg.FilterStore)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("SETTLE_DELAY_MS", "0")
	t.Setenv("POLL_MAX_ATTEMPTS", "5")
	t.Setenv("VERBOSE", "true")
	t.Setenv("RESPONSE_DIR", "/srv/responses")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.SettleDelay)
	assert.Equal(t, 5, cfg.PollAttempts)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "/srv/responses", cfg.ResponseDir)
}

func TestLoad_PostgresNeedsURI(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("FILTER_STORE", "postgres")
	t.Setenv("DATABASE_URI", "")

	_, err := Load()

	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:         EnvLocal,
			BaseURL:     "https://co1.qualtrics.com/API/v3",
			DataPath:    "/tmp/goqualtrics.db",
			FilterStore: "sqlite",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty env", mutate: func(c *Config) { c.Env = "" }},
		{name: "unknown env", mutate: func(c *Config) { c.Env = "staging" }, wantErr: "Env"},
		{name: "relative base url", mutate: func(c *Config) { c.BaseURL = "co1.qualtrics.com" }, wantErr: "BaseURL"},
		{name: "empty base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: "BaseURL не может быть пустым"},
		{name: "negative attempts", mutate: func(c *Config) { c.PollAttempts = -1 }, wantErr: "PollAttempts"},
		{name: "negative interval", mutate: func(c *Config) { c.PollInterval = -time.Second }, wantErr: "PollInterval"},
		{name: "unknown store", mutate: func(c *Config) { c.FilterStore = "redis" }, wantErr: "FilterStore"},
		{name: "postgres without uri", mutate: func(c *Config) { c.FilterStore = "postgres" }, wantErr: "DatabaseURI"},
		{
			name: "postgres with uri",
			mutate: func(c *Config) {
				c.FilterStore = "postgres"
				c.DatabaseURI = "postgres://localhost/filters"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
