package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Data:     DataConfig{BasePath: "/some/path"},
		Upstream: UpstreamConfig{APIURL: "http://localhost:8000", Limit: 50},
		Refresh:  RefreshConfig{Interval: 5 * time.Minute, WarmupPollInterval: 10 * time.Second, MaxAttempts: 3},
		Time:     TimeConfig{ReferenceZone: "UTC"},
		Sessions: SessionConfig{IdleTTL: 30 * time.Minute, SweepInterval: 5 * time.Minute},
	}
}

// unsetEnv clears keys for the test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }},
		{"relative api url", func(c *Config) { c.Upstream.APIURL = "localhost:8000" }},
		{"non http api url", func(c *Config) { c.Upstream.APIURL = "ftp://example.com" }},
		{"zero limit", func(c *Config) { c.Upstream.Limit = 0 }},
		{"zero interval", func(c *Config) { c.Refresh.Interval = 0 }},
		{"zero attempts", func(c *Config) { c.Refresh.MaxAttempts = 0 }},
		{"unknown zone", func(c *Config) { c.Time.ReferenceZone = "Mars/Olympus" }},
		{"negative min score", func(c *Config) { c.Search.MinScore = -1 }},
		{"zero sweep interval", func(c *Config) { c.Sessions.SweepInterval = 0 }},
		{"negative sweep interval", func(c *Config) { c.Sessions.SweepInterval = -time.Second }},
		{"zero idle ttl", func(c *Config) { c.Sessions.IdleTTL = 0 }},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitRPS = -1 }},
		{"rate limit without burst", func(c *Config) { c.Server.RateLimitRPS = 5; c.Server.RateLimitBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "API_URL", "UPSTREAM_LIMIT", "REFRESH_INTERVAL", "REFERENCE_TIMEZONE", "ENV", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS")
	dataDir := t.TempDir()

	cfg, err := Load([]string{"-env-file", filepath.Join(dataDir, "missing.env"), "-data-path", dataDir})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "http://localhost:8000", cfg.Upstream.APIURL)
	assert.Equal(t, 50, cfg.Upstream.Limit)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, 10*time.Second, cfg.Refresh.WarmupPollInterval)
	assert.Equal(t, "UTC", cfg.Time.ReferenceZone)
	assert.Equal(t, dataDir, cfg.Data.BasePath)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestValidate_RateLimitDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Server.RateLimitRPS = 0
	cfg.Server.RateLimitBurst = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoad_RejectsZeroSweepInterval(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("SESSION_SWEEP_INTERVAL", "0s")

	_, err := Load([]string{"-env-file", filepath.Join(dataDir, "missing.env"), "-data-path", dataDir, "-env", "development"})
	assert.Error(t, err)
}

func TestLoad_FlagBeatsEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"# upstream\nAPI_URL=http://from-file:9000\nUPSTREAM_LIMIT=25\nREFRESH_INTERVAL=2m\n",
	), 0o600))

	unsetEnv(t, "API_URL", "REFRESH_INTERVAL")
	t.Setenv("UPSTREAM_LIMIT", "10")

	cfg, err := Load([]string{"-env-file", envFile, "-data-path", dir, "-refresh-interval", "90s"})
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:9000", cfg.Upstream.APIURL)
	assert.Equal(t, 10, cfg.Upstream.Limit, "environment wins over .env")
	assert.Equal(t, 90*time.Second, cfg.Refresh.Interval, "flag wins over .env")
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SESSION_IDLE_TTL", "soon")

	_, err := Load([]string{"-env-file", filepath.Join(dir, "none"), "-data-path", dir})
	assert.ErrorContains(t, err, "SESSION_IDLE_TTL")
}

func TestLoad_TrimsTrailingSlash(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load([]string{"-env-file", filepath.Join(dir, "none"), "-data-path", dir, "-api-url", "https://api.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.Upstream.APIURL)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("~/scout", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "scout"), got)

	got, err = expandPath("/abs/./path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = expandPath("relative", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("SCOUT_TEST_KEY", "env")

	assert.Equal(t, "flag", getConfigValue("flag", "SCOUT_TEST_KEY", "default"))
	assert.Equal(t, "env", getConfigValue("", "SCOUT_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "SCOUT_TEST_MISSING", "default"))
}

func TestNumericConfigValues(t *testing.T) {
	t.Setenv("SCOUT_INT", "7")
	t.Setenv("SCOUT_BAD_INT", "seven")
	t.Setenv("SCOUT_FLOAT", "0.25")

	assert.Equal(t, 7, getIntConfigValue("", "SCOUT_INT", 1))
	assert.Equal(t, 1, getIntConfigValue("", "SCOUT_BAD_INT", 1))
	assert.InDelta(t, 0.25, getFloatConfigValue("", "SCOUT_FLOAT", 1), 1e-9)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	assert.Nil(t, splitList(""))
}

func TestReferenceLocation(t *testing.T) {
	cfg := validConfig()
	cfg.Time.ReferenceZone = "Not/Real"
	assert.Equal(t, time.UTC, cfg.ReferenceLocation())
}
