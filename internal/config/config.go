// Package config loads server configuration from command-line flags,
// environment variables, and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Data     DataConfig
	Server   ServerConfig
	Upstream UpstreamConfig
	Refresh  RefreshConfig
	Time     TimeConfig
	Search   SearchConfig
	Sessions SessionConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds local storage configuration.
type DataConfig struct {
	// BasePath is the directory holding the badger database.
	BasePath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        // default: 8080
	ReadTimeout    time.Duration // default: 15s
	WriteTimeout   time.Duration // default: 15s
	IdleTimeout    time.Duration // default: 60s
	AllowedOrigins []string      // CORS origins (default: *)
	RateLimitRPS   float64       // per-IP requests per second (default: 20)
	RateLimitBurst int           // per-IP burst (default: 40)
}

// UpstreamConfig describes the analytics service.
type UpstreamConfig struct {
	APIURL  string        // default: http://localhost:8000
	Limit   int           // games requested from /analyze (default: 50)
	Timeout time.Duration // transport timeout (default: 30s)
	RPS     float64       // outbound requests per second (default: 5)
	Burst   int           // outbound burst (default: 5)
}

// RefreshConfig controls revalidation of the ranked list.
type RefreshConfig struct {
	Interval           time.Duration // default: 5m
	WarmupPollInterval time.Duration // default: 10s
	MaxAttempts        int           // default: 3
	Backoff            time.Duration // linear backoff step (default: 500ms)
}

// TimeConfig holds timezone settings.
type TimeConfig struct {
	// ReferenceZone is the IANA zone upstream time blocks are recorded in.
	ReferenceZone string
}

// SearchConfig tunes the fuzzy matcher.
type SearchConfig struct {
	MinScore float64 // hits scoring below this are dropped (default: 0)
}

// SessionConfig controls viewer card sessions.
type SessionConfig struct {
	IdleTTL       time.Duration // default: 30m
	SweepInterval time.Duration // default: 5m
}

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("streamscout", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for local storage")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	allowedOrigins := fs.String("cors-origins", "", "Comma separated CORS origins (default: *)")

	apiURL := fs.String("api-url", "", "Analytics service base URL")
	upstreamLimit := fs.String("upstream-limit", "", "Games requested per analyze call (default: 50)")
	upstreamTimeout := fs.String("upstream-timeout", "", "Analytics request timeout (default: 30s)")

	refreshInterval := fs.String("refresh-interval", "", "Ranked list revalidation interval (default: 5m)")
	warmupInterval := fs.String("warmup-poll-interval", "", "Status poll interval while upstream warms up (default: 10s)")

	referenceZone := fs.String("reference-timezone", "", "Zone time blocks are recorded in (default: UTC)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Existing environment variables take precedence over the file.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*allowedOrigins, "CORS_ALLOWED_ORIGINS", "*")),
			RateLimitRPS:   getFloatConfigValue("", "RATE_LIMIT_RPS", 20),
			RateLimitBurst: getIntConfigValue("", "RATE_LIMIT_BURST", 40),
		},
		Upstream: UpstreamConfig{
			APIURL: strings.TrimRight(getConfigValue(*apiURL, "API_URL", "http://localhost:8000"), "/"),
			Limit:  getIntConfigValue(*upstreamLimit, "UPSTREAM_LIMIT", 50),
			RPS:    getFloatConfigValue("", "UPSTREAM_RPS", 5),
			Burst:  getIntConfigValue("", "UPSTREAM_BURST", 5),
		},
		Refresh: RefreshConfig{
			MaxAttempts: getIntConfigValue("", "REFRESH_MAX_ATTEMPTS", 3),
		},
		Time: TimeConfig{
			ReferenceZone: getConfigValue(*referenceZone, "REFERENCE_TIMEZONE", "UTC"),
		},
		Search: SearchConfig{
			MinScore: getFloatConfigValue("", "SEARCH_MIN_SCORE", 0),
		},
	}

	durations := []struct {
		dst      *time.Duration
		flag     string
		envKey   string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Upstream.Timeout, *upstreamTimeout, "UPSTREAM_TIMEOUT", "30s"},
		{&cfg.Refresh.Interval, *refreshInterval, "REFRESH_INTERVAL", "5m"},
		{&cfg.Refresh.WarmupPollInterval, *warmupInterval, "WARMUP_POLL_INTERVAL", "10s"},
		{&cfg.Refresh.Backoff, "", "REFRESH_BACKOFF", "500ms"},
		{&cfg.Sessions.IdleTTL, "", "SESSION_IDLE_TTL", "30m"},
		{&cfg.Sessions.SweepInterval, "", "SESSION_SWEEP_INTERVAL", "5m"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, d.fallback)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	case "":
		return errors.New("ENV is required")
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	u, err := url.Parse(c.Upstream.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API_URL %q: must be an absolute http(s) URL", c.Upstream.APIURL)
	}
	if c.Upstream.Limit < 1 {
		return fmt.Errorf("invalid upstream limit %d: must be positive", c.Upstream.Limit)
	}
	if c.Refresh.Interval <= 0 || c.Refresh.WarmupPollInterval <= 0 {
		return errors.New("refresh intervals must be positive")
	}
	if c.Refresh.MaxAttempts < 1 {
		return errors.New("refresh attempts must be at least 1")
	}

	if c.Server.RateLimitRPS < 0 {
		return errors.New("rate limit rps cannot be negative")
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
		return errors.New("rate limit burst must be at least 1 when rate limiting is enabled")
	}

	if c.Sessions.IdleTTL <= 0 || c.Sessions.SweepInterval <= 0 {
		return errors.New("session idle ttl and sweep interval must be positive")
	}

	if _, err := time.LoadLocation(c.Time.ReferenceZone); err != nil {
		return fmt.Errorf("invalid reference timezone %q: %w", c.Time.ReferenceZone, err)
	}

	if c.Search.MinScore < 0 {
		return errors.New("search min score cannot be negative")
	}

	return nil
}

// ReferenceLocation returns the loaded reference zone, UTC if it cannot be loaded.
func (c *Config) ReferenceLocation() *time.Location {
	loc, err := time.LoadLocation(c.Time.ReferenceZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data directory to ~/StreamScout/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expanded, err := expandPath(c.Data.BasePath, filepath.Join(homeDir, "StreamScout", "data"))
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strings.TrimSpace(strValue), 64)
	if err != nil {
		return defaultValue
	}
	return result
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
