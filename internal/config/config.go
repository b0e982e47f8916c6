// Package config provides configuration loading and validation for the API server.
// It uses koanf to merge environment variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Remote ranked-data source
	RemoteBaseURL        string `koanf:"remote_base_url"`
	RemoteTimeoutSeconds int    `koanf:"remote_timeout_seconds"`

	// Leaderboard assembly
	PodiumSize             int  `koanf:"podium_size"`
	PageSize               int  `koanf:"page_size"`
	BackendPageSize        int  `koanf:"backend_page_size"`
	MaxRanks               int  `koanf:"max_ranks"`
	AllowSyntheticFallback bool `koanf:"allow_synthetic_fallback"`

	// Redis (shared rate limit store; optional)
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`

	// Rate limiting (requests per minute)
	GlobalRateLimit      int `koanf:"global_rate_limit"`
	LeaderboardRateLimit int `koanf:"leaderboard_rate_limit"`

	// CORS
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Tracing
	TracingEnabled  bool   `koanf:"tracing_enabled"`
	TracingEndpoint string `koanf:"tracing_endpoint"`
}

// Configuration validation errors.
var (
	ErrMissingRemoteBaseURL = errors.New("REMOTE_BASE_URL is required unless synthetic fallback is enabled")
	ErrInvalidPort          = errors.New("PORT must be a valid integer")
	ErrInvalidPodiumSize    = errors.New("PODIUM_SIZE must be > 0")
	ErrInvalidPageSize      = errors.New("PAGE_SIZE must be > 0")
	ErrInvalidBackendPage   = errors.New("BACKEND_PAGE_SIZE must be > 0")
	ErrInvalidMaxRanks      = errors.New("MAX_RANKS must be > 0")
	ErrPageSpansTooMany     = errors.New("PAGE_SIZE must be smaller than twice BACKEND_PAGE_SIZE")
	ErrInvalidRateLimit     = errors.New("rate limits must be > 0")
)

// Default values for non-secret configuration.
const (
	DefaultPort                 = 8080
	DefaultEnv                  = "development"
	DefaultRemoteTimeoutSeconds = 5
	DefaultPodiumSize           = 3
	DefaultPageSize             = 20
	DefaultBackendPageSize      = 20
	DefaultMaxRanks             = 100
	DefaultGlobalRateLimit      = 120
	DefaultLeaderboardRateLimit = 30
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	remoteTimeout, timeoutErr := getEnvIntOrDefault("REMOTE_TIMEOUT_SECONDS", k.Int("remote_timeout_seconds"), DefaultRemoteTimeoutSeconds)
	if timeoutErr != nil {
		loadErrs = append(loadErrs, timeoutErr)
	}

	podiumSize, podiumErr := getEnvIntOrDefault("PODIUM_SIZE", k.Int("podium_size"), DefaultPodiumSize)
	if podiumErr != nil {
		loadErrs = append(loadErrs, podiumErr)
	}

	pageSize, pageSizeErr := getEnvIntOrDefault("PAGE_SIZE", k.Int("page_size"), DefaultPageSize)
	if pageSizeErr != nil {
		loadErrs = append(loadErrs, pageSizeErr)
	}

	backendPageSize, backendErr := getEnvIntOrDefault("BACKEND_PAGE_SIZE", k.Int("backend_page_size"), DefaultBackendPageSize)
	if backendErr != nil {
		loadErrs = append(loadErrs, backendErr)
	}

	maxRanks, maxRanksErr := getEnvIntOrDefault("MAX_RANKS", k.Int("max_ranks"), DefaultMaxRanks)
	if maxRanksErr != nil {
		loadErrs = append(loadErrs, maxRanksErr)
	}

	globalLimit, globalErr := getEnvIntOrDefault("GLOBAL_RATE_LIMIT", k.Int("global_rate_limit"), DefaultGlobalRateLimit)
	if globalErr != nil {
		loadErrs = append(loadErrs, globalErr)
	}

	leaderboardLimit, lbErr := getEnvIntOrDefault("LEADERBOARD_RATE_LIMIT", k.Int("leaderboard_rate_limit"), DefaultLeaderboardRateLimit)
	if lbErr != nil {
		loadErrs = append(loadErrs, lbErr)
	}

	cfg := &Config{
		Port:                   port,
		Env:                    getEnvOrDefaultMulti([]string{"ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		RemoteBaseURL:          getEnvOrKoanf("REMOTE_BASE_URL", k, "remote_base_url"),
		RemoteTimeoutSeconds:   remoteTimeout,
		PodiumSize:             podiumSize,
		PageSize:               pageSize,
		BackendPageSize:        backendPageSize,
		MaxRanks:               maxRanks,
		AllowSyntheticFallback: getEnvBoolOrKoanf("ALLOW_SYNTHETIC_FALLBACK", k, "allow_synthetic_fallback"),
		RedisAddr:              getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		RedisPassword:          getEnvOrKoanf("REDIS_PASSWORD", k, "redis_password"),
		GlobalRateLimit:        globalLimit,
		LeaderboardRateLimit:   leaderboardLimit,
		CORSAllowedOrigins:     getEnvListOrKoanf("CORS_ALLOWED_ORIGINS", k, "cors_allowed_origins"),
		TracingEnabled:         getEnvBoolOrKoanf("TRACING_ENABLED", k, "tracing_enabled"),
		TracingEndpoint:        getEnvOrKoanf("TRACING_ENDPOINT", k, "tracing_endpoint"),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvBoolOrKoanf returns the environment variable as a bool if set,
// otherwise the koanf value. Unparseable env values count as false.
func getEnvBoolOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) bool {
	if val := os.Getenv(envKey); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return k.Bool(koanfKey)
}

// getEnvListOrKoanf returns a comma-separated environment variable as a slice
// if set, otherwise the koanf string slice.
func getEnvListOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) []string {
	if val := os.Getenv(envKey); val != "" {
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return k.Strings(koanfKey)
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
// Note: A zero value from a YAML file falls back to the default.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, ErrInvalidPort)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	// Without a remote source, every request would fail unless the
	// synthetic fallback can serve it.
	if c.RemoteBaseURL == "" && !c.AllowSyntheticFallback {
		errs = append(errs, ErrMissingRemoteBaseURL)
	}
	if c.PodiumSize <= 0 {
		errs = append(errs, ErrInvalidPodiumSize)
	}
	if c.PageSize <= 0 {
		errs = append(errs, ErrInvalidPageSize)
	}
	if c.BackendPageSize <= 0 {
		errs = append(errs, ErrInvalidBackendPage)
	}
	if c.MaxRanks <= 0 {
		errs = append(errs, ErrInvalidMaxRanks)
	}
	// A list page must never span more than two backend pages.
	if c.PageSize > 0 && c.BackendPageSize > 0 && c.PageSize >= 2*c.BackendPageSize {
		errs = append(errs, ErrPageSpansTooMany)
	}
	if c.GlobalRateLimit <= 0 || c.LeaderboardRateLimit <= 0 {
		errs = append(errs, ErrInvalidRateLimit)
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                     fmt.Sprintf("%d", c.Port),
		"env":                      c.Env,
		"remote_base_url":          c.RemoteBaseURL,
		"remote_timeout_seconds":   fmt.Sprintf("%d", c.RemoteTimeoutSeconds),
		"podium_size":              fmt.Sprintf("%d", c.PodiumSize),
		"page_size":                fmt.Sprintf("%d", c.PageSize),
		"backend_page_size":        fmt.Sprintf("%d", c.BackendPageSize),
		"max_ranks":                fmt.Sprintf("%d", c.MaxRanks),
		"allow_synthetic_fallback": fmt.Sprintf("%t", c.AllowSyntheticFallback),
		"redis_addr":               c.RedisAddr,
		"redis_password":           maskSecret(c.RedisPassword),
		"global_rate_limit":        fmt.Sprintf("%d", c.GlobalRateLimit),
		"leaderboard_rate_limit":   fmt.Sprintf("%d", c.LeaderboardRateLimit),
		"cors_allowed_origins":     strings.Join(c.CORSAllowedOrigins, ","),
		"tracing_enabled":          fmt.Sprintf("%t", c.TracingEnabled),
		"tracing_endpoint":         c.TracingEndpoint,
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}
