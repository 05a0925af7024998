package config

import (
	"fmt"
	"slices"
	"time"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// APIKeys gate every wizard endpoint. Empty disables authentication.
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`

	// MaxBodySize bounds request bodies, which carry base64 uploads.
	MaxBodySize int64 `mapstructure:"maxBodySize"`

	// WatchPrompts reloads system prompt files when they change on disk.
	WatchPrompts bool `mapstructure:"watchPrompts"`
}

// RateLimitConfig throttles callers with a token bucket each. Callers are
// told apart by access key, by address, or both.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	Window         time.Duration `mapstructure:"window"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
}

// AppConfig holds settings shared by the CLI and the server.
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
	// AllowPlaceholderIdentity lets enhancement fill a missing name or title
	// with "John Doe" / "Professional" instead of failing.
	AllowPlaceholderIdentity bool `mapstructure:"allowPlaceholderIdentity"`
}

func (s ServerConfig) validate() error {
	if s.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if s.RateLimit.Enabled && s.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("rate limit requestsPerMin must be positive when rate limiting is enabled")
	}
	return nil
}

func (a AppConfig) validate() error {
	if !slices.Contains(a.SupportedFormats, a.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", a.DefaultFormat)
	}
	if a.MaxFileSize < 0 {
		return fmt.Errorf("maxFileSize cannot be negative")
	}
	return nil
}
