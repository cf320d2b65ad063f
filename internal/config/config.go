// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Filter   FilterConfig
	Render   RenderConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1, this is a local tool)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for streaming export)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DataConfig holds dataset loading settings.
type DataConfig struct {
	// Path is the listings file to load, CSV or point shapefile (required)
	// Supports both DATA_PATH and DATASET_PATH env vars for compatibility
	Path string `env:"DATA_PATH" envAlt:"DATASET_PATH" required:"true"`

	// Watch reloads the dataset when the file changes on disk (default: false)
	Watch bool `env:"DATA_WATCH" default:"false"`

	// WatchDebounce coalesces rapid write events into one reload (default: 500ms)
	WatchDebounce time.Duration `env:"DATA_WATCH_DEBOUNCE" default:"500ms"`
}

// FilterConfig holds predicate evaluation settings.
type FilterConfig struct {
	// StrictNumeric excludes rows whose cell is missing or non-numeric from
	// numeric range filters instead of accepting them (default: false)
	StrictNumeric bool `env:"FILTER_STRICT_NUMERIC" default:"false"`
}

// RenderConfig holds map rendering settings.
type RenderConfig struct {
	// ArtifactDir is where rendered map documents are written (default: maps)
	ArtifactDir string `env:"RENDER_ARTIFACT_DIR" default:"maps"`

	// DefaultStyle is the tile style used when none is requested (default: openstreetmap)
	DefaultStyle string `env:"RENDER_DEFAULT_STYLE" default:"openstreetmap"`

	// DefaultZoom is the initial zoom level, clamped to 1-12 (default: 4)
	DefaultZoom int `env:"RENDER_DEFAULT_ZOOM" default:"4"`

	// SampleSize is the default marker sample size, 0 = unlimited (default: 8000)
	SampleSize int `env:"RENDER_SAMPLE_SIZE" default:"8000"`

	// MaxConcurrent is the maximum number of parallel renders (default: 2)
	MaxConcurrent int `env:"RENDER_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long to wait for a render slot (default: 15s)
	MaxWaitTime time.Duration `env:"RENDER_MAX_WAIT_TIME" default:"15s"`

	// KeepArtifacts is how many superseded artifacts to retain (default: 20)
	KeepArtifacts int `env:"RENDER_KEEP_ARTIFACTS" default:"20"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// RenderLimit is requests per minute for map render endpoints (default: 10)
	RenderLimit int `env:"RATE_LIMIT_RENDER" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
