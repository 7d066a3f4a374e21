// Package config provides unified configuration for the docmill gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (DOCMILL_ prefix)
//  4. Validation
package config

import "time"

// Config holds all configuration for the docmill gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	RateLimit     RateLimitConfig     `yaml:"ratelimit"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 120s
}

// RateLimitConfig holds the admission-control thresholds and the cleanup
// settings. The per-minute upload cap, the bandwidth cap, and the hourly
// operation cap are derived from these at runtime, not configured.
type RateLimitConfig struct {
	MaxRequestsPerMinute int           `yaml:"max_requests_per_minute"` // default: 60
	MaxRequestsPerHour   int           `yaml:"max_requests_per_hour"`   // default: 1000
	MaxDailyOperations   int           `yaml:"max_daily_operations"`    // default: 1200
	CleanupInterval      time.Duration `yaml:"cleanup_interval"`        // default: 15m
	MaxTrackedClients    int           `yaml:"max_tracked_clients"`     // default: 10000
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		RateLimit: RateLimitConfig{
			MaxRequestsPerMinute: 60,
			MaxRequestsPerHour:   1000,
			MaxDailyOperations:   1200,
			CleanupInterval:      15 * time.Minute,
			MaxTrackedClients:    10_000,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
