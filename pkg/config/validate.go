package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be a valid port number.
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}

	// All limit thresholds must be positive.
	if c.RateLimit.MaxRequestsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit.max_requests_per_minute must be > 0, got %d", c.RateLimit.MaxRequestsPerMinute))
	}
	if c.RateLimit.MaxRequestsPerHour <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit.max_requests_per_hour must be > 0, got %d", c.RateLimit.MaxRequestsPerHour))
	}
	if c.RateLimit.MaxDailyOperations <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit.max_daily_operations must be > 0, got %d", c.RateLimit.MaxDailyOperations))
	}

	// The hour tier must admit at least as much as the minute tier, or the
	// minute limit can never be reached.
	if c.RateLimit.MaxRequestsPerHour < c.RateLimit.MaxRequestsPerMinute {
		errs = append(errs, fmt.Errorf("ratelimit.max_requests_per_hour (%d) must be >= ratelimit.max_requests_per_minute (%d)",
			c.RateLimit.MaxRequestsPerHour, c.RateLimit.MaxRequestsPerMinute))
	}

	if c.RateLimit.CleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit.cleanup_interval must be > 0, got %s", c.RateLimit.CleanupInterval))
	}
	if c.RateLimit.MaxTrackedClients <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit.max_tracked_clients must be > 0, got %d", c.RateLimit.MaxTrackedClients))
	}

	// observability.metrics.path must start with "/" when metrics are enabled.
	if c.Observability.Metrics.Enabled && (c.Observability.Metrics.Path == "" || c.Observability.Metrics.Path[0] != '/') {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	return errors.Join(errs...)
}
