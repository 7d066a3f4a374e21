package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("default server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("default server.read_timeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.RateLimit.MaxRequestsPerMinute != 60 {
		t.Errorf("default ratelimit.max_requests_per_minute = %d, want 60", cfg.RateLimit.MaxRequestsPerMinute)
	}
	if cfg.RateLimit.MaxRequestsPerHour != 1000 {
		t.Errorf("default ratelimit.max_requests_per_hour = %d, want 1000", cfg.RateLimit.MaxRequestsPerHour)
	}
	if cfg.RateLimit.MaxDailyOperations != 1200 {
		t.Errorf("default ratelimit.max_daily_operations = %d, want 1200", cfg.RateLimit.MaxDailyOperations)
	}
	if cfg.RateLimit.CleanupInterval != 15*time.Minute {
		t.Errorf("default ratelimit.cleanup_interval = %v, want 15m", cfg.RateLimit.CleanupInterval)
	}
	if cfg.RateLimit.MaxTrackedClients != 10_000 {
		t.Errorf("default ratelimit.max_tracked_clients = %d, want 10000", cfg.RateLimit.MaxTrackedClients)
	}
	if !cfg.Observability.Metrics.Enabled {
		t.Error("default observability.metrics.enabled = false, want true")
	}
	if cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("default observability.metrics.path = %q, want \"/metrics\"", cfg.Observability.Metrics.Path)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
server:
  port: 9090
  read_timeout: 60s
ratelimit:
  max_requests_per_minute: 120
  max_requests_per_hour: 2400
  max_daily_operations: 4800
  cleanup_interval: 5m
  max_tracked_clients: 500
observability:
  metrics:
    enabled: true
    path: /internal/metrics
`

	tmpFile := writeTemp(t, yamlContent)

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("server.read_timeout = %v, want 60s", cfg.Server.ReadTimeout)
	}
	// Unset fields keep their defaults.
	if cfg.Server.WriteTimeout != 120*time.Second {
		t.Errorf("server.write_timeout = %v, want default 120s", cfg.Server.WriteTimeout)
	}
	if cfg.RateLimit.MaxRequestsPerMinute != 120 {
		t.Errorf("ratelimit.max_requests_per_minute = %d, want 120", cfg.RateLimit.MaxRequestsPerMinute)
	}
	if cfg.RateLimit.CleanupInterval != 5*time.Minute {
		t.Errorf("ratelimit.cleanup_interval = %v, want 5m", cfg.RateLimit.CleanupInterval)
	}
	if cfg.Observability.Metrics.Path != "/internal/metrics" {
		t.Errorf("observability.metrics.path = %q, want \"/internal/metrics\"", cfg.Observability.Metrics.Path)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCMILL_PORT", "7070")
	t.Setenv("DOCMILL_MAX_REQUESTS_PER_MINUTE", "42")
	t.Setenv("DOCMILL_MAX_REQUESTS_PER_HOUR", "420")
	t.Setenv("DOCMILL_CLEANUP_INTERVAL", "1m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.RateLimit.MaxRequestsPerMinute != 42 {
		t.Errorf("ratelimit.max_requests_per_minute = %d, want env override 42", cfg.RateLimit.MaxRequestsPerMinute)
	}
	if cfg.RateLimit.CleanupInterval != time.Minute {
		t.Errorf("ratelimit.cleanup_interval = %v, want env override 1m", cfg.RateLimit.CleanupInterval)
	}
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	tmpFile := writeTemp(t, "server:\n  port: 9090\n")
	t.Setenv("DOCMILL_PORT", "7070")

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want env override 7070", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tmpFile := writeTemp(t, "ratelimit:\n  max_requests_per_minute: -5\n")

	if _, err := Load(tmpFile); err == nil {
		t.Fatal("Load accepted a negative request limit")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero minute limit", func(c *Config) { c.RateLimit.MaxRequestsPerMinute = 0 }, true},
		{"zero hour limit", func(c *Config) { c.RateLimit.MaxRequestsPerHour = 0 }, true},
		{"zero daily operations", func(c *Config) { c.RateLimit.MaxDailyOperations = 0 }, true},
		{"hour below minute", func(c *Config) {
			c.RateLimit.MaxRequestsPerMinute = 100
			c.RateLimit.MaxRequestsPerHour = 50
		}, true},
		{"zero cleanup interval", func(c *Config) { c.RateLimit.CleanupInterval = 0 }, true},
		{"zero tracked clients", func(c *Config) { c.RateLimit.MaxTrackedClients = 0 }, true},
		{"metrics path without slash", func(c *Config) { c.Observability.Metrics.Path = "metrics" }, true},
		{"metrics path ignored when disabled", func(c *Config) {
			c.Observability.Metrics.Enabled = false
			c.Observability.Metrics.Path = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// writeTemp writes content to a temp file and returns its path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
