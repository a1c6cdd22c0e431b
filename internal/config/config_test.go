package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
api:
  endpoint: "https://workouts.example.com/graphql"
cache:
  backend: "sqlite"
  dir: "/var/cache/workoutlog"
http:
  timeout: 10s
tailscale:
  enabled: true
  hostname: "workoutlog-cli"
  state_dir: "/var/lib/workoutlog/ts"
log:
  level: "debug"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Endpoint != "https://workouts.example.com/graphql" {
		t.Errorf("api.endpoint = %q, want %q", cfg.API.Endpoint, "https://workouts.example.com/graphql")
	}
	if cfg.Cache.Backend != CacheSQLite {
		t.Errorf("cache.backend = %q, want %q", cfg.Cache.Backend, CacheSQLite)
	}
	if cfg.Cache.Dir != "/var/cache/workoutlog" {
		t.Errorf("cache.dir = %q, want %q", cfg.Cache.Dir, "/var/cache/workoutlog")
	}
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("http.timeout = %v, want 10s", cfg.HTTP.Timeout)
	}
	if !cfg.Tailscale.Enabled || cfg.Tailscale.Hostname != "workoutlog-cli" {
		t.Errorf("tailscale = %+v, want enabled as workoutlog-cli", cfg.Tailscale)
	}
	if got := cfg.Log.SlogLevel(); got != slog.LevelDebug {
		t.Errorf("log level = %v, want %v", got, slog.LevelDebug)
	}
}

// TestDefaults verifies that an empty path yields the defaults plus env.
func TestDefaults(t *testing.T) {
	t.Setenv("WORKOUTLOG_API_ENDPOINT", "http://localhost:4000/graphql")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Errorf("cache.backend = %q, want %q", cfg.Cache.Backend, CacheMemory)
	}
	if cfg.Cache.SizeMB != 64 {
		t.Errorf("cache.size_mb = %d, want 64", cfg.Cache.SizeMB)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("http.timeout = %v, want 30s", cfg.HTTP.Timeout)
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale enabled by default")
	}
	if got := cfg.Log.SlogLevel(); got != slog.LevelInfo {
		t.Errorf("log level = %v, want %v", got, slog.LevelInfo)
	}
}

// TestEnvOverride verifies that WORKOUTLOG_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("WORKOUTLOG_API_ENDPOINT", "http://override:8080/graphql")
	t.Setenv("WORKOUTLOG_CACHE_BACKEND", "MEMORY")
	t.Setenv("WORKOUTLOG_CACHE_SIZE_MB", "128")
	t.Setenv("WORKOUTLOG_HTTP_TIMEOUT", "5s")
	t.Setenv("WORKOUTLOG_TS_ENABLED", "false")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Endpoint != "http://override:8080/graphql" {
		t.Errorf("api.endpoint = %q, want %q", cfg.API.Endpoint, "http://override:8080/graphql")
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Errorf("cache.backend = %q, want %q", cfg.Cache.Backend, CacheMemory)
	}
	if cfg.Cache.SizeMB != 128 {
		t.Errorf("cache.size_mb = %d, want 128", cfg.Cache.SizeMB)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("http.timeout = %v, want 5s", cfg.HTTP.Timeout)
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled = true, want false")
	}
	// Unchanged fields should keep YAML values
	if cfg.Tailscale.Hostname != "workoutlog-cli" {
		t.Errorf("tailscale.hostname = %q, want %q", cfg.Tailscale.Hostname, "workoutlog-cli")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing endpoint", `cache: {backend: memory}`},
		{"non-http endpoint", `api: {endpoint: "ftp://example.com"}`},
		{"unknown backend", "api: {endpoint: \"http://x\"}\ncache: {backend: redis}"},
		{"sqlite without dir", "api: {endpoint: \"http://x\"}\ncache: {backend: sqlite}"},
		{"zero timeout", "api: {endpoint: \"http://x\"}\nhttp: {timeout: 0s}"},
		{"tailscale without hostname", "api: {endpoint: \"http://x\"}\ntailscale: {enabled: true, hostname: \"\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, tt.yaml)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCacheNoneNeedsNothing(t *testing.T) {
	cfg, err := Load(writeTemp(t, "api: {endpoint: \"http://x\"}\ncache: {backend: none, size_mb: 0}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("cache.backend = %q, want %q", cfg.Cache.Backend, CacheNone)
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
