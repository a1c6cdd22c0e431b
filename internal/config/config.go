package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheNone   = "none"
)

type Config struct {
	API       APIConfig       `yaml:"api"`
	Cache     CacheConfig     `yaml:"cache"`
	HTTP      HTTPConfig      `yaml:"http"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
}

type APIConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type CacheConfig struct {
	Backend string `yaml:"backend"`
	SizeMB  int    `yaml:"size_mb"`
	// TTL bounds how long memory cache entries live; zero keeps them until evicted.
	TTL time.Duration `yaml:"ttl"`
	Dir string        `yaml:"dir"`
}

type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel maps log.level onto a slog level. Unknown values mean info.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{Backend: CacheMemory, SizeMB: 64},
		HTTP:  HTTPConfig{Timeout: 30 * time.Second},
		Tailscale: TailscaleConfig{
			Hostname: "workoutlog",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. An empty path skips the file. Env vars use
// the prefix WORKOUTLOG_ and underscore-separated paths:
//
//	WORKOUTLOG_API_ENDPOINT,
//	WORKOUTLOG_CACHE_BACKEND, WORKOUTLOG_CACHE_SIZE_MB, WORKOUTLOG_CACHE_TTL,
//	WORKOUTLOG_CACHE_DIR, WORKOUTLOG_HTTP_TIMEOUT,
//	WORKOUTLOG_TS_ENABLED, WORKOUTLOG_TS_HOSTNAME, WORKOUTLOG_TS_STATE_DIR,
//	WORKOUTLOG_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WORKOUTLOG_API_ENDPOINT"); v != "" {
		cfg.API.Endpoint = v
	}
	if v := os.Getenv("WORKOUTLOG_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("WORKOUTLOG_CACHE_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.SizeMB = n
		}
	}
	if v := os.Getenv("WORKOUTLOG_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("WORKOUTLOG_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("WORKOUTLOG_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("WORKOUTLOG_TS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("WORKOUTLOG_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("WORKOUTLOG_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("WORKOUTLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("api.endpoint is required")
	}
	if !strings.HasPrefix(c.API.Endpoint, "http://") && !strings.HasPrefix(c.API.Endpoint, "https://") {
		return fmt.Errorf("api.endpoint must be an http(s) URL, got %q", c.API.Endpoint)
	}
	switch c.Cache.Backend {
	case CacheMemory:
		if c.Cache.SizeMB <= 0 {
			return fmt.Errorf("cache.size_mb must be positive")
		}
	case CacheSQLite:
		if c.Cache.Dir == "" {
			return fmt.Errorf("cache.dir is required for the sqlite backend")
		}
	case CacheNone:
	default:
		return fmt.Errorf("cache.backend must be one of memory, sqlite, none; got %q", c.Cache.Backend)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
