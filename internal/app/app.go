// Package app wires configuration into the process-wide GraphQL client and
// api.Service shared by the CLI and the MCP server.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/claude/workoutlog/internal/api"
	"github.com/claude/workoutlog/internal/config"
	"github.com/claude/workoutlog/internal/graphql"
	"tailscale.com/tsnet"
)

// App owns the transport and cache for one process.
type App struct {
	GraphQL *graphql.Client
	Service *api.Client

	log     *slog.Logger
	closers []func() error
}

// NewLogger builds the text logger used by both binaries. Logs go to stderr
// so stdout stays free for command output and the MCP stdio transport.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// Open builds the cache, the HTTP client and the service from cfg.
func Open(cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &App{log: log}

	cache, err := a.openCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	hc, err := a.httpClient(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.GraphQL = graphql.NewClient(cfg.API.Endpoint,
		graphql.WithHTTPClient(hc),
		graphql.WithCache(cache),
		graphql.WithLogger(log),
	)
	a.Service = api.NewClient(a.GraphQL, log)
	log.Debug("workoutlog client ready",
		"endpoint", cfg.API.Endpoint,
		"cache", cfg.Cache.Backend,
		"tailscale", cfg.Tailscale.Enabled,
	)
	return a, nil
}

func (a *App) openCache(cfg config.CacheConfig) (graphql.Cache, error) {
	switch cfg.Backend {
	case config.CacheMemory:
		return graphql.NewMemoryCache(cfg.SizeMB, int(cfg.TTL.Seconds())), nil
	case config.CacheSQLite:
		c, err := graphql.OpenSQLiteCache(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening response cache: %w", err)
		}
		a.closers = append(a.closers, c.Close)
		return c, nil
	default:
		return graphql.NopCache{}, nil
	}
}

func (a *App) httpClient(cfg *config.Config) (*http.Client, error) {
	if !cfg.Tailscale.Enabled {
		return &http.Client{Timeout: cfg.HTTP.Timeout}, nil
	}

	ts := &tsnet.Server{
		Hostname: cfg.Tailscale.Hostname,
		Dir:      cfg.Tailscale.StateDir,
		Logf:     func(format string, args ...any) { a.log.Debug(fmt.Sprintf(format, args...)) },
	}
	if err := ts.Start(); err != nil {
		return nil, fmt.Errorf("tsnet start: %w", err)
	}
	a.closers = append(a.closers, ts.Close)
	a.log.Info("tsnet client started", "hostname", cfg.Tailscale.Hostname)

	hc := ts.HTTPClient()
	hc.Timeout = cfg.HTTP.Timeout
	return hc, nil
}

// Close releases the cache and the tailnet node, newest first.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
