package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/workoutlog/internal/app"
	"github.com/claude/workoutlog/internal/config"
	wlmcp "github.com/claude/workoutlog/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("WORKOUTLOG_CONFIG"), "path to config file (env WORKOUTLOG_CONFIG)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("workoutlog-mcp", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := app.NewLogger(cfg.Log)
	log.Info("workoutlog-mcp starting", "version", Version, "endpoint", cfg.API.Endpoint)

	a, err := app.Open(cfg, log)
	if err != nil {
		log.Error("failed to open client", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	s := wlmcp.New(a.Service, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		a.Close()
		os.Exit(1)
	}
}
