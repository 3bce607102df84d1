// Package main is the entry point for the community board server.
//
// The main package stays minimal: it loads configuration, builds the
// logger and hands both to internal/server, which owns every other
// dependency. See internal/config for the recognised keys.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sakif/community-board/internal/config"
	"github.com/sakif/community-board/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// .env, config.yml and the environment, validated. A bad config is
	// fatal before anything touches the database.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// === 3. CREATE AND START THE SERVER ===
	// New opens the store (creating the sqlite directory if needed) and
	// connects Redis when REDIS_URL is set.
	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLogger builds a text or JSON slog logger at the configured level.
// Validate has already rejected unknown levels and formats.
func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
