package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/wunjo/internal/docstore"
	"github.com/starford/wunjo/internal/mcpserver"
	"github.com/starford/wunjo/internal/moodjournal"
)

// RunMCP starts the stdio MCP server against the configured store.
// Logs go to stderr: stdout belongs to the MCP transport.
func RunMCP(opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	store, err := docstore.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer store.Close()

	repo := moodjournal.NewRepository(store, cfg.Store.Collection)

	logger.Info("MCP server starting on stdio", slog.String("store_path", cfg.Store.Path))
	return mcpserver.New(repo).ServeStdio()
}
