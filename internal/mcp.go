package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/ansuz/internal/color"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/notestore"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/storage"
)

// RunMCP serves the MCP stdio transport against the same note database the
// HTTP server uses. Logs go to stderr because stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	provider, err := storage.OpenSQLite(cfg.Store.SQLitePath)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer provider.Close()

	// Flush immediately: MCP sessions are short-lived and tool calls expect
	// their writes durable before the next call.
	notes := notestore.Open(provider, logger, notestore.WithDebounce(0))
	defer notes.Close()

	svc := noteservice.NewService(notes, color.NewEngine(provider, logger), cfg.Rank.Params())

	logger.Info("MCP server starting", slog.String("sqlite_path", cfg.Store.SQLitePath))
	return mcpserver.New(svc).ServeStdio()
}
