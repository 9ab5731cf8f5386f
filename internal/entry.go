// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/color"
	"github.com/starford/ansuz/internal/importer"
	"github.com/starford/ansuz/internal/notestore"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.Store.SQLitePath),
		slog.String("images_dir", cfg.Store.ImagesDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Store.ImagesDir, 0o755); err != nil {
		return fmt.Errorf("create images dir: %w", err)
	}

	// Initialize persistence. When the database cannot be opened the app
	// still comes up on an in-memory store so notes remain usable for the
	// session; nothing survives a restart in that mode.
	var provider storage.Provider
	sqlite, err := storage.OpenSQLite(cfg.Store.SQLitePath)
	if err != nil {
		logger.Warn("sqlite unavailable, falling back to in-memory storage",
			slog.String("path", cfg.Store.SQLitePath),
			slog.String("error", err.Error()))
		provider = storage.NewMemory()
	} else {
		provider = sqlite
	}
	defer provider.Close()

	var storeOpts []notestore.Option
	if cfg.Store.FlushDebounce > 0 {
		storeOpts = append(storeOpts, notestore.WithDebounce(cfg.Store.FlushDebounce))
	}
	notes := notestore.Open(provider, logger, storeOpts...)
	defer notes.Close()

	colors := color.NewEngine(provider, logger)
	svc := noteservice.NewService(notes, colors, cfg.Rank.Params())

	// SSE broker; every note mutation fans out to connected clients.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	svc.SetChangeListener(broker.PublishNoteEvent)

	// Build API router.
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, cfg.Store.ImagesDir)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Uploaded note images are served without auth so <img> tags work.
	images := api.NewImageHandler(cfg.Store.ImagesDir)
	r.Get("/images/{filename}", images.ServeFile)

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start the inbox importer when configured.
	if cfg.Store.InboxDir != "" {
		g.Go(func() error {
			if err := importer.Watch(gCtx, svc, cfg.Store.InboxDir, logger, nil); err != nil {
				logger.Error("importer failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	// Final flush so debounced changes are not lost on exit.
	if err := notes.Flush(); err != nil {
		logger.Error("final flush failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped successfully")
	return nil
}
