// Package testutil provides shared test helpers for setting up in-memory
// stores and services.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/color"
	"github.com/starford/ansuz/internal/notestore"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/rank"
	"github.com/starford/ansuz/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Store creates a note store backed by in-memory storage with a short flush
// debounce, closed automatically at test end.
func Store(t *testing.T) (*notestore.Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	notes := notestore.Open(mem, Logger(), notestore.WithDebounce(time.Millisecond))
	t.Cleanup(func() { _ = notes.Close() })
	return notes, mem
}

// Service creates a fully wired note service on in-memory storage with
// default ranking parameters.
func Service(t *testing.T) *noteservice.Service {
	t.Helper()
	notes, mem := Store(t)
	return noteservice.NewService(notes, color.NewEngine(mem, Logger()), rank.DefaultParams())
}
