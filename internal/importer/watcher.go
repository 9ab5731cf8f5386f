// Package importer watches an inbox directory and turns dropped text files
// into notes. Drop a .txt or .md file into the inbox and it becomes a note;
// the source file is removed after a successful import.
package importer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/noteservice"
)

// settleDelay is how long a file must be quiet before it is imported.
// Editors and sync clients often write in several chunks.
const settleDelay = 200 * time.Millisecond

// ImportCallback is called after a successful import with the new note id
// and the source filename.
type ImportCallback func(id, filename string)

// Watch starts an fsnotify watcher on the inbox directory and imports
// dropped files until ctx is cancelled. It calls cb (if non-nil) after each
// successful import. Files already present in the inbox are imported on
// startup.
func Watch(ctx context.Context, svc *noteservice.Service, inboxDir string, logger *slog.Logger, cb ImportCallback) error {
	if err := os.MkdirAll(inboxDir, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(inboxDir); err != nil {
		return err
	}

	logger.Info("importer: started", slog.String("inbox", inboxDir))

	sweep(ctx, svc, inboxDir, logger, cb)

	// pending holds files that have seen a write and are waiting to settle.
	pending := make(map[string]struct{})
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	scheduleSettle := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settleDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("importer: stopped")
			return nil

		case <-settleCh:
			for path := range pending {
				importFile(ctx, svc, path, logger, cb)
			}
			pending = make(map[string]struct{})

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !importable(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			scheduleSettle()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("importer: error", slog.String("error", watchErr.Error()))
		}
	}
}

// sweep imports any importable files already sitting in the inbox.
func sweep(ctx context.Context, svc *noteservice.Service, inboxDir string, logger *slog.Logger, cb ImportCallback) {
	entries, err := os.ReadDir(inboxDir)
	if err != nil {
		logger.Warn("importer: sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(inboxDir, e.Name())
		if importable(path) {
			importFile(ctx, svc, path, logger, cb)
		}
	}
}

func importable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt":
		return true
	}
	return false
}

// importFile reads a dropped file, creates a note from its contents, and
// removes the source on success. Empty files are removed without creating
// a note.
func importFile(ctx context.Context, svc *noteservice.Service, path string, logger *slog.Logger, cb ImportCallback) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("importer: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	if strings.TrimSpace(string(data)) == "" {
		logger.Debug("importer: skipping empty file", slog.String("path", path))
		_ = os.Remove(path)
		return
	}

	detail, err := svc.CreateNote(ctx, string(data), nil, "")
	if err != nil {
		logger.Warn("importer: create failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	if err := os.Remove(path); err != nil {
		logger.Warn("importer: remove source failed", slog.String("path", path), slog.String("error", err.Error()))
	}

	name := filepath.Base(path)
	logger.Info("importer: imported",
		slog.String("file", name),
		slog.String("id", detail.ID),
		slog.String("title", detail.Title))
	if cb != nil {
		cb(detail.ID, name)
	}
}
