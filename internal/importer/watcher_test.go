package importer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/testutil"
)

func testService(t *testing.T) *noteservice.Service {
	t.Helper()
	return testutil.Service(t)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_ImportsDroppedFile(t *testing.T) {
	svc := testService(t)
	inbox := t.TempDir()
	logger := testutil.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var imported []string

	go Watch(ctx, svc, inbox, logger, func(id, filename string) {
		mu.Lock()
		imported = append(imported, filename)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(inbox, "dropped.md")
	_ = os.WriteFile(path, []byte("# Dropped\nBody with #inbox tag"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, f := range imported {
			if f == "dropped.md" {
				return true
			}
		}
		return false
	}, "expected import callback for dropped.md")

	// Source file is removed after import.
	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, "source file should be removed after import")

	// Note exists with parsed title and tag.
	found := false
	for _, item := range svc.ListNotes(ctx) {
		if item.Title == "Dropped" {
			found = true
			if len(item.Tags) != 1 || item.Tags[0] != "inbox" {
				t.Errorf("imported tags = %v, want [inbox]", item.Tags)
			}
		}
	}
	if !found {
		t.Error("imported note not found in store")
	}
}

func TestWatch_SweepsExistingFiles(t *testing.T) {
	svc := testService(t)
	inbox := t.TempDir()
	logger := testutil.Logger()

	// File is already in the inbox before the watcher starts.
	_ = os.WriteFile(filepath.Join(inbox, "preexisting.txt"), []byte("Already here"), 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, svc, inbox, logger, nil)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		for _, item := range svc.ListNotes(ctx) {
			if item.Title == "Already here" {
				return true
			}
		}
		return false
	}, "preexisting file not imported on startup")
}

func TestWatch_IgnoresOtherExtensions(t *testing.T) {
	svc := testService(t)
	inbox := t.TempDir()
	logger := testutil.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, svc, inbox, logger, nil)
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(inbox, "photo.jpg")
	_ = os.WriteFile(path, []byte("not a note"), 0o644)

	time.Sleep(500 * time.Millisecond)

	if _, err := os.Stat(path); err != nil {
		t.Error("non-text file should be left alone")
	}
	for _, item := range svc.ListNotes(ctx) {
		if item.Title == "not a note" {
			t.Error("non-text file was imported")
		}
	}
}

func TestWatch_SkipsEmptyFiles(t *testing.T) {
	svc := testService(t)
	inbox := t.TempDir()
	logger := testutil.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, svc, inbox, logger, nil)
	time.Sleep(100 * time.Millisecond)

	before := len(svc.ListNotes(ctx))

	path := filepath.Join(inbox, "empty.md")
	_ = os.WriteFile(path, []byte("  \n\n"), 0o644)

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, "empty file should be removed without import")

	if got := len(svc.ListNotes(ctx)); got != before {
		t.Errorf("note count = %d, want %d (no note from empty file)", got, before)
	}
}
