// Package notestore owns the in-memory note collection and its persistence
// through the key-value store. The collection is the single source of truth;
// ranking reads immutable snapshots and never observes mid-mutation state.
package notestore

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// DefaultDebounce is the window over which rapid successive writes to the
// store are coalesced into a single persist.
const DefaultDebounce = 150 * time.Millisecond

// Store holds the note collection and flushes it to the provider with a
// debounced write. Persist failures are logged and swallowed: the in-memory
// state stays authoritative for the rest of the session.
type Store struct {
	provider storage.Provider
	logger   *slog.Logger
	debounce time.Duration
	now      func() time.Time

	mu         sync.Mutex
	notes      []models.Note
	flushTimer *time.Timer
}

// Option configures a Store.
type Option func(*Store)

// WithDebounce overrides the flush coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the note collection from the provider. Malformed persisted data
// falls back to an empty collection; an empty collection is seeded with a
// welcome note.
func Open(provider storage.Provider, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		logger:   logger,
		debounce: DefaultDebounce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.notes = s.load()
	if len(s.notes) == 0 {
		s.seed()
	}
	return s
}

// load reads and coerces the persisted collection. Records that cannot be
// coerced into a valid Note are dropped rather than propagated.
func (s *Store) load() []models.Note {
	data, ok, err := s.provider.Get(storage.KeyNotes)
	if err != nil {
		s.logger.Warn("notestore: load failed", slog.String("error", err.Error()))
		return nil
	}
	if !ok {
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		s.logger.Warn("notestore: corrupt collection, starting empty", slog.String("error", err.Error()))
		return nil
	}

	out := make([]models.Note, 0, len(raws))
	for _, raw := range raws {
		n, ok := coerce(raw, s.now)
		if !ok {
			s.logger.Warn("notestore: dropped uncoercible record")
			continue
		}
		out = append(out, n)
	}
	return out
}

// coerce validates a loose persisted record into a strict Note, applying
// defaults for missing fields.
func coerce(raw json.RawMessage, now func() time.Time) (models.Note, bool) {
	var n models.Note
	if err := json.Unmarshal(raw, &n); err != nil {
		return models.Note{}, false
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.Tags = models.NormalizeTags(n.Tags)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now()
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	return n, true
}

func (s *Store) seed() {
	now := s.now()
	s.notes = []models.Note{{
		ID:        uuid.NewString(),
		Title:     "Welcome to Ansuz",
		Body:      "# Welcome to Ansuz\nTag your notes and the bar above sorts itself out. #welcome",
		Tags:      []string{"welcome"},
		CreatedAt: now,
		UpdatedAt: now,
	}}
	s.scheduleFlush()
}

// Snapshot returns a copy of the collection safe to hand to the ranking
// engine while mutations continue.
func (s *Store) Snapshot() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	for i := range out {
		tags := make([]string, len(out[i].Tags))
		copy(tags, out[i].Tags)
		out[i].Tags = tags
	}
	return out
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// Get returns the note with the given id.
func (s *Store) Get(id string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return models.Note{}, apperr.ErrNotFound
}

// Create inserts a new note. A missing ID is generated; tags are normalized;
// timestamps are stamped with the store clock.
func (s *Store) Create(n models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	} else {
		for _, existing := range s.notes {
			if existing.ID == n.ID {
				return models.Note{}, apperr.ErrAlreadyExists
			}
		}
	}
	now := s.now()
	n.Tags = models.NormalizeTags(n.Tags)
	n.CreatedAt = now
	n.UpdatedAt = now

	s.notes = append(s.notes, n)
	s.scheduleFlush()
	return n, nil
}

// Update mutates body, tags, and image of an existing note and bumps
// UpdatedAt, keeping UpdatedAt >= CreatedAt.
func (s *Store) Update(id, title, body string, tags []string, image string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notes {
		if s.notes[i].ID != id {
			continue
		}
		n := &s.notes[i]
		n.Title = title
		n.Body = body
		n.Tags = models.NormalizeTags(tags)
		n.Image = image
		n.UpdatedAt = s.now()
		if n.UpdatedAt.Before(n.CreatedAt) {
			n.UpdatedAt = n.CreatedAt
		}
		s.scheduleFlush()
		return *n, nil
	}
	return models.Note{}, apperr.ErrNotFound
}

// Delete removes a note.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			s.scheduleFlush()
			return nil
		}
	}
	return apperr.ErrNotFound
}

// scheduleFlush arms (or re-arms) the debounced persist. Callers hold s.mu.
func (s *Store) scheduleFlush() {
	if s.flushTimer == nil {
		s.flushTimer = time.AfterFunc(s.debounce, func() {
			if err := s.Flush(); err != nil {
				s.logger.Warn("notestore: flush failed", slog.String("error", err.Error()))
			}
		})
		return
	}
	s.flushTimer.Reset(s.debounce)
}

// Flush persists the collection synchronously.
func (s *Store) Flush() error {
	s.mu.Lock()
	data, err := json.Marshal(s.notes)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.provider.Set(storage.KeyNotes, data)
}

// Close stops the flush timer and performs a final synchronous persist.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.flushTimer != nil {
		s.flushTimer.Stop()
	}
	s.mu.Unlock()
	return s.Flush()
}
