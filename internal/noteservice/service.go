// Package noteservice coordinates the note store, the ranking engine, and
// the color engine behind one application-facing API.
package noteservice

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/color"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/notestore"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/rank"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Tags      []string          `json:"tags"`
	TagColors map[string]string `json:"tag_colors"`
	Image     string            `json:"image,omitempty"`
	Checksum  string            `json:"checksum"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NoteListItem is a lightweight item in list and query responses.
type NoteListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoredItem is a related-query hit with its relevance score.
type ScoredItem struct {
	NoteListItem
	Score float64 `json:"score"`
}

// TagItem is one entry of the composed tag bar.
type TagItem struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Selected bool   `json:"selected"`
}

// Service coordinates note storage, ranking, and colors.
type Service struct {
	notes    *notestore.Store
	colors   *color.Engine
	params   rank.Params
	now      func() time.Time
	onChange func(kind, id string)
}

// NewService creates a new note service.
func NewService(notes *notestore.Store, colors *color.Engine, params rank.Params) *Service {
	return &Service{
		notes:  notes,
		colors: colors,
		params: params,
		now:    time.Now,
	}
}

// SetChangeListener registers a callback invoked after every successful
// note mutation. kind is one of "created", "updated", "deleted". Used to
// fan mutations out to SSE clients.
func (s *Service) SetChangeListener(fn func(kind, id string)) {
	s.onChange = fn
}

func (s *Service) notify(kind, id string) {
	if s.onChange != nil {
		s.onChange(kind, id)
	}
}

// GetNote returns a single note by id.
func (s *Service) GetNote(_ context.Context, id string) (*NoteDetail, error) {
	n, err := s.notes.Get(id)
	if err != nil {
		return nil, err
	}
	return s.detail(n), nil
}

// CreateNote creates a note from raw body text, explicit tags, and an
// optional image reference. The title is derived from the body; inline #tags
// are merged with the explicit ones.
func (s *Service) CreateNote(_ context.Context, body string, tags []string, image string) (*NoteDetail, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.ErrInvalid
	}
	res := parser.Parse(body)
	n, err := s.notes.Create(models.Note{
		Title: res.Title,
		Body:  body,
		Tags:  append(models.NormalizeTags(tags), res.Tags...),
		Image: image,
	})
	if err != nil {
		return nil, err
	}
	s.notify("created", n.ID)
	return s.detail(n), nil
}

// UpdateNote rewrites a note's body, tags, and image. A non-empty ifMatch is
// compared against the current body checksum for optimistic concurrency.
func (s *Service) UpdateNote(_ context.Context, id, body string, tags []string, image, ifMatch string) (*NoteDetail, error) {
	existing, err := s.notes.Get(id)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum([]byte(existing.Body)) {
		return nil, apperr.ErrConflict
	}
	res := parser.Parse(body)
	n, err := s.notes.Update(id, res.Title, body, append(models.NormalizeTags(tags), res.Tags...), image)
	if err != nil {
		return nil, err
	}
	s.notify("updated", n.ID)
	return s.detail(n), nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(_ context.Context, id string) error {
	if err := s.notes.Delete(id); err != nil {
		return err
	}
	s.notify("deleted", id)
	return nil
}

// ListNotes returns every note, most recently touched first.
func (s *Service) ListNotes(_ context.Context) []NoteListItem {
	snap := s.notes.Snapshot()
	sortByTouched(snap)
	return listItems(snap)
}

// Query partitions the collection for a tag selection. An empty selection
// means nothing is filtered: every note comes back as direct, related stays
// empty.
func (s *Service) Query(ctx context.Context, selected []string) ([]NoteListItem, []ScoredItem, error) {
	selected = models.NormalizeTags(selected)
	if len(selected) == 0 {
		return s.ListNotes(ctx), []ScoredItem{}, nil
	}

	direct, related := rank.DirectAndRelated(s.notes.Snapshot(), selected, s.now(), s.params)
	scored := make([]ScoredItem, len(related))
	for i, sn := range related {
		scored[i] = ScoredItem{NoteListItem: listItem(sn.Note), Score: sn.Score}
	}
	return listItems(direct), scored, nil
}

// TagBar composes the ordered tag list for the given selection, with each
// tag's display color attached.
func (s *Service) TagBar(_ context.Context, selected []string) []TagItem {
	selected = models.NormalizeTags(selected)
	bar := rank.ComposeTagBar(s.notes.Snapshot(), selected, s.now(), s.params)

	inSel := make(map[string]struct{}, len(selected))
	for _, t := range selected {
		inSel[t] = struct{}{}
	}

	out := make([]TagItem, len(bar))
	for i, tag := range bar {
		_, sel := inSel[tag]
		out[i] = TagItem{Name: tag, Color: s.colors.ColorFor(tag), Selected: sel}
	}
	return out
}

// TagColor returns the display color for a single tag.
func (s *Service) TagColor(_ context.Context, tag string) string {
	return s.colors.ColorFor(tag)
}

// ImportShared synthesizes a note from an externally shared title/text/link
// bundle and tags it "shared" so it is easy to find afterwards.
func (s *Service) ImportShared(ctx context.Context, title, text, url string) (*NoteDetail, error) {
	var b strings.Builder
	if strings.TrimSpace(title) != "" {
		b.WriteString("# ")
		b.WriteString(strings.TrimSpace(title))
		b.WriteString("\n")
	}
	if strings.TrimSpace(text) != "" {
		b.WriteString(strings.TrimSpace(text))
		b.WriteString("\n")
	}
	if strings.TrimSpace(url) != "" {
		b.WriteString(strings.TrimSpace(url))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return nil, apperr.ErrInvalid
	}
	return s.CreateNote(ctx, b.String(), []string{"shared"}, "")
}

func (s *Service) detail(n models.Note) *NoteDetail {
	tagColors := make(map[string]string, len(n.Tags))
	for _, tag := range n.Tags {
		tagColors[tag] = s.colors.ColorFor(tag)
	}
	return &NoteDetail{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Tags:      n.Tags,
		TagColors: tagColors,
		Image:     n.Image,
		Checksum:  checksum.Sum([]byte(n.Body)),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func listItem(n models.Note) NoteListItem {
	return NoteListItem{
		ID:        n.ID,
		Title:     n.Title,
		Tags:      n.Tags,
		UpdatedAt: n.Touched(),
	}
}

func listItems(notes []models.Note) []NoteListItem {
	out := make([]NoteListItem, len(notes))
	for i, n := range notes {
		out[i] = listItem(n)
	}
	return out
}

func sortByTouched(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Touched().After(notes[j].Touched())
	})
}
