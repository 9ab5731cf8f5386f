package api

import "github.com/starford/ansuz/internal/noteservice"

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
	Image string   `json:"image,omitempty"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
	Image string   `json:"image,omitempty"`
}

// ShareRequest is the payload of an externally shared bundle.
type ShareRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes"`
	Total int            `json:"total"`
}

// QueryResponse is the direct/related partition for a tag selection.
type QueryResponse struct {
	Direct  []NoteListItem           `json:"direct"`
	Related []noteservice.ScoredItem `json:"related"`
}

// TagBarResponse wraps the composed tag bar.
type TagBarResponse struct {
	Tags []noteservice.TagItem `json:"tags"`
}

// TagColorResponse is the color assigned to one tag.
type TagColorResponse struct {
	Tag   string `json:"tag"`
	Color string `json:"color"`
}
