package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// imageDir is where uploaded note images are stored.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler, imageDir string) chi.Router {
	h := NewHandler(svc)
	ih := NewImageHandler(imageDir)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Ranking surfaces.
	r.Get("/query", h.Query)
	r.Get("/tagbar", h.TagBar)
	r.Get("/tags/{tag}/color", h.TagColor)

	// Share-target adapter.
	r.Post("/share", h.Share)

	// Image upload (auth-protected).
	r.Post("/images", ih.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
