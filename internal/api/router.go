package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wunjo/internal/moodjournal"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// streamHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(repo *moodjournal.Repository, authEnabled bool, token string, streamHandler http.Handler) chi.Router {
	h := NewHandler(repo)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Entries: create, read, delete. No update operation exists.
	r.Get("/moods", h.ListMoods)
	r.Post("/moods", h.CreateMood)
	r.Get("/moods/{id}", h.GetMood)
	r.Delete("/moods/{id}", h.DeleteMood)

	// Aggregates.
	r.Get("/analytics/weekly", h.WeeklyAnalytics)

	// Live snapshot stream (protected by same auth middleware).
	if streamHandler != nil {
		r.Get("/events", streamHandler.ServeHTTP)
	}

	return r
}
