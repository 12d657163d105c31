package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wunjo/internal/analytics"
	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/moodjournal"
)

// Handler holds API route handlers.
type Handler struct {
	repo *moodjournal.Repository
}

// NewHandler creates a new Handler.
func NewHandler(repo *moodjournal.Repository) *Handler {
	return &Handler{repo: repo}
}

// ListMoods handles GET /moods.
func (h *Handler) ListMoods(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("list moods failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, MoodListResponse{Moods: entries, Total: len(entries)})
}

// GetMood handles GET /moods/{id}.
func (h *Handler) GetMood(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entries, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("get mood failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	for _, e := range entries {
		if e.ID == id {
			writeJSON(w, http.StatusOK, e)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errorBody("not found"))
}

// CreateMood handles POST /moods.
func (h *Handler) CreateMood(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.repo.Create(r.Context(), req); err != nil {
		var pe *apperr.PersistenceError
		if errors.As(err, &pe) {
			slog.Error("create mood failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		// Validation failure.
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// DeleteMood handles DELETE /moods/{id}.
func (h *Handler) DeleteMood(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Remove(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete mood failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WeeklyAnalytics handles GET /analytics/weekly.
func (h *Handler) WeeklyAnalytics(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("weekly analytics failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, analytics.ComputeWeekly(entries, time.Now()))
}
