package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/moodkeeper/MoodKeeper/internal/middleware"
	"github.com/moodkeeper/MoodKeeper/internal/models"
	"github.com/moodkeeper/MoodKeeper/internal/service"
)

// EntryService defines the entry operations required by the EntryHandler.
type EntryService interface {
	// Create validates and stores a new entry, assigning server identity.
	Create(ctx context.Context, userKey string, entry models.MoodEntry) (models.MoodEntry, error)
	// List returns one page of the user's entries, newest first.
	List(ctx context.Context, userKey string, opts service.ListOptions) ([]models.MoodEntry, service.Pagination, error)
	// Get fetches a single entry.
	Get(ctx context.Context, userKey, id string) (*models.MoodEntry, error)
	// UpdatePhotos replaces the photo list of an entry.
	UpdatePhotos(ctx context.Context, userKey, id string, photos []models.Photo) error
	// Delete soft-deletes the given entries.
	Delete(ctx context.Context, userKey string, ids []string) error
}

// EntryHandler handles HTTP requests for mood entries.
type EntryHandler struct {
	EntryService EntryService
}

// Create handles POST /api/entries. Validation failures return the field
// error list with status 400.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userKey := middleware.GetUserKeyFromContext(r.Context())

	var entry models.MoodEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	created, err := h.EntryService.Create(r.Context(), userKey, entry)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"errors": verr.Fields})
			return
		}
		http.Error(w, "failed to save entry", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"entry": created})
}

// List handles GET /api/entries with optional from/to (YYYY-MM-DD),
// limit and offset query parameters.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userKey := middleware.GetUserKeyFromContext(r.Context())
	q := r.URL.Query()

	opts := service.ListOptions{
		From: q.Get("from"),
		To:   q.Get("to"),
	}
	if v := q.Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}

	entries, page, err := h.EntryService.List(r.Context(), userKey, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"entries":    entries,
		"pagination": page,
	})
}

// Get handles GET /api/entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userKey := middleware.GetUserKeyFromContext(r.Context())
	id := chi.URLParam(r, "id")

	entry, err := h.EntryService.Get(r.Context(), userKey, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"entry": entry})
}

// UpdatePhotos handles PUT /api/entries/{id}/photos, the one mutation
// allowed after creation.
func (h *EntryHandler) UpdatePhotos(w http.ResponseWriter, r *http.Request) {
	userKey := middleware.GetUserKeyFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req struct {
		Photos []models.Photo `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.EntryService.UpdatePhotos(r.Context(), userKey, id, req.Photos); err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"errors": verr.Fields})
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "entry not found", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/entries, the administrative soft-delete path.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userKey := middleware.GetUserKeyFromContext(r.Context())

	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.EntryService.Delete(r.Context(), userKey, req.IDs); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}
