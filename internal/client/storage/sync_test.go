package storage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/moodkeeper/MoodKeeper/internal/models"
)

func TestSyncWithServer_MergesRemoteAndLocal(t *testing.T) {
	remote := []models.MoodEntry{
		{ID: "srv-1", Mood: 3, CreatedAt: "2024-06-01T12:00:00Z"},
	}

	var pushed []models.MoodEntry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-Email") != "u@example.com" {
			t.Errorf("missing identity header")
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"entries": remote})
		case http.MethodPost:
			var e models.MoodEntry
			json.NewDecoder(r.Body).Decode(&e)
			pushed = append(pushed, e)
			// The server assigns its own canonical ID.
			e.ID = "srv-" + e.ID
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"entry": e})
		}
	}))
	defer srv.Close()

	ls := NewLocalStore(filepath.Join(t.TempDir(), "entries.json"), nil)
	userKey := models.UserKey("u@example.com")
	ls.Save(userKey, []models.MoodEntry{
		// Duplicate of the remote entry (same instant, different ID).
		{ID: "local-1", Mood: 3, CreatedAt: "2024-06-01T12:00:00Z"},
		// Local-only entry the server has not seen.
		{ID: "local-2", Mood: 5, CreatedAt: "2024-06-02T08:00:00Z"},
	})

	if err := SyncWithServer(srv.Client(), srv.URL, "u@example.com", ls); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if len(pushed) != 1 || pushed[0].ID != "local-2" {
		t.Errorf("expected only local-2 pushed, got %+v", pushed)
	}

	entries := ls.Load(userKey)
	if len(entries) != 2 {
		t.Fatalf("expected 2 merged entries, got %d: %+v", len(entries), entries)
	}
	// Newest first, and the pushed entry now carries the server ID.
	if entries[0].ID != "srv-local-2" {
		t.Errorf("expected canonical server ID first, got %q", entries[0].ID)
	}
	if entries[1].ID != "srv-1" {
		t.Errorf("expected remote entry retained, got %q", entries[1].ID)
	}
}

func TestSyncWithServer_SurfacesNetworkError(t *testing.T) {
	ls := NewLocalStore(filepath.Join(t.TempDir(), "entries.json"), nil)
	ls.Save("u_example_com", []models.MoodEntry{{ID: "1", Mood: 3, CreatedAt: "2024-06-01T12:00:00Z"}})

	err := SyncWithServer(http.DefaultClient, "http://127.0.0.1:0", "u@example.com", ls)
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}

	// The local list is untouched on failure.
	if entries := ls.Load("u_example_com"); len(entries) != 1 {
		t.Errorf("local entries changed on failed sync: %+v", entries)
	}
}
