package http_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/moodkeeper/MoodKeeper/internal/middleware"
	"github.com/moodkeeper/MoodKeeper/internal/models"
	handler "github.com/moodkeeper/MoodKeeper/internal/server/handler/http"
	"github.com/moodkeeper/MoodKeeper/internal/service"
)

// fakeEntryService records calls and returns preconfigured results.
type fakeEntryService struct {
	receivedUserKey string
	receivedEntry   models.MoodEntry
	receivedOpts    service.ListOptions
	receivedID      string
	receivedPhotos  []models.Photo
	receivedIDs     []string

	createResult models.MoodEntry
	createErr    error
	listResult   []models.MoodEntry
	listPage     service.Pagination
	listErr      error
	getResult    *models.MoodEntry
	getErr       error
	updateErr    error
	deleteErr    error
}

func (f *fakeEntryService) Create(ctx context.Context, userKey string, entry models.MoodEntry) (models.MoodEntry, error) {
	f.receivedUserKey = userKey
	f.receivedEntry = entry
	return f.createResult, f.createErr
}

func (f *fakeEntryService) List(ctx context.Context, userKey string, opts service.ListOptions) ([]models.MoodEntry, service.Pagination, error) {
	f.receivedUserKey = userKey
	f.receivedOpts = opts
	return f.listResult, f.listPage, f.listErr
}

func (f *fakeEntryService) Get(ctx context.Context, userKey, id string) (*models.MoodEntry, error) {
	f.receivedUserKey = userKey
	f.receivedID = id
	return f.getResult, f.getErr
}

func (f *fakeEntryService) UpdatePhotos(ctx context.Context, userKey, id string, photos []models.Photo) error {
	f.receivedID = id
	f.receivedPhotos = photos
	return f.updateErr
}

func (f *fakeEntryService) Delete(ctx context.Context, userKey string, ids []string) error {
	f.receivedIDs = ids
	return f.deleteErr
}

// serve routes the request through the identity middleware so handlers see
// the resolved user key, mirroring the production middleware chain.
func serve(h http.HandlerFunc, method, target, email string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if email != "" {
		req.Header.Set("X-User-Email", email)
	}
	w := httptest.NewRecorder()
	middleware.Identity(h).ServeHTTP(w, req)
	return w
}

func TestEntryHandler_Create_BadJSON(t *testing.T) {
	h := &handler.EntryHandler{EntryService: &fakeEntryService{}}
	w := serve(h.Create, http.MethodPost, "/api/entries", "a@b.com", []byte("not-a-json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", w.Code, http.StatusBadRequest)
	}
}

func TestEntryHandler_Create_NoIdentity(t *testing.T) {
	fake := &fakeEntryService{}
	h := &handler.EntryHandler{EntryService: fake}
	w := serve(h.Create, http.MethodPost, "/api/entries", "", []byte(`{"mood":3}`))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestEntryHandler_Create_ValidationErrors(t *testing.T) {
	fake := &fakeEntryService{
		createErr: &service.ValidationError{Fields: []string{"Mood is required and must be a number between 1-5"}},
	}
	h := &handler.EntryHandler{EntryService: fake}
	w := serve(h.Create, http.MethodPost, "/api/entries", "a@b.com", []byte(`{"note":"no mood"}`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusBadRequest)
	}

	var resp struct {
		Errors []string `json:"errors"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("errors = %v; want one entry", resp.Errors)
	}
}

func TestEntryHandler_Create_Success(t *testing.T) {
	created := models.MoodEntry{ID: "srv-1", Mood: 4, CreatedAt: "2025-06-01T10:00:00Z"}
	fake := &fakeEntryService{createResult: created}
	h := &handler.EntryHandler{EntryService: fake}

	body, _ := json.Marshal(models.MoodEntry{Mood: 4, Note: "good day"})
	w := serve(h.Create, http.MethodPost, "/api/entries", "alice@example.com", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want %q", ct, "application/json")
	}

	var resp struct {
		Entry models.MoodEntry `json:"entry"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if resp.Entry.ID != "srv-1" {
		t.Errorf("entry ID = %q; want %q", resp.Entry.ID, "srv-1")
	}

	if fake.receivedUserKey != "alice_example_com" {
		t.Errorf("receivedUserKey = %q; want %q", fake.receivedUserKey, "alice_example_com")
	}
	if fake.receivedEntry.Mood != 4 {
		t.Errorf("receivedEntry.Mood = %d; want 4", fake.receivedEntry.Mood)
	}
}

func TestEntryHandler_List(t *testing.T) {
	wantEntries := []models.MoodEntry{
		{ID: "e2", Mood: 5, CreatedAt: "2025-06-02T10:00:00Z"},
		{ID: "e1", Mood: 2, CreatedAt: "2025-06-01T10:00:00Z"},
	}
	fake := &fakeEntryService{
		listResult: wantEntries,
		listPage:   service.Pagination{Limit: 10, Offset: 0, Count: 2, HasMore: false},
	}
	h := &handler.EntryHandler{EntryService: fake}

	w := serve(h.List, http.MethodGet, "/api/entries?from=2025-06-01&to=2025-06-30&limit=10", "a@b.com", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Entries    []models.MoodEntry `json:"entries"`
		Pagination service.Pagination `json:"pagination"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if !reflect.DeepEqual(resp.Entries, wantEntries) {
		t.Errorf("entries = %+v; want %+v", resp.Entries, wantEntries)
	}
	if resp.Pagination.Count != 2 {
		t.Errorf("pagination.Count = %d; want 2", resp.Pagination.Count)
	}

	want := service.ListOptions{From: "2025-06-01", To: "2025-06-30", Limit: 10}
	if fake.receivedOpts != want {
		t.Errorf("receivedOpts = %+v; want %+v", fake.receivedOpts, want)
	}
}

func TestEntryHandler_Get(t *testing.T) {
	tests := []struct {
		name         string
		service      *fakeEntryService
		expectedCode int
	}{
		{
			name:         "not found",
			service:      &fakeEntryService{getErr: sql.ErrNoRows},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "found",
			service:      &fakeEntryService{getResult: &models.MoodEntry{ID: "e1", Mood: 3}},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &handler.EntryHandler{EntryService: tt.service}
			r := chi.NewRouter()
			r.Use(middleware.Identity)
			r.Get("/api/entries/{id}", h.Get)

			req := httptest.NewRequest(http.MethodGet, "/api/entries/e1", nil)
			req.Header.Set("X-User-Email", "a@b.com")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", w.Code, tt.expectedCode)
			}
			if tt.service.receivedID != "e1" {
				t.Errorf("receivedID = %q; want %q", tt.service.receivedID, "e1")
			}
		})
	}
}

func TestEntryHandler_UpdatePhotos(t *testing.T) {
	fake := &fakeEntryService{}
	h := &handler.EntryHandler{EntryService: fake}
	r := chi.NewRouter()
	r.Use(middleware.Identity)
	r.Put("/api/entries/{id}/photos", h.UpdatePhotos)

	body, _ := json.Marshal(map[string]any{
		"photos": []models.Photo{{ID: "p1", URL: "https://cdn/p1.jpg"}},
	})
	req := httptest.NewRequest(http.MethodPut, "/api/entries/e1/photos", bytes.NewReader(body))
	req.Header.Set("X-User-Email", "a@b.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if fake.receivedID != "e1" {
		t.Errorf("receivedID = %q; want %q", fake.receivedID, "e1")
	}
	if len(fake.receivedPhotos) != 1 || fake.receivedPhotos[0].ID != "p1" {
		t.Errorf("receivedPhotos = %+v; want one photo p1", fake.receivedPhotos)
	}
}

func TestEntryHandler_Delete(t *testing.T) {
	fake := &fakeEntryService{}
	h := &handler.EntryHandler{EntryService: fake}

	body, _ := json.Marshal(map[string][]string{"ids": {"e1", "e2"}})
	w := serve(h.Delete, http.MethodDelete, "/api/entries", "a@b.com", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if !reflect.DeepEqual(fake.receivedIDs, []string{"e1", "e2"}) {
		t.Errorf("receivedIDs = %v; want [e1 e2]", fake.receivedIDs)
	}
}

func TestEntryHandler_Delete_EmptyIDs(t *testing.T) {
	h := &handler.EntryHandler{EntryService: &fakeEntryService{}}
	w := serve(h.Delete, http.MethodDelete, "/api/entries", "a@b.com", []byte(`{"ids":[]}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", w.Code, http.StatusBadRequest)
	}
}
