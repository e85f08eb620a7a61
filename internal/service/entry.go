package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moodkeeper/MoodKeeper/internal/models"
)

// List pagination bounds.
const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// EntryRepository defines the persistence operations needed by the EntryService.
type EntryRepository interface {
	// CreateEntry stores one entry for its owner.
	CreateEntry(ctx context.Context, entry models.MoodEntry) error
	// GetEntriesByUser fetches entries newest first within an optional range.
	GetEntriesByUser(ctx context.Context, userKey string, from, to *time.Time, limit, offset int) ([]models.MoodEntry, error)
	// GetEntryByID fetches a single entry by ID for the given user.
	GetEntryByID(ctx context.Context, userKey, id string) (*models.MoodEntry, error)
	// UpdatePhotos replaces the photo list of an existing entry.
	UpdatePhotos(ctx context.Context, userKey, id string, photos []models.Photo) error
	// SoftDeleteEntries marks entries deleted for later purging.
	SoftDeleteEntries(ctx context.Context, userKey string, ids []string) error
}

// ValidationError carries the field-error list for a rejected entry.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// Pagination describes one page of a list response.
type Pagination struct {
	Count   int  `json:"count"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// ListOptions narrows a list request. From and To are YYYY-MM-DD dates.
type ListOptions struct {
	From   string
	To     string
	Limit  int
	Offset int
}

// EntryService implements mood-entry business logic.
type EntryService struct {
	repo EntryRepository
}

// NewEntryService constructs an EntryService with the provided repository.
func NewEntryService(repo EntryRepository) *EntryService {
	return &EntryService{repo: repo}
}

// Create validates and stores a new entry. The server assigns the
// canonical ID and timestamps; client-provisional values are discarded and
// reconciled on the client by the merge. Validation failures return a
// *ValidationError before any persistence attempt.
func (s *EntryService) Create(ctx context.Context, userKey string, entry models.MoodEntry) (models.MoodEntry, error) {
	if fields := entry.Validate(); len(fields) > 0 {
		return models.MoodEntry{}, &ValidationError{Fields: fields}
	}

	now := time.Now().UTC()
	entry.ID = uuid.NewString()
	entry.UserKey = userKey
	entry.CreatedAt = now.Format(time.RFC3339)
	entry.Timestamp = entry.CreatedAt
	if entry.Date == "" {
		entry.Date = now.Format("1/2/2006")
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return models.MoodEntry{}, err
	}
	return entry, nil
}

// List returns one page of the user's entries, newest first.
func (s *EntryService) List(ctx context.Context, userKey string, opts ListOptions) ([]models.MoodEntry, Pagination, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	from, to, err := parseDateRange(opts.From, opts.To)
	if err != nil {
		return nil, Pagination{}, err
	}

	// Fetch one extra row to learn whether another page exists.
	entries, err := s.repo.GetEntriesByUser(ctx, userKey, from, to, limit+1, offset)
	if err != nil {
		return nil, Pagination{}, err
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []models.MoodEntry{}
	}

	return entries, Pagination{
		Count:   len(entries),
		Limit:   limit,
		Offset:  offset,
		HasMore: hasMore,
	}, nil
}

// Get fetches a single entry.
func (s *EntryService) Get(ctx context.Context, userKey, id string) (*models.MoodEntry, error) {
	return s.repo.GetEntryByID(ctx, userKey, id)
}

// UpdatePhotos replaces the photo list, the only field mutable after
// creation.
func (s *EntryService) UpdatePhotos(ctx context.Context, userKey, id string, photos []models.Photo) error {
	if len(photos) > models.MaxPhotos {
		return &ValidationError{Fields: []string{"Maximum 5 photos allowed per entry"}}
	}
	for i, p := range photos {
		if p.ID == "" || (p.URL == "" && p.DataURI == "") {
			return &ValidationError{Fields: []string{fmt.Sprintf("Photo at index %d must have a valid id and url", i)}}
		}
	}
	return s.repo.UpdatePhotos(ctx, userKey, id, photos)
}

// Delete soft-deletes the given entries (administrative operation).
func (s *EntryService) Delete(ctx context.Context, userKey string, ids []string) error {
	return s.repo.SoftDeleteEntries(ctx, userKey, ids)
}

// parseDateRange converts YYYY-MM-DD bounds into instants; the "to" bound
// extends to the end of its day.
func parseDateRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf(`invalid "from" date format, use YYYY-MM-DD`)
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, nil, fmt.Errorf(`invalid "to" date format, use YYYY-MM-DD`)
		}
		end := t.Add(24*time.Hour - time.Millisecond)
		to = &end
	}
	return from, to, nil
}
