// Package storage implements the client's local-first entry persistence and
// the reconciliation of local entries with the remote source.
package storage

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moodkeeper/MoodKeeper/internal/models"
	"go.uber.org/zap"
)

// LocalStore persists per-user entry lists in a single JSON file keyed by
// user. It is supplementary to the remote source of truth: storage and
// serialization failures are logged and absorbed, the caller always gets
// the prior (or empty) state instead of an error.
type LocalStore struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// NewLocalStore creates a store backed by the given file path. A nil logger
// is replaced with a no-op logger.
func NewLocalStore(path string, log *zap.Logger) *LocalStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalStore{path: path, log: log}
}

// readAll loads the full user→entries map from disk. A missing or
// unreadable file is treated as "no data", never as an error.
func (s *LocalStore) readAll() map[string][]models.MoodEntry {
	all := make(map[string][]models.MoodEntry)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read local entries", zap.Error(err))
		}
		return all
	}
	if err := json.Unmarshal(data, &all); err != nil {
		s.log.Warn("corrupt local entries file, starting empty", zap.Error(err))
		return make(map[string][]models.MoodEntry)
	}
	return all
}

// writeAll replaces the stored map. Errors are logged and swallowed, so a
// failed write leaves the previous on-disk state in place.
func (s *LocalStore) writeAll(all map[string][]models.MoodEntry) {
	data, err := json.Marshal(all)
	if err != nil {
		s.log.Error("failed to encode local entries", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.log.Error("failed to write local entries", zap.Error(err))
	}
}

// Load returns the stored list for the user, or an empty list if none
// exists or the stored value is unreadable.
func (s *LocalStore) Load(userKey string) []models.MoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.readAll()[userKey]
	if entries == nil {
		return []models.MoodEntry{}
	}
	return entries
}

// Save replaces the entire stored list for the user. There is no
// partial-write guarantee: callers read-modify-write the full list.
func (s *LocalStore) Save(userKey string, entries []models.MoodEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readAll()
	all[userKey] = entries
	s.writeAll(all)
}

// Append prepends the entry to the user's list (newest first), filling a
// provisional ID and timestamp when absent, and returns the stored form.
func (s *LocalStore) Append(userKey string, entry models.MoodEntry) models.MoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if entry.CreatedAt == "" {
		entry.CreatedAt = now
	}
	if entry.Timestamp == "" {
		entry.Timestamp = entry.CreatedAt
	}
	if entry.Date == "" {
		entry.Date = entry.EffectiveTime().Format("1/2/2006")
	}

	all := s.readAll()
	all[userKey] = append([]models.MoodEntry{entry}, all[userKey]...)
	s.writeAll(all)
	return entry
}

// Update replaces the element whose ID matches; no-op if there is no match.
func (s *LocalStore) Update(userKey string, entry models.MoodEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readAll()
	entries := all[userKey]
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			all[userKey] = entries
			s.writeAll(all)
			return
		}
	}
}
