package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/moodkeeper/MoodKeeper/internal/models"
)

// StartAutoSync launches a background loop that reconciles the local store
// with the server on a fixed interval. Sync errors are printed and the
// next tick retries from scratch; nothing inside a single sync is retried.
func StartAutoSync(client *http.Client, baseURL, email string, ls *LocalStore) {
	go func() {
		for {
			if err := SyncWithServer(client, baseURL, email, ls); err != nil {
				fmt.Println("sync error:", err)
			}
			time.Sleep(30 * time.Second)
		}
	}()
}

// SyncWithServer fetches the user's entries from the remote source, merges
// them with the local list, persists the merged result, and pushes entries
// the server does not know about. Server-assigned IDs and timestamps may
// differ from client-provisional values; the merge collapses the echoes.
func SyncWithServer(client *http.Client, baseURL, email string, ls *LocalStore) error {
	userKey := models.UserKey(email)
	local := ls.Load(userKey)

	remote, err := fetchRemoteEntries(client, baseURL, email)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	merged := Merge(remote, local)

	// Entries absent from the remote list are local-only and get pushed.
	for i := range merged {
		entry := &merged[i]
		known := false
		for j := range remote {
			if AreDuplicates(&remote[j], entry) {
				known = true
				break
			}
		}
		if known {
			continue
		}
		canonical, err := pushEntry(client, baseURL, email, *entry)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		// Keep the local photos: the remote echo may be contentless on
		// that field and photos are the one post-hoc editable part.
		if entry.HasPhotos() && !canonical.HasPhotos() {
			canonical.Photos = entry.Photos
		}
		merged[i] = canonical
	}

	ls.Save(userKey, merged)
	return nil
}

func fetchRemoteEntries(client *http.Client, baseURL, email string) ([]models.MoodEntry, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/entries", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-User-Email", email)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Entries []models.MoodEntry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Entries, nil
}

func pushEntry(client *http.Client, baseURL, email string, entry models.MoodEntry) (models.MoodEntry, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return models.MoodEntry{}, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/entries", bytes.NewReader(b))
	if err != nil {
		return models.MoodEntry{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", email)

	resp, err := client.Do(req)
	if err != nil {
		return models.MoodEntry{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return models.MoodEntry{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Entry models.MoodEntry `json:"entry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.MoodEntry{}, err
	}
	return result.Entry, nil
}
