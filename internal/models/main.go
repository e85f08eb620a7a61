// Package models defines the core data structures for users, mood entries and photos.
package models

import (
	"fmt"
	"strings"
	"time"
)

// User represents an application user identified by email.
type User struct {
	// UserKey is the identifier-safe form of the email, see UserKey().
	UserKey string
	// Email is the address the user signed up with.
	Email string
	// Confirmed reports whether the signup confirmation code was entered.
	Confirmed bool
}

// Photo is a binary attachment reference owned by exactly one entry.
// Either URL (uploaded, origin of truth) or DataURI (inline, local-only) is set.
type Photo struct {
	// ID is the unique identifier for the photo.
	ID string `json:"id"`
	// URL points at the uploaded object once the photo has been uploaded.
	URL string `json:"url,omitempty"`
	// DataURI holds the inline payload for photos not yet uploaded.
	DataURI string `json:"dataUri,omitempty"`
	// FileName is the original file name.
	FileName string `json:"fileName,omitempty"`
	// FileSize is the size in bytes.
	FileSize int64 `json:"fileSize,omitempty"`
	// FileType is the MIME type.
	FileType string `json:"fileType,omitempty"`
}

// MoodEntry is one user-reported emotional data point.
type MoodEntry struct {
	// ID is the unique identifier within a user's entry set.
	// Client-provisional until the server echoes the canonical form.
	ID string `json:"id"`
	// UserKey is the owner identifier, derived from the account email.
	UserKey string `json:"userKey,omitempty"`
	// Mood is the required score on a 1-5 scale.
	Mood int `json:"mood"`
	// Intensity is an optional 1-10 scale; 0 means unset.
	Intensity int `json:"intensity,omitempty"`
	// Note is optional free text.
	Note string `json:"note,omitempty"`
	// Tags is an optional set of short labels.
	Tags []string `json:"tags,omitempty"`
	// PromptID references the bundled writing-prompt catalog.
	PromptID string `json:"promptId,omitempty"`
	// Photos is the ordered photo list; the only field mutable after creation.
	Photos []Photo `json:"photos,omitempty"`
	// Date is the human-readable display date, independent of CreatedAt.
	Date string `json:"date,omitempty"`
	// CreatedAt is the ISO-8601 creation instant, the sort and dedup key.
	CreatedAt string `json:"createdAt,omitempty"`
	// Timestamp is the legacy creation instant, used when CreatedAt is absent.
	Timestamp string `json:"timestamp,omitempty"`
}

// Limits enforced before any persistence attempt.
const (
	MoodMin      = 1
	MoodMax      = 5
	IntensityMin = 1
	IntensityMax = 10
	MaxNoteLen   = 1000
	MaxTags      = 10
	MaxTagLen    = 50
	MaxPhotos    = 5
	MaxPromptID  = 100
)

// UserKey normalizes an account email to an identifier-safe string:
// every character outside [A-Za-z0-9] becomes an underscore.
func UserKey(email string) string {
	var b strings.Builder
	b.Grow(len(email))
	for _, r := range email {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// EffectiveTime resolves the entry's instant for sorting and dedup:
// CreatedAt, falling back to Timestamp, falling back to the epoch.
// Malformed timestamps are treated as the epoch, never as an error.
func (e *MoodEntry) EffectiveTime() time.Time {
	for _, s := range []string{e.CreatedAt, e.Timestamp} {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// HasPhotos reports whether the entry carries at least one photo reference.
func (e *MoodEntry) HasPhotos() bool {
	return len(e.Photos) > 0
}

// Validate checks the entry against the field limits and returns the list
// of human-readable field errors. An empty list means the entry is valid.
func (e *MoodEntry) Validate() []string {
	var errs []string

	if e.Mood == 0 {
		errs = append(errs, "Mood is required")
	} else if e.Mood < MoodMin || e.Mood > MoodMax {
		errs = append(errs, "Mood must be a number between 1 and 5")
	}

	if e.Intensity != 0 && (e.Intensity < IntensityMin || e.Intensity > IntensityMax) {
		errs = append(errs, "Intensity must be a number between 1 and 10")
	}

	if len(e.Note) > MaxNoteLen {
		errs = append(errs, "Note must be less than 1000 characters")
	}

	if len(e.Tags) > MaxTags {
		errs = append(errs, "Maximum 10 tags allowed per entry")
	}
	for i, tag := range e.Tags {
		if len(tag) > MaxTagLen {
			errs = append(errs, fmt.Sprintf("Tag at index %d must be less than 50 characters", i))
		}
	}

	if len(e.Photos) > MaxPhotos {
		errs = append(errs, "Maximum 5 photos allowed per entry")
	}
	for i, p := range e.Photos {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("Photo at index %d must have a valid id", i))
		}
		if p.URL == "" && p.DataURI == "" {
			errs = append(errs, fmt.Sprintf("Photo at index %d must have a valid url", i))
		}
	}

	if len(e.PromptID) > MaxPromptID {
		errs = append(errs, "PromptId must be less than 100 characters")
	}

	return errs
}
