package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/moodkeeper/MoodKeeper/internal/models"
)

// PostgresEntryRepository implements mood-entry persistence against a
// PostgreSQL database. Tags and photos keep their document shape in JSONB
// columns.
type PostgresEntryRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresEntryRepository creates a new PostgresEntryRepository using the
// provided *sql.DB.
func NewPostgresEntryRepository(db *sql.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{DB: db}
}

const entryColumns = `id, mood, intensity, note, tags, prompt_id, photos, display_date, created_at`

// CreateEntry stores one entry for its owner.
func (s *PostgresEntryRepository) CreateEntry(ctx context.Context, entry models.MoodEntry) error {
	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	photos, err := json.Marshal(entry.Photos)
	if err != nil {
		return fmt.Errorf("encode photos: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO entries (id, user_key, mood, intensity, note, tags, prompt_id, photos, display_date, created_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false)
	`, entry.ID, entry.UserKey, entry.Mood, nullableInt(entry.Intensity), entry.Note,
		tags, entry.PromptID, photos, entry.Date, entry.EffectiveTime())
	if err != nil {
		return fmt.Errorf("CreateEntry: %w", err)
	}
	return nil
}

// GetEntriesByUser fetches the user's entries newest first, optionally
// bounded by a created-at range, with limit/offset pagination.
func (s *PostgresEntryRepository) GetEntriesByUser(ctx context.Context, userKey string, from, to *time.Time, limit, offset int) ([]models.MoodEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_key = $1 AND deleted = false`
	args := []any{userKey}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("GetEntriesByUser: %w", err)
	}
	defer rows.Close()

	var entries []models.MoodEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entry.UserKey = userKey
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetEntryByID retrieves a single entry by ID for the given user.
func (s *PostgresEntryRepository) GetEntryByID(ctx context.Context, userKey, id string) (*models.MoodEntry, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE user_key = $1 AND id = $2 AND deleted = false
	`, userKey, id)

	entry, err := scanEntry(row)
	if err != nil {
		return nil, err
	}
	entry.UserKey = userKey
	return &entry, nil
}

// UpdatePhotos replaces the photo list of an existing entry. Photos are
// the only field mutable after creation.
func (s *PostgresEntryRepository) UpdatePhotos(ctx context.Context, userKey, id string, photos []models.Photo) error {
	encoded, err := json.Marshal(photos)
	if err != nil {
		return fmt.Errorf("encode photos: %w", err)
	}

	res, err := s.DB.ExecContext(ctx, `
		UPDATE entries SET photos = $3 WHERE user_key = $1 AND id = $2 AND deleted = false
	`, userKey, id, encoded)
	if err != nil {
		return fmt.Errorf("UpdatePhotos: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDeleteEntries marks entries deleted for the administrative delete
// path; the background cleaner purges them after the retention window.
func (s *PostgresEntryRepository) SoftDeleteEntries(ctx context.Context, userKey string, ids []string) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE entries SET deleted = true, deleted_at = NOW() WHERE user_key = $1 AND id = ANY($2)
	`, userKey, pq.Array(ids))
	return err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.MoodEntry, error) {
	var (
		entry     models.MoodEntry
		intensity sql.NullInt64
		note      sql.NullString
		tags      []byte
		promptID  sql.NullString
		photos    []byte
		date      sql.NullString
		createdAt time.Time
	)
	if err := row.Scan(&entry.ID, &entry.Mood, &intensity, &note, &tags, &promptID, &photos, &date, &createdAt); err != nil {
		return models.MoodEntry{}, err
	}

	entry.Intensity = int(intensity.Int64)
	entry.Note = note.String
	entry.PromptID = promptID.String
	entry.Date = date.String
	entry.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	entry.Timestamp = entry.CreatedAt

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &entry.Tags); err != nil {
			return models.MoodEntry{}, fmt.Errorf("decode tags: %w", err)
		}
	}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &entry.Photos); err != nil {
			return models.MoodEntry{}, fmt.Errorf("decode photos: %w", err)
		}
	}
	return entry, nil
}

func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
