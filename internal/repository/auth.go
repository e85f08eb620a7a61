// Package repository provides persistence implementations for the
// authentication and entry services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
)

// PostgresAuthRepository implements signup and confirmation persistence.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// UserExists checks whether a user with the specified key exists.
func (s *PostgresAuthRepository) UserExists(ctx context.Context, userKey string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE user_key = $1)`,
		userKey,
	).Scan(&exists)
	return exists, err
}

// RegisterUser creates an unconfirmed user with a pending confirmation code.
// Re-registering an existing unconfirmed user refreshes the code.
func (s *PostgresAuthRepository) RegisterUser(ctx context.Context, userKey, email, code string) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO users (user_key, email, confirmation_code, confirmed)
		 VALUES ($1, $2, $3, false)
		 ON CONFLICT (user_key) DO UPDATE SET confirmation_code = EXCLUDED.confirmation_code
		 WHERE users.confirmed = false`,
		userKey, email, code,
	)
	return err
}

// ConfirmUser marks the user confirmed when the code matches. It returns
// true when a row was updated, false on a code mismatch or unknown user.
func (s *PostgresAuthRepository) ConfirmUser(ctx context.Context, userKey, code string) (bool, error) {
	res, err := s.DB.ExecContext(
		ctx,
		`UPDATE users SET confirmed = true, confirmation_code = NULL
		 WHERE user_key = $1 AND confirmation_code = $2 AND confirmed = false`,
		userKey, code,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// IsConfirmed reports whether the user completed signup confirmation.
// Unknown users are reported via sql.ErrNoRows.
func (s *PostgresAuthRepository) IsConfirmed(ctx context.Context, userKey string) (bool, error) {
	var confirmed bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT confirmed FROM users WHERE user_key = $1`,
		userKey,
	).Scan(&confirmed)
	return confirmed, err
}

// ResetCode stores a fresh confirmation code for an unconfirmed user.
func (s *PostgresAuthRepository) ResetCode(ctx context.Context, userKey, code string) error {
	_, err := s.DB.ExecContext(
		ctx,
		`UPDATE users SET confirmation_code = $2 WHERE user_key = $1 AND confirmed = false`,
		userKey, code,
	)
	return err
}
