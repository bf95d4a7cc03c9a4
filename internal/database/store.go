package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for user registry operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser inserts a user with default consent=false, or updates the
	// username and last_seen of an existing row. Consent and first_seen are
	// preserved on update. The upsert is a single atomic statement.
	UpsertUser(ctx context.Context, userID int64, username string) error

	// SetConsent records the user's most recent consent answer.
	SetConsent(ctx context.Context, userID int64, consented bool) error

	// HasConsent reports whether the user's most recent consent answer was
	// affirmative. Unknown users have no consent.
	HasConsent(ctx context.Context, userID int64) (bool, error)

	// GetUser retrieves a user row by ID. Returns nil, nil if not found.
	GetUser(ctx context.Context, userID int64) (*User, error)

	// ConsentedUserIDs returns a point-in-time snapshot of all user IDs with
	// consent recorded, ordered by user ID.
	ConsentedUserIDs(ctx context.Context) ([]int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertUser inserts or refreshes a user row. The ON CONFLICT clause only
// touches username and last_seen, so consent and first_seen survive repeat
// contacts.
func (s *sqlxStore) UpsertUser(ctx context.Context, userID int64, username string) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}

	now := time.Now().UTC()
	query := `
        INSERT INTO users (user_id, username, consent, first_seen, last_seen)
        VALUES (?, ?, 0, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            username = excluded.username,
            last_seen = excluded.last_seen;
    `

	if _, err := s.db.ExecContext(ctx, query, userID, username, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "user_id", userID, "error", err)
		return fmt.Errorf("failed to upsert user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "User upserted", "user_id", userID, "username", username)
	return nil
}

// SetConsent records an explicit consent answer for an existing user.
func (s *sqlxStore) SetConsent(ctx context.Context, userID int64, consented bool) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}

	result, err := s.db.ExecContext(ctx, `UPDATE users SET consent = ? WHERE user_id = ?`, consented, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error setting consent", "user_id", userID, "consent", consented, "error", err)
		return fmt.Errorf("failed to set consent for user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when setting consent",
			"user_id", userID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Consent recorded", "user_id", userID, "consent", consented)
	return nil
}

// HasConsent reports the stored consent flag; unknown users report false.
func (s *sqlxStore) HasConsent(ctx context.Context, userID int64) (bool, error) {
	if userID == 0 {
		return false, fmt.Errorf("user_id cannot be zero")
	}

	var consented bool
	err := s.db.GetContext(ctx, &consented, `SELECT consent FROM users WHERE user_id = ?`, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error checking consent", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check consent for user %d: %w", userID, err)
	}

	return consented, nil
}

// GetUser retrieves a user row by ID. Returns nil, nil if not found.
func (s *sqlxStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}

	var user User
	query := `SELECT user_id, username, consent, first_seen, last_seen FROM users WHERE user_id = ?`
	err := s.db.GetContext(ctx, &user, query, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No user found", "user_id", userID)
		return nil, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return &user, nil
}

// ConsentedUserIDs returns the IDs of all users whose latest consent answer
// was affirmative. The result is a point-in-time snapshot; users consenting
// after this call are not reflected.
func (s *sqlxStore) ConsentedUserIDs(ctx context.Context) ([]int64, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var ids []int64
	err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM users WHERE consent = 1 ORDER BY user_id`)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing consented users", "error", err)
		return nil, fmt.Errorf("failed to list consented users: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched consented user snapshot", "count", len(ids))
	return ids, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
