package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionTTL = 8 * time.Hour

type SessionStore struct {
	db *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: pool}
}

// Create inserts a new session and returns its ID.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	id := newToken()
	expiresAt := time.Now().Add(sessionTTL).UTC()
	slog.Debug("creating session", "user_id", userID, "expires_at", expiresAt.Format(time.RFC3339))
	_, err := s.db.Exec(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`,
		id, userID, expiresAt,
	)
	return id, err
}

// GetUserID validates the session and returns the associated user ID.
// Returns ErrNotFound if the session does not exist or is expired.
func (s *SessionStore) GetUserID(ctx context.Context, sessionID string) (string, error) {
	var userID string
	err := s.db.QueryRow(ctx,
		`SELECT user_id FROM sessions WHERE id = $1 AND expires_at > NOW()`, sessionID,
	).Scan(&userID)
	if err != nil {
		return "", notFound(err, ErrNotFound)
	}
	return userID, nil
}

// DeleteAllByUserID removes all sessions for a user (used on logout).
func (s *SessionStore) DeleteAllByUserID(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// DeleteExpired removes expired sessions.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SessionTTL is how long a new session stays valid.
func SessionTTL() time.Duration {
	return sessionTTL
}

func newToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
