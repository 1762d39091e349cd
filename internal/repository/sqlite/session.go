package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/Saad-Mehboob-824/Supervisor/internal/apperror"
	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
	"github.com/Saad-Mehboob-824/Supervisor/internal/repository"
)

// SessionStore implements repository.SessionRepository.
type SessionStore struct {
	conn *sql.DB
}

var _ repository.SessionRepository = (*SessionStore)(nil)

// Create persists a new session, assigning the opaque ID and CreatedAt.
// Callers set ExpiresAt to the fixed session lifetime.
func (s *SessionStore) Create(ctx context.Context, session *model.Session) error {
	session.ID = xid.New().String()
	session.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, username, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.Username,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session for user %s: %w", session.UserID, err)
	}

	return nil
}

// GetByID returns the session, treating expired rows the same as missing
// ones. A valid-looking cookie pointing at an expired row is simply not
// authenticated.
func (s *SessionStore) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var sess model.Session

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, username, created_at, expires_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.UserID, &sess.Username, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(apperror.CodeNotAuthenticated, "Session")
		}
		return nil, fmt.Errorf("sqlite: getting session %s: %w", id, err)
	}

	if sess.Expired(time.Now().UTC()) {
		// Remove the dead row while we're here; failure is harmless.
		_, _ = s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return nil, apperror.NotFound(apperror.CodeNotAuthenticated, "Session")
	}

	return &sess, nil
}

// Delete removes a session. Deleting a missing session is not an error;
// logout is idempotent.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting session %s: %w", id, err)
	}
	return nil
}

// DeleteExpired sweeps rows past their expiry.
func (s *SessionStore) DeleteExpired(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite: sweeping expired sessions: %w", err)
	}
	return nil
}
