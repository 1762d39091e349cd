package repository

import (
	"context"

	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
)

// UserRepository is the credential store. Any durable keyed store satisfies
// it; the uniqueness guarantee on username must come from the store itself
// (atomic insert-with-constraint), not from callers checking first.
type UserRepository interface {
	// Create persists a new user, assigning ID and CreatedAt. Fails with
	// apperror.ErrConflict if the username is already taken.
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	// Update overwrites password_hash, profile and last_login for an
	// existing ID. ID and CreatedAt never change.
	Update(ctx context.Context, user *model.User) error
	// Exists is a cheap pre-check; Create remains the authority.
	Exists(ctx context.Context, username string) (bool, error)
}

// SessionRepository stores server-side session state. The client only ever
// holds the opaque session ID.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	// GetByID returns apperror.ErrNotFound for unknown or expired sessions.
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}

// StateRepository is a per-user key-value document store used by the
// internal API. Set merges top-level keys into the existing document.
type StateRepository interface {
	Get(ctx context.Context, userID string) (map[string]any, error)
	Set(ctx context.Context, userID string, patch map[string]any) (map[string]any, error)
}
