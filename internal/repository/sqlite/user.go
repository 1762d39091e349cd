package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/Saad-Mehboob-824/Supervisor/internal/apperror"
	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
	"github.com/Saad-Mehboob-824/Supervisor/internal/repository"
)

// UserStore implements repository.UserRepository.
type UserStore struct {
	conn *sql.DB
}

// compile-time check
var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user, assigning ID and CreatedAt. The UNIQUE
// constraint on username is the authority for duplicates: a concurrent
// registration race resolves here, with exactly one insert committing.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	profileJSON, err := encodeProfile(user.Profile)
	if err != nil {
		return fmt.Errorf("sqlite: encoding profile for %q: %w", user.Username, err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, profile, created_at, last_login)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		profileJSON,
		user.CreatedAt,
		user.LastLogin,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(apperror.CodeRegistration, "Username already exists")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetByUsername retrieves a user by username (case-sensitive).
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, `username = ?`, username)
}

// GetByID retrieves a user by their generated ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, `id = ?`, id)
}

func (s *UserStore) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u           model.User
		profileJSON string
		lastLogin   sql.NullTime
	)

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, profile, created_at, last_login
		 FROM users WHERE `+where, arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&profileJSON,
		&u.CreatedAt,
		&lastLogin,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(apperror.CodeUserNotFound, "User")
		}
		return nil, fmt.Errorf("sqlite: getting user (%s %v): %w", where, arg, err)
	}

	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	if err := json.Unmarshal([]byte(profileJSON), &u.Profile); err != nil {
		return nil, fmt.Errorf("sqlite: decoding profile for user %s: %w", u.ID, err)
	}

	return &u, nil
}

// Update overwrites the mutable fields of an existing user. ID, username and
// created_at are never touched.
func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	profileJSON, err := encodeProfile(user.Profile)
	if err != nil {
		return fmt.Errorf("sqlite: encoding profile for user %s: %w", user.ID, err)
	}

	res, err := s.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, profile = ?, last_login = ? WHERE id = ?`,
		user.PasswordHash,
		profileJSON,
		user.LastLogin,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	if rows == 0 {
		return apperror.NotFound(apperror.CodeUserNotFound, "User")
	}

	return nil
}

// Exists reports whether a username is already taken. Best-effort; Create's
// constraint is the real guarantee.
func (s *UserStore) Exists(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking username %q: %w", username, err)
	}
	return count > 0, nil
}

func encodeProfile(profile map[string]any) (string, error) {
	if profile == nil {
		return "{}", nil
	}
	b, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
