// Package service holds the business logic between the HTTP handlers and the
// repositories. Handlers translate HTTP to and from these methods; nothing in
// here reads a request or writes a response.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Saad-Mehboob-824/Supervisor/internal/apperror"
	"github.com/Saad-Mehboob-824/Supervisor/internal/auth"
	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
	"github.com/Saad-Mehboob-824/Supervisor/internal/repository"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// AuthService owns credential and session lifecycle: registration, login,
// logout, session resolution and profile updates.
type AuthService struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user with the session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User    *model.User
	Session *model.Session
	Token   string
}

// Register creates a new user and immediately opens a session for them.
// Username comparison is case-sensitive and taken verbatim after trimming
// surrounding whitespace. An optional initial profile may be supplied.
func (s *AuthService) Register(ctx context.Context, username, password string, profile map[string]any) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password, apperror.CodeRegistration); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed(apperror.CodeRegistration, "Password must be at most 72 characters")
	}

	if profile == nil {
		profile = map[string]any{}
	}
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Profile:      profile,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.openSession(ctx, user)
}

// Authenticate verifies a username/password pair and opens a session. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	// Missing fields fail the same way bad credentials do: 401, same code.
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.Unauthorized(apperror.CodeAuthentication, "Username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Unauthorized(apperror.CodeAuthentication, "Invalid username or password")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(apperror.CodeAuthentication, "Invalid username or password")
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		// Login still succeeds; a stale last_login is not worth failing over.
		s.logger.Warn("updating last login",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))

	return s.openSession(ctx, user)
}

// Logout deletes the server-side session. Unknown session ids are ignored so
// logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// ResolveUser returns the user a live session belongs to. A session whose
// user no longer exists is deleted on sight and resolves to USER_NOT_FOUND,
// which handlers answer with 404 and a cleared cookie.
func (s *AuthService) ResolveUser(ctx context.Context, session *model.Session) (*model.User, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		s.logger.Warn("session points at missing user",
			slog.String("sessionID", session.ID),
			slog.String("userID", session.UserID),
		)
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "User")
	}
	return user, nil
}

// GetUserByID looks a user up for the internal API.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile merges the patch's top-level keys into the user's profile and
// persists it. Keys absent from the patch are left untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch map[string]any) (*model.User, error) {
	if len(patch) == 0 {
		return nil, apperror.ValidationFailed(apperror.CodeMissingData, "No profile data provided")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Profile == nil {
		user.Profile = map[string]any{}
	}
	for k, v := range patch {
		user.Profile[k] = v
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: updating profile for %s: %w", userID, err)
	}

	s.logger.Info("profile updated",
		slog.String("userID", user.ID),
		slog.Int("keys", len(patch)),
	)
	return user, nil
}

func (s *AuthService) openSession(ctx context.Context, user *model.User) (*AuthResult, error) {
	now := time.Now().UTC()
	session := &model.Session{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("service/auth: creating session for %s: %w", user.ID, err)
	}

	token, err := s.tokens.Generate(session.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for session %s: %w", session.ID, err)
	}

	return &AuthResult{User: user, Session: session, Token: token}, nil
}

func validateCredentials(username, password, code string) error {
	if username == "" || password == "" {
		return apperror.ValidationFailed(code, "Username and password are required")
	}
	if len(username) < minUsernameLen {
		return apperror.ValidationFailed(code, "Username must be at least 3 characters")
	}
	if len(password) < minPasswordLen {
		return apperror.ValidationFailed(code, "Password must be at least 6 characters")
	}
	return nil
}
