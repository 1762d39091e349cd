package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
	"github.com/Saad-Mehboob-824/Supervisor/internal/repository"
)

// SessionCookie is the name of the cookie holding the signed session token.
const SessionCookie = "session"

// contextKey is unexported so only this package can read or write session
// values in a request context.
type contextKey string

const sessionKey contextKey = "session"

// RequireSession enforces authentication on protected routes. It reads the
// session cookie, verifies the signature, resolves the server-side session
// record, and stores it in the request context. Missing, invalid or expired
// sessions get 401, never a crash.
//
// Note this only proves the session exists; handlers still resolve the user
// behind it and clear stale sessions whose user is gone.
func RequireSession(tokens *TokenService, sessions repository.SessionRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := extractSession(r, tokens, sessions)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Not authenticated","code":"NOT_AUTHENTICATED"}`))
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession resolves the session if a valid cookie is present but
// never blocks the request. Used on routes that accept either a session or
// an explicit user_id query parameter.
func OptionalSession(tokens *TokenService, sessions repository.SessionRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session, err := extractSession(r, tokens, sessions); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), sessionKey, session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext retrieves the authenticated session from the request
// context. Returns (nil, false) for anonymous requests.
func SessionFromContext(ctx context.Context) (*model.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*model.Session)
	return s, ok && s != nil
}

func extractSession(r *http.Request, tokens *TokenService, sessions repository.SessionRepository) (*model.Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, err
	}

	sessionID, err := tokens.Validate(cookie.Value)
	if err != nil {
		return nil, err
	}

	return sessions.GetByID(r.Context(), sessionID)
}

// SetSessionCookie writes the signed session token as an HttpOnly,
// SameSite=Lax cookie. secure should be true behind HTTPS.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
