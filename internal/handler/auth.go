package handler

import (
	"net/http"

	"github.com/Saad-Mehboob-824/Supervisor/internal/apperror"
	"github.com/Saad-Mehboob-824/Supervisor/internal/auth"
	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
	"github.com/Saad-Mehboob-824/Supervisor/internal/service"
)

// AuthHandler serves registration, login, logout and current-user. On
// success the session token is set as an HttpOnly cookie; the JSON body
// carries the user, never the token.
type AuthHandler struct {
	service      *service.AuthService
	tokens       *auth.TokenService
	cookieSecure bool
}

func NewAuthHandler(svc *service.AuthService, tokens *auth.TokenService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: svc, tokens: tokens, cookieSecure: cookieSecure}
}

type credentialsRequest struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Profile  map[string]any `json:"profile"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
}

// Register handles POST /register. A successful registration logs the user
// straight in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.Register(r.Context(), req.Username, req.Password, req.Profile)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, res.Token, h.tokens.TTL(), h.cookieSecure)
	writeJSON(w, http.StatusCreated, userResponse{Success: true, User: res.User})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, res.Token, h.tokens.TTL(), h.cookieSecure)
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: res.User})
}

// Logout handles POST /logout. The server-side session is deleted and the
// cookie cleared; calling it while already logged out still answers 200.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session, ok := auth.SessionFromContext(r.Context()); ok {
		if err := h.service.Logout(r.Context(), session.ID); err != nil {
			writeError(w, err)
			return
		}
	}
	auth.ClearSessionCookie(w, h.cookieSecure)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// CurrentUser handles GET /current-user.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) requireUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	return requireUser(w, r, h.service, h.cookieSecure)
}

// requireUser resolves the session in the request context to a live user.
// A session whose user has vanished answers 404 and clears the cookie.
func requireUser(w http.ResponseWriter, r *http.Request, svc *service.AuthService, cookieSecure bool) (*model.User, bool) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated", Code: apperror.CodeNotAuthenticated})
		return nil, false
	}
	user, err := svc.ResolveUser(r.Context(), session)
	if err != nil {
		auth.ClearSessionCookie(w, cookieSecure)
		writeError(w, err)
		return nil, false
	}
	return user, true
}
