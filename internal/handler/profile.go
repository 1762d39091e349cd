package handler

import (
	"net/http"

	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
	"github.com/Saad-Mehboob-824/Supervisor/internal/service"
)

// ProfileHandler serves GET/PUT /api/profile. The worker agent calls these
// cross-origin with a ?user_id= query parameter instead of a session cookie;
// a browser client authenticates with its session.
type ProfileHandler struct {
	service      *service.AuthService
	cookieSecure bool
}

func NewProfileHandler(svc *service.AuthService, cookieSecure bool) *ProfileHandler {
	return &ProfileHandler{service: svc, cookieSecure: cookieSecure}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveSubject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile": user.Profile,
		"user_id": user.ID,
	})
}

type updateProfileRequest struct {
	Profile map[string]any `json:"profile"`
}

// Update handles PUT /api/profile. Top-level keys of the submitted profile
// are merged into the stored one; omitted keys are untouched.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveSubject(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, req.Profile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": updated.Profile,
		"user_id": updated.ID,
		"message": "Profile updated successfully",
	})
}

// resolveSubject picks the user the request is about: the user_id query
// parameter when present, otherwise the session.
func (h *ProfileHandler) resolveSubject(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		user, err := h.service.GetUserByID(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return nil, false
		}
		return user, true
	}
	return requireUser(w, r, h.service, h.cookieSecure)
}
