package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
	"github.com/Saad-Mehboob-824/Supervisor/internal/repository"
	"github.com/Saad-Mehboob-824/Supervisor/internal/service"
)

// InternalHandler serves the /internal/api/* surface the worker agent calls
// back into: user verification, profile lookup and per-user state. These
// routes identify the user by path parameter, not by session; they are meant
// to be reachable only from the worker agent's network.
type InternalHandler struct {
	auth  *service.AuthService
	state repository.StateRepository
}

func NewInternalHandler(auth *service.AuthService, state repository.StateRepository) *InternalHandler {
	return &InternalHandler{auth: auth, state: state}
}

// VerifyUser handles GET /internal/api/verify_user/{userID}.
func (h *InternalHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"valid": false,
			"error": "User not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"user_id": user.ID,
	})
}

// Profile handles GET /internal/api/profile/{userID}.
func (h *InternalHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
		"profile":  user.Profile,
	})
}

// GetState handles GET /internal/api/state/{userID}, returning the user's
// durable state document (empty object for a user with no state yet).
func (h *InternalHandler) GetState(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}
	state, err := h.state.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// SetState handles POST /internal/api/state/{userID}: merges the body's
// top-level keys into the stored state and returns the merged document.
func (h *InternalHandler) SetState(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}

	var patch map[string]any
	if !decodeJSON(w, r, &patch) {
		return
	}
	if len(patch) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No data provided"})
		return
	}

	merged, err := h.state.Set(r.Context(), user.ID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"state":  merged,
	})
}

func (h *InternalHandler) lookupUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, err := h.auth.GetUserByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return user, true
}
