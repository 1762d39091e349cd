// Package handler translates HTTP to and from the service layer. Handlers
// decode and validate requests, call a service method, and map the outcome
// onto the stable wire contract; no business rules live here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Saad-Mehboob-824/Supervisor/internal/apperror"
)

// ErrorResponse is the error envelope every endpoint returns: a
// human-readable message plus a stable machine code.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON sends a JSON response. Headers and status go out before the
// body; an encode failure after that can only be logged.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error onto HTTP. The service layer speaks in
// apperror sentinels; only this function knows their status codes.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrUnavailable):
			status = http.StatusServiceUnavailable
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, ErrorResponse{Error: appErr.Message, Code: appErr.Code})
		return
	}

	// Unknown error: log the detail server-side, never send it to the client.
	slog.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error",
		Code:  apperror.CodeInternal,
	})
}

// decodeJSON reads the request body into dst. A missing or malformed body
// answers 400 with code INVALID_REQUEST; the caller just returns on false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: apperror.CodeInvalidRequest})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: apperror.CodeInvalidRequest})
		return false
	}
	return true
}
