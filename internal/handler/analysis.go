package handler

import (
	"net/http"

	"github.com/Saad-Mehboob-824/Supervisor/internal/apperror"
	"github.com/Saad-Mehboob-824/Supervisor/internal/service"
)

// AnalysisHandler serves the endpoints backed by the worker agent:
// recommendations, analyze and memory. Each has its own failure policy:
// recommendations and memory degrade, analyze surfaces.
type AnalysisHandler struct {
	analysis     *service.AnalysisService
	auth         *service.AuthService
	cookieSecure bool
}

func NewAnalysisHandler(analysis *service.AnalysisService, auth *service.AuthService, cookieSecure bool) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, auth: auth, cookieSecure: cookieSecure}
}

// Recommendations handles GET /api/recommendations. Always 200 once
// authenticated; upstream trouble shows up as available:false.
func (h *AnalysisHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.auth, h.cookieSecure)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.analysis.Recommendations(r.Context(), user))
}

type analyzeRequest struct {
	Profile       map[string]any   `json:"profile"`
	SleepSessions []map[string]any `json:"sleep_sessions"`
}

// Analyze handles POST /api/analyze: forwards new sleep sessions to the
// worker agent. 503 when the agent is unreachable, 500 when it reports an
// analysis error.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.auth, h.cookieSecure)
	if !ok {
		return
	}

	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.analysis.Analyze(r.Context(), user, req.Profile, req.SleepSessions)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  result,
	})
}

// Memory handles GET /api/memory. On upstream failure it still answers 200,
// with the fixed default memory shape and an error field.
func (h *AnalysisHandler) Memory(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.auth, h.cookieSecure)
	if !ok {
		return
	}

	memory, degraded := h.analysis.Memory(r.Context(), user.ID)
	if degraded {
		writeJSON(w, http.StatusOK, map[string]any{
			"error":  "Failed to fetch memory from worker agent",
			"code":   apperror.CodeWorkerAgent,
			"memory": memory,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": user.ID,
		"memory":  memory,
	})
}
