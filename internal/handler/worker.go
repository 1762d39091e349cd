package handler

import (
	"net/http"

	"github.com/Saad-Mehboob-824/Supervisor/internal/apperror"
	"github.com/Saad-Mehboob-824/Supervisor/internal/service"
	"github.com/Saad-Mehboob-824/Supervisor/internal/worker"
)

// WorkerHandler exposes the worker agent's own lifecycle: a health probe
// and a registration trigger. Neither requires a session.
type WorkerHandler struct {
	analysis *service.AnalysisService
}

func NewWorkerHandler(analysis *service.AnalysisService) *WorkerHandler {
	return &WorkerHandler{analysis: analysis}
}

// Health handles GET /api/worker/health, relaying the agent's health
// payload or a 503 when it cannot be reached.
func (h *WorkerHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := h.analysis.WorkerHealth(r.Context())
	if res.Status != worker.StatusOK {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "unavailable",
			"message": "Worker agent is not responding",
		})
		return
	}
	writeJSON(w, http.StatusOK, res.Body)
}

// Register handles POST /api/worker/register.
func (h *WorkerHandler) Register(w http.ResponseWriter, r *http.Request) {
	res := h.analysis.RegisterWorker(r.Context())
	if res.Status != worker.StatusOK {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "Failed to register with worker agent",
			Code:  apperror.CodeWorkerAgent,
		})
		return
	}
	writeJSON(w, http.StatusOK, res.Body)
}
