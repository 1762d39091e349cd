package service

import (
	"context"
	"log/slog"

	"github.com/Saad-Mehboob-824/Supervisor/internal/apperror"
	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
	"github.com/Saad-Mehboob-824/Supervisor/internal/worker"
)

// AnalysisService drives the worker agent: fresh analysis, user-triggered
// analysis, memory retrieval and agent lifecycle. It decides per operation
// whether an upstream failure degrades or surfaces as an error.
type AnalysisService struct {
	agent  worker.Agent
	logger *slog.Logger
}

func NewAnalysisService(agent worker.Agent, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{agent: agent, logger: logger}
}

// Recommendations is the shape /api/recommendations returns. Available is
// false when the worker agent could not produce an analysis; the remaining
// fields are then nulled/empty rather than omitted.
type Recommendations struct {
	worker.Summary
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// Recommendations triggers a fresh analysis from data the worker agent
// already holds (empty new-sessions list) and summarizes the result. It
// never fails: upstream trouble yields Available=false.
func (s *AnalysisService) Recommendations(ctx context.Context, user *model.User) *Recommendations {
	res := s.agent.SubmitTask(ctx, user.ID, user.Profile, nil)

	switch res.Status {
	case worker.StatusOK:
		return &Recommendations{Summary: worker.Summarize(res.Body), Available: true}
	case worker.StatusError:
		s.logger.Error("analysis failed",
			slog.String("userID", user.ID),
			slog.String("error", res.Message),
		)
		return &Recommendations{Summary: worker.Summarize(nil), Available: false, Error: res.Message}
	default:
		s.logger.Warn("worker agent unavailable for recommendations", slog.String("userID", user.ID))
		return &Recommendations{Summary: worker.Summarize(nil), Available: false}
	}
}

// Analyze submits new sleep sessions for analysis. Only the new records are
// sent; the worker agent is authoritative for history. Unlike
// Recommendations this surfaces upstream failure to the caller.
func (s *AnalysisService) Analyze(ctx context.Context, user *model.User, profile map[string]any, sessions []map[string]any) (map[string]any, error) {
	if profile == nil {
		profile = user.Profile
	}

	res := s.agent.SubmitTask(ctx, user.ID, profile, sessions)
	switch res.Status {
	case worker.StatusOK:
		return res.Body, nil
	case worker.StatusUnavailable:
		return nil, apperror.Unavailable("Failed to analyze data. Worker agent may be unavailable.")
	default:
		return nil, apperror.Upstream(res.Message)
	}
}

// Memory returns the user's memory document from the worker agent. On any
// upstream failure it returns the fixed default shape and degraded=true so
// the endpoint can still answer 200.
func (s *AnalysisService) Memory(ctx context.Context, userID string) (map[string]any, bool) {
	res := s.agent.FetchMemory(ctx, userID)
	if !res.OK() {
		s.logger.Warn("falling back to default memory shape",
			slog.String("userID", userID),
			slog.String("status", res.Status.String()),
		)
		return worker.DefaultMemory(), true
	}
	return res.Body, false
}

// WorkerHealth probes the worker agent's health endpoint.
func (s *AnalysisService) WorkerHealth(ctx context.Context) *worker.Result {
	return s.agent.Health(ctx)
}

// RegisterWorker announces the supervisor to the worker agent.
func (s *AnalysisService) RegisterWorker(ctx context.Context) *worker.Result {
	return s.agent.Register(ctx)
}
