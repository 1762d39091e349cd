// Package worker wraps all communication with the upstream worker agent,
// the external analysis backend the supervisor forwards tasks to.
//
// Every call funnels into a single three-state Result so callers never see a
// raw transport error: the worker answered (OK), the worker reported a
// failure of its own (Error), or the worker could not be reached at all
// (Unavailable). Which of those an endpoint masks and which it surfaces is
// the handler's decision, not this package's.
package worker

import "context"

// Status classifies the outcome of an upstream call.
type Status int

const (
	// StatusOK means the worker responded 2xx with a JSON body.
	StatusOK Status = iota
	// StatusError means the worker responded, but with an error: a non-2xx
	// status, or a task envelope whose status field says "error".
	StatusError
	// StatusUnavailable covers connection refused, DNS failure and timeout
	// alike. Callers don't distinguish these; the client logs them
	// distinctly.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Result is the uniform outcome of an upstream call.
type Result struct {
	Status  Status
	Body    map[string]any // decoded JSON body; set only when Status == StatusOK
	Message string         // error detail; set when Status != StatusOK
}

// OK reports whether the call succeeded.
func (r *Result) OK() bool { return r.Status == StatusOK }

// TaskRequest is the payload of POST /task on the worker agent.
//
// SleepSessions carries only *newly observed* records; the worker is the
// system of record for history and fetches existing STM/LTM data for the
// user itself. The supervisor never resends history.
type TaskRequest struct {
	TaskID  string      `json:"task_id"`
	UserID  string      `json:"user_id"`
	Payload TaskPayload `json:"payload"`
}

// TaskPayload is the inner body of a task request.
type TaskPayload struct {
	SleepSessions []map[string]any `json:"sleep_sessions"`
	Profile       map[string]any   `json:"profile"`
}

// Agent is the interface handlers depend on; Client is the HTTP
// implementation. Tests substitute a mock.
type Agent interface {
	// Register announces the supervisor to the worker agent.
	Register(ctx context.Context) *Result
	// Health probes the worker agent's health endpoint.
	Health(ctx context.Context) *Result
	// SubmitTask sends an analysis task carrying only new session records.
	// On StatusOK the Result body is the task's result object.
	SubmitTask(ctx context.Context, userID string, profile map[string]any, newSessions []map[string]any) *Result
	// FetchMemory returns the worker's memory document for the user,
	// unchanged (stm + ltm sections).
	FetchMemory(ctx context.Context, userID string) *Result
}
