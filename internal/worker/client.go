package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/xid"
)

// DefaultTimeout bounds every upstream call unless configured otherwise.
const DefaultTimeout = 30 * time.Second

// ClientConfig configures the HTTP client for the worker agent.
type ClientConfig struct {
	// BaseURL of the worker agent, e.g. "http://localhost:8000".
	BaseURL string
	// Timeout bounds every call; exceeding it yields StatusUnavailable.
	Timeout time.Duration
	// LogPayloads enables full request/response body logging. Verbose;
	// meant for tracing during development, switched off in production via
	// configuration.
	LogPayloads bool
}

// Client is the HTTP implementation of Agent.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	logger      *slog.Logger
	logPayloads bool
}

var _ Agent = (*Client)(nil)

// NewClient creates a Client for the worker agent at cfg.BaseURL.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:      logger,
		logPayloads: cfg.LogPayloads,
	}
}

// Register announces the supervisor to the worker agent.
func (c *Client) Register(ctx context.Context) *Result {
	return c.do(ctx, http.MethodPost, "/register", nil)
}

// Health probes the worker agent's health endpoint.
func (c *Client) Health(ctx context.Context) *Result {
	return c.do(ctx, http.MethodGet, "/health", nil)
}

// SubmitTask sends an analysis task. A fresh opaque task id is generated
// per call for log correlation; it is not persisted anywhere on this side.
// The worker's task envelope ({status: completed|error, result?, error?}) is
// folded into the Result contract here so callers only ever see the three
// states.
func (c *Client) SubmitTask(ctx context.Context, userID string, profile map[string]any, newSessions []map[string]any) *Result {
	if newSessions == nil {
		newSessions = []map[string]any{}
	}

	req := TaskRequest{
		TaskID: "task_" + xid.New().String(),
		UserID: userID,
		Payload: TaskPayload{
			SleepSessions: newSessions,
			Profile:       profile,
		},
	}

	c.logger.Info("submitting task to worker agent",
		slog.String("taskID", req.TaskID),
		slog.String("userID", userID),
		slog.Int("newSessions", len(newSessions)),
	)

	res := c.do(ctx, http.MethodPost, "/task", req)
	if !res.OK() {
		return res
	}

	switch status, _ := res.Body["status"].(string); status {
	case "completed":
		c.logger.Info("task completed", slog.String("taskID", req.TaskID))
		result, _ := res.Body["result"].(map[string]any)
		return &Result{Status: StatusOK, Body: result}
	case "error":
		msg, _ := res.Body["error"].(string)
		if msg == "" {
			msg = "Analysis failed"
		}
		c.logger.Error("task failed",
			slog.String("taskID", req.TaskID),
			slog.String("error", msg),
		)
		return &Result{Status: StatusError, Message: msg}
	default:
		c.logger.Error("unexpected task status",
			slog.String("taskID", req.TaskID),
			slog.String("status", status),
		)
		return &Result{Status: StatusError, Message: "unexpected task status from worker agent"}
	}
}

// FetchMemory returns the worker's memory document for the user unchanged.
func (c *Client) FetchMemory(ctx context.Context, userID string) *Result {
	endpoint := "/memory?" + url.Values{"user_id": {userID}}.Encode()
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// do performs one HTTP round trip and normalizes the outcome. Transport
// failures never escape as errors; they become StatusUnavailable, logged
// by cause (timeout vs connection) for diagnosis.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) *Result {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return &Result{Status: StatusError, Message: fmt.Sprintf("encoding request: %v", err)}
		}
		if c.logPayloads {
			c.logger.Debug("worker agent request payload",
				slog.String("method", method),
				slog.String("endpoint", endpoint),
				slog.String("payload", string(encoded)),
			)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return &Result{Status: StatusError, Message: fmt.Sprintf("building request: %v", err)}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout, connection refused and DNS failure all collapse into
		// Unavailable at the API boundary; only the log tells them apart.
		var urlErr *url.Error
		switch {
		case errors.As(err, &urlErr) && urlErr.Timeout(), errors.Is(err, context.DeadlineExceeded):
			c.logger.Error("worker agent timeout", slog.String("endpoint", endpoint))
		default:
			c.logger.Error("worker agent connection error",
				slog.String("endpoint", endpoint),
				slog.String("error", err.Error()),
			)
		}
		return &Result{Status: StatusUnavailable, Message: "Worker agent is not responding"}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("reading worker agent response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return &Result{Status: StatusUnavailable, Message: "Worker agent is not responding"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("worker agent HTTP error",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
		)
		return &Result{Status: StatusError, Message: upstreamErrorMessage(raw)}
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		c.logger.Error("worker agent returned malformed JSON",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return &Result{Status: StatusError, Message: "malformed response from worker agent"}
	}

	if c.logPayloads {
		c.logger.Debug("worker agent response payload",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("payload", string(raw)),
		)
	}

	return &Result{Status: StatusOK, Body: decoded}
}

// upstreamErrorMessage extracts the worker's own error text from a non-2xx
// body when it parses as JSON, falling back to the raw body.
func upstreamErrorMessage(raw []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = "worker agent returned an error"
	}
	return msg
}
