package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Saad-Mehboob-824/Supervisor/internal/auth"
	"github.com/Saad-Mehboob-824/Supervisor/internal/repository/sqlite"
	"github.com/Saad-Mehboob-824/Supervisor/internal/service"
	"github.com/Saad-Mehboob-824/Supervisor/internal/worker"
)

// stubAgent stands in for the worker agent in handler tests. Results are
// swapped per test.
type stubAgent struct {
	taskResult   *worker.Result
	memoryResult *worker.Result
	healthResult *worker.Result
}

func (a *stubAgent) Register(context.Context) *worker.Result { return a.healthResult }
func (a *stubAgent) Health(context.Context) *worker.Result   { return a.healthResult }
func (a *stubAgent) SubmitTask(context.Context, string, map[string]any, []map[string]any) *worker.Result {
	return a.taskResult
}
func (a *stubAgent) FetchMemory(context.Context, string) *worker.Result { return a.memoryResult }

// env wires the full handler stack over an in-memory database, with routes
// laid out the same way the server mounts them.
type env struct {
	router http.Handler
	agent  *stubAgent
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	require.NoError(t, err)

	authSvc := service.NewAuthService(db.Users(), db.Sessions(), tokens, auth.NewPasswordServiceForTest(4), logger)
	agent := &stubAgent{}
	analysisSvc := service.NewAnalysisService(agent, logger)

	authH := NewAuthHandler(authSvc, tokens, false)
	profileH := NewProfileHandler(authSvc, false)
	analysisH := NewAnalysisHandler(analysisSvc, authSvc, false)
	workerH := NewWorkerHandler(analysisSvc)
	internalH := NewInternalHandler(authSvc, db.State())

	r := chi.NewRouter()
	r.Post("/register", authH.Register)
	r.Post("/login", authH.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(tokens, db.Sessions()))
		r.Post("/logout", authH.Logout)
		r.Get("/current-user", authH.CurrentUser)
		r.Get("/api/recommendations", analysisH.Recommendations)
		r.Post("/api/analyze", analysisH.Analyze)
		r.Get("/api/memory", analysisH.Memory)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.OptionalSession(tokens, db.Sessions()))
		r.Get("/api/profile", profileH.Get)
		r.Put("/api/profile", profileH.Update)
	})

	r.Get("/api/worker/health", workerH.Health)
	r.Post("/api/worker/register", workerH.Register)

	r.Route("/internal/api", func(r chi.Router) {
		r.Get("/verify_user/{userID}", internalH.VerifyUser)
		r.Get("/profile/{userID}", internalH.Profile)
		r.Get("/state/{userID}", internalH.GetState)
		r.Post("/state/{userID}", internalH.SetState)
	})

	return &env{router: r, agent: agent}
}

// do performs one request against the router, optionally with a session
// cookie, and decodes the JSON response body.
func (e *env) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), "body: %s", rec.Body.String())
	}
	return rec, decoded
}

// register creates a user and returns their session cookie and id.
func (e *env) register(t *testing.T, username string) (*http.Cookie, string) {
	t.Helper()

	rec, body := e.do(t, http.MethodPost, "/register", map[string]any{
		"username": username,
		"password": "secret1",
		"profile":  map[string]any{"age": 30},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %v", body)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session, "no session cookie set on register")

	user := body["user"].(map[string]any)
	return session, user["user_id"].(string)
}
