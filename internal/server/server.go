// Package server wires the dependency graph and owns the HTTP lifecycle:
// router, middleware chain, route table, startup and graceful shutdown.
// Handlers never touch the database, services never touch HTTP; this is the
// one place that sees every layer.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Saad-Mehboob-824/Supervisor/internal/auth"
	"github.com/Saad-Mehboob-824/Supervisor/internal/handler"
	"github.com/Saad-Mehboob-824/Supervisor/internal/middleware"
	sqliteRepo "github.com/Saad-Mehboob-824/Supervisor/internal/repository/sqlite"
	"github.com/Saad-Mehboob-824/Supervisor/internal/service"
	"github.com/Saad-Mehboob-824/Supervisor/internal/worker"
)

// Agent identity reported by /health.
const (
	AgentName    = "Sleep Optimizer Supervisor Agent"
	AgentVersion = "1.0.0"
)

// Config holds everything the server needs, read from the environment by
// cmd/server.
type Config struct {
	Port          int
	DBPath        string
	AgentID       string
	SessionSecret string
	SessionTTL    time.Duration
	WorkerURL     string
	WorkerTimeout time.Duration
	LogPayloads   bool
	CookieSecure  bool
}

// Server owns the router and the resources that must be released on
// shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	agent  worker.Agent
}

// New assembles the full dependency graph: database, repositories, services,
// handlers, routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	agent := worker.NewClient(worker.ClientConfig{
		BaseURL:     cfg.WorkerURL,
		Timeout:     cfg.WorkerTimeout,
		LogPayloads: cfg.LogPayloads,
	}, logger)

	// One inline sweep at startup; expired rows found later are deleted as
	// they are hit, so no background job is needed.
	if err := db.Sessions().DeleteExpired(context.Background()); err != nil {
		logger.Warn("sweeping expired sessions", slog.String("error", err.Error()))
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		agent:  agent,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.SessionSecret, s.config.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	authSvc := service.NewAuthService(s.db.Users(), s.db.Sessions(), tokens, auth.NewPasswordService(), s.logger)
	analysisSvc := service.NewAnalysisService(s.agent, s.logger)

	authH := handler.NewAuthHandler(authSvc, tokens, s.config.CookieSecure)
	profileH := handler.NewProfileHandler(authSvc, s.config.CookieSecure)
	analysisH := handler.NewAnalysisHandler(analysisSvc, authSvc, s.config.CookieSecure)
	workerH := handler.NewWorkerHandler(analysisSvc)
	internalH := handler.NewInternalHandler(authSvc, s.db.State())

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(s.logger))

	r.Get("/health", s.handleHealth)

	// Credential endpoints carry a per-IP budget against brute forcing.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(middleware.CredentialLimit))
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(tokens, s.db.Sessions()))
		r.Post("/logout", authH.Logout)
		r.Get("/current-user", authH.CurrentUser)
		r.Get("/api/recommendations", analysisH.Recommendations)
		r.Post("/api/analyze", analysisH.Analyze)
		r.Get("/api/memory", analysisH.Memory)
	})

	// Profile accepts either a session or a user_id query parameter, so the
	// session here is optional and the handler decides.
	r.Group(func(r chi.Router) {
		r.Use(auth.OptionalSession(tokens, s.db.Sessions()))
		r.Get("/api/profile", profileH.Get)
		r.Put("/api/profile", profileH.Update)
	})

	r.Get("/api/worker/health", workerH.Health)
	r.Post("/api/worker/register", workerH.Register)

	// Callback surface for the worker agent. Not session-authenticated;
	// expected to be reachable only on the internal network.
	r.Route("/internal/api", func(r chi.Router) {
		r.Get("/verify_user/{userID}", internalH.VerifyUser)
		r.Get("/profile/{userID}", internalH.Profile)
		r.Get("/state/{userID}", internalH.GetState)
		r.Post("/state/{userID}", internalH.SetState)
	})

	return nil
}

// handleHealth reports service identity and liveness. The worker agent's
// health is a separate endpoint; this one only covers the supervisor itself.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"agent":%q,"agent_id":%q,"version":%q,"status":"running"}`+"\n",
		AgentName, s.config.AgentID, AgentVersion)
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.WorkerTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("workerAgent", s.config.WorkerURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
