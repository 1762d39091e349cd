// Package main starts the supervisor agent: session-authenticated HTTP
// gateway in front of the sleep-analysis worker agent.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Saad-Mehboob-824/Supervisor/internal/auth"
	"github.com/Saad-Mehboob-824/Supervisor/internal/server"
	"github.com/Saad-Mehboob-824/Supervisor/internal/worker"
)

func main() {
	level := slog.LevelInfo
	if envBool("DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg := server.Config{
		Port:          envInt("PORT", 3002),
		DBPath:        envString("DB_PATH", "data/supervisor.db"),
		AgentID:       envString("AGENT_ID", "supervisor-agent-001"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    envDuration("SESSION_TTL", auth.DefaultSessionTTL),
		WorkerURL:     envString("WORKER_AGENT_URL", "http://localhost:8000"),
		WorkerTimeout: envDuration("WORKER_AGENT_TIMEOUT", worker.DefaultTimeout),
		LogPayloads:   envBool("LOG_PAYLOADS", false),
		CookieSecure:  envBool("SESSION_COOKIE_SECURE", false),
	}

	if cfg.SessionSecret == "" {
		logger.Error("SESSION_SECRET is required; generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Error("creating database directory",
			slog.String("dir", filepath.Dir(cfg.DBPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("creating server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Error("invalid integer in environment", slog.String("key", key), slog.String("value", v))
		os.Exit(1)
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Error("invalid boolean in environment", slog.String("key", key), slog.String("value", v))
		os.Exit(1)
	}
	return b
}

// envDuration reads a duration that may be given either as a bare number of
// seconds ("30") or as a Go duration string ("30s", "24h").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Error("invalid duration in environment", slog.String("key", key), slog.String("value", v))
		os.Exit(1)
	}
	return d
}
