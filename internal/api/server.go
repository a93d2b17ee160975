// Package api exposes the HTTP surface of the backup service.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/opsarc/backupd/internal/auth"
	"github.com/opsarc/backupd/internal/backup"
)

// CredentialVerifier authorizes a raw Authorization header value.
type CredentialVerifier interface {
	Authorize(ctx context.Context, authorization string) (*auth.Identity, error)
}

// Executor runs dump and restore jobs.
type Executor interface {
	CreateBackup(ctx context.Context, kind backup.Kind) (*backup.Artifact, error)
	RestoreBackup(ctx context.Context, name string) error
}

// ArchiveStore enumerates on-disk backup artifacts.
type ArchiveStore interface {
	List() ([]backup.Artifact, error)
}

// Server holds all API handlers and dependencies
type Server struct {
	router   chi.Router
	verifier CredentialVerifier
	guard    *backup.Guard
	archive  ArchiveStore
	executor Executor
	logger   *slog.Logger
}

// NewServer creates a new API server. corsOrigin is the allowed cross-origin
// value, typically "*" or the dashboard origin.
func NewServer(
	verifier CredentialVerifier,
	guard *backup.Guard,
	archive ArchiveStore,
	executor Executor,
	corsOrigin string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		verifier: verifier,
		guard:    guard,
		archive:  archive,
		executor: executor,
		logger:   logger,
	}

	s.setupRoutes(corsOrigin)
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes(corsOrigin string) {
	r := chi.NewRouter()

	// Middleware. No global timeout: a dump response is held open for the
	// length of the dump.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	// CORS
	r.Use(preflightNoContent)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{corsOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check (public)
	r.Get("/health", s.healthCheck)

	// Privileged routes
	r.Group(func(r chi.Router) {
		r.Use(s.requireOperator)

		r.Get("/backups", s.listBackups)
		r.Post("/backups", s.createBackup)
		r.Post("/backups/{name}/restore", s.restoreBackup)
	})

	s.router = r
}

// Response helpers
func (s *Server) json(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) error(w http.ResponseWriter, status int, message string) {
	s.json(w, status, map[string]string{"error": message})
}

// Health check handler
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// preflightNoContent rewrites the CORS middleware's pre-flight answer from
// 200 to an empty 204, which is what the API contract promises.
func preflightNoContent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			next.ServeHTTP(&preflightWriter{ResponseWriter: w}, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type preflightWriter struct {
	http.ResponseWriter
}

func (w *preflightWriter) WriteHeader(code int) {
	if code == http.StatusOK {
		code = http.StatusNoContent
	}
	w.ResponseWriter.WriteHeader(code)
}
