// Package api exposes the split-bill session operations over an HTTP JSON
// surface: one route per command, plus summary, export, and snapshot
// endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/patungan/splitbill/internal/config"
	"github.com/patungan/splitbill/internal/export"
	"github.com/patungan/splitbill/internal/ledger"
	"github.com/patungan/splitbill/internal/session"
	"github.com/patungan/splitbill/internal/storage"
)

// Server is the split-bill HTTP API server.
type Server struct {
	sessions *session.Registry
	store    storage.Store // nil disables snapshot/credential endpoints
	smtp     config.SMTP

	metricsEnabled bool

	// newMailer builds the SMTP collaborator; swapped out in tests.
	newMailer func(export.SMTPOptions) (export.Mailer, error)
}

// NewServer creates an API server around the given session registry.
func NewServer(sessions *session.Registry, store storage.Store, smtp config.SMTP) *Server {
	return &Server{
		sessions: sessions,
		store:    store,
		smtp:     smtp,
		newMailer: func(opts export.SMTPOptions) (export.Mailer, error) {
			return export.NewSMTPSender(opts)
		},
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Post("/sessions/restore", s.handleRestoreSession)
		r.Get("/sessions/saved", s.handleListSaved)
		r.Put("/smtp-credentials", s.handleSaveCredentials)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetState)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/items", s.handleUpsertItem)
			r.Post("/people", s.handleUpsertPerson)
			r.Post("/assignments", s.handleAssignAdditive)
			r.Put("/assignments", s.handleAssignExact)
			r.Put("/tax", s.handleSetTax)
			r.Put("/restaurant", s.handleSetRestaurant)
			r.Put("/initiator", s.handleSetInitiator)
			r.Post("/accounts", s.handleAddAccount)
			r.Post("/reset", s.handleReset)
			r.Get("/summary", s.handleGetSummary)
			r.Get("/export/image", s.handleExportImage)
			r.Get("/export/mailto", s.handleExportMailto)
			r.Post("/export/email", s.handleExportEmail)
			r.Post("/save", s.handleSaveSession)
		})
	})

	return r
}

// sessionFromRequest resolves the {id} route param to a live session.
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

// apply runs one command against the session, mapping ledger errors to
// HTTP statuses and counting the command on success.
func (s *Server) apply(w http.ResponseWriter, sess *session.Session, cmd session.Command) bool {
	if err := sess.Apply(cmd); err != nil {
		writeError(w, statusFromError(err), err.Error())
		return false
	}
	commandsTotal.WithLabelValues(string(cmd.Kind)).Inc()
	return true
}

func statusFromError(err error) int {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	var nferr *ledger.NotFoundError
	if errors.As(err, &nferr) {
		return http.StatusNotFound
	}
	if errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// requestLogger logs all requests with their duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
