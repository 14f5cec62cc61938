package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/upmonhq/upmon/internal/domain"
	"github.com/upmonhq/upmon/internal/monitor"
)

// StatusSource is the read-only view of the monitor the API serves.
// *monitor.Supervisor satisfies it; tests can plug in a fake.
type StatusSource interface {
	Snapshot() []monitor.TargetStatus
	Targets() []domain.Target
}

// Server exposes a read-only view of the monitor. The monitoring core does
// not depend on it; stopping the API never affects checks.
type Server struct {
	Logger  *zap.Logger
	Monitor StatusSource
}

func NewServer(l *zap.Logger, m StatusSource) *Server {
	return &Server{Logger: l, Monitor: m}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/targets", s.handleTargets)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/status/{label}", s.handleTargetStatus)

	return r
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Monitor.Targets())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Monitor.Snapshot())
}

func (s *Server) handleTargetStatus(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	for _, ts := range s.Monitor.Snapshot() {
		if ts.Label == label {
			writeJSON(w, ts)
			return
		}
	}
	http.Error(w, "unknown target", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
