package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/steady/internal/config"
	"github.com/lazypower/steady/internal/engine"
	"github.com/lazypower/steady/internal/store"
)

// Server is the steady HTTP API server.
type Server struct {
	db       *store.DB
	engine   *engine.Engine
	features *config.Features
	router   chi.Router
	version  string
	started  time.Time
}

// New creates a new Server.
func New(db *store.DB, eng *engine.Engine, features *config.Features, version string) *Server {
	s := &Server{
		db:       db,
		engine:   eng,
		features: features,
		version:  version,
		started:  time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/signals", s.handleListSignals)
		r.Post("/signals", s.handleTrackSignal)
		r.Delete("/signals/{name}", s.handleUntrackSignal)

		r.Post("/signals/{name}/observations", s.handleObserve)
		r.Get("/signals/{name}/prediction", s.handlePredict)
		r.Get("/signals/{name}/stats", s.handleStats)
		r.Get("/signals/{name}/readings", s.handleReadings)
		r.Post("/signals/{name}/reset", s.handleReset)

		r.Get("/features", s.handleGetFeatures)
		r.Put("/features", s.handlePutFeatures)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
		"signals": len(s.engine.Tracked()),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
