// Package api provides the HTTP delivery shell around the diagnostic
// engine: batch enhancement, progressive updates, summaries, and stats.
package api

import (
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/failparse/failparse/internal/enhance"
)

// Server is the API server.
type Server struct {
	enhancer *enhance.Enhancer
	tracker  *enhance.Tracker
	limiter  *rate.Limiter
	maxBody  int64
	mux      *http.ServeMux
}

// Config holds API server dependencies and limits.
type Config struct {
	Enhancer *enhance.Enhancer
	Tracker  *enhance.Tracker
	// UpdateRate limits progressive updates per second; zero disables
	// limiting.
	UpdateRate  float64
	UpdateBurst int
	// MaxBodyBytes caps request bodies; zero means 10 MiB.
	MaxBodyBytes int64
}

// NewServer creates a new API server.
func NewServer(cfg Config) *Server {
	s := &Server{
		enhancer: cfg.Enhancer,
		tracker:  cfg.Tracker,
		maxBody:  cfg.MaxBodyBytes,
		mux:      http.NewServeMux(),
	}
	if s.maxBody == 0 {
		s.maxBody = 10 << 20
	}
	if cfg.UpdateRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.UpdateRate), cfg.UpdateBurst)
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/results", s.handleBatch)
	s.mux.HandleFunc("POST /api/executions/{executionID}/results", s.handleUpdate)
	s.mux.HandleFunc("GET /api/executions/{executionID}/summary", s.handleSummary)
	s.mux.HandleFunc("GET /api/executions/{executionID}/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
