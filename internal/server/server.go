// Package server provides the HTTP server for observing the hand
// proximity pipeline: JSON state and event endpoints, an MJPEG stream
// of the annotated feed, and a WebSocket state broadcast.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/app"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Store *store.Store
	App   *app.App
}

// Server represents the HTTP server for the proximity application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/events", s.handleEvents)
		s.mux.HandleFunc("/api/sessions", s.handleSessions)
	}

	if s.config.App != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App))
		s.mux.Handle("/api/state/ws", NewStateHandler(s.config.App))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	})
}

// handleState returns the latest pipeline result.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, _ := s.config.App.Snapshot()
	writeJSON(w, result)
}

// handleEvents returns recent state transition events, newest first.
// The optional "limit" query parameter caps the result count.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := s.config.Store.Events().ListRecent(limit)
	if err != nil {
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []store.Event{}
	}

	writeJSON(w, events)
}

// handleSessions returns recent sessions, newest first.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions, err := s.config.Store.Sessions().List(50)
	if err != nil {
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	type sessionJSON struct {
		ID        string     `json:"id"`
		Profile   string     `json:"profile"`
		BoundaryX int        `json:"boundary_x"`
		StartedAt time.Time  `json:"started_at"`
		EndedAt   *time.Time `json:"ended_at,omitempty"`
	}

	out := make([]sessionJSON, 0, len(sessions))
	for _, sess := range sessions {
		sj := sessionJSON{
			ID:        sess.ID,
			Profile:   sess.Profile,
			BoundaryX: sess.BoundaryX,
			StartedAt: sess.StartedAt,
		}
		if sess.EndedAt.Valid {
			t := sess.EndedAt.Time
			sj.EndedAt = &t
		}
		out = append(out, sj)
	}

	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
