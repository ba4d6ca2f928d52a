// Package server provides the HTTP control surface: engine status and
// lifecycle, mode switching, the event log and the live region feed.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Engine *engine.Engine
	Store  *store.Store
	Camera capture.Camera
	// StreamFPS paces the MJPEG preview; <=0 uses the default.
	StreamFPS int
}

// Server is the HTTP server for the gesture engine.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a Server with the given configuration.
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

	if s.config.Engine != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/engine", s.handleEngine)
		s.mux.HandleFunc("/api/modes", s.handleModes)

		regions := NewRegionsHandler()
		s.config.Engine.AddListener(regions.Publish)
		s.mux.Handle("/api/regions", regions)
	}

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/events", s.handleEvents)
		s.mux.HandleFunc("/api/events/stats", s.handleEventStats)
	}

	if s.config.Camera != nil {
		var paused func() bool
		if eng := s.config.Engine; eng != nil {
			paused = func() bool { return eng.Status().Paused }
		}
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera, s.config.StreamFPS, paused))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, s.config.Engine.Status())
}

// handleEngine accepts POST {"action": "start"|"stop"|"pause"|"resume"}.
func (s *Server) handleEngine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "start":
		if err := s.config.Engine.Start(); err != nil {
			log.Printf("engine start failed: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	case "stop":
		s.config.Engine.Stop()
	case "pause":
		s.config.Engine.Pause()
	case "resume":
		s.config.Engine.Resume()
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	writeJSON(w, s.config.Engine.Status())
}

type modeInfo struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	Bindings int    `json:"bindings"`
}

// handleModes lists modes on GET and switches on POST {"mode": key}.
func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	modes := s.config.Engine.Modes()

	switch r.Method {
	case http.MethodGet:
		current := modes.CurrentKey()
		var out []modeInfo
		for _, m := range modes.Modes() {
			out = append(out, modeInfo{
				Key:      m.Key,
				Name:     m.Name,
				Active:   m.Key == current,
				Bindings: len(m.Bindings),
			})
		}
		writeJSON(w, map[string]any{
			"current":         current,
			"right_hand_mode": modes.RightHandMode(),
			"modes":           out,
		})

	case http.MethodPost:
		var req struct {
			Mode string `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if !modes.Known(req.Mode) {
			http.Error(w, "Unknown mode", http.StatusNotFound)
			return
		}
		if !modes.Switch(req.Mode, time.Now()) {
			http.Error(w, "Mode switch cooldown active", http.StatusConflict)
			return
		}
		writeJSON(w, map[string]any{"current": modes.CurrentKey()})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleEvents returns the most recent fired-gesture events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := s.config.Store.Events().Recent(limit)
	if err != nil {
		http.Error(w, "Failed to load events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []*store.GestureEvent{}
	}
	writeJSON(w, events)
}

// handleEventStats returns fired-event counts grouped by gesture id.
func (s *Server) handleEventStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts, err := s.config.Store.Events().CountByGesture()
	if err != nil {
		http.Error(w, "Failed to load event stats", http.StatusInternalServerError)
		return
	}
	if counts == nil {
		counts = map[string]int{}
	}
	writeJSON(w, counts)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
