// Package server is the local development server backing the editor
// preview: it exposes the current spec, its scene conversion, validation
// and stats over a small JSON API, and accepts manual spec edits.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/soovittt/RL-Studio-sub001/internal/session"
	"github.com/soovittt/RL-Studio-sub001/pkg/analytics"
	"github.com/soovittt/RL-Studio-sub001/pkg/convert"
	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
)

// Server serves one editing session over HTTP.
type Server struct {
	session *session.Session
	port    int
}

// New creates a server for the given session.
func New(sess *session.Session, port int) *Server {
	return &Server{
		session: sess,
		port:    port,
	}
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/spec", s.handleSpec)
	mux.HandleFunc("POST /api/spec", s.handleSpecEdit)
	mux.HandleFunc("GET /api/scene", s.handleScene)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/undo", s.handleUndo)
	mux.HandleFunc("POST /api/redo", s.handleRedo)
	mux.HandleFunc("GET /", s.handleIndex)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("RL Studio server starting on http://localhost%s", addr)

	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>RL Studio</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>RL Studio</h1>
<p>Canvas editor not embedded. The JSON API is under <code>/api/</code>.</p>
</div>
</body></html>`)
}

func (s *Server) handleSpec(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Current())
}

// handleSpecEdit is the manual-edit path: the posted document replaces
// the current spec only if it parses and validates.
func (s *Server) handleSpecEdit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}
	if err := s.session.ApplyRaw(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Current())
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	g, cfg, err := convert.ToSceneGraph(s.session.Current())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scene_graph": g,
		"rl_config":   cfg,
	})
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envspec.Validate(s.session.Current()))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats, report := analytics.Resolve(s.session.Current())
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":  stats,
		"report": report,
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, _ *http.Request) {
	spec, err := s.session.Undo()
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) handleRedo(w http.ResponseWriter, _ *http.Request) {
	spec, err := s.session.Redo()
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
