// Package web serves a studio inspection over HTTP for browser viewing.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"habstudio/internal/model"
	"habstudio/internal/report"
	"habstudio/internal/studio"
)

//go:embed static/index.html
var staticFS embed.FS

// Server wires the inspector to HTTP handlers.
type Server struct {
	inspector *studio.Inspector
	requested []model.Ref
}

// payload is the /api/inspect response shape.
type payload struct {
	Version    string            `json:"version"`
	Inspection *model.Inspection `json:"inspection"`
	Report     string            `json:"report"`
}

// Start serves until the process is killed. Port 8080, like it or not.
func Start(inspector *studio.Inspector, requested []model.Ref) error {
	s := &Server{inspector: inspector, requested: requested}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/report", s.handleReport)

	port := "8080"
	fmt.Printf("Starting habstudio web server at http://localhost:%s\n", port)
	fmt.Printf("Go to http://localhost:%s in your browser.\n", port)

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("Web server error: %v", err)
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	insp, err := s.inspector.Inspect(s.requested)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload{
		Version:    model.Version,
		Inspection: insp,
		Report:     report.Generate(insp, false),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	insp, err := s.inspector.Inspect(s.requested)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	verbose := r.URL.Query().Get("verbose") == "1"
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, report.Generate(insp, verbose))
}
