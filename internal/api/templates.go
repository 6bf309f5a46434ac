package api

import (
	"net/http"
	"strings"

	"github.com/reelpulse/reelpulse/internal/store"
)

// createTemplateRequest is the POST /api/templates body.
type createTemplateRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Body string `json:"body"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "database is not configured")
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.listTemplates(w, r)
	case http.MethodPost:
		s.createTemplate(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && !store.ValidTemplateKind(kind) {
		respondError(w, http.StatusBadRequest, "kind must be caption, threads or script")
		return
	}

	list, err := s.store.ListTemplates(r.Context(), kind, 100)
	if err != nil {
		respondFor(w, err)
		return
	}
	respondOK(w, map[string]any{"templates": list, "count": len(list)})
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Body) == "" {
		respondError(w, http.StatusBadRequest, "name and body are required")
		return
	}

	id, err := s.store.CreateTemplate(r.Context(), &store.Template{
		Name: req.Name,
		Kind: req.Kind,
		Body: req.Body,
	})
	if err != nil {
		respondFor(w, err)
		return
	}
	respondOK(w, map[string]any{"id": id})
}
