package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/reelpulse/reelpulse/internal/engine"
)

// generateCaptionRequest is the POST /api/generate/caption body.
type generateCaptionRequest struct {
	Transcript string `json:"transcript"`
	Topic      string `json:"topic,omitempty"`
	Tone       string `json:"tone,omitempty"`
	Language   string `json:"language,omitempty"`
	TemplateID int64  `json:"template_id,omitempty"`
	Shortcode  string `json:"shortcode,omitempty"`
}

// generateThreadsRequest is the POST /api/generate/threads body.
type generateThreadsRequest struct {
	Transcript string `json:"transcript"`
	Topic      string `json:"topic,omitempty"`
	Tone       string `json:"tone,omitempty"`
	Posts      int    `json:"posts,omitempty"`
	Language   string `json:"language,omitempty"`
	Shortcode  string `json:"shortcode,omitempty"`
}

// generateScriptRequest is the POST /api/generate/script body.
type generateScriptRequest struct {
	Topic      string `json:"topic,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Duration   int    `json:"duration,omitempty"`
	Tone       string `json:"tone,omitempty"`
	Language   string `json:"language,omitempty"`
}

func (s *Server) handleGenerateCaption(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondOK(w, generateCaptionDoc)
	case http.MethodPost:
		s.generateCaption(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) generateCaption(w http.ResponseWriter, r *http.Request) {
	var req generateCaptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := engine.CaptionInput{
		Transcript: req.Transcript,
		Topic:      req.Topic,
		Tone:       req.Tone,
		Language:   req.Language,
	}

	if req.TemplateID > 0 {
		if s.store == nil {
			respondError(w, http.StatusBadRequest, "template_id requires a configured database")
			return
		}
		tmpl, err := s.store.GetTemplate(r.Context(), req.TemplateID)
		if err != nil {
			respondFor(w, err)
			return
		}
		in.Template = tmpl.Body
	}

	out, err := engine.GenerateCaption(r.Context(), in)
	if err != nil {
		respondFor(w, err)
		return
	}

	s.saveGenerated(r, req.Shortcode, "caption", out)
	respondOK(w, out)
}

func (s *Server) handleGenerateThreads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondOK(w, generateThreadsDoc)
	case http.MethodPost:
		s.generateThreads(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) generateThreads(w http.ResponseWriter, r *http.Request) {
	var req generateThreadsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := engine.GenerateThreads(r.Context(), engine.ThreadsInput{
		Transcript: req.Transcript,
		Topic:      req.Topic,
		Tone:       req.Tone,
		Posts:      req.Posts,
		Language:   req.Language,
	})
	if err != nil {
		respondFor(w, err)
		return
	}

	s.saveGenerated(r, req.Shortcode, "threads", out)
	respondOK(w, out)
}

func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondOK(w, generateScriptDoc)
	case http.MethodPost:
		s.generateScript(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) generateScript(w http.ResponseWriter, r *http.Request) {
	var req generateScriptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := engine.GenerateScript(r.Context(), engine.ScriptInput{
		Topic:      req.Topic,
		Transcript: req.Transcript,
		Duration:   req.Duration,
		Tone:       req.Tone,
		Language:   req.Language,
	})
	if err != nil {
		respondFor(w, err)
		return
	}
	respondOK(w, out)
}

// handleListContents returns saved generation results for a reel.
func (s *Server) handleListContents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "database is not configured")
		return
	}

	reelID, err := strconv.ParseInt(r.URL.Query().Get("reel_id"), 10, 64)
	if err != nil || reelID < 1 {
		respondError(w, http.StatusBadRequest, "reel_id must be a positive integer")
		return
	}

	list, err := s.store.ListGenerated(r.Context(), reelID, 50)
	if err != nil {
		respondFor(w, err)
		return
	}
	respondOK(w, map[string]any{"contents": list, "count": len(list)})
}

// saveGenerated links a generation result to a stored reel, best-effort.
func (s *Server) saveGenerated(r *http.Request, shortcode, kind string, body any) {
	if shortcode == "" || s.store == nil {
		return
	}
	reel, err := s.store.GetReelByShortcode(r.Context(), shortcode)
	if err != nil {
		slog.Warn("generated content not linked: reel unknown", slog.String("shortcode", shortcode))
		return
	}
	if _, err := s.store.SaveGenerated(r.Context(), &reel.ID, kind, body, engine.Cfg.LLMModel); err != nil {
		slog.Warn("save generated content failed", slog.Any("error", err))
	}
}
