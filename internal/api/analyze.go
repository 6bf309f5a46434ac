package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/reelpulse/reelpulse/internal/engine"
)

// analyzeBuzzRequest is the POST /api/analyze/buzz body.
type analyzeBuzzRequest struct {
	Transcript    string   `json:"transcript"`
	Caption       string   `json:"caption,omitempty"`
	Hashtags      []string `json:"hashtags,omitempty"`
	Topic         string   `json:"topic,omitempty"`
	Language      string   `json:"language,omitempty"`
	IncludeTrends bool     `json:"include_trends,omitempty"`
	Shortcode     string   `json:"shortcode,omitempty"`
}

func (s *Server) handleAnalyzeBuzz(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondOK(w, analyzeBuzzDoc)
	case http.MethodPost:
		s.analyzeBuzz(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) analyzeBuzz(w http.ResponseWriter, r *http.Request) {
	var req analyzeBuzzRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		respondError(w, http.StatusBadRequest, "transcript is required")
		return
	}

	in := engine.BuzzInput{
		Transcript:    req.Transcript,
		Caption:       req.Caption,
		Hashtags:      req.Hashtags,
		Topic:         req.Topic,
		Language:      req.Language,
		IncludeTrends: req.IncludeTrends,
	}

	// Key covers every field that reaches the scoring prompt.
	cacheKey := engine.CacheKey("buzz", req.Transcript, req.Caption,
		strings.Join(req.Hashtags, ","), req.Topic, req.Language)
	if !req.IncludeTrends {
		if report, ok := engine.CacheLoadJSON[*engine.BuzzReport](r.Context(), cacheKey); ok {
			respondOK(w, report)
			return
		}
	}

	report, err := engine.AnalyzeBuzz(r.Context(), in)
	if err != nil {
		respondFor(w, err)
		return
	}
	if !req.IncludeTrends {
		engine.CacheStoreJSON(r.Context(), cacheKey, report)
	}

	if req.Shortcode != "" && s.store != nil {
		if reel, err := s.store.GetReelByShortcode(r.Context(), req.Shortcode); err == nil {
			if err := s.store.SetBuzz(r.Context(), reel.ID, report.Score, report.Verdict); err != nil {
				slog.Warn("persist buzz score failed", slog.String("shortcode", req.Shortcode), slog.Any("error", err))
			}
		}
	}

	respondOK(w, report)
}
