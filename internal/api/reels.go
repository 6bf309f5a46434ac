package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/reelpulse/reelpulse/internal/engine"
	"github.com/reelpulse/reelpulse/internal/reels"
	"github.com/reelpulse/reelpulse/internal/store"
)

// reelDownloadRequest is the POST /api/reels/download body.
type reelDownloadRequest struct {
	URL string `json:"url"`
}

type reelDownloadResponse struct {
	Shortcode string              `json:"shortcode"`
	Metadata  *reels.ReelMetadata `json:"metadata,omitempty"`
	Media     reels.MediaPaths    `json:"media"`
}

// transcribeURLRequest is the POST /api/reels/transcribe-url body.
type transcribeURLRequest struct {
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
	Analyze  bool   `json:"analyze,omitempty"`
}

type transcribeURLResponse struct {
	Shortcode  string             `json:"shortcode"`
	Transcript string             `json:"transcript"`
	Buzz       *engine.BuzzReport `json:"buzz,omitempty"`
}

func (s *Server) handleReelDownload(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondOK(w, reelDownloadDoc)
	case http.MethodPost:
		s.reelDownload(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) reelDownload(w http.ResponseWriter, r *http.Request) {
	var req reelDownloadRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	if s.fetcher == nil {
		respondError(w, http.StatusServiceUnavailable, "reel downloading is not configured")
		return
	}

	shortcode, err := reels.ParseReelInput(req.URL)
	if err != nil {
		respondFor(w, err)
		return
	}

	meta, err := s.fetcher.Metadata(r.Context(), shortcode)
	if err != nil {
		// Metadata is presentation only; download still decides success.
		// The embed page covers author and caption when yt-dlp -j fails.
		slog.Warn("reel metadata fetch failed", slog.String("shortcode", shortcode), slog.Any("error", err))
		if page, pageErr := reels.FetchReelPage(r.Context(), shortcode); pageErr == nil {
			meta = &reels.ReelMetadata{
				Uploader:    page.Author,
				Description: page.Caption,
				Thumbnail:   page.ThumbnailURL,
			}
		}
	}

	media, err := s.fetcher.Download(r.Context(), shortcode)
	if err != nil {
		respondFor(w, err)
		return
	}

	s.upsertReel(r, shortcode, meta, "")
	respondOK(w, reelDownloadResponse{Shortcode: shortcode, Metadata: meta, Media: media})
}

func (s *Server) handleTranscribeURL(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondOK(w, transcribeURLDoc)
	case http.MethodPost:
		s.transcribeURL(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) transcribeURL(w http.ResponseWriter, r *http.Request) {
	var req transcribeURLRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	if s.fetcher == nil || s.transcriber == nil {
		respondError(w, http.StatusServiceUnavailable, "reel transcription is not configured")
		return
	}

	shortcode, err := reels.ParseReelInput(req.URL)
	if err != nil {
		respondFor(w, err)
		return
	}

	audioPath, err := s.fetcher.DownloadAudio(r.Context(), shortcode)
	if err != nil {
		respondFor(w, err)
		return
	}

	transcript, err := s.transcriber.Transcribe(r.Context(), audioPath, req.Language)
	if err != nil {
		respondFor(w, err)
		return
	}

	resp := transcribeURLResponse{Shortcode: shortcode, Transcript: transcript}
	if req.Analyze {
		report, err := engine.AnalyzeBuzz(r.Context(), engine.BuzzInput{
			Transcript: transcript,
			Language:   req.Language,
		})
		if err != nil {
			respondFor(w, err)
			return
		}
		resp.Buzz = report
	}

	s.persistTranscript(r, shortcode, transcript, resp.Buzz)
	respondOK(w, resp)
}

func (s *Server) handleListReels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "database is not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := s.store.ListReels(r.Context(), limit)
	if err != nil {
		respondFor(w, err)
		return
	}
	respondOK(w, map[string]any{"reels": list, "count": len(list)})
}

// upsertReel records a downloaded reel, best-effort.
func (s *Server) upsertReel(r *http.Request, shortcode string, meta *reels.ReelMetadata, transcript string) {
	if s.store == nil {
		return
	}
	row := &store.Reel{
		Shortcode:  shortcode,
		URL:        reels.ReelURL(shortcode),
		Transcript: transcript,
	}
	if meta != nil {
		row.Author = meta.Uploader
		row.Title = meta.Title
		row.Caption = meta.Description
		row.DurationSecs = meta.Duration
		row.ViewCount = meta.ViewCount
		row.LikeCount = meta.LikeCount
	}
	if _, err := s.store.UpsertReel(r.Context(), row); err != nil {
		slog.Warn("reel upsert failed", slog.String("shortcode", shortcode), slog.Any("error", err))
	}
}

// persistTranscript saves the transcript (and score, when present) on the
// stored reel, creating the row if the reel was never downloaded.
func (s *Server) persistTranscript(r *http.Request, shortcode, transcript string, buzz *engine.BuzzReport) {
	if s.store == nil {
		return
	}
	reel, err := s.store.GetReelByShortcode(r.Context(), shortcode)
	if err != nil {
		s.upsertReel(r, shortcode, nil, transcript)
		reel, err = s.store.GetReelByShortcode(r.Context(), shortcode)
		if err != nil {
			slog.Warn("persist transcript failed", slog.String("shortcode", shortcode), slog.Any("error", err))
			return
		}
	} else if err := s.store.SetTranscript(r.Context(), reel.ID, transcript); err != nil {
		slog.Warn("persist transcript failed", slog.String("shortcode", shortcode), slog.Any("error", err))
	}
	if buzz != nil {
		if err := s.store.SetBuzz(r.Context(), reel.ID, buzz.Score, buzz.Verdict); err != nil {
			slog.Warn("persist buzz score failed", slog.String("shortcode", shortcode), slog.Any("error", err))
		}
	}
}
