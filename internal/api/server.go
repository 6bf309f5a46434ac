// Package api serves the REST JSON surface: buzz analysis, content
// generation, reel download and transcription.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/reelpulse/reelpulse/internal/engine"
	"github.com/reelpulse/reelpulse/internal/reels"
	"github.com/reelpulse/reelpulse/internal/store"
)

// ReelFetcher is the downloader surface the handlers need.
// Tests substitute a fake.
type ReelFetcher interface {
	Metadata(ctx context.Context, shortcode string) (*reels.ReelMetadata, error)
	Download(ctx context.Context, shortcode string) (reels.MediaPaths, error)
	DownloadAudio(ctx context.Context, shortcode string) (string, error)
}

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// Server holds handler dependencies. Store may be nil: the analysis and
// generation endpoints work statelessly without a database.
type Server struct {
	store       *store.Store
	fetcher     ReelFetcher
	transcriber Transcriber

	limitRPS float64
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option customizes a Server.
type Option func(*Server)

// WithStore attaches Postgres persistence.
func WithStore(s *store.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithFetcher sets the reel downloader.
func WithFetcher(f ReelFetcher) Option {
	return func(srv *Server) { srv.fetcher = f }
}

// WithTranscriber sets the audio transcriber.
func WithTranscriber(t Transcriber) Option {
	return func(srv *Server) { srv.transcriber = t }
}

// WithRateLimit sets the per-client request budget in requests/second.
// Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(srv *Server) { srv.limitRPS = rps }
}

// NewServer constructs a Server with the given options.
func NewServer(opts ...Option) *Server {
	srv := &Server{limiters: make(map[string]*rate.Limiter)}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Handler returns the full route mux wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/analyze/buzz", s.handleAnalyzeBuzz)
	mux.HandleFunc("/api/generate/caption", s.handleGenerateCaption)
	mux.HandleFunc("/api/generate/threads", s.handleGenerateThreads)
	mux.HandleFunc("/api/generate/script", s.handleGenerateScript)
	mux.HandleFunc("/api/reels/download", s.handleReelDownload)
	mux.HandleFunc("/api/reels/transcribe-url", s.handleTranscribeURL)
	mux.HandleFunc("/api/reels", s.handleListReels)
	mux.HandleFunc("/api/contents", s.handleListContents)
	mux.HandleFunc("/api/templates", s.handleTemplates)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondOK(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(engine.FormatMetrics()))
	})

	return s.withMiddleware(mux)
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 600 * time.Second, // downloads and model calls are slow
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// withMiddleware wraps the mux with request ID, logging, and rate limiting.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		if s.limitRPS > 0 && !s.allow(clientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", requestID),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

// allow checks the per-client limiter, creating one on first sight.
func (s *Server) allow(client string) bool {
	s.mu.Lock()
	limiter, ok := s.limiters[client]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.limitRPS), int(s.limitRPS)+1)
		s.limiters[client] = limiter
	}
	s.mu.Unlock()
	return limiter.Allow()
}

// clientIP extracts the caller address, honoring X-Forwarded-For.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
