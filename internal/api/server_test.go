package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	"github.com/stretchr/testify/require"

	"github.com/reelpulse/reelpulse/internal/engine"
	"github.com/reelpulse/reelpulse/internal/reels"
)

type fakeChat struct {
	response string
	err      error
	calls    int
}

func (f *fakeChat) Complete(_ context.Context, _, _ string, _ ...llm.ChatOption) (string, error) {
	f.calls++
	return f.response, f.err
}

type fakeFetcher struct {
	meta      *reels.ReelMetadata
	media     reels.MediaPaths
	audioPath string
	err       error
}

func (f *fakeFetcher) Metadata(context.Context, string) (*reels.ReelMetadata, error) {
	return f.meta, f.err
}

func (f *fakeFetcher) Download(context.Context, string) (reels.MediaPaths, error) {
	return f.media, f.err
}

func (f *fakeFetcher) DownloadAudio(context.Context, string) (string, error) {
	return f.audioPath, f.err
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, string, string) (string, error) {
	return f.text, f.err
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestEnvelopeShape(t *testing.T) {
	engine.Init(engine.Config{LLMClient: &fakeChat{response: `{"score": 50, "summary": "ok"}`}})
	handler := NewServer().Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/analyze/buzz", `{"transcript": "hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", env.Status)
	require.NotEmpty(t, env.Timestamp)
	require.Empty(t, env.Error)
	require.NotNil(t, env.Data)
}

func TestGetReturnsRouteDocs(t *testing.T) {
	engine.Init(engine.Config{})
	handler := NewServer().Handler()

	for _, path := range []string{
		"/api/analyze/buzz",
		"/api/generate/caption",
		"/api/generate/threads",
		"/api/generate/script",
		"/api/reels/download",
		"/api/reels/transcribe-url",
	} {
		rec, env := doJSON(t, handler, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, "success", env.Status, path)

		doc, ok := env.Data.(map[string]any)
		require.True(t, ok, path)
		require.Equal(t, path, doc["endpoint"], path)
		require.Equal(t, "POST", doc["method"], path)
		require.Contains(t, doc, "request", path)
		require.Contains(t, doc, "response", path)
	}
}

func TestMalformedJSONIs400(t *testing.T) {
	engine.Init(engine.Config{})
	handler := NewServer().Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/analyze/buzz", `{"transcript": `)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "error", env.Status)
	require.Contains(t, env.Error, "malformed JSON")
}

func TestMissingTranscriptIs400(t *testing.T) {
	engine.Init(engine.Config{})
	handler := NewServer().Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/analyze/buzz", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, env.Error, "transcript")
}

func TestDownstreamErrorIs500Verbatim(t *testing.T) {
	engine.Init(engine.Config{LLMClient: &fakeChat{err: errors.New("model exploded")}})
	handler := NewServer().Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/generate/caption", `{"transcript": "hello"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "error", env.Status)
	require.Contains(t, env.Error, "model exploded")
}

func TestUnsupportedMethodIs405(t *testing.T) {
	engine.Init(engine.Config{})
	handler := NewServer().Handler()

	rec, _ := doJSON(t, handler, http.MethodDelete, "/api/analyze/buzz", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnalyzeBuzz(t *testing.T) {
	engine.Init(engine.Config{LLMClient: &fakeChat{
		response: `{"score": 82, "verdict": "viral", "hook": "strong open", "summary": "good"}`,
	}})
	handler := NewServer().Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/analyze/buzz", `{"transcript": "watch this"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := env.Data.(map[string]any)
	require.Equal(t, float64(82), data["score"])
	require.Equal(t, "viral", data["verdict"])
}

func TestAnalyzeBuzzCacheKeyCoversAllInputs(t *testing.T) {
	engine.InitCache("", time.Minute, 100, time.Minute)
	chat := &fakeChat{response: `{"score": 55, "summary": "ok"}`}
	engine.Init(engine.Config{LLMClient: chat})
	handler := NewServer().Handler()

	send := func(body string) {
		t.Helper()
		rec, _ := doJSON(t, handler, http.MethodPost, "/api/analyze/buzz", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	send(`{"transcript": "same words", "hashtags": ["fitness"]}`)
	require.Equal(t, 1, chat.calls)

	// Identical request is served from cache.
	send(`{"transcript": "same words", "hashtags": ["fitness"]}`)
	require.Equal(t, 1, chat.calls)

	// Changing only the hashtags must not reuse the cached report.
	send(`{"transcript": "same words", "hashtags": ["cooking"]}`)
	require.Equal(t, 2, chat.calls)

	// Same for the report language.
	send(`{"transcript": "same words", "hashtags": ["cooking"], "language": "Spanish"}`)
	require.Equal(t, 3, chat.calls)
}

func TestGenerateThreads(t *testing.T) {
	engine.Init(engine.Config{LLMClient: &fakeChat{response: `{"posts": ["one", "two", "three"]}`}})
	handler := NewServer().Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/generate/threads", `{"transcript": "a story", "posts": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := env.Data.(map[string]any)
	require.Len(t, data["posts"], 3)
}

func TestReelDownload(t *testing.T) {
	engine.Init(engine.Config{})
	handler := NewServer(WithFetcher(&fakeFetcher{
		meta:  &reels.ReelMetadata{Title: "test reel", Uploader: "creator"},
		media: reels.MediaPaths{Video: "/data/abc123.mp4", Audio: "/data/abc123.m4a"},
	})).Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/reels/download",
		`{"url": "https://www.instagram.com/reel/abc123xyz/"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := env.Data.(map[string]any)
	require.Equal(t, "abc123xyz", data["shortcode"])
	media := data["media"].(map[string]any)
	require.Equal(t, "/data/abc123.mp4", media["video"])
}

func TestReelDownloadInvalidURLIs400(t *testing.T) {
	engine.Init(engine.Config{})
	handler := NewServer(WithFetcher(&fakeFetcher{})).Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/reels/download",
		`{"url": "https://example.com/watch?v=nope"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, env.Error, "invalid input")
}

func TestReelDownloadUnconfiguredIs503(t *testing.T) {
	engine.Init(engine.Config{})
	handler := NewServer().Handler()

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/reels/download", `{"url": "abc123xyz"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTranscribeURL(t *testing.T) {
	engine.Init(engine.Config{LLMClient: &fakeChat{response: `{"score": 64, "summary": "fine"}`}})
	handler := NewServer(
		WithFetcher(&fakeFetcher{audioPath: "/data/abc123xyz.m4a"}),
		WithTranscriber(&fakeTranscriber{text: "the spoken words"}),
	).Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/reels/transcribe-url",
		`{"url": "abc123xyz", "analyze": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := env.Data.(map[string]any)
	require.Equal(t, "the spoken words", data["transcript"])
	buzz := data["buzz"].(map[string]any)
	require.Equal(t, float64(64), buzz["score"])
}

func TestTranscribeURLFailureSurfaced(t *testing.T) {
	engine.Init(engine.Config{})
	handler := NewServer(
		WithFetcher(&fakeFetcher{audioPath: "/data/x.m4a"}),
		WithTranscriber(&fakeTranscriber{err: errors.New("whisper: status 500")}),
	).Handler()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/reels/transcribe-url", `{"url": "abc123xyz"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, env.Error, "whisper")
}

func TestHealthz(t *testing.T) {
	handler := NewServer().Handler()
	rec, env := doJSON(t, handler, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", env.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := NewServer().Handler()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Header().Get("Content-Type"), "text/plain"))
}

func TestRateLimit(t *testing.T) {
	engine.Init(engine.Config{})
	handler := NewServer(WithRateLimit(1)).Handler()

	limited := false
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited, "burst of requests should trip the limiter")
}

func TestRequestIDHeader(t *testing.T) {
	handler := NewServer().Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
