package reels

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reel.m4a")
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWhisperTranscribe(t *testing.T) {
	var gotAuth, gotModel, gotLanguage, gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hello from the reel"})
	}))
	defer server.Close()

	c := NewWhisperClient(server.URL, "test-key", "")
	text, err := c.Transcribe(context.Background(), writeAudioFixture(t), "en")
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello from the reel" {
		t.Errorf("text = %q", text)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model = %q", gotModel)
	}
	if gotLanguage != "en" {
		t.Errorf("language = %q", gotLanguage)
	}
	if gotFilename != "reel.m4a" {
		t.Errorf("filename = %q", gotFilename)
	}
}

func TestWhisperTranscribeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "unsupported format"}})
	}))
	defer server.Close()

	c := NewWhisperClient(server.URL, "test-key", "")
	if _, err := c.Transcribe(context.Background(), writeAudioFixture(t), ""); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestWhisperTranscribeMissingFile(t *testing.T) {
	c := NewWhisperClient("http://unused.invalid", "k", "")
	if _, err := c.Transcribe(context.Background(), "/does/not/exist.m4a", ""); err == nil {
		t.Fatal("expected error for missing audio file")
	}
}

func TestWhisperRetriesServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "second try"})
	}))
	defer server.Close()

	c := NewWhisperClient(server.URL, "k", "")
	text, err := c.Transcribe(context.Background(), writeAudioFixture(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if text != "second try" {
		t.Errorf("text = %q", text)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d", attempts)
	}
}
