package reels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/reelpulse/reelpulse/internal/engine"
)

const defaultWhisperAPIBase = "https://api.openai.com/v1"

// Whisper rejects uploads over 25 MB.
const maxWhisperUpload = 25 << 20

// WhisperClient talks to an OpenAI-compatible audio transcription API.
type WhisperClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewWhisperClient creates a Whisper client. baseURL can be empty for the
// OpenAI endpoint; a self-hosted whisper server works the same way.
func NewWhisperClient(baseURL, apiKey, model string) *WhisperClient {
	if baseURL == "" {
		baseURL = defaultWhisperAPIBase
	}
	if model == "" {
		model = "whisper-1"
	}
	return &WhisperClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

type whisperResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe uploads an audio file and returns the transcript text.
// language is an ISO 639-1 hint; empty lets the model detect it.
func (c *WhisperClient) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	engine.IncrWhisperCalls()

	info, err := os.Stat(audioPath)
	if err != nil {
		engine.IncrWhisperErrors()
		return "", fmt.Errorf("whisper: audio file: %w", err)
	}
	if info.Size() > maxWhisperUpload {
		engine.IncrWhisperErrors()
		return "", fmt.Errorf("whisper: %s is %d bytes, over the 25MB limit", filepath.Base(audioPath), info.Size())
	}

	payload, contentType, err := c.buildForm(audioPath, language)
	if err != nil {
		engine.IncrWhisperErrors()
		return "", err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("whisper: build request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		return c.http.Do(req)
	})
	if err != nil {
		engine.IncrWhisperErrors()
		return "", fmt.Errorf("whisper: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		engine.IncrWhisperErrors()
		return "", fmt.Errorf("whisper: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		engine.IncrWhisperErrors()
		return "", fmt.Errorf("whisper: status %d: %s", resp.StatusCode, string(data))
	}

	var out whisperResponse
	if err := json.Unmarshal(data, &out); err != nil {
		engine.IncrWhisperErrors()
		return "", fmt.Errorf("whisper: decode response: %w", err)
	}
	if out.Error != nil {
		engine.IncrWhisperErrors()
		return "", fmt.Errorf("whisper: api error: %s", out.Error.Message)
	}
	return out.Text, nil
}

// buildForm assembles the multipart body: file, model, optional language.
func (c *WhisperClient) buildForm(audioPath, language string) ([]byte, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("whisper: open audio: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("whisper: form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("whisper: copy audio: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return nil, "", fmt.Errorf("whisper: model field: %w", err)
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return nil, "", fmt.Errorf("whisper: language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("whisper: close form: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
