package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultClaudeAPIBase = "https://api.anthropic.com"
	claudeAPIVersion     = "2023-06-01"
)

// ClaudeClient talks to the Anthropic Messages API.
type ClaudeClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClaudeClient creates a Claude client. baseURL can be empty for the default endpoint.
func NewClaudeClient(baseURL, apiKey, model string) *ClaudeClient {
	if baseURL == "" {
		baseURL = defaultClaudeAPIBase
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &ClaudeClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a prompt and returns the text of the first content block.
func (c *ClaudeClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := waitLLMBudget(ctx); err != nil {
		return "", err
	}
	metrics.ClaudeCalls.Add(1)

	body := claudeRequest{
		Model:     c.model,
		MaxTokens: 4096,
		System:    system,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		metrics.ClaudeErrors.Add(1)
		return "", fmt.Errorf("claude: marshal request: %w", err)
	}

	// Request is rebuilt per attempt so the body reader is fresh on retry.
	resp, err := RetryHTTP(ctx, DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("claude: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", claudeAPIVersion)
		return c.http.Do(req)
	})
	if err != nil {
		metrics.ClaudeErrors.Add(1)
		return "", fmt.Errorf("claude: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ClaudeErrors.Add(1)
		return "", fmt.Errorf("claude: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ClaudeErrors.Add(1)
		return "", fmt.Errorf("claude: status %d: %s", resp.StatusCode, string(data))
	}

	var out claudeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		metrics.ClaudeErrors.Add(1)
		return "", fmt.Errorf("claude: decode response: %w", err)
	}
	if out.Error != nil {
		metrics.ClaudeErrors.Add(1)
		return "", fmt.Errorf("claude: api error %s: %s", out.Error.Type, out.Error.Message)
	}
	for _, block := range out.Content {
		if block.Type == "text" && block.Text != "" {
			return stripFences(block.Text), nil
		}
	}
	metrics.ClaudeErrors.Add(1)
	return "", fmt.Errorf("claude: no text content (stop_reason=%s)", out.StopReason)
}
